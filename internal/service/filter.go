// Package service holds the business rules of the catalog API.
//
// Services sit between the HTTP handlers and the repositories: they validate
// input, apply defaults, log business events and translate "nothing stored
// yet" into the answers the API promises. They know nothing about HTTP.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/model-catalog/internal/apperror"
	"github.com/sakif/model-catalog/internal/catalog"
	"github.com/sakif/model-catalog/internal/repository"
)

// FilterService manages the singleton filter set.
type FilterService struct {
	repo   repository.FilterRepository
	logger *slog.Logger
}

func NewFilterService(repo repository.FilterRepository, logger *slog.Logger) *FilterService {
	return &FilterService{
		repo:   repo,
		logger: logger,
	}
}

// Get returns the current filter set. Before anything was saved it returns a
// set with seven empty lists rather than an error.
func (s *FilterService) Get(ctx context.Context) (*catalog.FilterSet, error) {
	set, err := s.repo.Current(ctx)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return catalog.EmptyFilterSet(), nil
		}
		s.logger.Error("failed to load filters", slog.String("error", err.Error()))
		return nil, fmt.Errorf("loading filters: %w", err)
	}
	return set, nil
}

// Update replaces all seven lists. Lists left nil are stored as empty.
func (s *FilterService) Update(ctx context.Context, set *catalog.FilterSet) error {
	set.Normalize()

	if err := s.repo.Save(ctx, set); err != nil {
		s.logger.Error("failed to save filters", slog.String("error", err.Error()))
		return fmt.Errorf("saving filters: %w", err)
	}

	s.logger.Info("filters saved",
		slog.Int64("id", set.ID),
		slog.Int("faceTypes", len(set.FaceTypes)),
		slog.Int("eyeColors", len(set.EyeColors)),
		slog.Int("skinColors", len(set.SkinColors)),
		slog.Int("bodyTypes", len(set.BodyTypes)),
		slog.Int("hairColors", len(set.HairColors)),
		slog.Int("hairLengths", len(set.HairLengths)),
		slog.Int("hairTypes", len(set.HairTypes)),
	)
	return nil
}

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

// CreateModelInput is the body of a create request. Every field is required
// and photos must hold at least one non-empty URL.
type CreateModelInput struct {
	Photos     []string `json:"photos" validate:"required,min=1,dive,required"`
	FaceType   string   `json:"faceType" validate:"required"`
	EyeColor   string   `json:"eyeColor" validate:"required"`
	SkinColor  string   `json:"skinColor" validate:"required"`
	BodyType   string   `json:"bodyType" validate:"required"`
	HairColor  string   `json:"hairColor" validate:"required"`
	HairLength string   `json:"hairLength" validate:"required"`
	HairType   string   `json:"hairType" validate:"required"`
}

type ModelServiceConfig struct {
	// ResetSequenceOnEmpty restarts ids at 1 after the last model is deleted.
	ResetSequenceOnEmpty bool
}

// ModelService manages catalog models.
type ModelService struct {
	repo   repository.ModelRepository
	config ModelServiceConfig
	logger *slog.Logger
}

func NewModelService(repo repository.ModelRepository, cfg ModelServiceConfig, logger *slog.Logger) *ModelService {
	return &ModelService{
		repo:   repo,
		config: cfg,
		logger: logger,
	}
}

// List returns up to catalog.ModelListLimit summaries, newest first.
func (s *ModelService) List(ctx context.Context) ([]catalog.ModelSummary, error) {
	summaries, err := s.repo.List(ctx, repository.ListOptions{Limit: catalog.ModelListLimit})
	if err != nil {
		s.logger.Error("failed to list models", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing models: %w", err)
	}
	return summaries, nil
}

// Get returns one model with its full photo list. A missing model is an
// apperror.ErrNotFound error.
func (s *ModelService) Get(ctx context.Context, id int64) (*catalog.Model, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		s.logger.Error("failed to get model",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("getting model %d: %w", id, err)
	}
	return model, nil
}

// Create validates the input and stores a new model. Values are stored
// exactly as given so they read back verbatim.
func (s *ModelService) Create(ctx context.Context, in CreateModelInput) (*catalog.Model, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	model := &catalog.Model{
		Photos: append([]string(nil), in.Photos...),
		Attributes: catalog.Attributes{
			FaceType:   in.FaceType,
			EyeColor:   in.EyeColor,
			SkinColor:  in.SkinColor,
			BodyType:   in.BodyType,
			HairColor:  in.HairColor,
			HairLength: in.HairLength,
			HairType:   in.HairType,
		},
	}

	if err := s.repo.Create(ctx, model); err != nil {
		s.logger.Error("failed to create model",
			slog.Int("photos", len(model.Photos)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating model: %w", err)
	}

	s.logger.Info("model created",
		slog.Int64("id", model.ID),
		slog.Int("photos", len(model.Photos)),
	)
	return model, nil
}

// Delete removes a model. Deleting an id that does not exist succeeds.
func (s *ModelService) Delete(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}

	opts := repository.DeleteOptions{ResetSequenceWhenEmpty: s.config.ResetSequenceOnEmpty}
	if err := s.repo.Delete(ctx, id, opts); err != nil {
		s.logger.Error("failed to delete model",
			slog.Int64("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting model %d: %w", id, err)
	}

	s.logger.Info("model deleted", slog.Int64("id", id))
	return nil
}

func validateID(id int64) error {
	if id <= 0 {
		return apperror.ValidationFailed("id", "id must be a positive integer")
	}
	return nil
}

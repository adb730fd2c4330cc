// Package repository declares the storage contracts the services depend on.
//
// Implementations live in the sqlite and postgres subpackages. Every method
// acquires its own connection and releases it before returning, on success
// and on error, so callers never manage connections themselves.
package repository

import (
	"context"

	"github.com/sakif/model-catalog/internal/catalog"
)

type ListOptions struct {
	Limit int
}

// FilterRepository stores the singleton filter set.
type FilterRepository interface {
	// Current returns the filter set with the highest id, or an
	// apperror.ErrNotFound error when none has been saved yet.
	Current(ctx context.Context) (*catalog.FilterSet, error)
	// Save overwrites the current filter set, creating it when absent.
	Save(ctx context.Context, filters *catalog.FilterSet) error
}

type DeleteOptions struct {
	// ResetSequenceWhenEmpty restarts id allocation at 1 once the last model
	// is gone.
	ResetSequenceWhenEmpty bool
}

// ModelRepository stores catalog models.
type ModelRepository interface {
	Create(ctx context.Context, model *catalog.Model) error
	GetByID(ctx context.Context, id int64) (*catalog.Model, error)
	List(ctx context.Context, opts ListOptions) ([]catalog.ModelSummary, error)
	// Delete removes the model if present. Deleting a missing id is not an error.
	Delete(ctx context.Context, id int64, opts DeleteOptions) error
}

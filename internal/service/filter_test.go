package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/model-catalog/internal/apperror"
	"github.com/sakif/model-catalog/internal/catalog"
)

// mockFilterRepo keeps the singleton in memory. saveErr and currentErr
// simulate datastore failures.
type mockFilterRepo struct {
	current    *catalog.FilterSet
	saves      int
	saveErr    error
	currentErr error
}

func (m *mockFilterRepo) Current(_ context.Context) (*catalog.FilterSet, error) {
	if m.currentErr != nil {
		return nil, m.currentErr
	}
	if m.current == nil {
		return nil, apperror.NotFound("Filters", "current")
	}
	copied := *m.current
	return &copied, nil
}

func (m *mockFilterRepo) Save(_ context.Context, set *catalog.FilterSet) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	set.ID = 1
	copied := *set
	m.current = &copied
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestFilterGet_NothingSaved(t *testing.T) {
	svc := NewFilterService(&mockFilterRepo{}, testLogger())

	set, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.EmptyFilterSet(), set)
}

func TestFilterUpdate_RoundTrip(t *testing.T) {
	repo := &mockFilterRepo{}
	svc := NewFilterService(repo, testLogger())
	ctx := context.Background()

	err := svc.Update(ctx, &catalog.FilterSet{FaceTypes: []string{"oval", "round"}})
	require.NoError(t, err)

	set, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"oval", "round"}, set.FaceTypes)
	assert.Equal(t, []string{}, set.EyeColors, "omitted lists are normalized to empty")
	assert.Equal(t, 1, repo.saves)
}

func TestFilterUpdate_NormalizesBeforeSaving(t *testing.T) {
	repo := &mockFilterRepo{}
	svc := NewFilterService(repo, testLogger())

	require.NoError(t, svc.Update(context.Background(), &catalog.FilterSet{}))
	require.NotNil(t, repo.current)
	assert.NotNil(t, repo.current.HairTypes)
}

func TestFilterGet_DatastoreError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewFilterService(&mockFilterRepo{currentErr: boom}, testLogger())

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, boom)

	var appErr *apperror.AppError
	assert.False(t, errors.As(err, &appErr), "datastore errors must not look like client errors")
}

func TestFilterUpdate_DatastoreError(t *testing.T) {
	boom := errors.New("disk full")
	svc := NewFilterService(&mockFilterRepo{saveErr: boom}, testLogger())

	err := svc.Update(context.Background(), &catalog.FilterSet{})
	assert.ErrorIs(t, err, boom)
}

package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/model-catalog/internal/apperror"
	"github.com/sakif/model-catalog/internal/catalog"
)

// newTestDB opens a fresh in-memory database that is closed when the test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestFilterCurrent_EmptyTable(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Filters().Current(context.Background())
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Current() error = %v, want ErrNotFound", err)
	}
}

func TestFilterSave_CreatesFirstRow(t *testing.T) {
	db := newTestDB(t)
	filters := db.Filters()

	set := &catalog.FilterSet{FaceTypes: []string{"oval", "round"}}
	require.NoError(t, filters.Save(context.Background(), set))
	assert.NotZero(t, set.ID)
	assert.False(t, set.UpdatedAt.IsZero())

	got, err := filters.Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"oval", "round"}, got.FaceTypes)
	assert.Equal(t, []string{}, got.EyeColors)
	assert.Equal(t, []string{}, got.HairTypes)
}

func TestFilterSave_UpdatesInPlace(t *testing.T) {
	db := newTestDB(t)
	filters := db.Filters()
	ctx := context.Background()

	first := &catalog.FilterSet{EyeColors: []string{"blue"}}
	require.NoError(t, filters.Save(ctx, first))

	second := &catalog.FilterSet{
		EyeColors:   []string{"green", "brown"},
		HairLengths: []string{"short"},
	}
	require.NoError(t, filters.Save(ctx, second))
	assert.Equal(t, first.ID, second.ID, "Save() should reuse the current row")

	var rows int
	require.NoError(t, db.conn.QueryRow(`SELECT COUNT(*) FROM filters`).Scan(&rows))
	assert.Equal(t, 1, rows, "no history rows should be kept")

	got, err := filters.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"green", "brown"}, got.EyeColors)
	assert.Equal(t, []string{"short"}, got.HairLengths)
	assert.Equal(t, []string{}, got.FaceTypes)
}

func TestFilterCurrent_HighestIDWins(t *testing.T) {
	db := newTestDB(t)

	_, err := db.conn.Exec(`INSERT INTO filters (face_types) VALUES ('["old"]'), ('["new"]')`)
	require.NoError(t, err)

	got, err := db.Filters().Current(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, got.FaceTypes)
}

func TestFilterCurrent_NullColumnsBecomeEmpty(t *testing.T) {
	db := newTestDB(t)

	_, err := db.conn.Exec(`INSERT INTO filters (hair_types) VALUES (NULL)`)
	require.NoError(t, err)

	got, err := db.Filters().Current(context.Background())
	require.NoError(t, err)
	for _, list := range [][]string{
		got.FaceTypes, got.EyeColors, got.SkinColors, got.BodyTypes,
		got.HairColors, got.HairLengths, got.HairTypes,
	} {
		assert.NotNil(t, list)
		assert.Empty(t, list)
	}
}

func TestFilterSave_PreservesOrderAndQuotes(t *testing.T) {
	db := newTestDB(t)
	filters := db.Filters()
	ctx := context.Background()

	set := &catalog.FilterSet{SkinColors: []string{"z", "a", "o'neil", `"quoted"`}}
	require.NoError(t, filters.Save(ctx, set))

	got, err := filters.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a", "o'neil", `"quoted"`}, got.SkinColors)
}

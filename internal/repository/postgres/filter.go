package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakif/model-catalog/internal/apperror"
	"github.com/sakif/model-catalog/internal/catalog"
	"github.com/sakif/model-catalog/internal/repository"
)

var _ repository.FilterRepository = (*FilterDB)(nil)

type FilterDB struct {
	pool *pgxpool.Pool
}

func (f *FilterDB) Current(ctx context.Context) (*catalog.FilterSet, error) {
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: acquiring connection: %w", err)
	}
	defer conn.Release()

	var set catalog.FilterSet
	err = conn.QueryRow(ctx,
		`SELECT id, face_types, eye_colors, skin_colors, body_types,
		        hair_colors, hair_lengths, hair_types, updated_at
		 FROM filters
		 ORDER BY id DESC
		 LIMIT 1`,
	).Scan(
		&set.ID,
		&set.FaceTypes, &set.EyeColors, &set.SkinColors, &set.BodyTypes,
		&set.HairColors, &set.HairLengths, &set.HairTypes,
		&set.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Filters", "current")
		}
		return nil, fmt.Errorf("postgres: getting current filters: %w", err)
	}
	set.Normalize()

	return &set, nil
}

// Save updates the highest-id row, inserting one when the table is empty.
// The row is locked with FOR UPDATE so two writers serialize on it.
func (f *FilterDB) Save(ctx context.Context, set *catalog.FilterSet) error {
	set.Normalize()
	set.UpdatedAt = time.Now().UTC()

	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("postgres: acquiring connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: beginning filters transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var currentID int64
	err = tx.QueryRow(ctx, `SELECT id FROM filters ORDER BY id DESC LIMIT 1 FOR UPDATE`).Scan(&currentID)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		err = tx.QueryRow(ctx,
			`INSERT INTO filters (face_types, eye_colors, skin_colors, body_types,
			                      hair_colors, hair_lengths, hair_types, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id`,
			set.FaceTypes, set.EyeColors, set.SkinColors, set.BodyTypes,
			set.HairColors, set.HairLengths, set.HairTypes,
			set.UpdatedAt,
		).Scan(&currentID)
		if err != nil {
			return fmt.Errorf("postgres: inserting filters: %w", err)
		}
	case err != nil:
		return fmt.Errorf("postgres: locating current filters: %w", err)
	default:
		_, err = tx.Exec(ctx,
			`UPDATE filters
			 SET face_types = $1, eye_colors = $2, skin_colors = $3, body_types = $4,
			     hair_colors = $5, hair_lengths = $6, hair_types = $7, updated_at = $8
			 WHERE id = $9`,
			set.FaceTypes, set.EyeColors, set.SkinColors, set.BodyTypes,
			set.HairColors, set.HairLengths, set.HairTypes,
			set.UpdatedAt,
			currentID,
		)
		if err != nil {
			return fmt.Errorf("postgres: updating filters %d: %w", currentID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: committing filters: %w", err)
	}

	set.ID = currentID
	return nil
}

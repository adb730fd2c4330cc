package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakif/model-catalog/internal/apperror"
	"github.com/sakif/model-catalog/internal/catalog"
	"github.com/sakif/model-catalog/internal/repository"
)

var _ repository.ModelRepository = (*ModelDB)(nil)

type ModelDB struct {
	pool *pgxpool.Pool
}

func (m *ModelDB) Create(ctx context.Context, model *catalog.Model) error {
	photos := model.Photos
	if photos == nil {
		photos = []string{}
	}

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("postgres: acquiring connection: %w", err)
	}
	defer conn.Release()

	a := model.Attributes
	err = conn.QueryRow(ctx,
		`INSERT INTO models (photos, face_type, eye_color, skin_color, body_type,
		                     hair_color, hair_length, hair_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at`,
		photos,
		a.FaceType, a.EyeColor, a.SkinColor, a.BodyType,
		a.HairColor, a.HairLength, a.HairType,
	).Scan(&model.ID, &model.CreatedAt)
	if err != nil {
		return fmt.Errorf("postgres: creating model: %w", err)
	}

	return nil
}

func (m *ModelDB) GetByID(ctx context.Context, id int64) (*catalog.Model, error) {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: acquiring connection: %w", err)
	}
	defer conn.Release()

	var model catalog.Model
	a := &model.Attributes
	err = conn.QueryRow(ctx,
		`SELECT id, photos, face_type, eye_color, skin_color, body_type,
		        hair_color, hair_length, hair_type, created_at
		 FROM models
		 WHERE id = $1`,
		id,
	).Scan(
		&model.ID, &model.Photos,
		&a.FaceType, &a.EyeColor, &a.SkinColor, &a.BodyType,
		&a.HairColor, &a.HairLength, &a.HairType,
		&model.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("Model", id)
		}
		return nil, fmt.Errorf("postgres: getting model %d: %w", id, err)
	}
	if model.Photos == nil {
		model.Photos = []string{}
	}

	return &model, nil
}

// List returns summaries, newest first. cardinality() counts photos on the
// server so the arrays are never transferred.
func (m *ModelDB) List(ctx context.Context, opts repository.ListOptions) ([]catalog.ModelSummary, error) {
	limit := opts.Limit
	if limit <= 0 || limit > catalog.ModelListLimit {
		limit = catalog.ModelListLimit
	}

	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: acquiring connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx,
		`SELECT id, COALESCE(cardinality(photos), 0),
		        face_type, eye_color, skin_color, body_type,
		        hair_color, hair_length, hair_type, created_at
		 FROM models
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing models: %w", err)
	}
	defer rows.Close()

	summaries := make([]catalog.ModelSummary, 0, limit)
	for rows.Next() {
		var (
			s     catalog.ModelSummary
			count int32
		)
		a := &s.Attributes
		if err := rows.Scan(
			&s.ID, &count,
			&a.FaceType, &a.EyeColor, &a.SkinColor, &a.BodyType,
			&a.HairColor, &a.HairLength, &a.HairType,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scanning model row: %w", err)
		}
		s.PhotosCount = int(count)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating models: %w", err)
	}

	return summaries, nil
}

// Delete removes the model with the given id. A missing id is a no-op.
//
// With ResetSequenceWhenEmpty the table is locked in SHARE ROW EXCLUSIVE
// mode before the delete. That mode conflicts with the ROW EXCLUSIVE lock
// taken by INSERT, so no insert can draw an id between the emptiness check
// and setval.
func (m *ModelDB) Delete(ctx context.Context, id int64, opts repository.DeleteOptions) error {
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("postgres: acquiring connection: %w", err)
	}
	defer conn.Release()

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: beginning delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if opts.ResetSequenceWhenEmpty {
		if _, err := tx.Exec(ctx, `LOCK TABLE models IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("postgres: locking models: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM models WHERE id = $1`, id); err != nil {
		return fmt.Errorf("postgres: deleting model %d: %w", id, err)
	}

	if opts.ResetSequenceWhenEmpty {
		var empty bool
		if err := tx.QueryRow(ctx, `SELECT NOT EXISTS (SELECT 1 FROM models)`).Scan(&empty); err != nil {
			return fmt.Errorf("postgres: checking models: %w", err)
		}
		if empty {
			_, err := tx.Exec(ctx, `SELECT setval(pg_get_serial_sequence('models', 'id'), 1, false)`)
			if err != nil {
				return fmt.Errorf("postgres: resetting models sequence: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: committing delete of model %d: %w", id, err)
	}
	return nil
}

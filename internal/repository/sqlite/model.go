package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/model-catalog/internal/apperror"
	"github.com/sakif/model-catalog/internal/catalog"
	"github.com/sakif/model-catalog/internal/repository"
)

var _ repository.ModelRepository = (*ModelDB)(nil)

// ModelDB stores catalog models.
type ModelDB struct {
	pool *sql.DB
}

// Create inserts the model and fills in its ID and CreatedAt.
func (m *ModelDB) Create(ctx context.Context, model *catalog.Model) error {
	photos, err := encodeList(model.Photos)
	if err != nil {
		return fmt.Errorf("sqlite: encoding photos: %w", err)
	}
	if !photos.Valid {
		photos = sql.NullString{String: "[]", Valid: true}
	}
	model.CreatedAt = time.Now().UTC()

	conn, err := m.pool.Conn(ctx)
	if err != nil {
		return fmt.Errorf("sqlite: acquiring connection: %w", err)
	}
	defer conn.Close()

	a := model.Attributes
	result, err := conn.ExecContext(ctx,
		`INSERT INTO models (photos, face_type, eye_color, skin_color, body_type,
		                     hair_color, hair_length, hair_type, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		photos,
		a.FaceType, a.EyeColor, a.SkinColor, a.BodyType,
		a.HairColor, a.HairLength, a.HairType,
		model.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating model: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading model id: %w", err)
	}
	model.ID = id

	return nil
}

func (m *ModelDB) GetByID(ctx context.Context, id int64) (*catalog.Model, error) {
	conn, err := m.pool.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: acquiring connection: %w", err)
	}
	defer conn.Close()

	var (
		model  catalog.Model
		photos sql.NullString
		a      = &model.Attributes
	)
	err = conn.QueryRowContext(ctx,
		`SELECT id, photos, face_type, eye_color, skin_color, body_type,
		        hair_color, hair_length, hair_type, created_at
		 FROM models
		 WHERE id = ?`,
		id,
	).Scan(
		&model.ID, &photos,
		&a.FaceType, &a.EyeColor, &a.SkinColor, &a.BodyType,
		&a.HairColor, &a.HairLength, &a.HairType,
		&model.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Model", id)
		}
		return nil, fmt.Errorf("sqlite: getting model %d: %w", id, err)
	}

	if model.Photos, err = decodeList(photos); err != nil {
		return nil, fmt.Errorf("sqlite: decoding photos of model %d: %w", id, err)
	}
	if model.Photos == nil {
		model.Photos = []string{}
	}

	return &model, nil
}

// List returns summaries, newest first. Photos are counted in SQL so the
// lists themselves are never loaded.
func (m *ModelDB) List(ctx context.Context, opts repository.ListOptions) ([]catalog.ModelSummary, error) {
	limit := opts.Limit
	if limit <= 0 || limit > catalog.ModelListLimit {
		limit = catalog.ModelListLimit
	}

	conn, err := m.pool.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: acquiring connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx,
		`SELECT id, COALESCE(json_array_length(photos), 0),
		        face_type, eye_color, skin_color, body_type,
		        hair_color, hair_length, hair_type, created_at
		 FROM models
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing models: %w", err)
	}
	defer rows.Close()

	summaries := make([]catalog.ModelSummary, 0, limit)
	for rows.Next() {
		var s catalog.ModelSummary
		a := &s.Attributes
		if err := rows.Scan(
			&s.ID, &s.PhotosCount,
			&a.FaceType, &a.EyeColor, &a.SkinColor, &a.BodyType,
			&a.HairColor, &a.HairLength, &a.HairType,
			&s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning model row: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating models: %w", err)
	}

	return summaries, nil
}

// Delete removes the model with the given id. A missing id is a no-op.
//
// With ResetSequenceWhenEmpty the AUTOINCREMENT counter is cleared once the
// table is empty, so the next model gets id 1 again. The check and the reset
// run in the same transaction as the delete.
func (m *ModelDB) Delete(ctx context.Context, id int64, opts repository.DeleteOptions) error {
	conn, err := m.pool.Conn(ctx)
	if err != nil {
		return fmt.Errorf("sqlite: acquiring connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM models WHERE id = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting model %d: %w", id, err)
	}

	if opts.ResetSequenceWhenEmpty {
		var count int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM models`).Scan(&count); err != nil {
			return fmt.Errorf("sqlite: counting models: %w", err)
		}
		if count == 0 {
			if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence WHERE name = ?`, "models"); err != nil {
				return fmt.Errorf("sqlite: resetting models sequence: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing delete of model %d: %w", id, err)
	}
	return nil
}

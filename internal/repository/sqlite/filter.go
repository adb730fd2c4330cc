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

var _ repository.FilterRepository = (*FilterDB)(nil)

// FilterDB stores the singleton filter set. The current set is the row with
// the highest id.
type FilterDB struct {
	pool *sql.DB
}

func (f *FilterDB) Current(ctx context.Context) (*catalog.FilterSet, error) {
	conn, err := f.pool.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqlite: acquiring connection: %w", err)
	}
	defer conn.Close()

	var (
		set  catalog.FilterSet
		cols [7]sql.NullString
	)
	err = conn.QueryRowContext(ctx,
		`SELECT id, face_types, eye_colors, skin_colors, body_types,
		        hair_colors, hair_lengths, hair_types, updated_at
		 FROM filters
		 ORDER BY id DESC
		 LIMIT 1`,
	).Scan(
		&set.ID,
		&cols[0], &cols[1], &cols[2], &cols[3], &cols[4], &cols[5], &cols[6],
		&set.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("Filters", "current")
		}
		return nil, fmt.Errorf("sqlite: getting current filters: %w", err)
	}

	targets := []*[]string{
		&set.FaceTypes, &set.EyeColors, &set.SkinColors, &set.BodyTypes,
		&set.HairColors, &set.HairLengths, &set.HairTypes,
	}
	for i, col := range cols {
		list, err := decodeList(col)
		if err != nil {
			return nil, fmt.Errorf("sqlite: decoding filters column %d: %w", i, err)
		}
		*targets[i] = list
	}
	set.Normalize()

	return &set, nil
}

// Save updates the current row in place, or inserts the first row when the
// table is empty. Both happen inside one transaction.
func (f *FilterDB) Save(ctx context.Context, set *catalog.FilterSet) error {
	set.Normalize()
	set.UpdatedAt = time.Now().UTC()

	var cols [7]sql.NullString
	for i, list := range [][]string{
		set.FaceTypes, set.EyeColors, set.SkinColors, set.BodyTypes,
		set.HairColors, set.HairLengths, set.HairTypes,
	} {
		col, err := encodeList(list)
		if err != nil {
			return fmt.Errorf("sqlite: encoding filters column %d: %w", i, err)
		}
		cols[i] = col
	}

	conn, err := f.pool.Conn(ctx)
	if err != nil {
		return fmt.Errorf("sqlite: acquiring connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning filters transaction: %w", err)
	}
	defer tx.Rollback()

	var currentID int64
	err = tx.QueryRowContext(ctx, `SELECT id FROM filters ORDER BY id DESC LIMIT 1`).Scan(&currentID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		result, err := tx.ExecContext(ctx,
			`INSERT INTO filters (face_types, eye_colors, skin_colors, body_types,
			                      hair_colors, hair_lengths, hair_types, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			cols[0], cols[1], cols[2], cols[3], cols[4], cols[5], cols[6],
			set.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("sqlite: inserting filters: %w", err)
		}
		if currentID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("sqlite: reading filters id: %w", err)
		}
	case err != nil:
		return fmt.Errorf("sqlite: locating current filters: %w", err)
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE filters
			 SET face_types = ?, eye_colors = ?, skin_colors = ?, body_types = ?,
			     hair_colors = ?, hair_lengths = ?, hair_types = ?, updated_at = ?
			 WHERE id = ?`,
			cols[0], cols[1], cols[2], cols[3], cols[4], cols[5], cols[6],
			set.UpdatedAt,
			currentID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating filters %d: %w", currentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing filters: %w", err)
	}

	set.ID = currentID
	return nil
}

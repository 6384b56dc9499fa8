package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"almostcircle/internal/domain"
)

const upsertShapeSQL = `
	INSERT INTO shapes (kind, id, width, height, x, y, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(kind, id) DO UPDATE SET
		width = excluded.width,
		height = excluded.height,
		x = excluded.x,
		y = excluded.y,
		updated_at = CURRENT_TIMESTAMP
`

// UpsertShape inserts or updates a shape
func (r *Repository) UpsertShape(ctx context.Context, s domain.Shape) error {
	if s == nil {
		return fmt.Errorf("failed to upsert shape: nil shape")
	}
	if _, err := r.db.ExecContext(ctx, upsertShapeSQL, shapeInsertArgs(s)...); err != nil {
		return fmt.Errorf("failed to upsert shape: %w", err)
	}
	return nil
}

const insertShapeSQL = `
	INSERT INTO shapes (kind, id, width, height, x, y, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(kind, id) DO NOTHING
`

// InsertShape stores a new shape. A shape of the same kind and id already
// stored yields domain.ErrConflict and is left untouched.
func (r *Repository) InsertShape(ctx context.Context, s domain.Shape) error {
	if s == nil {
		return fmt.Errorf("failed to insert shape: nil shape")
	}
	res, err := r.db.ExecContext(ctx, insertShapeSQL, shapeInsertArgs(s)...)
	if err != nil {
		return fmt.Errorf("failed to insert shape: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to insert shape: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", s.Kind(), s.ID(), domain.ErrConflict)
	}
	return nil
}

// MoveShape stores s and removes the row at oldID in one transaction
func (r *Repository) MoveShape(ctx context.Context, s domain.Shape, oldID int) error {
	if s == nil {
		return fmt.Errorf("failed to move shape: nil shape")
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shapes WHERE kind = ? AND id = ?`, string(s.Kind()), oldID); err != nil {
		return fmt.Errorf("failed to delete shape %d: %w", oldID, err)
	}
	if _, err := tx.ExecContext(ctx, upsertShapeSQL, shapeInsertArgs(s)...); err != nil {
		return fmt.Errorf("failed to upsert shape %d: %w", s.ID(), err)
	}

	return tx.Commit()
}

// MaxShapeID returns the highest id stored across all kinds, 0 when empty
func (r *Repository) MaxShapeID(ctx context.Context) (int, error) {
	var maxID sql.NullInt64
	if err := r.db.QueryRowContext(ctx, `SELECT MAX(id) FROM shapes`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to query max shape id: %w", err)
	}
	return nullToInt(maxID), nil
}

// GetShape retrieves a single shape. A missing shape returns nil, nil.
func (r *Repository) GetShape(ctx context.Context, kind domain.Kind, id int) (domain.Shape, error) {
	var row shapeRow
	err := r.db.QueryRowContext(ctx, `
		SELECT `+shapeColumns+`
		FROM shapes WHERE kind = ? AND id = ?
	`, string(kind), id).Scan(row.scanArgs()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query shape: %w", err)
	}
	return row.toDomain()
}

// ListShapes returns every shape of kind ordered by id
func (r *Repository) ListShapes(ctx context.Context, kind domain.Kind) ([]domain.Shape, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+shapeColumns+`
		FROM shapes WHERE kind = ? ORDER BY id
	`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to query shapes: %w", err)
	}
	defer rows.Close()

	shapes := []domain.Shape{}
	for rows.Next() {
		var row shapeRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan shape: %w", err)
		}
		s, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shapes: %w", err)
	}
	return shapes, nil
}

// DeleteShape removes a shape and reports whether it existed
func (r *Repository) DeleteShape(ctx context.Context, kind domain.Kind, id int) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shapes WHERE kind = ? AND id = ?`, string(kind), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete shape: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete shape: %w", err)
	}
	return n > 0, nil
}

// ReplaceShapes swaps all shapes of kind in a single transaction
func (r *Repository) ReplaceShapes(ctx context.Context, kind domain.Kind, shapes []domain.Shape) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM shapes WHERE kind = ?`, string(kind)); err != nil {
		return fmt.Errorf("failed to clear shapes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, upsertShapeSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, s := range shapes {
		if s.Kind() != kind {
			return fmt.Errorf("cannot store %s as %s", s.Kind(), kind)
		}
		if _, err := stmt.ExecContext(ctx, shapeInsertArgs(s)...); err != nil {
			return fmt.Errorf("failed to insert shape %d: %w", s.ID(), err)
		}
	}

	return tx.Commit()
}

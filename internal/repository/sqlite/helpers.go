package sqlite

import (
	"database/sql"
	"fmt"

	"almostcircle/internal/domain"
)

// ============================================================================
// Null Type Conversion Helpers
// ============================================================================

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// nullToInt safely converts sql.NullInt64 to int
func nullToInt(ni sql.NullInt64) int {
	if ni.Valid {
		return int(ni.Int64)
	}
	return 0
}

// ============================================================================
// Schema Evolution Guide
// ============================================================================
//
// To add a new column to the shapes table:
// 1. Add field to shapeRow struct (below)
// 2. Update scanArgs() - APPEND to end to match column order
// 3. Update shapeColumns constant - APPEND to end
// 4. Update toDomain() to map the new field
// 5. Update shapeInsertArgs() if the column is writable
// 6. Add the column in sqlite.go migrate()
// 7. Update relevant tests
//
// CRITICAL: Column order must match between:
// - shapeColumns constant
// - scanArgs() return slice
// - All SELECT queries using shapeColumns
//
// Same pattern applies to states and cities.

// ============================================================================
// Shape Row Scanner
// ============================================================================

// shapeRow holds all columns from a shape query for scanning
type shapeRow struct {
	Kind   string
	ID     int
	Width  int
	Height int
	X      int
	Y      int
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match shapeColumns order exactly:
// kind, id, width, height, x, y
func (r *shapeRow) scanArgs() []interface{} {
	return []interface{}{
		&r.Kind,   // 1
		&r.ID,     // 2
		&r.Width,  // 3
		&r.Height, // 4
		&r.X,      // 5
		&r.Y,      // 6
	}
}

// toDomain rebuilds the stored shape without drawing a new id
func (r *shapeRow) toDomain() (domain.Shape, error) {
	kind, err := domain.ParseKind(r.Kind)
	if err != nil {
		return nil, err
	}
	s, err := domain.Restore(kind, r.ID, r.Width, r.Height, r.X, r.Y)
	if err != nil {
		return nil, fmt.Errorf("restore %s %d: %w", kind, r.ID, err)
	}
	return s, nil
}

// shapeColumns returns the SELECT column list for shape queries
const shapeColumns = `kind, id, width, height, x, y`

// shapeInsertArgs prepares arguments for shape INSERT/UPSERT
// Returns: kind, id, width, height, x, y
func shapeInsertArgs(s domain.Shape) []interface{} {
	d := s.ToDictionary()
	width, height := d["width"], d["height"]
	if size, ok := d["size"]; ok {
		width, height = size, size
	}
	return []interface{}{
		string(s.Kind()),
		s.ID(),
		width,
		height,
		s.X(),
		s.Y(),
	}
}

// ============================================================================
// State and City Row Scanners
// ============================================================================

// stateColumns returns the SELECT column list for state queries
const stateColumns = `id, name`

// scanStates collects id, name rows into states
func scanStates(rows *sql.Rows) ([]domain.State, error) {
	defer rows.Close()

	states := []domain.State{}
	for rows.Next() {
		var s domain.State
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan state: %w", err)
		}
		states = append(states, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating states: %w", err)
	}
	return states, nil
}

// cityRow holds the columns of a city joined with its optional state name
type cityRow struct {
	ID        int
	Name      string
	StateID   int
	StateName sql.NullString
}

// scanArgs returns pointers to all fields for sql.Scan()
// MUST match cityColumns order exactly:
// id, name, state_id, state_name
func (r *cityRow) scanArgs() []interface{} {
	return []interface{}{
		&r.ID,        // 1
		&r.Name,      // 2
		&r.StateID,   // 3
		&r.StateName, // 4
	}
}

func (r *cityRow) toDomain() domain.City {
	return domain.City{
		ID:        r.ID,
		Name:      r.Name,
		StateID:   r.StateID,
		StateName: nullToString(r.StateName),
	}
}

// cityColumns returns the SELECT column list for city queries joined on states
const cityColumns = `cities.id, cities.name, cities.state_id, states.name`

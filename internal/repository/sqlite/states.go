package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"almostcircle/internal/domain"
)

// ListStates returns every state ordered by id
func (r *Repository) ListStates(ctx context.Context) ([]domain.State, error) {
	return r.queryStates(ctx, `SELECT `+stateColumns+` FROM states ORDER BY id`)
}

// ListStatesByPrefix returns states whose name starts with prefix, matching case
func (r *Repository) ListStatesByPrefix(ctx context.Context, prefix string) ([]domain.State, error) {
	return r.queryStates(ctx, `
		SELECT `+stateColumns+` FROM states
		WHERE substr(name, 1, length(?1)) = ?1
		ORDER BY id
	`, prefix)
}

// FindStatesByName returns states whose name equals name exactly
func (r *Repository) FindStatesByName(ctx context.Context, name string) ([]domain.State, error) {
	return r.queryStates(ctx, `SELECT `+stateColumns+` FROM states WHERE name = ? ORDER BY id`, name)
}

// ListStatesContaining returns states whose name contains substr, matching case
func (r *Repository) ListStatesContaining(ctx context.Context, substr string) ([]domain.State, error) {
	return r.queryStates(ctx, `
		SELECT `+stateColumns+` FROM states
		WHERE instr(name, ?) > 0
		ORDER BY id
	`, substr)
}

// FirstState returns the state with the lowest id, or nil for an empty table
func (r *Repository) FirstState(ctx context.Context) (*domain.State, error) {
	return r.queryState(ctx, `SELECT `+stateColumns+` FROM states ORDER BY id LIMIT 1`)
}

// GetStateByName returns the first state named name, or nil
func (r *Repository) GetStateByName(ctx context.Context, name string) (*domain.State, error) {
	return r.queryState(ctx, `SELECT `+stateColumns+` FROM states WHERE name = ? ORDER BY id LIMIT 1`, name)
}

// ListStatesWithCities returns every state with its cities, both ordered by id
func (r *Repository) ListStatesWithCities(ctx context.Context) ([]domain.State, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT states.id, states.name, cities.id, cities.name
		FROM states
		LEFT JOIN cities ON cities.state_id = states.id
		ORDER BY states.id, cities.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query states: %w", err)
	}
	defer rows.Close()

	states := []domain.State{}
	for rows.Next() {
		var (
			stateID   int
			stateName string
			cityID    sql.NullInt64
			cityName  sql.NullString
		)
		if err := rows.Scan(&stateID, &stateName, &cityID, &cityName); err != nil {
			return nil, fmt.Errorf("failed to scan state: %w", err)
		}

		if len(states) == 0 || states[len(states)-1].ID != stateID {
			states = append(states, domain.State{ID: stateID, Name: stateName, Cities: []domain.City{}})
		}
		if cityID.Valid {
			cur := &states[len(states)-1]
			cur.Cities = append(cur.Cities, domain.City{
				ID:        nullToInt(cityID),
				Name:      nullToString(cityName),
				StateID:   stateID,
				StateName: stateName,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating states: %w", err)
	}
	return states, nil
}

// CreateState inserts a state and returns it with its new id
func (r *Repository) CreateState(ctx context.Context, name string) (*domain.State, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO states (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to insert state: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read state id: %w", err)
	}
	return &domain.State{ID: int(id), Name: name}, nil
}

// CreateStateWithCities inserts a state and its cities in one transaction
func (r *Repository) CreateStateWithCities(ctx context.Context, name string, cities []string) (*domain.State, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO states (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to insert state: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read state id: %w", err)
	}
	state := &domain.State{ID: int(id), Name: name, Cities: []domain.City{}}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO cities (name, state_id) VALUES (?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, city := range cities {
		res, err := stmt.ExecContext(ctx, city, id)
		if err != nil {
			return nil, fmt.Errorf("failed to insert city: %w", err)
		}
		cityID, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to read city id: %w", err)
		}
		state.Cities = append(state.Cities, domain.City{ID: int(cityID), Name: city, StateID: int(id), StateName: name})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit: %w", err)
	}
	return state, nil
}

// RenameState changes the name of state id and reports whether it existed
func (r *Repository) RenameState(ctx context.Context, id int, name string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE states SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return false, fmt.Errorf("failed to rename state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to rename state: %w", err)
	}
	return n > 0, nil
}

// DeleteStatesContaining removes states whose name contains substr and
// returns how many were deleted. Their cities are removed by cascade.
func (r *Repository) DeleteStatesContaining(ctx context.Context, substr string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM states WHERE instr(name, ?) > 0`, substr)
	if err != nil {
		return 0, fmt.Errorf("failed to delete states: %w", err)
	}
	return res.RowsAffected()
}

// ListCities returns every city with its state name ordered by city id
func (r *Repository) ListCities(ctx context.Context) ([]domain.City, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+cityColumns+`
		FROM cities
		JOIN states ON states.id = cities.state_id
		ORDER BY cities.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	cities := []domain.City{}
	for rows.Next() {
		var row cityRow
		if err := rows.Scan(row.scanArgs()...); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cities: %w", err)
	}
	return cities, nil
}

// ListCityNamesByState returns the names of the cities of the named state
// ordered by city id
func (r *Repository) ListCityNamesByState(ctx context.Context, stateName string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cities.name
		FROM cities
		JOIN states ON states.id = cities.state_id
		WHERE states.name = ?
		ORDER BY cities.id
	`, stateName)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cities: %w", err)
	}
	return names, nil
}

func (r *Repository) queryStates(ctx context.Context, query string, args ...any) ([]domain.State, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query states: %w", err)
	}
	return scanStates(rows)
}

func (r *Repository) queryState(ctx context.Context, query string, args ...any) (*domain.State, error) {
	var s domain.State
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query state: %w", err)
	}
	return &s, nil
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"almostcircle/internal/domain"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}
	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

// seedStates inserts states in order and returns them
func seedStates(t *testing.T, repo *Repository, names ...string) []*domain.State {
	t.Helper()
	var out []*domain.State
	for _, name := range names {
		s, err := repo.CreateState(context.Background(), name)
		assertNoError(t, err)
		out = append(out, s)
	}
	return out
}

// stateNames extracts names for compact comparisons
func stateNames(states []domain.State) []string {
	names := []string{}
	for _, s := range states {
		names = append(names, s.Name)
	}
	return names
}

// assertNoError fails the test if err is not nil
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertEqual fails the test if expected != actual
func assertEqual(t *testing.T, expected, actual interface{}) {
	t.Helper()
	if !reflect.DeepEqual(expected, actual) {
		t.Fatalf("expected %v, got %v", expected, actual)
	}
}

// assertNotNil fails the test if value is nil
func assertNotNil(t *testing.T, value interface{}) {
	t.Helper()
	if value == nil || reflect.ValueOf(value).IsNil() {
		t.Fatalf("expected non-nil value")
	}
}

// assertNil fails the test if value is not nil
func assertNil(t *testing.T, value interface{}) {
	t.Helper()
	if value != nil && !reflect.ValueOf(value).IsNil() {
		t.Fatalf("expected nil value, got %v", value)
	}
}

// ============================================================================
// Helper Function Tests
// ============================================================================

func TestNullToString(t *testing.T) {
	tests := []struct {
		name     string
		input    sql.NullString
		expected string
	}{
		{"valid string", sql.NullString{String: "Arizona", Valid: true}, "Arizona"},
		{"valid empty", sql.NullString{String: "", Valid: true}, ""},
		{"null", sql.NullString{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertEqual(t, tt.expected, nullToString(tt.input))
		})
	}
}

func TestNullToInt(t *testing.T) {
	assertEqual(t, 7, nullToInt(sql.NullInt64{Int64: 7, Valid: true}))
	assertEqual(t, 0, nullToInt(sql.NullInt64{}))
}

func TestShapeRowToDomain(t *testing.T) {
	t.Run("rectangle", func(t *testing.T) {
		row := shapeRow{Kind: "Rectangle", ID: 3, Width: 4, Height: 5, X: 1, Y: 2}
		s, err := row.toDomain()
		assertNoError(t, err)
		assertEqual(t, "[Rectangle] (3) 1/2 - 4/5", s.String())
	})

	t.Run("square", func(t *testing.T) {
		row := shapeRow{Kind: "Square", ID: 9, Width: 6, Height: 6}
		s, err := row.toDomain()
		assertNoError(t, err)
		assertEqual(t, "[Square] (9) 0/0 - 6", s.String())
	})

	t.Run("unknown kind", func(t *testing.T) {
		row := shapeRow{Kind: "Circle", ID: 1, Width: 1, Height: 1}
		if _, err := row.toDomain(); err == nil {
			t.Fatal("expected error for unknown kind")
		}
	})

	t.Run("corrupt dimensions", func(t *testing.T) {
		row := shapeRow{Kind: "Rectangle", ID: 1, Width: 0, Height: 1}
		if _, err := row.toDomain(); err == nil {
			t.Fatal("expected validation error")
		}
	})
}

func TestShapeInsertArgs(t *testing.T) {
	sq, _ := domain.NewSquare(4, 1, 2, 8)
	assertEqual(t, []interface{}{"Square", 8, 4, 4, 1, 2}, shapeInsertArgs(sq))

	r, _ := domain.NewRectangle(3, 5, 0, 1, 2)
	assertEqual(t, []interface{}{"Rectangle", 2, 3, 5, 0, 1}, shapeInsertArgs(r))
}

// ============================================================================
// Shape Tests
// ============================================================================

func TestUpsertAndGetShape(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	r, _ := domain.NewRectangle(10, 2, 1, 3, 12)
	assertNoError(t, repo.UpsertShape(ctx, r))

	got, err := repo.GetShape(ctx, domain.KindRectangle, 12)
	assertNoError(t, err)
	assertNotNil(t, got)
	assertEqual(t, r.String(), got.String())

	// Update in place
	assertNoError(t, r.SetWidth(20))
	assertNoError(t, repo.UpsertShape(ctx, r))
	got, err = repo.GetShape(ctx, domain.KindRectangle, 12)
	assertNoError(t, err)
	assertEqual(t, "[Rectangle] (12) 1/3 - 20/2", got.String())

	// Same id under another kind is a separate row
	missing, err := repo.GetShape(ctx, domain.KindSquare, 12)
	assertNoError(t, err)
	assertNil(t, missing)
}

func TestUpsertShapeDoesNotAdvanceCounter(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	s, _ := domain.NewSquare(2, 0, 0, 500)
	assertNoError(t, repo.UpsertShape(ctx, s))

	before := domain.LastAutoID()
	_, err := repo.GetShape(ctx, domain.KindSquare, 500)
	assertNoError(t, err)
	assertEqual(t, before, domain.LastAutoID())
}

func TestListShapes(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, id := range []int{3, 1, 2} {
		s, _ := domain.NewSquare(id, 0, 0, id)
		assertNoError(t, repo.UpsertShape(ctx, s))
	}
	r, _ := domain.NewRectangle(1, 1, 0, 0, 1)
	assertNoError(t, repo.UpsertShape(ctx, r))

	squares, err := repo.ListShapes(ctx, domain.KindSquare)
	assertNoError(t, err)
	assertEqual(t, 3, len(squares))
	for i, s := range squares {
		assertEqual(t, i+1, s.ID())
	}

	empty, err := repo.ListShapes(ctx, domain.Kind("Circle"))
	assertNoError(t, err)
	assertEqual(t, 0, len(empty))
}

func TestDeleteShape(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	r, _ := domain.NewRectangle(1, 1, 0, 0, 4)
	assertNoError(t, repo.UpsertShape(ctx, r))

	deleted, err := repo.DeleteShape(ctx, domain.KindRectangle, 4)
	assertNoError(t, err)
	assertEqual(t, true, deleted)

	deleted, err = repo.DeleteShape(ctx, domain.KindRectangle, 4)
	assertNoError(t, err)
	assertEqual(t, false, deleted)
}

func TestInsertShapeConflict(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	stored, _ := domain.NewRectangle(10, 10, 0, 0, 2)
	assertNoError(t, repo.InsertShape(ctx, stored))

	other, _ := domain.NewRectangle(2, 3, 0, 0, 2)
	err := repo.InsertShape(ctx, other)
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	got, err := repo.GetShape(ctx, domain.KindRectangle, 2)
	assertNoError(t, err)
	assertEqual(t, "[Rectangle] (2) 0/0 - 10/10", got.String())

	// Same id under another kind is not a conflict
	sq, _ := domain.NewSquare(1, 0, 0, 2)
	assertNoError(t, repo.InsertShape(ctx, sq))
}

func TestMoveShape(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	r, _ := domain.NewRectangle(3, 4, 0, 0, 7)
	assertNoError(t, repo.UpsertShape(ctx, r))

	r.SetID(70)
	assertNoError(t, repo.MoveShape(ctx, r, 7))

	old, err := repo.GetShape(ctx, domain.KindRectangle, 7)
	assertNoError(t, err)
	assertNil(t, old)
	moved, err := repo.GetShape(ctx, domain.KindRectangle, 70)
	assertNoError(t, err)
	assertEqual(t, "[Rectangle] (70) 0/0 - 3/4", moved.String())
}

func TestMaxShapeID(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	maxID, err := repo.MaxShapeID(ctx)
	assertNoError(t, err)
	assertEqual(t, 0, maxID)

	r, _ := domain.NewRectangle(1, 1, 0, 0, 40)
	s, _ := domain.NewSquare(1, 0, 0, 95)
	assertNoError(t, repo.UpsertShape(ctx, r))
	assertNoError(t, repo.UpsertShape(ctx, s))

	maxID, err = repo.MaxShapeID(ctx)
	assertNoError(t, err)
	assertEqual(t, 95, maxID)
}

func TestReplaceShapes(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	old, _ := domain.NewSquare(1, 0, 0, 1)
	assertNoError(t, repo.UpsertShape(ctx, old))
	keep, _ := domain.NewRectangle(1, 1, 0, 0, 1)
	assertNoError(t, repo.UpsertShape(ctx, keep))

	a, _ := domain.NewSquare(5, 0, 0, 10)
	b, _ := domain.NewSquare(6, 1, 1, 11)
	assertNoError(t, repo.ReplaceShapes(ctx, domain.KindSquare, []domain.Shape{a, b}))

	squares, err := repo.ListShapes(ctx, domain.KindSquare)
	assertNoError(t, err)
	assertEqual(t, 2, len(squares))
	assertEqual(t, 10, squares[0].ID())

	rects, err := repo.ListShapes(ctx, domain.KindRectangle)
	assertNoError(t, err)
	assertEqual(t, 1, len(rects))
}

func TestReplaceShapesRollsBack(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	old, _ := domain.NewSquare(1, 0, 0, 1)
	assertNoError(t, repo.UpsertShape(ctx, old))

	wrongKind, _ := domain.NewRectangle(2, 3, 0, 0, 2)
	if err := repo.ReplaceShapes(ctx, domain.KindSquare, []domain.Shape{wrongKind}); err == nil {
		t.Fatal("expected error for mismatched kind")
	}

	squares, err := repo.ListShapes(ctx, domain.KindSquare)
	assertNoError(t, err)
	assertEqual(t, 1, len(squares))
}

// ============================================================================
// State Tests
// ============================================================================

func TestListStates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	empty, err := repo.ListStates(ctx)
	assertNoError(t, err)
	assertEqual(t, 0, len(empty))

	seedStates(t, repo, "California", "Arizona", "Texas")
	states, err := repo.ListStates(ctx)
	assertNoError(t, err)
	assertEqual(t, []string{"California", "Arizona", "Texas"}, stateNames(states))
	assertEqual(t, "1: California", states[0].String())
}

func TestListStatesByPrefix(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seedStates(t, repo, "California", "Nevada", "New York", "nebraska", "Texas")

	states, err := repo.ListStatesByPrefix(ctx, "N")
	assertNoError(t, err)
	assertEqual(t, []string{"Nevada", "New York"}, stateNames(states))

	// Wildcards are literal
	states, err = repo.ListStatesByPrefix(ctx, "%")
	assertNoError(t, err)
	assertEqual(t, 0, len(states))
}

func TestFindStatesByName(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seedStates(t, repo, "California", "Arizona", "Texas")

	states, err := repo.FindStatesByName(ctx, "Arizona")
	assertNoError(t, err)
	assertEqual(t, []string{"Arizona"}, stateNames(states))
	assertEqual(t, 2, states[0].ID)

	// Injection attempts are treated as plain values
	states, err = repo.FindStatesByName(ctx, "Arizona'; TRUNCATE TABLE states ; SELECT * FROM states WHERE name = 'Arizona")
	assertNoError(t, err)
	assertEqual(t, 0, len(states))

	all, err := repo.ListStates(ctx)
	assertNoError(t, err)
	assertEqual(t, 3, len(all))
}

func TestListStatesContaining(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seedStates(t, repo, "California", "Arizona", "Texas", "Ohio")

	states, err := repo.ListStatesContaining(ctx, "a")
	assertNoError(t, err)
	assertEqual(t, []string{"California", "Arizona", "Texas"}, stateNames(states))

	states, err = repo.ListStatesContaining(ctx, "A")
	assertNoError(t, err)
	assertEqual(t, []string{"Arizona"}, stateNames(states))
}

func TestFirstState(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first, err := repo.FirstState(ctx)
	assertNoError(t, err)
	assertNil(t, first)

	seedStates(t, repo, "California", "Arizona")
	first, err = repo.FirstState(ctx)
	assertNoError(t, err)
	assertNotNil(t, first)
	assertEqual(t, "1: California", first.String())
}

func TestGetStateByName(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seedStates(t, repo, "California", "Texas")

	s, err := repo.GetStateByName(ctx, "Texas")
	assertNoError(t, err)
	assertNotNil(t, s)
	assertEqual(t, 2, s.ID)

	s, err = repo.GetStateByName(ctx, "texas")
	assertNoError(t, err)
	assertNil(t, s)
}

func TestCreateAndRenameState(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seedStates(t, repo, "California", "Arizona")

	louisiana, err := repo.CreateState(ctx, "Louisiana")
	assertNoError(t, err)
	assertEqual(t, 3, louisiana.ID)

	renamed, err := repo.RenameState(ctx, 2, "New Mexico")
	assertNoError(t, err)
	assertEqual(t, true, renamed)

	states, err := repo.ListStates(ctx)
	assertNoError(t, err)
	assertEqual(t, []string{"California", "New Mexico", "Louisiana"}, stateNames(states))

	renamed, err = repo.RenameState(ctx, 99, "Nowhere")
	assertNoError(t, err)
	assertEqual(t, false, renamed)
}

func TestDeleteStatesContaining(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	seedStates(t, repo, "California", "Ohio", "Texas", "New York")

	n, err := repo.DeleteStatesContaining(ctx, "a")
	assertNoError(t, err)
	assertEqual(t, int64(2), n)

	states, err := repo.ListStates(ctx)
	assertNoError(t, err)
	assertEqual(t, []string{"Ohio", "New York"}, stateNames(states))
}

// ============================================================================
// City Tests
// ============================================================================

func TestCreateStateWithCities(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	state, err := repo.CreateStateWithCities(ctx, "California", []string{"San Francisco", "San Jose"})
	assertNoError(t, err)
	assertEqual(t, 1, state.ID)
	assertEqual(t, 2, len(state.Cities))
	assertEqual(t, state.ID, state.Cities[1].StateID)

	cities, err := repo.ListCities(ctx)
	assertNoError(t, err)
	assertEqual(t, 2, len(cities))
	assertEqual(t, "California: (1) San Francisco", cities[0].String())
}

func TestListCityNamesByState(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.CreateStateWithCities(ctx, "California", []string{"San Francisco", "San Jose"})
	assertNoError(t, err)
	_, err = repo.CreateStateWithCities(ctx, "Texas", []string{"Houston"})
	assertNoError(t, err)

	names, err := repo.ListCityNamesByState(ctx, "California")
	assertNoError(t, err)
	assertEqual(t, []string{"San Francisco", "San Jose"}, names)

	names, err = repo.ListCityNamesByState(ctx, "Nevada")
	assertNoError(t, err)
	assertEqual(t, []string{}, names)
}

func TestListStatesWithCities(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.CreateStateWithCities(ctx, "California", []string{"San Francisco", "Fresno"})
	assertNoError(t, err)
	_, err = repo.CreateState(ctx, "Nevada")
	assertNoError(t, err)

	states, err := repo.ListStatesWithCities(ctx)
	assertNoError(t, err)
	assertEqual(t, 2, len(states))
	assertEqual(t, 2, len(states[0].Cities))
	assertEqual(t, "Fresno", states[0].Cities[1].Name)
	assertEqual(t, "California", states[0].Cities[1].StateName)
	assertEqual(t, 0, len(states[1].Cities))

	created, err := repo.CreateStateWithCities(ctx, "Texas", []string{"Austin"})
	assertNoError(t, err)
	states, err = repo.ListStatesWithCities(ctx)
	assertNoError(t, err)
	assertEqual(t, created.Cities, states[2].Cities)
}

func TestCascadeDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	_, err := repo.CreateStateWithCities(ctx, "California", []string{"San Francisco"})
	assertNoError(t, err)
	_, err = repo.CreateStateWithCities(ctx, "Ohio", []string{"Columbus"})
	assertNoError(t, err)

	_, err = repo.DeleteStatesContaining(ctx, "a")
	assertNoError(t, err)

	// Verify cities were cascade deleted
	cities, err := repo.ListCities(ctx)
	assertNoError(t, err)
	assertEqual(t, 1, len(cities))
	assertEqual(t, "Columbus", cities[0].Name)
}

// ============================================================================
// File Database Tests
// ============================================================================

func TestFileDatabasePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "circle.db")

	repo, err := New(path)
	assertNoError(t, err)
	seedStates(t, repo, "California")
	s, _ := domain.NewSquare(3, 0, 0, 1)
	assertNoError(t, repo.UpsertShape(ctx, s))
	assertNoError(t, repo.Close())

	reopened, err := New(path)
	assertNoError(t, err)
	defer reopened.Close()

	states, err := reopened.ListStates(ctx)
	assertNoError(t, err)
	assertEqual(t, []string{"California"}, stateNames(states))

	got, err := reopened.GetShape(ctx, domain.KindSquare, 1)
	assertNoError(t, err)
	assertNotNil(t, got)
	assertNoError(t, reopened.Ping(ctx))
}

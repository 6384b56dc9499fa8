package repository

import (
	"context"

	"almostcircle/internal/domain"
)

// ShapeRepository persists shapes keyed by (kind, id).
// Lookups of a missing shape return nil with no error.
type ShapeRepository interface {
	UpsertShape(ctx context.Context, s domain.Shape) error
	InsertShape(ctx context.Context, s domain.Shape) error
	GetShape(ctx context.Context, kind domain.Kind, id int) (domain.Shape, error)
	ListShapes(ctx context.Context, kind domain.Kind) ([]domain.Shape, error)
	DeleteShape(ctx context.Context, kind domain.Kind, id int) (bool, error)
	MaxShapeID(ctx context.Context) (int, error)

	// MoveShape stores s under its new id and drops oldID in one transaction
	MoveShape(ctx context.Context, s domain.Shape, oldID int) error

	// ReplaceShapes swaps every stored shape of kind for shapes in one transaction
	ReplaceShapes(ctx context.Context, kind domain.Kind, shapes []domain.Shape) error
}

// StateRepository queries the states and cities tables.
// Lookups of a missing state return nil with no error.
type StateRepository interface {
	// Read operations, all ordered by id
	ListStates(ctx context.Context) ([]domain.State, error)
	ListStatesByPrefix(ctx context.Context, prefix string) ([]domain.State, error)
	FindStatesByName(ctx context.Context, name string) ([]domain.State, error)
	ListStatesContaining(ctx context.Context, substr string) ([]domain.State, error)
	FirstState(ctx context.Context) (*domain.State, error)
	GetStateByName(ctx context.Context, name string) (*domain.State, error)
	ListStatesWithCities(ctx context.Context) ([]domain.State, error)

	// Write operations
	CreateState(ctx context.Context, name string) (*domain.State, error)
	CreateStateWithCities(ctx context.Context, name string, cities []string) (*domain.State, error)
	RenameState(ctx context.Context, id int, name string) (bool, error)
	DeleteStatesContaining(ctx context.Context, substr string) (int64, error)

	// Cities
	ListCities(ctx context.Context) ([]domain.City, error)
	ListCityNamesByState(ctx context.Context, stateName string) ([]string, error)
}

// Repository is the full data access surface of the server
type Repository interface {
	ShapeRepository
	StateRepository

	// Close releases resources
	Close() error
}

package service

import (
	"context"
	"fmt"
	"strings"

	"almostcircle/internal/domain"
	"almostcircle/internal/repository"
)

// StateService provides business logic for the states and cities tables
type StateService struct {
	repo     repository.StateRepository
	eventBus *EventBus
}

// NewStateService creates a new state service
func NewStateService(repo repository.StateRepository, eventBus *EventBus) *StateService {
	return &StateService{
		repo:     repo,
		eventBus: eventBus,
	}
}

// List returns every state ordered by id
func (s *StateService) List(ctx context.Context) ([]domain.State, error) {
	return s.repo.ListStates(ctx)
}

// ListByPrefix returns states whose name starts with prefix
func (s *StateService) ListByPrefix(ctx context.Context, prefix string) ([]domain.State, error) {
	return s.repo.ListStatesByPrefix(ctx, prefix)
}

// Search returns states whose name is exactly name
func (s *StateService) Search(ctx context.Context, name string) ([]domain.State, error) {
	return s.repo.FindStatesByName(ctx, name)
}

// ListContaining returns states whose name contains substr
func (s *StateService) ListContaining(ctx context.Context, substr string) ([]domain.State, error) {
	return s.repo.ListStatesContaining(ctx, substr)
}

// First returns the state with the lowest id
func (s *StateService) First(ctx context.Context) (*domain.State, error) {
	state, err := s.repo.FirstState(ctx)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, fmt.Errorf("first state: %w", domain.ErrNotFound)
	}
	return state, nil
}

// IDByName returns the id of the state named name
func (s *StateService) IDByName(ctx context.Context, name string) (int, error) {
	state, err := s.repo.GetStateByName(ctx, name)
	if err != nil {
		return 0, err
	}
	if state == nil {
		return 0, fmt.Errorf("state %q: %w", name, domain.ErrNotFound)
	}
	return state.ID, nil
}

// Create inserts a state
func (s *StateService) Create(ctx context.Context, name string) (*domain.State, error) {
	if err := validateName("name", name); err != nil {
		return nil, err
	}
	state, err := s.repo.CreateState(ctx, name)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{Type: EventStateCreated, Payload: state})
	return state, nil
}

// CreateWithCities inserts a state together with its cities
func (s *StateService) CreateWithCities(ctx context.Context, name string, cities []string) (*domain.State, error) {
	if err := validateName("name", name); err != nil {
		return nil, err
	}
	for _, c := range cities {
		if err := validateName("city", c); err != nil {
			return nil, err
		}
	}
	state, err := s.repo.CreateStateWithCities(ctx, name, cities)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{Type: EventStateCreated, Payload: state})
	return state, nil
}

// Rename changes the name of state id
func (s *StateService) Rename(ctx context.Context, id int, name string) error {
	if err := validateName("name", name); err != nil {
		return err
	}
	ok, err := s.repo.RenameState(ctx, id, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("state %d: %w", id, domain.ErrNotFound)
	}

	s.eventBus.Publish(Event{Type: EventStateUpdated, Payload: domain.State{ID: id, Name: name}})
	return nil
}

// DeleteContaining removes every state whose name contains substr.
// An empty substr is rejected since it would match every state.
func (s *StateService) DeleteContaining(ctx context.Context, substr string) (int64, error) {
	if substr == "" {
		return 0, &domain.ValidationError{Field: "contains", Kind: domain.KindValueError, Message: "contains must not be empty"}
	}
	n, err := s.repo.DeleteStatesContaining(ctx, substr)
	if err != nil {
		return 0, err
	}

	s.eventBus.Publish(Event{Type: EventStatesDeleted, Payload: map[string]any{"contains": substr, "count": n}})
	return n, nil
}

// Cities returns every city with its state name
func (s *StateService) Cities(ctx context.Context) ([]domain.City, error) {
	return s.repo.ListCities(ctx)
}

// CityNamesOf returns the city names of the state named stateName
func (s *StateService) CityNamesOf(ctx context.Context, stateName string) ([]string, error) {
	return s.repo.ListCityNamesByState(ctx, stateName)
}

// WithCities returns every state with its nested cities
func (s *StateService) WithCities(ctx context.Context) ([]domain.State, error) {
	return s.repo.ListStatesWithCities(ctx)
}

func validateName(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &domain.ValidationError{Field: field, Kind: domain.KindValueError, Message: field + " must not be empty"}
	}
	if len(v) > 128 {
		return &domain.ValidationError{Field: field, Kind: domain.KindValueError, Message: field + " must be at most 128 characters"}
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"almostcircle/internal/codec"
	"almostcircle/internal/domain"
	"almostcircle/internal/filestore"
	xlog "almostcircle/internal/log"
	"almostcircle/internal/metrics"
	"almostcircle/internal/repository"
)

// ShapeService provides business logic for shape operations
type ShapeService struct {
	repo     repository.ShapeRepository
	store    *filestore.Store
	eventBus *EventBus
}

// NewShapeService creates a new shape service. store may be nil when the
// server runs without a data directory.
func NewShapeService(repo repository.ShapeRepository, store *filestore.Store, eventBus *EventBus) *ShapeService {
	return &ShapeService{
		repo:     repo,
		store:    store,
		eventBus: eventBus,
	}
}

// ShapePayload is the event payload for a single shape
type ShapePayload struct {
	Kind domain.Kind    `json:"kind"`
	ID   int            `json:"id"`
	Data map[string]int `json:"data,omitempty"`
}

// BatchPayload is the event payload for bulk shape operations
type BatchPayload struct {
	Kind  domain.Kind `json:"kind"`
	Count int         `json:"count"`
}

// Create builds a shape of kind from attrs and stores it
func (s *ShapeService) Create(ctx context.Context, kind domain.Kind, attrs map[string]any) (shape domain.Shape, err error) {
	defer func() { metrics.RecordShapeOp(string(kind), "create", err) }()

	if kind, err = domain.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	shape, err = domain.Create(kind, attrs)
	if err != nil {
		return nil, err
	}
	err = s.repo.InsertShape(ctx, shape)
	if _, explicit := attrs["id"]; errors.Is(err, domain.ErrConflict) && !explicit {
		// the counter fell behind rows written by someone else
		if err = s.ReserveStoredIDs(ctx); err != nil {
			return nil, err
		}
		if shape, err = domain.Create(kind, attrs); err != nil {
			return nil, err
		}
		err = s.repo.InsertShape(ctx, shape)
	}
	if err != nil {
		return nil, err
	}
	domain.ReserveID(shape.ID())

	s.publish(EventShapeCreated, shape)
	return shape, nil
}

// ReserveStoredIDs moves the shared id counter past every stored shape id
// so that shapes created without an id never collide with stored ones
func (s *ShapeService) ReserveStoredIDs(ctx context.Context) error {
	maxID, err := s.repo.MaxShapeID(ctx)
	if err != nil {
		return err
	}
	domain.ReserveID(maxID)
	return nil
}

// Get retrieves a single shape
func (s *ShapeService) Get(ctx context.Context, kind domain.Kind, id int) (domain.Shape, error) {
	shape, err := s.repo.GetShape(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if shape == nil {
		return nil, fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
	}
	return shape, nil
}

// List returns every shape of kind ordered by id
func (s *ShapeService) List(ctx context.Context, kind domain.Kind) ([]domain.Shape, error) {
	kind, err := domain.ParseKind(string(kind))
	if err != nil {
		return nil, err
	}
	shapes, err := s.repo.ListShapes(ctx, kind)
	if err != nil {
		return nil, err
	}
	metrics.ShapesStored.WithLabelValues(string(kind)).Set(float64(len(shapes)))
	return shapes, nil
}

// Update applies keyword attributes to a stored shape. A new "id" moves the
// shape to that id.
func (s *ShapeService) Update(ctx context.Context, kind domain.Kind, id int, attrs map[string]any) (shape domain.Shape, err error) {
	defer func() { metrics.RecordShapeOp(string(kind), "update", err) }()

	shape, err = s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := shape.UpdateAttrs(attrs); err != nil {
		return nil, err
	}
	return shape, s.save(ctx, shape, id)
}

// UpdateArgs applies positional attributes to a stored shape
func (s *ShapeService) UpdateArgs(ctx context.Context, kind domain.Kind, id int, args ...any) (shape domain.Shape, err error) {
	defer func() { metrics.RecordShapeOp(string(kind), "update", err) }()

	shape, err = s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if err := shape.Update(args...); err != nil {
		return nil, err
	}
	return shape, s.save(ctx, shape, id)
}

func (s *ShapeService) save(ctx context.Context, shape domain.Shape, oldID int) error {
	if shape.ID() == oldID {
		if err := s.repo.UpsertShape(ctx, shape); err != nil {
			return err
		}
	} else {
		if err := s.repo.MoveShape(ctx, shape, oldID); err != nil {
			return err
		}
		domain.ReserveID(shape.ID())
	}
	s.publish(EventShapeUpdated, shape)
	return nil
}

// Delete removes a shape
func (s *ShapeService) Delete(ctx context.Context, kind domain.Kind, id int) (err error) {
	defer func() { metrics.RecordShapeOp(string(kind), "delete", err) }()

	deleted, err := s.repo.DeleteShape(ctx, kind, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
	}

	s.eventBus.Publish(Event{
		Type:    EventShapeDeleted,
		Payload: ShapePayload{Kind: kind, ID: id},
	})
	return nil
}

// Display draws a stored shape to w
func (s *ShapeService) Display(ctx context.Context, kind domain.Kind, id int, w io.Writer) error {
	shape, err := s.Get(ctx, kind, id)
	if err != nil {
		return err
	}
	return shape.Display(w)
}

// Import parses shapes of kind from r in format and stores each of them.
// Existing shapes with other ids are kept.
func (s *ShapeService) Import(ctx context.Context, kind domain.Kind, format string, r io.Reader) (shapes []domain.Shape, err error) {
	defer func() { metrics.RecordShapeOp(string(kind), "import", err) }()

	if kind, err = domain.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	c, err := codec.Lookup(format)
	if err != nil {
		return nil, err
	}
	shapes, err = c.Parse(kind, r)
	if err != nil {
		return nil, err
	}
	for _, shape := range shapes {
		if err := s.repo.UpsertShape(ctx, shape); err != nil {
			return nil, err
		}
		domain.ReserveID(shape.ID())
	}

	s.eventBus.Publish(Event{
		Type:    EventShapesImported,
		Payload: BatchPayload{Kind: kind, Count: len(shapes)},
	})
	return shapes, nil
}

// Export writes every shape of kind to w in format
func (s *ShapeService) Export(ctx context.Context, kind domain.Kind, format string, w io.Writer) error {
	c, err := codec.Lookup(format)
	if err != nil {
		return err
	}
	shapes, err := s.List(ctx, kind)
	if err != nil {
		return err
	}
	return c.Export(kind, shapes, w)
}

// SyncFromStore replaces the stored shapes of kind with the contents of
// <Kind>.json in the data directory and returns how many were loaded
func (s *ShapeService) SyncFromStore(ctx context.Context, kind domain.Kind) (n int, err error) {
	defer func() { metrics.RecordFileSync(string(kind), "in", err) }()

	if s.store == nil {
		return 0, fmt.Errorf("no data directory configured")
	}
	shapes, err := s.store.LoadShapes(kind)
	if err != nil {
		return 0, err
	}
	if err := s.repo.ReplaceShapes(ctx, kind, shapes); err != nil {
		return 0, err
	}
	for _, shape := range shapes {
		domain.ReserveID(shape.ID())
	}

	logger := xlog.FromContext(ctx, "shapes")
	logger.Info().Str("kind", string(kind)).Int("count", len(shapes)).Msg("synced shapes from data dir")

	metrics.ShapesStored.WithLabelValues(string(kind)).Set(float64(len(shapes)))
	s.eventBus.Publish(Event{
		Type:    EventShapesSynced,
		Payload: BatchPayload{Kind: kind, Count: len(shapes)},
	})
	return len(shapes), nil
}

// SyncIfChanged runs SyncFromStore unless <Kind>.json still holds what
// Snapshot last wrote, so a snapshot read back by the watcher cannot drop
// writes made after it. synced reports whether the file was loaded.
func (s *ShapeService) SyncIfChanged(ctx context.Context, kind domain.Kind) (n int, synced bool, err error) {
	if s.store == nil {
		return 0, false, fmt.Errorf("no data directory configured")
	}
	unchanged, err := s.store.Unchanged(kind, "json")
	if err != nil {
		return 0, false, err
	}
	if unchanged {
		logger := xlog.FromContext(ctx, "shapes")
		logger.Debug().Str("kind", string(kind)).Msg("skipping sync of own snapshot")
		return 0, false, nil
	}
	n, err = s.SyncFromStore(ctx, kind)
	return n, err == nil, err
}

// Snapshot writes every stored shape of kind to <Kind>.json
func (s *ShapeService) Snapshot(ctx context.Context, kind domain.Kind) (err error) {
	defer func() { metrics.RecordFileSync(string(kind), "out", err) }()

	if s.store == nil {
		return fmt.Errorf("no data directory configured")
	}
	shapes, err := s.List(ctx, kind)
	if err != nil {
		return err
	}
	if err := s.store.SaveShapes(kind, shapes); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventShapesSaved,
		Payload: BatchPayload{Kind: kind, Count: len(shapes)},
	})
	return nil
}

func (s *ShapeService) publish(t EventType, shape domain.Shape) {
	s.eventBus.Publish(Event{
		Type:    t,
		Payload: ShapePayload{Kind: shape.Kind(), ID: shape.ID(), Data: shape.ToDictionary()},
	})
}

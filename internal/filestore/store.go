package filestore

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/renameio/v2"

	"almostcircle/internal/codec"
	"almostcircle/internal/domain"
	xlog "almostcircle/internal/log"
)

// Store reads and writes per-kind shape files in one directory
type Store struct {
	dir  string
	json codec.Codec
	csv  codec.Codec

	mu      sync.Mutex
	written map[string][sha256.Size]byte // path -> digest of our last write
}

// New creates a store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{
		dir:     dir,
		json:    codec.NewJSONCodec(),
		csv:     codec.NewCSVCodec(),
		written: make(map[string][sha256.Size]byte),
	}
}

// Dir returns the store directory
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file that holds shapes of kind in the given format
func (s *Store) Path(kind domain.Kind, format string) string {
	return filepath.Join(s.dir, string(kind)+"."+format)
}

// KindForPath maps a shape file name back to its kind.
// ok is false for files the store does not own.
func KindForPath(path string) (kind domain.Kind, format string, ok bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != ".json" && ext != ".csv" {
		return "", "", false
	}
	name := base[:len(base)-len(ext)]
	for _, k := range domain.Kinds {
		if name == string(k) {
			return k, ext[1:], true
		}
	}
	return "", "", false
}

// SaveShapes replaces <dir>/<Kind>.json with the dictionaries of shapes.
// A nil or empty list writes "[]".
func (s *Store) SaveShapes(kind domain.Kind, shapes []domain.Shape) error {
	return s.save(kind, shapes, s.json)
}

// LoadShapes reads <dir>/<Kind>.json. A missing file yields an empty list.
func (s *Store) LoadShapes(kind domain.Kind) ([]domain.Shape, error) {
	return s.load(kind, s.json)
}

// SaveShapesCSV replaces <dir>/<Kind>.csv with one row per shape
func (s *Store) SaveShapesCSV(kind domain.Kind, shapes []domain.Shape) error {
	return s.save(kind, shapes, s.csv)
}

// LoadShapesCSV reads <dir>/<Kind>.csv. A missing file yields an empty list.
func (s *Store) LoadShapesCSV(kind domain.Kind) ([]domain.Shape, error) {
	return s.load(kind, s.csv)
}

func (s *Store) save(kind domain.Kind, shapes []domain.Shape, c codec.Codec) error {
	if _, err := domain.ParseKind(string(kind)); err != nil {
		return err
	}
	for _, sh := range shapes {
		if sh.Kind() != kind {
			return fmt.Errorf("cannot save %s in %s file", sh.Kind(), kind)
		}
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	path := s.Path(kind, c.Format())
	h := sha256.New()
	err := writeAtomic(path, func(w io.Writer) error {
		return c.Export(kind, shapes, io.MultiWriter(w, h))
	})
	if err != nil {
		return err
	}

	var sum [sha256.Size]byte
	copy(sum[:], h.Sum(nil))
	s.mu.Lock()
	s.written[path] = sum
	s.mu.Unlock()
	return nil
}

// Unchanged reports whether the file for kind in format still holds exactly
// what this store last wrote to it. Files the store never wrote are changed.
func (s *Store) Unchanged(kind domain.Kind, format string) (bool, error) {
	path := s.Path(kind, format)
	s.mu.Lock()
	want, ok := s.written[path]
	s.mu.Unlock()
	if !ok {
		return false, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s file: %w", kind, err)
	}
	return sha256.Sum256(data) == want, nil
}

func (s *Store) load(kind domain.Kind, c codec.Codec) ([]domain.Shape, error) {
	if _, err := domain.ParseKind(string(kind)); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path(kind, c.Format()))
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Shape{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s file: %w", kind, err)
	}
	defer f.Close()

	shapes, err := c.Parse(kind, f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	return shapes, nil
}

// writeAtomic writes through a pending file and renames it over path
func writeAtomic(path string, write func(w io.Writer) error) error {
	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		if err := pendingFile.Cleanup(); err != nil {
			logger := xlog.WithComponent("filestore")
			logger.Debug().Err(err).Str("path", path).Msg("cleanup pending file")
		}
	}()

	if err := write(pendingFile); err != nil {
		return err
	}

	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

package codec

import (
	"fmt"
	"io"
	"sort"

	"almostcircle/internal/domain"
)

// Importer parses a list of shapes of one kind from a serialized form
type Importer interface {
	Parse(kind domain.Kind, r io.Reader) ([]domain.Shape, error)
	Format() string
}

// Exporter writes a list of shapes of one kind in a serialized form
type Exporter interface {
	Export(kind domain.Kind, shapes []domain.Shape, w io.Writer) error
	Format() string
}

// Codec both imports and exports
type Codec interface {
	Importer
	Exporter
}

var registry = map[string]Codec{
	"json": NewJSONCodec(),
	"yaml": NewYAMLCodec(),
	"csv":  NewCSVCodec(),
}

// Lookup returns the codec for a format identifier
func Lookup(format string) (Codec, error) {
	if format == "yml" {
		format = "yaml"
	}
	c, ok := registry[format]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return c, nil
}

// Formats returns the registered format identifiers in sorted order
func Formats() []string {
	formats := make([]string, 0, len(registry))
	for f := range registry {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

// fromDictionaries rebuilds shapes through domain.Create
func fromDictionaries(kind domain.Kind, dicts []map[string]any) ([]domain.Shape, error) {
	shapes := make([]domain.Shape, 0, len(dicts))
	for i, d := range dicts {
		s, err := domain.Create(kind, d)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		shapes = append(shapes, s)
	}
	return shapes, nil
}

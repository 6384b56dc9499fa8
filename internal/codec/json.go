package codec

import (
	"fmt"
	"io"

	"almostcircle/internal/domain"
)

// JSONCodec reads and writes a JSON list of shape dictionaries
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse decodes a JSON list of dictionaries. Empty input yields no shapes.
func (c *JSONCodec) Parse(kind domain.Kind, r io.Reader) ([]domain.Shape, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	dicts, err := domain.FromJSONString(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	return fromDictionaries(kind, dicts)
}

// Export writes the shapes as a JSON list, "[]" when there are none
func (c *JSONCodec) Export(kind domain.Kind, shapes []domain.Shape, w io.Writer) error {
	s, err := domain.ToJSONString(domain.Dictionaries(shapes))
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if _, err := io.WriteString(w, s); err != nil {
		return fmt.Errorf("failed to write JSON: %w", err)
	}
	return nil
}

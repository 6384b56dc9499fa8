package codec

import (
	"errors"
	"fmt"
	"io"

	"almostcircle/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec reads and writes a YAML sequence of shape dictionaries
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse decodes a YAML sequence of mappings
func (c *YAMLCodec) Parse(kind domain.Kind, r io.Reader) ([]domain.Shape, error) {
	var dicts []map[string]any
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&dicts); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return fromDictionaries(kind, dicts)
}

// Export writes the shapes as a YAML sequence
func (c *YAMLCodec) Export(kind domain.Kind, shapes []domain.Shape, w io.Writer) error {
	dicts := domain.Dictionaries(shapes)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(dicts); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

package codec

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"almostcircle/internal/domain"
)

// CSVCodec reads and writes one headerless row per shape.
// Rectangle rows are id,width,height,x,y; Square rows are id,size,x,y.
type CSVCodec struct{}

// NewCSVCodec creates a new CSV codec
func NewCSVCodec() *CSVCodec {
	return &CSVCodec{}
}

// Format returns the codec format identifier
func (c *CSVCodec) Format() string {
	return "csv"
}

// Columns returns the CSV column order for a kind
func Columns(kind domain.Kind) ([]string, error) {
	switch kind {
	case domain.KindRectangle:
		return []string{"id", "width", "height", "x", "y"}, nil
	case domain.KindSquare:
		return []string{"id", "size", "x", "y"}, nil
	}
	return nil, fmt.Errorf("unknown shape kind %q", kind)
}

// Parse decodes CSV rows. Cells that are not integers surface as type errors.
func (c *CSVCodec) Parse(kind domain.Kind, r io.Reader) ([]domain.Shape, error) {
	columns, err := Columns(kind)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(columns)
	reader.TrimLeadingSpace = true

	var dicts []map[string]any
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV: %w", err)
		}

		d := make(map[string]any, len(columns))
		for i, col := range columns {
			if n, err := strconv.Atoi(record[i]); err == nil {
				d[col] = n
			} else {
				d[col] = record[i]
			}
		}
		dicts = append(dicts, d)
	}

	return fromDictionaries(kind, dicts)
}

// Export writes one row per shape
func (c *CSVCodec) Export(kind domain.Kind, shapes []domain.Shape, w io.Writer) error {
	columns, err := Columns(kind)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	for _, s := range shapes {
		if s.Kind() != kind {
			return fmt.Errorf("cannot write %s as %s", s.Kind(), kind)
		}
		d := s.ToDictionary()
		record := make([]string, len(columns))
		for i, col := range columns {
			record[i] = strconv.Itoa(d[col])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

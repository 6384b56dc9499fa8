package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"almostcircle/internal/domain"
)

func mustRectangle(t *testing.T, w, h, x, y, id int) *domain.Rectangle {
	t.Helper()
	r, err := domain.NewRectangle(w, h, x, y, id)
	if err != nil {
		t.Fatalf("failed to create rectangle: %v", err)
	}
	return r
}

func mustSquare(t *testing.T, size, x, y, id int) *domain.Square {
	t.Helper()
	s, err := domain.NewSquare(size, x, y, id)
	if err != nil {
		t.Fatalf("failed to create square: %v", err)
	}
	return s
}

func TestLookup(t *testing.T) {
	for _, format := range []string{"json", "yaml", "yml", "csv"} {
		if _, err := Lookup(format); err != nil {
			t.Errorf("Lookup(%q) unexpected error: %v", format, err)
		}
	}
	if _, err := Lookup("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
	if got := strings.Join(Formats(), ","); got != "csv,json,yaml" {
		t.Errorf("unexpected formats %s", got)
	}
}

func TestRoundTrip(t *testing.T) {
	rects := []domain.Shape{mustRectangle(t, 10, 7, 2, 8, 1), mustRectangle(t, 2, 4, 0, 0, 2)}
	squares := []domain.Shape{mustSquare(t, 5, 0, 0, 3), mustSquare(t, 7, 9, 1, 4)}

	for _, format := range Formats() {
		c, _ := Lookup(format)
		for kind, shapes := range map[domain.Kind][]domain.Shape{
			domain.KindRectangle: rects,
			domain.KindSquare:    squares,
		} {
			t.Run(format+"/"+string(kind), func(t *testing.T) {
				var buf bytes.Buffer
				if err := c.Export(kind, shapes, &buf); err != nil {
					t.Fatalf("export failed: %v", err)
				}
				got, err := c.Parse(kind, &buf)
				if err != nil {
					t.Fatalf("parse failed: %v", err)
				}
				if len(got) != len(shapes) {
					t.Fatalf("expected %d shapes, got %d", len(shapes), len(got))
				}
				for i := range shapes {
					if got[i].String() != shapes[i].String() {
						t.Errorf("shape %d: expected %s, got %s", i, shapes[i], got[i])
					}
				}
			})
		}
	}
}

func TestJSONExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONCodec().Export(domain.KindSquare, nil, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "[]" {
		t.Errorf("expected [], got %q", buf.String())
	}

	shapes, err := NewJSONCodec().Parse(domain.KindSquare, strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shapes) != 0 {
		t.Errorf("expected no shapes, got %d", len(shapes))
	}
}

func TestCSVFormat(t *testing.T) {
	var buf bytes.Buffer
	shapes := []domain.Shape{mustSquare(t, 5, 1, 2, 3)}
	if err := NewCSVCodec().Export(domain.KindSquare, shapes, &buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "3,5,1,2\n" {
		t.Errorf("unexpected CSV %q", buf.String())
	}

	t.Run("mixed kinds rejected", func(t *testing.T) {
		err := NewCSVCodec().Export(domain.KindSquare, []domain.Shape{mustRectangle(t, 1, 2, 0, 0, 1)}, &bytes.Buffer{})
		if err == nil {
			t.Error("expected error")
		}
	})

	t.Run("non integer cell", func(t *testing.T) {
		_, err := NewCSVCodec().Parse(domain.KindRectangle, strings.NewReader("1,abc,2,0,0\n"))
		if !errors.Is(err, domain.ErrType) {
			t.Errorf("expected type error, got %v", err)
		}
	})

	t.Run("short row", func(t *testing.T) {
		if _, err := NewCSVCodec().Parse(domain.KindSquare, strings.NewReader("1,2\n")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestYAMLParseInvalidValue(t *testing.T) {
	input := "- id: 1\n  size: -4\n  x: 0\n  y: 0\n"
	_, err := NewYAMLCodec().Parse(domain.KindSquare, strings.NewReader(input))
	if !errors.Is(err, domain.ErrValue) {
		t.Errorf("expected value error, got %v", err)
	}
}

package domain

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Kind names a concrete shape type
type Kind string

const (
	KindRectangle Kind = "Rectangle"
	KindSquare    Kind = "Square"
)

// Kinds lists every shape kind
var Kinds = []Kind{KindRectangle, KindSquare}

// ParseKind accepts a kind name in any case ("square", "Square", "SQUARE")
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown shape kind %q", s)
}

// Parent returns the kind this kind extends, or "" for a root kind
func (k Kind) Parent() Kind {
	if k == KindSquare {
		return KindRectangle
	}
	return ""
}

// Shape is implemented by *Rectangle and *Square
type Shape interface {
	ID() int
	Kind() Kind
	Area() int
	Perimeter() int
	X() int
	Y() int
	Display(w io.Writer) error
	Update(args ...any) error
	UpdateAttrs(attrs map[string]any) error
	ToDictionary() map[string]int
	String() string
}

var (
	_ Shape = (*Rectangle)(nil)
	_ Shape = (*Square)(nil)
)

// Create builds a placeholder shape of the given kind and applies attrs to it.
// The placeholder draws an id from the shared counter; an "id" key in attrs
// replaces it.
func Create(kind Kind, attrs map[string]any) (Shape, error) {
	var s Shape
	switch kind {
	case KindRectangle:
		r, err := NewRectangle(1, 1, 0, 0, 0)
		if err != nil {
			return nil, err
		}
		s = r
	case KindSquare:
		sq, err := NewSquare(1, 0, 0, 0)
		if err != nil {
			return nil, err
		}
		s = sq
	default:
		return nil, fmt.Errorf("unknown shape kind %q", kind)
	}

	if err := s.UpdateAttrs(attrs); err != nil {
		return nil, err
	}
	return s, nil
}

// Restore rebuilds a stored shape without touching the shared counter
// unless id is 0.
func Restore(kind Kind, id, width, height, x, y int) (Shape, error) {
	switch kind {
	case KindRectangle:
		return NewRectangle(width, height, x, y, id)
	case KindSquare:
		if width != height {
			return nil, &ValidationError{Field: "size", Kind: KindValueError, Message: "size must be equal to width and height"}
		}
		return NewSquare(width, x, y, id)
	}
	return nil, fmt.Errorf("unknown shape kind %q", kind)
}

// Dictionaries converts shapes to their dictionary form
func Dictionaries[S Shape](shapes []S) []map[string]int {
	out := make([]map[string]int, 0, len(shapes))
	for _, s := range shapes {
		out = append(out, s.ToDictionary())
	}
	return out
}

// ToJSONString encodes a list of dictionaries. No dictionaries encode as "[]".
func ToJSONString(dicts []map[string]int) (string, error) {
	if len(dicts) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(dicts)
	if err != nil {
		return "", fmt.Errorf("encode dictionaries: %w", err)
	}
	return string(data), nil
}

// FromJSONString decodes a list of dictionaries. Empty input yields an empty list.
func FromJSONString(s string) ([]map[string]any, error) {
	if strings.TrimSpace(s) == "" {
		return []map[string]any{}, nil
	}
	var dicts []map[string]any
	if err := json.Unmarshal([]byte(s), &dicts); err != nil {
		return nil, fmt.Errorf("decode dictionaries: %w", err)
	}
	if dicts == nil {
		dicts = []map[string]any{}
	}
	return dicts, nil
}

// IsSameKind reports whether s is exactly of kind k
func IsSameKind(s Shape, k Kind) bool {
	return s != nil && s.Kind() == k
}

// IsKindOf reports whether s is of kind k or of a kind extending k
func IsKindOf(s Shape, k Kind) bool {
	if s == nil {
		return false
	}
	for cur := s.Kind(); cur != ""; cur = cur.Parent() {
		if cur == k {
			return true
		}
	}
	return false
}

// InheritsFrom reports whether s is of a kind extending k, excluding k itself
func InheritsFrom(s Shape, k Kind) bool {
	return IsKindOf(s, k) && !IsSameKind(s, k)
}

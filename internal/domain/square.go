package domain

import "fmt"

// Square is a Rectangle whose width and height are always equal
type Square struct {
	Rectangle
}

// NewSquare validates size, x and y and then assigns the id
func NewSquare(size, x, y, id int) (*Square, error) {
	r, err := newSquareRectangle(size, x, y, id)
	if err != nil {
		return nil, err
	}
	return &Square{Rectangle: *r}, nil
}

// newSquareRectangle validates size as the width, so errors name "width"
func newSquareRectangle(size, x, y, id int) (*Rectangle, error) {
	return NewRectangle(size, size, x, y, id)
}

// Kind returns KindSquare
func (s *Square) Kind() Kind {
	return KindSquare
}

// Size returns the side length
func (s *Square) Size() int {
	return s.height
}

// SetSize sets both sides through SetWidth
func (s *Square) SetSize(v int) error {
	return s.SetWidth(v)
}

// SetWidth sets both sides so the square stays square
func (s *Square) SetWidth(v int) error {
	if err := s.Rectangle.SetWidth(v); err != nil {
		return err
	}
	s.height = v
	return nil
}

// SetHeight sets both sides so the square stays square
func (s *Square) SetHeight(v int) error {
	if err := s.Rectangle.SetHeight(v); err != nil {
		return err
	}
	s.width = v
	return nil
}

func (s *Square) String() string {
	return fmt.Sprintf("[Square] (%d) %d/%d - %d", s.id, s.x, s.y, s.height)
}

// squareFields is the positional order used by Update
var squareFields = []string{"id", "size", "x", "y"}

// Update assigns attributes positionally: id, size, x, y
func (s *Square) Update(args ...any) error {
	return s.UpdateAttrs(positional(squareFields, args))
}

// UpdateAttrs assigns attributes by name. Besides id, size, x and y,
// the keys width and height are accepted and set both sides.
// Nothing is changed unless every value is valid.
func (s *Square) UpdateAttrs(attrs map[string]any) error {
	next := *s
	for _, field := range []string{"id", "size", "width", "height", "x", "y"} {
		raw, ok := attrs[field]
		if !ok {
			continue
		}
		name := field
		if field == "size" {
			name = "width"
		}
		v, err := IntegerValue(name, raw)
		if err != nil {
			return err
		}
		switch field {
		case "size":
			err = next.SetSize(v)
		case "width":
			err = next.SetWidth(v)
		case "height":
			err = next.SetHeight(v)
		default:
			err = next.Rectangle.set(field, v)
		}
		if err != nil {
			return err
		}
	}
	*s = next
	return nil
}

// ToDictionary returns id, size, x and y
func (s *Square) ToDictionary() map[string]int {
	return map[string]int{
		"id":   s.id,
		"size": s.height,
		"x":    s.x,
		"y":    s.y,
	}
}

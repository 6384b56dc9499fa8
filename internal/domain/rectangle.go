package domain

import (
	"fmt"
	"io"
	"strings"
)

// Rectangle is an axis-aligned rectangle placed at an x/y offset
type Rectangle struct {
	Base
	width  int
	height int
	x      int
	y      int
}

// NewRectangle validates the attributes and then assigns the id.
// A rejected rectangle does not advance the shared id counter.
func NewRectangle(width, height, x, y, id int) (*Rectangle, error) {
	r := &Rectangle{}
	if err := r.SetWidth(width); err != nil {
		return nil, err
	}
	if err := r.SetHeight(height); err != nil {
		return nil, err
	}
	if err := r.SetX(x); err != nil {
		return nil, err
	}
	if err := r.SetY(y); err != nil {
		return nil, err
	}
	r.Base = NewBase(id)
	return r, nil
}

// SquareRectangle returns a Rectangle with both sides set to size
func SquareRectangle(size int) (*Rectangle, error) {
	return NewRectangle(size, size, 0, 0, 0)
}

// Kind returns KindRectangle
func (r *Rectangle) Kind() Kind {
	return KindRectangle
}

// Width returns the width
func (r *Rectangle) Width() int { return r.width }

// Height returns the height
func (r *Rectangle) Height() int { return r.height }

// X returns the horizontal offset
func (r *Rectangle) X() int { return r.x }

// Y returns the vertical offset
func (r *Rectangle) Y() int { return r.y }

// SetWidth sets the width; it must be > 0
func (r *Rectangle) SetWidth(v int) error {
	if err := validatePositive("width", v); err != nil {
		return err
	}
	r.width = v
	return nil
}

// SetHeight sets the height; it must be > 0
func (r *Rectangle) SetHeight(v int) error {
	if err := validatePositive("height", v); err != nil {
		return err
	}
	r.height = v
	return nil
}

// SetX sets the horizontal offset; it must be >= 0
func (r *Rectangle) SetX(v int) error {
	if err := validateOffset("x", v); err != nil {
		return err
	}
	r.x = v
	return nil
}

// SetY sets the vertical offset; it must be >= 0
func (r *Rectangle) SetY(v int) error {
	if err := validateOffset("y", v); err != nil {
		return err
	}
	r.y = v
	return nil
}

// Area returns width * height
func (r *Rectangle) Area() int {
	return r.width * r.height
}

// Perimeter returns 2 * (width + height), or 0 when a side is empty
func (r *Rectangle) Perimeter() int {
	if r.width == 0 || r.height == 0 {
		return 0
	}
	return 2 * (r.width + r.height)
}

// Display writes the rectangle with '#' characters, shifted down by y lines
// and right by x spaces.
func (r *Rectangle) Display(w io.Writer) error {
	var b strings.Builder
	b.WriteString(strings.Repeat("\n", r.y))
	row := strings.Repeat(" ", r.x) + strings.Repeat("#", r.width) + "\n"
	for i := 0; i < r.height; i++ {
		b.WriteString(row)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Pattern renders the rectangle with symbol and no offsets, rows joined by newlines
func (r *Rectangle) Pattern(symbol string) string {
	if r.width == 0 || r.height == 0 {
		return ""
	}
	rows := make([]string, r.height)
	for i := range rows {
		rows[i] = strings.Repeat(symbol, r.width)
	}
	return strings.Join(rows, "\n")
}

func (r *Rectangle) String() string {
	return fmt.Sprintf("[Rectangle] (%d) %d/%d - %d/%d", r.id, r.x, r.y, r.width, r.height)
}

// rectangleFields is the positional order used by Update
var rectangleFields = []string{"id", "width", "height", "x", "y"}

// Update assigns attributes positionally: id, width, height, x, y.
// Arguments past the fifth are ignored.
func (r *Rectangle) Update(args ...any) error {
	return r.UpdateAttrs(positional(rectangleFields, args))
}

// UpdateAttrs assigns attributes by name. Unknown keys are ignored.
// Nothing is changed unless every value is valid.
func (r *Rectangle) UpdateAttrs(attrs map[string]any) error {
	next := *r
	for _, field := range rectangleFields {
		raw, ok := attrs[field]
		if !ok {
			continue
		}
		v, err := IntegerValue(field, raw)
		if err != nil {
			return err
		}
		if err := next.set(field, v); err != nil {
			return err
		}
	}
	*r = next
	return nil
}

func (r *Rectangle) set(field string, v int) error {
	switch field {
	case "id":
		r.SetID(v)
		return nil
	case "width":
		return r.SetWidth(v)
	case "height":
		return r.SetHeight(v)
	case "x":
		return r.SetX(v)
	case "y":
		return r.SetY(v)
	}
	return nil
}

// ToDictionary returns the attributes keyed by name
func (r *Rectangle) ToDictionary() map[string]int {
	return map[string]int{
		"id":     r.id,
		"width":  r.width,
		"height": r.height,
		"x":      r.x,
		"y":      r.y,
	}
}

// BiggerOrEqual returns the rectangle with the larger area, r1 on ties
func BiggerOrEqual(r1, r2 *Rectangle) (*Rectangle, error) {
	if r1 == nil {
		return nil, &ValidationError{Field: "rect_1", Kind: KindTypeError, Message: "rect_1 must be an instance of Rectangle"}
	}
	if r2 == nil {
		return nil, &ValidationError{Field: "rect_2", Kind: KindTypeError, Message: "rect_2 must be an instance of Rectangle"}
	}
	if r1.Area() >= r2.Area() {
		return r1, nil
	}
	return r2, nil
}

// positional maps args onto field names in order
func positional(fields []string, args []any) map[string]any {
	attrs := make(map[string]any, len(args))
	for i, arg := range args {
		if i >= len(fields) {
			break
		}
		attrs[fields[i]] = arg
	}
	return attrs
}

// Package textfmt implements validated arithmetic and text printing helpers.
// Validation failures are reported as *domain.ValidationError so callers can
// match them with errors.Is(err, domain.ErrType) or domain.ErrValue.
package textfmt

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"almostcircle/internal/domain"
)

// ErrDivisionByZero is returned by MatrixDivided for a zero divisor
var ErrDivisionByZero = errors.New("division by zero")

const (
	msgMatrix  = "matrix must be a matrix (list of lists) of integers/floats"
	msgRowSize = "Each row of the matrix must have the same size"
	msgDiv     = "div must be a number"
)

// AddInteger adds a and b after truncating floats to integers
func AddInteger(a, b any) (int, error) {
	x, ok := number(a)
	if !ok || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, typeError("a", "a must be an integer")
	}
	y, ok := number(b)
	if !ok || math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, typeError("b", "b must be an integer")
	}
	return int(math.Trunc(x)) + int(math.Trunc(y)), nil
}

// MatrixDivided divides every element of matrix by div, rounding each
// result to two decimals
func MatrixDivided(matrix [][]any, div any) ([][]float64, error) {
	if len(matrix) == 0 {
		return nil, typeError("matrix", msgMatrix)
	}
	for _, row := range matrix {
		for _, v := range row {
			if _, ok := number(v); !ok {
				return nil, typeError("matrix", msgMatrix)
			}
		}
	}
	for _, row := range matrix {
		if len(row) != len(matrix[0]) {
			return nil, typeError("matrix", msgRowSize)
		}
	}

	d, ok := number(div)
	if !ok {
		return nil, typeError("div", msgDiv)
	}
	if d == 0 {
		return nil, ErrDivisionByZero
	}

	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			n, _ := number(v)
			out[i][j] = math.Round(n/d*100) / 100
		}
	}
	return out, nil
}

// SayMyName prints "My name is <first> <last>"
func SayMyName(w io.Writer, first, last string) error {
	_, err := fmt.Fprintf(w, "My name is %s %s\n", first, last)
	return err
}

// PrintSquare prints size rows of size '#' characters
func PrintSquare(w io.Writer, size int) error {
	if size < 0 {
		return &domain.ValidationError{Field: "size", Kind: domain.KindValueError, Message: "size must be >= 0"}
	}
	row := strings.Repeat("#", size) + "\n"
	for i := 0; i < size; i++ {
		if _, err := io.WriteString(w, row); err != nil {
			return err
		}
	}
	return nil
}

// TextIndentation prints text with two newlines after each '.', '?' and ':'.
// Spaces at the start of the text and after those characters or a newline
// are dropped.
func TextIndentation(w io.Writer, text string) error {
	var b strings.Builder
	skip := true
	for _, r := range text {
		if skip && r == ' ' {
			continue
		}
		skip = false
		b.WriteRune(r)
		switch r {
		case '.', '?', ':':
			b.WriteString("\n\n")
			skip = true
		case '\n':
			skip = true
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// FormatArgs renders an argument list as a count header followed by one
// numbered line per argument
func FormatArgs(args []string) string {
	var b strings.Builder
	switch len(args) {
	case 0:
		b.WriteString("0 arguments.\n")
	case 1:
		b.WriteString("1 argument:\n")
	default:
		fmt.Fprintf(&b, "%d arguments:\n", len(args))
	}
	for i, a := range args {
		fmt.Fprintf(&b, "%d: %s\n", i+1, a)
	}
	return b.String()
}

func typeError(field, message string) error {
	return &domain.ValidationError{Field: field, Kind: domain.KindTypeError, Message: message}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

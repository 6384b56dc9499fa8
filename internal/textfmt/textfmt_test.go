package textfmt

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"almostcircle/internal/domain"
)

func TestAddInteger(t *testing.T) {
	tests := []struct {
		a, b any
		want int
	}{
		{1, 2, 3},
		{0, 0, 0},
		{-1, 2, 1},
		{-1, -1, -2},
		{5.8, 1.2, 6},
		{-2.9, 0, -2},
		{int64(100), float32(0.5), 100},
	}

	for _, tt := range tests {
		got, err := AddInteger(tt.a, tt.b)
		if err != nil {
			t.Errorf("AddInteger(%v, %v) unexpected error: %v", tt.a, tt.b, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AddInteger(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestAddIntegerErrors(t *testing.T) {
	tests := []struct {
		name    string
		a, b    any
		message string
	}{
		{"string a", "1", 2, "a must be an integer"},
		{"string b", 1, "2", "b must be an integer"},
		{"nil a", nil, 2, "a must be an integer"},
		{"both invalid reports a", "x", "y", "a must be an integer"},
		{"bool b", 1, true, "b must be an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AddInteger(tt.a, tt.b)
			if err == nil || err.Error() != tt.message {
				t.Fatalf("expected %q, got %v", tt.message, err)
			}
			if !errors.Is(err, domain.ErrType) {
				t.Error("expected a type error")
			}
		})
	}
}

func TestMatrixDivided(t *testing.T) {
	t.Run("integers", func(t *testing.T) {
		got, err := MatrixDivided([][]any{{1, 2, 3}, {4, 5, 6}}, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := [][]float64{{0.33, 0.67, 1}, {1.33, 1.67, 2}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("floats", func(t *testing.T) {
		got, err := MatrixDivided([][]any{{1.5, 2.5}, {3.5, 4.5}}, 2.0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := [][]float64{{0.75, 1.25}, {1.75, 2.25}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	errTests := []struct {
		name    string
		matrix  [][]any
		div     any
		message string
	}{
		{"empty matrix", nil, 2, msgMatrix},
		{"string element", [][]any{{1, "2"}}, 2, msgMatrix},
		{"ragged rows", [][]any{{1, 2}, {3}}, 2, msgRowSize},
		{"string divisor", [][]any{{1, 2}}, "2", msgDiv},
		{"zero divisor", [][]any{{1, 2}}, 0, "division by zero"},
	}

	for _, tt := range errTests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MatrixDivided(tt.matrix, tt.div)
			if err == nil || err.Error() != tt.message {
				t.Errorf("expected %q, got %v", tt.message, err)
			}
		})
	}

	_, err := MatrixDivided([][]any{{1}}, 0.0)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestSayMyName(t *testing.T) {
	var buf bytes.Buffer
	if err := SayMyName(&buf, "Walter", "White"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "My name is Walter White\n" {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	SayMyName(&buf, "Bob", "")
	if buf.String() != "My name is Bob \n" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestPrintSquare(t *testing.T) {
	tests := []struct {
		size int
		want string
	}{
		{0, ""},
		{1, "#\n"},
		{3, "###\n###\n###\n"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		if err := PrintSquare(&buf, tt.size); err != nil {
			t.Fatalf("PrintSquare(%d) unexpected error: %v", tt.size, err)
		}
		if buf.String() != tt.want {
			t.Errorf("PrintSquare(%d) = %q, want %q", tt.size, buf.String(), tt.want)
		}
	}

	err := PrintSquare(&bytes.Buffer{}, -1)
	if err == nil || err.Error() != "size must be >= 0" || !errors.Is(err, domain.ErrValue) {
		t.Errorf("expected size value error, got %v", err)
	}
}

func TestTextIndentation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"punctuation", "Hello. How are you? I am fine: thanks.", "Hello.\n\nHow are you?\n\nI am fine:\n\nthanks.\n\n"},
		{"extra spaces", "  First.    Second", "First.\n\nSecond"},
		{"no punctuation", "No punctuation here", "No punctuation here"},
		{"newline strips spaces", "a\n   b", "a\nb"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := TextIndentation(&buf, tt.text); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestFormatArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "0 arguments.\n"},
		{[]string{"Hello"}, "1 argument:\n1: Hello\n"},
		{[]string{"Hello", "Welcome", "To"}, "3 arguments:\n1: Hello\n2: Welcome\n3: To\n"},
	}

	for _, tt := range tests {
		if got := FormatArgs(tt.args); got != tt.want {
			t.Errorf("FormatArgs(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

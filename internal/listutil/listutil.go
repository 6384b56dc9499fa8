// Package listutil holds small list helpers that print to a writer and
// report failures as values instead of panicking on bad input.
package listutil

import (
	"cmp"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// ErrIndexOutOfRange is returned when a count runs past the end of a list
var ErrIndexOutOfRange = errors.New("list index out of range")

// NewInList returns a copy of list with the element at idx replaced.
// An idx outside the list returns an unmodified copy.
func NewInList[T any](list []T, idx int, elem T) []T {
	out := slices.Clone(list)
	if idx >= 0 && idx < len(out) {
		out[idx] = elem
	}
	return out
}

// PrintReversed prints the integers of list one per line, last first
func PrintReversed(w io.Writer, list []int) error {
	for i := len(list) - 1; i >= 0; i-- {
		if _, err := fmt.Fprintf(w, "%d\n", list[i]); err != nil {
			return err
		}
	}
	return nil
}

// SafePrintList prints up to x elements of list on one line and returns
// how many were printed
func SafePrintList(w io.Writer, list []any, x int) int {
	count := 0
	for _, elem := range list[:clamp(x, len(list))] {
		fmt.Fprint(w, elem)
		count++
	}
	fmt.Fprintln(w)
	return count
}

// SafePrintInteger prints v followed by a newline when v is an integer.
// It reports whether anything was printed.
func SafePrintInteger(w io.Writer, v any) bool {
	n, ok := integer(v)
	if !ok {
		return false
	}
	fmt.Fprintf(w, "%d\n", n)
	return true
}

// SafePrintIntegers prints the integers among the first x elements of list
// on one line, skipping other values, and returns how many were printed.
// An x larger than the list prints what exists and returns
// ErrIndexOutOfRange.
func SafePrintIntegers(w io.Writer, list []any, x int) (int, error) {
	count := 0
	for _, elem := range list[:clamp(x, len(list))] {
		if n, ok := integer(elem); ok {
			fmt.Fprintf(w, "%d", n)
			count++
		}
	}
	fmt.Fprintln(w)
	if x > len(list) {
		return count, ErrIndexOutOfRange
	}
	return count, nil
}

// ListDivision divides a[i] by b[i] for the first n positions. A slot that
// cannot be divided prints "out of range", "wrong type" or "division by 0"
// and yields 0.
func ListDivision(w io.Writer, a, b []any, n int) []float64 {
	out := make([]float64, 0, max(n, 0))
	for i := 0; i < n; i++ {
		var q float64
		switch {
		case i >= len(a) || i >= len(b):
			fmt.Fprintln(w, "out of range")
		default:
			num, okA := number(a[i])
			den, okB := number(b[i])
			switch {
			case !okA || !okB:
				fmt.Fprintln(w, "wrong type")
			case den == 0:
				fmt.Fprintln(w, "division by 0")
			default:
				q = num / den
			}
		}
		out = append(out, q)
	}
	return out
}

// FindPeak returns an element not smaller than its neighbours using a
// binary search. ok is false for an empty list.
func FindPeak(list []int) (peak int, ok bool) {
	if len(list) == 0 {
		return 0, false
	}
	lo, hi := 0, len(list)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if list[mid] < list[mid+1] {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return list[lo], true
}

// PrintSorted prints a sorted copy of list as [a, b, c], leaving list as is
func PrintSorted(w io.Writer, list []int) error {
	sorted := slices.Clone(list)
	slices.Sort(sorted)

	parts := make([]string, len(sorted))
	for i, n := range sorted {
		parts[i] = fmt.Sprint(n)
	}
	_, err := fmt.Fprintf(w, "[%s]\n", strings.Join(parts, ", "))
	return err
}

// SecondBiggest returns the second largest value of list.
// ok is false when the list has fewer than two elements.
func SecondBiggest(list []int) (int, bool) {
	if len(list) < 2 {
		return 0, false
	}
	sorted := slices.Clone(list)
	slices.SortFunc(sorted, func(a, b int) int { return cmp.Compare(b, a) })
	return sorted[1], true
}

// Factorial returns n! with 0! and negative n both yielding 1
func Factorial(n int) int {
	if n <= 1 {
		return 1
	}
	return n * Factorial(n-1)
}

func clamp(x, n int) int {
	return min(max(x, 0), n)
}

func integer(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	}
	return 0, false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	i, ok := integer(v)
	return float64(i), ok
}

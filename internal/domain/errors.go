package domain

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrType matches validation errors caused by a value of the wrong type
	ErrType = errors.New("type error")
	// ErrValue matches validation errors caused by an out-of-range value
	ErrValue = errors.New("value error")
	// ErrNotFound is returned when a requested record does not exist
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a record with the same key already exists
	ErrConflict = errors.New("already exists")
)

// ErrorKind classifies a validation failure
type ErrorKind string

const (
	KindTypeError  ErrorKind = "type"
	KindValueError ErrorKind = "value"
)

// ValidationError reports an invalid attribute value
type ValidationError struct {
	Field   string    `json:"field"`
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is lets errors.Is match ErrType and ErrValue
func (e *ValidationError) Is(target error) bool {
	switch target {
	case ErrType:
		return e.Kind == KindTypeError
	case ErrValue:
		return e.Kind == KindValueError
	}
	return false
}

func typeError(field string) error {
	return &ValidationError{
		Field:   field,
		Kind:    KindTypeError,
		Message: fmt.Sprintf("%s must be an integer", field),
	}
}

func valueError(field, constraint string) error {
	return &ValidationError{
		Field:   field,
		Kind:    KindValueError,
		Message: fmt.Sprintf("%s must be %s", field, constraint),
	}
}

// validatePositive checks a dimension (width, height)
func validatePositive(field string, v int) error {
	if v <= 0 {
		return valueError(field, "> 0")
	}
	return nil
}

// validateOffset checks a position coordinate (x, y)
func validateOffset(field string, v int) error {
	if v < 0 {
		return valueError(field, ">= 0")
	}
	return nil
}

// IntegerValue converts a dynamically typed value into an int.
// Go integer kinds are accepted, as are integral float64 values because
// that is how JSON and YAML decoders hand numbers over. Booleans, strings
// and fractional numbers are type errors.
func IntegerValue(field string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int8:
		return int(n), nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case uint8:
		return int(n), nil
	case uint16:
		return int(n), nil
	case uint32:
		return int(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, typeError(field)
		}
		return int(n), nil
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, typeError(field)
		}
		return int(n), nil
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, typeError(field)
		}
		return int(n), nil
	case float32:
		f := float64(n)
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return 0, typeError(field)
		}
		return int(f), nil
	}
	return 0, typeError(field)
}

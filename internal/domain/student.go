package domain

import (
	"encoding/json"
	"fmt"
)

// Student is a simple serializable record
type Student struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
}

// NewStudent creates a student
func NewStudent(firstName, lastName string, age int) *Student {
	return &Student{FirstName: firstName, LastName: lastName, Age: age}
}

// ToJSON returns the student's fields keyed by JSON name.
// A nil attrs returns every field; otherwise only the listed fields that exist.
func (s *Student) ToJSON(attrs []string) map[string]any {
	all := map[string]any{
		"first_name": s.FirstName,
		"last_name":  s.LastName,
		"age":        s.Age,
	}
	if attrs == nil {
		return all
	}
	out := make(map[string]any, len(attrs))
	for _, a := range attrs {
		if v, ok := all[a]; ok {
			out[a] = v
		}
	}
	return out
}

// ReloadFromJSON replaces fields named in data. Unknown keys are ignored.
func (s *Student) ReloadFromJSON(data map[string]any) error {
	next := *s
	for key, raw := range data {
		switch key {
		case "first_name", "last_name":
			str, ok := raw.(string)
			if !ok {
				return &ValidationError{Field: key, Kind: KindTypeError, Message: key + " must be a string"}
			}
			if key == "first_name" {
				next.FirstName = str
			} else {
				next.LastName = str
			}
		case "age":
			age, err := IntegerValue(key, raw)
			if err != nil {
				return err
			}
			next.Age = age
		}
	}
	*s = next
	return nil
}

// ClassToJSON returns the exported fields of v keyed by their JSON names
func ClassToJSON(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%T is not a struct: %w", v, err)
	}
	return out, nil
}

package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"
)

// ReadFile copies the contents of name to w
func ReadFile(w io.Writer, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

// WriteFile truncates name, writes text and returns the number of
// characters written
func WriteFile(name, text string) (int, error) {
	return writeText(name, text, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
}

// AppendWrite appends text to name, creating it if needed, and returns the
// number of characters written
func AppendWrite(name, text string) (int, error) {
	return writeText(name, text, os.O_WRONLY|os.O_CREATE|os.O_APPEND)
}

func writeText(name, text string, flag int) (int, error) {
	f, err := os.OpenFile(name, flag, 0644)
	if err != nil {
		return 0, err
	}
	if _, err := io.WriteString(f, text); err != nil {
		f.Close()
		return 0, fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return 0, err
	}
	return utf8.RuneCountInString(text), nil
}

// SaveJSON writes the JSON representation of v to name
func SaveJSON(v any, name string) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return writeAtomic(name, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// LoadJSON decodes the JSON document in name into v
func LoadJSON(name string, v any) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// AddItems appends items to the JSON list stored in name and saves it back.
// A missing file starts an empty list.
func AddItems(name string, items []string) ([]any, error) {
	var list []any
	err := LoadJSON(name, &list)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if list == nil {
		list = []any{}
	}
	for _, item := range items {
		list = append(list, item)
	}
	if err := SaveJSON(list, name); err != nil {
		return nil, err
	}
	return list, nil
}

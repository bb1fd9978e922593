package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Field is an optional request value that tells an absent key apart from an
// explicit null.  Set is true when the key was present; Value is nil when
// it was null.
type Field[T any] struct {
	Set   bool
	Value *T
}

// Some returns a present, non-null field.
func Some[T any](v T) Field[T] { return Field[T]{Set: true, Value: &v} }

// Null returns a present field holding null.
func Null[T any]() Field[T] { return Field[T]{Set: true} }

// Null reports whether the field was present and null.
func (f Field[T]) Null() bool { return f.Set && f.Value == nil }

// SQLValue is the value bound for the column: nil for null, else the value.
func (f Field[T]) SQLValue() any {
	if f.Value == nil {
		return nil
	}
	return *f.Value
}

func (f *Field[T]) UnmarshalJSON(b []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		f.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	f.Value = &v
	return nil
}

// UnmarshalJSON decodes a request body.  Only a JSON object carries fields;
// any other valid JSON value (array, string, null) yields no fields at all.
// A value of the wrong type is reported as a *json.UnmarshalTypeError naming
// the offending key.
func (f *MovieFields) UnmarshalJSON(b []byte) error {
	*f = MovieFields{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for _, field := range []struct {
		key string
		dst json.Unmarshaler
	}{
		{"title", &f.Title},
		{"description", &f.Description},
		{"rating", &f.Rating},
		{"image", &f.Image},
	} {
		key, dst := field.key, field.dst
		v, ok := raw[key]
		if !ok {
			continue
		}
		if err := dst.UnmarshalJSON(v); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				typeErr.Field = key
				return typeErr
			}
			return err
		}
	}
	return nil
}

package formats

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Undefined stands in for a display value the source never supplied.
const Undefined = "<undefined>"

// RawFormat is one loosely-typed format record as emitted by the metadata
// source (typically decoded yt-dlp JSON). It is read-only input.
type RawFormat map[string]any

// FirstOf returns the first of keys present in raw together with its value.
// A key holding a JSON null still counts as present. When no key is present
// it returns an empty key and def.
func FirstOf(raw RawFormat, def any, keys ...string) (string, any) {
	for _, key := range keys {
		if value, ok := raw[key]; ok {
			return key, value
		}
	}
	return "", def
}

// has reports whether key is present with a non-null value.
func (r RawFormat) has(key string) bool {
	value, ok := r[key]
	return ok && value != nil
}

// codecSet reports whether a codec field names an actual codec.
func (r RawFormat) codecSet(key string) bool {
	value, ok := r[key]
	if !ok || value == nil {
		return false
	}
	if s, ok := value.(string); ok && s == "none" {
		return false
	}
	return true
}

func (r RawFormat) text(key string) (string, error) {
	switch v := r[key].(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	default:
		return "", &FieldTypeError{Key: key, Value: r[key], Want: "string"}
	}
}

func (r RawFormat) number(key string) (float64, error) {
	var (
		f   float64
		err error
	)
	switch v := r[key].(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		f, err = v.Float64()
	default:
		err = fmt.Errorf("unexpected %T", v)
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &FieldTypeError{Key: key, Value: r[key], Want: "number"}
	}
	return f, nil
}

// noteOf resolves the human readable note, falling back to the sentinel.
func noteOf(raw RawFormat, keys ...string) string {
	_, value := FirstOf(raw, Undefined, keys...)
	switch v := value.(type) {
	case nil:
		return Undefined
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

package template

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Document is a decoded infrastructure document or fragment. Nested objects
// are map[string]any and arrays are []any, as produced by JSON decoding.
type Document map[string]any

// Object returns the nested object at path, failing if any step is missing.
func (d Document) Object(path ...string) (map[string]any, error) {
	cur := map[string]any(d)
	for i, key := range path {
		next, ok := cur[key].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("missing object %s", strings.Join(path[:i+1], "."))
		}
		cur = next
	}
	return cur, nil
}

// Ensure returns the nested object at path, creating missing steps.
func (d Document) Ensure(path ...string) map[string]any {
	cur := map[string]any(d)
	for _, key := range path {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			cur[key] = next
		}
		cur = next
	}
	return cur
}

// Clone returns a deep copy.
func (d Document) Clone() Document {
	return Document(cloneValue(map[string]any(d)).(map[string]any))
}

// Encode writes the document as JSON. Keys are sorted, so output is stable.
func (d Document) Encode(w io.Writer, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(map[string]any(d))
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneValue(val)
		}
		return out
	case Document:
		return cloneValue(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}

func appendTo(obj map[string]any, key string, values ...any) {
	list, _ := obj[key].([]any)
	obj[key] = append(list, values...)
}

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNotStructured is returned when a pasted document is neither a JSON
// nor a YAML object or array.
var ErrNotStructured = errors.New("document is not a structured object or array")

// ParseDocument parses a specification document, trying JSON first and
// then YAML. Only objects and arrays are accepted.
func ParseDocument(text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNotStructured
	}

	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		doc = nil
		if yerr := yaml.Unmarshal([]byte(text), &doc); yerr != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotStructured, err)
		}
	}

	doc = normalize(doc)
	switch doc.(type) {
	case map[string]any, []any:
		return doc, nil
	default:
		return nil, ErrNotStructured
	}
}

// normalize rewrites YAML maps with non-string keys (e.g. response codes)
// into map[string]any so the result always encodes as JSON.
func normalize(v any) any {
	switch t := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case map[string]any:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case []any:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}

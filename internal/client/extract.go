package client

import (
	"fmt"
	"strings"
)

// ExtractDisplayValue normalizes an opaque custom-field value decoded from the
// backend into a display string. Option objects carry both "value" and "name";
// "value" wins. Returns nil for a nil input.
func ExtractDisplayValue(value any) *string {
	if value == nil {
		return nil
	}

	if m, ok := value.(map[string]any); ok {
		if v, ok := m["value"]; ok && v != nil {
			return stringPtr(stringify(v))
		}
	}
	if s, ok := value.(string); ok {
		return stringPtr(s)
	}
	if m, ok := value.(map[string]any); ok {
		if v, ok := m["name"]; ok && v != nil {
			return stringPtr(stringify(v))
		}
	}

	return stringPtr(stringify(value))
}

// ExtractListDisplay normalizes a custom-field value that may arrive as a
// list, joining entries with ", ". Strings pass through unchanged, nil entries
// are filtered, and a list that filters down to nothing yields nil.
func ExtractListDisplay(value any) *string {
	if value == nil {
		return nil
	}

	if s, ok := value.(string); ok {
		return stringPtr(s)
	}

	if items, ok := value.([]any); ok {
		var parts []string
		for _, item := range items {
			if item == nil {
				continue
			}
			parts = append(parts, stringify(item))
		}
		if len(parts) == 0 {
			return nil
		}
		return stringPtr(strings.Join(parts, ", "))
	}

	return stringPtr(stringify(value))
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; render integers without a decimal.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func stringPtr(s string) *string { return &s }

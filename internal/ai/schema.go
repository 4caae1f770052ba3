package ai

import "sort"

// Schema is a named JSON Schema sent as the strict response format.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Object builds a closed object schema. Strict mode requires every property
// to be listed as required, so absent values are modelled as "" or [].
func Object(props map[string]any) map[string]any {
	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}
	sort.Strings(required)
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

func String(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func Enum(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values, "description": description}
}

func StringArray(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

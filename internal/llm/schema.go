package llm

// BuildChecklistJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map for the checkbox-extraction output: an array of section objects,
// each with at least one item. Used to validate model output locally.
func BuildChecklistJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name": map[string]any{"type": "string", "minLength": 1},
			"confidence_level": map[string]any{
				"type":    "integer",
				"minimum": 0,
				"maximum": 100,
			},
		},
		"required": []string{"name", "confidence_level"},
	}
	section := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"section": map[string]any{"type": "string", "minLength": 1},
			"items": map[string]any{
				"type":     "array",
				"items":    item,
				"minItems": 1,
			},
		},
		"required": []string{"section", "items"},
	}
	return map[string]any{
		"type":  "array",
		"items": section,
	}
}

// BuildPersonalDetailsJSONSchema returns the schema for the personal-details
// output. No field is required: an unreadable header yields an empty object,
// not a validation failure.
func BuildPersonalDetailsJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"Name":                  map[string]any{"type": "string"},
			"Age":                   map[string]any{"type": "integer", "minimum": 0},
			"Sex":                   map[string]any{"type": "string"},
			"Ref.Doctor":            map[string]any{"type": "string"},
			"Provisional Diagnosis": map[string]any{"type": "string"},
			"H/O Diabetes":          map[string]any{"type": "string"},
			"Any Other Illnesses":   map[string]any{"type": "string"},
		},
	}
}

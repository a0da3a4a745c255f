package llm

// BuildResponseJSONSchema returns a JSON-Schema (draft 2020-12 subset) for
// the JSON-shaped extraction response, as a generic map. Scalar fields must
// be strings; line-item fields may be a string or an ordered string array.
func BuildResponseJSONSchema() map[string]any {
	props := make(map[string]any, len(FieldNames))
	for _, name := range FieldNames {
		if IsListField(name) {
			props[name] = map[string]any{
				"anyOf": []any{
					map[string]any{"type": "string"},
					map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				},
			}
		} else {
			props[name] = map[string]any{"type": "string"}
		}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

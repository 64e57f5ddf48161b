package seo

import "encoding/json"

// ResponseSchema is the JSON schema requested from the model. It carries no
// length bounds: an out-of-range title must still parse so it can be sent
// back as correction feedback.
var ResponseSchema = map[string]any{
	"name":   "seo_metadata",
	"strict": true,
	"schema": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"focusKeyword": map[string]any{
				"type":        "string",
				"description": "The single most important, high-volume keyword that best represents the page's content.",
			},
			"title": map[string]any{
				"type":        "string",
				"description": "A compelling, SEO-friendly page title between 40 and 55 characters long.",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "An engaging meta description between 140 and 155 characters long that encourages clicks from search results.",
			},
		},
		"required":             []string{"focusKeyword", "title", "description"},
		"additionalProperties": false,
	},
}

// ValidationSchema is the schema applied locally before defaulting. Fields
// are optional and may be null: a missing or null value defaults instead of
// failing, so it reaches the length check and gets correction feedback.
// Any other non-string value is rejected.
var ValidationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"focusKeyword": nullableString,
		"title":        nullableString,
		"description":  nullableString,
	},
}

var nullableString = map[string]any{"type": []string{"string", "null"}}

// ResponseSchemaJSON returns ResponseSchema encoded for a ResponseFormat.
func ResponseSchemaJSON() json.RawMessage {
	return mustJSON(ResponseSchema)
}

// ValidationSchemaJSON returns ValidationSchema encoded for local validation.
func ValidationSchemaJSON() json.RawMessage {
	return mustJSON(ValidationSchema)
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

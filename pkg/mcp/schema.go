package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// addMemorySchema declares the add-memory input explicitly. The other
// tools rely on schema inference from their argument structs; this one
// carries guidance text the calling LLM needs to use the quality gate
// well, so it is spelled out.
func addMemorySchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"content": {
				Type: "string",
				Description: "Self-contained memory with full context. " +
					"GOOD: 'User prefers Python over JavaScript for backend services due to better ML library support.' " +
					"BAD: 'likes python' or 'ok got it'",
			},
			"messages": {
				Type:        "array",
				Description: "Raw conversation transcript; the memory store extracts facts itself, bypassing local quality checks",
				Items: &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"role": {
							Type: "string",
							Enum: []any{"user", "assistant"},
						},
						"content": {
							Type: "string",
						},
					},
					Required: []string{"role", "content"},
				},
			},
			"userId": {
				Type:        "string",
				Description: "User ID (defaults to the configured user)",
			},
			"force": {
				Type:        "boolean",
				Description: "Bypass quality checks (use sparingly)",
			},
			"metadata": {
				Type:        "object",
				Description: "Arbitrary metadata stored with the memory",
			},
			"categories": {
				Type:        "array",
				Description: "Categories to attach to the memory",
				Items: &jsonschema.Schema{
					Type: "string",
				},
			},
		},
	}
}

package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// lookupWordTool returns the tool definition for lookup_word
func lookupWordTool() mcp.Tool {
	return mcp.Tool{
		Name:        "lookup_word",
		Description: "Look up an English word in the ECDICT dataset, falling back to the Free Dictionary API. Returns the entry or close spellings.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"word": map[string]interface{}{
					"type":        "string",
					"description": "Word or phrase to look up",
				},
				"show_english": map[string]interface{}{
					"type":        "boolean",
					"description": "Include the English definition",
					"default":     false,
				},
				"show_examples": map[string]interface{}{
					"type":        "boolean",
					"description": "Include usage examples",
					"default":     false,
				},
				"online": map[string]interface{}{
					"type":        "boolean",
					"description": "Skip the local dataset and ask the Free Dictionary API only",
					"default":     false,
				},
				"max_examples": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of examples to return",
					"minimum":     0,
				},
			},
			Required: []string{"word"},
		},
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bastiangx/lango/internal/utils"
	"github.com/bastiangx/lango/pkg/lookup"
	"github.com/mark3labs/mcp-go/mcp"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
)

// handleLookupWord handles the lookup_word tool invocation
func (s *Server) handleLookupWord(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	word, ok := args["word"].(string)
	if !ok || word == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "word parameter is required", map[string]interface{}{
			"param":  "word",
			"reason": "missing or empty",
		})
	}
	if !utils.IsValidQuery(word) {
		return nil, newMCPError(ErrorCodeInvalidParams, "word is not a valid lookup term", map[string]interface{}{
			"param": "word",
			"value": word,
		})
	}

	maxExamples := getIntDefault(args, "max_examples", s.defaults.MaxExamples)
	if maxExamples < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "max_examples must not be negative", map[string]interface{}{
			"param": "max_examples",
			"value": maxExamples,
		})
	}

	online := getBoolDefault(args, "online", false)
	opts := lookup.Options{
		ShowEnglish:  getBoolDefault(args, "show_english", s.defaults.ShowEnglish) || online,
		ShowExamples: getBoolDefault(args, "show_examples", s.defaults.ShowExamples),
		ForceRemote:  online,
		MaxExamples:  maxExamples,
	}

	res, elapsed, err := s.svc.LookupTimed(ctx, word, opts)
	if err != nil {
		s.log.Error("Lookup failed", "word", word, "err", err)
		return nil, newMCPError(ErrorCodeInternalError, "lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"query":      word,
		"elapsed_ms": float64(elapsed.Microseconds()) / 1000,
	}
	switch r := res.(type) {
	case lookup.Found:
		response["status"] = "found"
		response["entry"] = r.Entry
		response["source"] = r.Entry.Source.String()
	case lookup.Suggestions:
		response["status"] = "suggestions"
		response["suggestions"] = r.Words
	default:
		response["status"] = "not_found"
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// newMCPError creates an error the MCP framework reports to the client
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getBoolDefault extracts a boolean parameter with a default value
func getBoolDefault(args map[string]interface{}, key string, defaultValue bool) bool {
	if val, ok := args[key].(bool); ok {
		return val
	}
	return defaultValue
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

package mcpserver

import (
	"errors"
	"fmt"

	"roundhouse/internal/app/accounts"
	"roundhouse/internal/app/rounds"

	"github.com/mark3labs/mcp-go/mcp"
)

func toolResult(data any) *mcp.CallToolResult {
	return mcp.NewToolResultStructuredOnly(data)
}

func toolError(code, message string) *mcp.CallToolResult {
	result := mcp.NewToolResultStructured(
		map[string]any{
			"error": map[string]any{
				"code":    code,
				"message": message,
			},
		},
		fmt.Sprintf("%s: %s", code, message),
	)
	result.IsError = true
	return result
}

func mapDomainError(err error) *mcp.CallToolResult {
	if err == nil {
		return toolError("internal_error", "unknown error")
	}
	if errors.Is(err, accounts.ErrInvalidRequest) {
		return toolError("validation", err.Error())
	}
	return toolError(rounds.Code(err), err.Error())
}

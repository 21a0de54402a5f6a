package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"
)

// WithRecovery contains handler panics so a misbehaving tool cannot take
// down the server; the panic surfaces as an internal error response.
func WithRecovery(handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("tool", request.Params.Name).Interface("panic", r).Msg("tool handler panicked")
				result = nil
				err = fmt.Errorf("internal error: %v", r)
			}
		}()
		return handler(ctx, request)
	}
}

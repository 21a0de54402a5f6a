// Package mcp carries tool-result helpers shared by every tool handler.
package mcp

import (
	"fmt"
	"sort"
	"strings"

	z "github.com/Oudwins/zog"
	"github.com/mark3labs/mcp-go/mcp"
)

// NewToolResultInvalidArgumentError reports a bad or missing argument as a
// structured tool failure, not a protocol error.
func NewToolResultInvalidArgumentError(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("[invalid argument] %s", message))
}

// NewToolResultNotFoundError reports a missing file or sheet as a
// structured tool failure.
func NewToolResultNotFoundError(message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("[not found] %s", message))
}

// NewToolResultZogIssueMap flattens schema validation issues into one
// invalid-argument tool failure.
func NewToolResultZogIssueMap(issues z.ZogIssueMap) *mcp.CallToolResult {
	sanitized := z.Issues.SanitizeMap(issues)

	fields := make([]string, 0, len(sanitized))
	for field := range sanitized {
		if field == "$first" {
			continue
		}
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var parts []string
	for _, field := range fields {
		for _, message := range sanitized[field] {
			parts = append(parts, fmt.Sprintf("%s: %s", field, message))
		}
	}
	return NewToolResultInvalidArgumentError(strings.Join(parts, "; "))
}

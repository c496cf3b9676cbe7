// Package mcp provides an MCP (Model Context Protocol) server adapter for Paygrade.
// It lets AI assistants ask grounded compensation questions against the
// harvested LeetCode corpus.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")

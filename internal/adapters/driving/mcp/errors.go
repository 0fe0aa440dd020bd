// Package mcp provides an MCP (Model Context Protocol) server adapter for jobmatch.
// It lets AI assistants match resumes or free-text queries against the job index.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
)

// SearchJobsInput is the input schema for the search_jobs tool.
type SearchJobsInput struct {
	Query    string `json:"query" jsonschema:"free text or a serialized resume to match against job postings"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"maximum number of postings to return (default 20)"`
	Category string `json:"category,omitempty" jsonschema:"restrict matches to this job_category; falls back to all postings when nothing matches"`
}

// SearchJobsOutput is the output schema for the search_jobs tool.
type SearchJobsOutput struct {
	Jobs  []map[string]string `json:"jobs"`
	Count int                 `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_jobs",
		Description: "Find the job postings most similar to a query or resume, best match first",
	}, s.handleSearchJobs)
}

// handleSearchJobs handles the search_jobs tool invocation.
func (s *Server) handleSearchJobs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchJobsInput,
) (*mcp.CallToolResult, SearchJobsOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchJobsOutput{}, errors.New("query is required")
	}

	opts := domain.QueryOptions{
		TopK:     input.TopK,
		Category: strings.TrimSpace(input.Category),
	}
	results, err := s.ports.Search.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchJobsOutput{}, err
	}

	output := SearchJobsOutput{
		Jobs:  make([]map[string]string, len(results)),
		Count: len(results),
	}
	for i, meta := range results {
		output.Jobs[i] = map[string]string(meta)
	}

	return nil, output, nil
}

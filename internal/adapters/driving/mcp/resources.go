package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/jobmatch/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for jobmatch resources.
	uriScheme = "jobmatch://"
)

// statusInfo is the body of the status resource.
type statusInfo struct {
	Documents  int    `json:"documents"`
	Backend    string `json:"backend,omitempty"`
	Collection string `json:"collection,omitempty"`
	Provider   string `json:"provider,omitempty"`
	Model      string `json:"model,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "status",
		Name:        "status",
		Description: "Size of the job index and the active embedding and storage configuration",
		MIMEType:    "application/json",
	}, s.handleStatusResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "fields",
		Name:        "fields",
		Description: "Metadata keys returned for every job posting",
		MIMEType:    "application/json",
	}, s.handleFieldsResource)
}

// handleStatusResource reports the document count and configuration.
func (s *Server) handleStatusResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	count, err := s.ports.Search.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}

	info := statusInfo{Documents: count}
	if s.ports.Settings != nil {
		settings, err := s.ports.Settings.Resolve()
		if err != nil {
			return nil, fmt.Errorf("resolving settings: %w", err)
		}
		info.Backend = settings.VectorStore.Backend.String()
		info.Collection = settings.VectorStore.Collection
		info.Provider = settings.Embedding.Provider.String()
		info.Model = settings.Embedding.Model
	}

	return jsonResult(req.Params.URI, info)
}

// handleFieldsResource lists the metadata keys of a posting.
func (s *Server) handleFieldsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	return jsonResult(req.Params.URI, domain.MetadataFields())
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

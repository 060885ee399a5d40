// ABOUTME: MCP resources exposing posts as markdown and the tag set as JSON.
// ABOUTME: Posts are addressed as post://{id}; the tag list lives at post://tags.

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/export"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	postURIPrefix = "post://"
	tagsURI       = "post://tags"
)

func (s *Server) registerResources() {
	s.server.AddResource(
		&mcp.Resource{
			URI:         tagsURI,
			Name:        "Tags",
			Description: "Every tag with its post count",
			MIMEType:    "application/json",
		},
		s.handleReadTags,
	)

	s.server.AddResourceTemplate(
		&mcp.ResourceTemplate{
			URITemplate: "post://{id}",
			Name:        "Post",
			Description: "A post rendered as markdown with YAML frontmatter",
			MIMEType:    "text/markdown",
		},
		s.handleReadPost,
	)
}

func (s *Server) handleReadPost(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	ref, ok := strings.CutPrefix(req.Params.URI, postURIPrefix)
	if !ok || ref == "" {
		return nil, fmt.Errorf("invalid resource URI: %s", req.Params.URI)
	}

	p, err := s.resolvePost(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	ep, err := export.FromPost(s.db, p, false)
	if err != nil {
		return nil, fmt.Errorf("failed to export post: %w", err)
	}
	md, err := ep.Markdown()
	if err != nil {
		return nil, fmt.Errorf("failed to render post: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     string(md),
			},
		},
	}, nil
}

func (s *Server) handleReadTags(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	tags, err := db.ListTags(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	views := make([]tagView, 0, len(tags))
	for _, tc := range tags {
		count := tc.Count
		views = append(views, tagView{ID: tc.Tag.ID, Label: tc.Tag.Label, Count: &count})
	}
	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      tagsURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

// ABOUTME: Helpers that shape tool results and JSON views of posts.
// ABOUTME: Errors are reported in-band with IsError set.

package mcp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func textResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

func errorResult(format string, args ...any) *mcp.CallToolResult {
	res := textResult(format, args...)
	res.IsError = true
	return res
}

func jsonResult(v any) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("failed to encode result: %v", err)
	}
	return textResult("%s", data)
}

type tagView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count *int   `json:"count,omitempty"`
}

type postView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Status    string    `json:"status"`
	Tags      []tagView `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTagViews(tags []models.Tag) []tagView {
	out := make([]tagView, 0, len(tags))
	for _, t := range tags {
		out = append(out, tagView{ID: t.ID, Label: t.Label})
	}
	return out
}

func (s *Server) view(p *models.Post, withBody bool) (postView, error) {
	tags, err := db.GetPostTags(s.db, p.ID)
	if err != nil {
		return postView{}, err
	}
	v := postView{
		ID:        p.ID.String(),
		Title:     p.Title,
		Status:    string(p.Status),
		Tags:      toTagViews(tags),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if withBody {
		v.Body = p.Body
	}
	return v, nil
}

// resolvePost accepts a full UUID or a prefix of at least six characters.
func (s *Server) resolvePost(ref string) (*models.Post, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return db.GetPostByID(s.db, id)
	}
	return db.GetPostByPrefix(s.db, ref)
}

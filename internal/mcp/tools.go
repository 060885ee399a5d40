// ABOUTME: MCP tools for post, tag and attachment operations.
// ABOUTME: Maps CLI functionality to the MCP tool interface.

package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/export"
	"github.com/harper/post/internal/models"
	"github.com/harper/post/internal/tagselect"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "add_post",
		Description: "Create a new draft post with title, markdown body and optional tags",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"title": {"type": "string", "description": "Post title"},
				"body": {"type": "string", "description": "Post body (markdown)"},
				"tags": {"type": "array", "items": {"type": "string"}, "description": "Tag labels; unknown tags are created"}
			},
			"required": ["title", "body"]
		}`),
	}, s.handleAddPost)

	s.server.AddTool(&mcp.Tool{
		Name:        "list_posts",
		Description: "List posts, most recently updated first",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"tag": {"type": "string", "description": "Only posts with this tag"},
				"status": {"type": "string", "enum": ["draft", "published"], "description": "Only posts with this status"},
				"limit": {"type": "integer", "description": "Max results", "default": 20}
			}
		}`),
	}, s.handleListPosts)

	s.server.AddTool(&mcp.Tool{
		Name:        "get_post",
		Description: "Get a post with its body and tags",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Post ID or prefix (6+ chars)"}
			},
			"required": ["id"]
		}`),
	}, s.handleGetPost)

	s.server.AddTool(&mcp.Tool{
		Name:        "update_post",
		Description: "Update a post's title, body, status or complete tag set",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Post ID or prefix"},
				"title": {"type": "string", "description": "New title"},
				"body": {"type": "string", "description": "New body"},
				"status": {"type": "string", "enum": ["draft", "published"]},
				"tags": {"type": "array", "items": {"type": "string"}, "description": "Replaces all tags"}
			},
			"required": ["id"]
		}`),
	}, s.handleUpdatePost)

	s.server.AddTool(&mcp.Tool{
		Name:        "delete_post",
		Description: "Delete a post with its tags links and attachments",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Post ID or prefix"}
			},
			"required": ["id"]
		}`),
	}, s.handleDeletePost)

	s.server.AddTool(&mcp.Tool{
		Name:        "publish_post",
		Description: "Mark a draft post as published",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Post ID or prefix"}
			},
			"required": ["id"]
		}`),
	}, s.handlePublishPost)

	s.server.AddTool(&mcp.Tool{
		Name:        "search_posts",
		Description: "Full-text search over post titles and bodies",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "FTS5 query"},
				"limit": {"type": "integer", "description": "Max results", "default": 10}
			},
			"required": ["query"]
		}`),
	}, s.handleSearchPosts)

	s.server.AddTool(&mcp.Tool{
		Name:        "list_tags",
		Description: "List all tags with the number of posts using each",
		InputSchema: json.RawMessage(`{"type": "object", "properties": {}}`),
	}, s.handleListTags)

	s.server.AddTool(&mcp.Tool{
		Name:        "filter_tags",
		Description: "Find tags whose label contains the query, ignoring case",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {"type": "string", "description": "Search text; empty returns every tag"}
			}
		}`),
	}, s.handleFilterTags)

	s.server.AddTool(&mcp.Tool{
		Name:        "toggle_tag",
		Description: "Add a tag to a post if missing, otherwise remove it",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Post ID or prefix"},
				"tag": {"type": "string", "description": "Tag label or ID"}
			},
			"required": ["id", "tag"]
		}`),
	}, s.handleToggleTag)

	s.server.AddTool(&mcp.Tool{
		Name:        "add_attachment",
		Description: "Attach a file to a post",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Post ID or prefix"},
				"filename": {"type": "string", "description": "Filename"},
				"mime_type": {"type": "string", "description": "MIME type"},
				"data": {"type": "string", "description": "Base64 encoded data"}
			},
			"required": ["id", "filename", "mime_type", "data"]
		}`),
	}, s.handleAddAttachment)

	s.server.AddTool(&mcp.Tool{
		Name:        "list_attachments",
		Description: "List attachments of a post",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Post ID or prefix"}
			},
			"required": ["id"]
		}`),
	}, s.handleListAttachments)

	s.server.AddTool(&mcp.Tool{
		Name:        "get_attachment",
		Description: "Get an attachment's content as base64",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Attachment ID or prefix"}
			},
			"required": ["id"]
		}`),
	}, s.handleGetAttachment)

	s.server.AddTool(&mcp.Tool{
		Name:        "export_post",
		Description: "Export a post as JSON or markdown with frontmatter",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"id": {"type": "string", "description": "Post ID or prefix"},
				"format": {"type": "string", "enum": ["json", "md"], "default": "json"}
			},
			"required": ["id"]
		}`),
	}, s.handleExportPost)
}

func labelsToTags(labels []string) []models.Tag {
	tags := make([]models.Tag, 0, len(labels))
	for _, l := range labels {
		if t := models.NewTag(l); t.ID != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func (s *Server) handleAddPost(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Title string   `json:"title"`
		Body  string   `json:"body"`
		Tags  []string `json:"tags"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	p := models.NewPost(params.Title, params.Body)
	if err := p.Validate(); err != nil {
		return errorResult("%v", err), nil
	}
	if err := db.CreatePostWithTags(s.db, p, labelsToTags(params.Tags)); err != nil {
		return errorResult("failed to create post: %v", err), nil
	}

	s.logger.Debug("post created via mcp", "id", p.ID)
	s.mirrorPost(p)
	return textResult("Created post %s", p.ID), nil
}

func (s *Server) handleListPosts(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Tag    string `json:"tag"`
		Status string `json:"status"`
		Limit  int    `json:"limit"`
	}
	params.Limit = 20
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	filter := db.ListFilter{Tag: params.Tag, Limit: params.Limit}
	if params.Status != "" {
		status, err := models.ParseStatus(params.Status)
		if err != nil {
			return errorResult("%v", err), nil
		}
		filter.Status = status
	}

	posts, err := db.ListPosts(s.db, filter)
	if err != nil {
		return errorResult("failed to list posts: %v", err), nil
	}

	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		v, err := s.view(p, false)
		if err != nil {
			return errorResult("failed to load tags: %v", err), nil
		}
		views = append(views, v)
	}
	return jsonResult(views), nil
}

func (s *Server) handleGetPost(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	p, err := s.resolvePost(params.ID)
	if err != nil {
		return errorResult("failed to get post: %v", err), nil
	}
	v, err := s.view(p, true)
	if err != nil {
		return errorResult("failed to load tags: %v", err), nil
	}
	return jsonResult(v), nil
}

func (s *Server) handleUpdatePost(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID     string    `json:"id"`
		Title  *string   `json:"title"`
		Body   *string   `json:"body"`
		Status *string   `json:"status"`
		Tags   *[]string `json:"tags"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	p, err := s.resolvePost(params.ID)
	if err != nil {
		return errorResult("failed to find post: %v", err), nil
	}

	if params.Title != nil {
		p.Title = strings.TrimSpace(*params.Title)
	}
	if params.Body != nil {
		p.Body = *params.Body
	}
	if params.Status != nil {
		status, err := models.ParseStatus(*params.Status)
		if err != nil {
			return errorResult("%v", err), nil
		}
		p.Status = status
	}
	if err := p.Validate(); err != nil {
		return errorResult("%v", err), nil
	}
	p.Touch()

	if err := db.UpdatePost(s.db, p); err != nil {
		return errorResult("failed to update post: %v", err), nil
	}
	if params.Tags != nil {
		if err := db.SetPostTags(s.db, p.ID, labelsToTags(*params.Tags)); err != nil {
			return errorResult("failed to set tags: %v", err), nil
		}
	}

	s.mirrorPost(p)
	return textResult("Updated post %s", p.ID), nil
}

func (s *Server) handleDeletePost(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	p, err := s.resolvePost(params.ID)
	if err != nil {
		return errorResult("failed to find post: %v", err), nil
	}
	if err := db.DeletePost(s.db, p.ID); err != nil {
		return errorResult("failed to delete post: %v", err), nil
	}

	s.logger.Debug("post deleted via mcp", "id", p.ID)
	return textResult("Deleted post %s", p.ID), nil
}

func (s *Server) handleSearchPosts(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}
	params.Limit = 10
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.Query) == "" {
		return errorResult("query cannot be empty"), nil
	}

	results, err := db.SearchPosts(s.db, params.Query, params.Limit)
	if err != nil {
		return errorResult("search failed: %v", err), nil
	}

	views := make([]postView, 0, len(results))
	for _, r := range results {
		v, err := s.view(r.Post, false)
		if err != nil {
			return errorResult("failed to load tags: %v", err), nil
		}
		views = append(views, v)
	}
	return jsonResult(views), nil
}

func (s *Server) handleListTags(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := db.ListTags(s.db)
	if err != nil {
		return errorResult("failed to list tags: %v", err), nil
	}

	views := make([]tagView, 0, len(tags))
	for _, tc := range tags {
		count := tc.Count
		views = append(views, tagView{ID: tc.Tag.ID, Label: tc.Tag.Label, Count: &count})
	}
	return jsonResult(views), nil
}

func (s *Server) handleFilterTags(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		Query string `json:"query"`
	}
	if len(req.Params.Arguments) > 0 {
		if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
			return nil, err
		}
	}

	tags, err := db.AllTags(s.db)
	if err != nil {
		return errorResult("failed to list tags: %v", err), nil
	}
	return jsonResult(toTagViews(tagselect.Filter(tags, params.Query))), nil
}

func (s *Server) handleToggleTag(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID  string `json:"id"`
		Tag string `json:"tag"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	target := models.NewTag(params.Tag)
	if target.ID == "" {
		return errorResult("%v", db.ErrEmptyTag), nil
	}

	p, err := s.resolvePost(params.ID)
	if err != nil {
		return errorResult("failed to find post: %v", err), nil
	}
	current, err := db.GetPostTags(s.db, p.ID)
	if err != nil {
		return errorResult("failed to load tags: %v", err), nil
	}

	ids := make([]string, len(current))
	for i, t := range current {
		ids[i] = t.ID
	}
	next := tagselect.NewSelection(ids...).Toggle(target.ID)

	var tags []models.Tag
	for _, t := range current {
		if next.Has(t.ID) {
			tags = append(tags, t)
		}
	}
	if next.Has(target.ID) {
		tags = append(tags, target)
	}

	if err := db.SetPostTags(s.db, p.ID, tags); err != nil {
		return errorResult("failed to set tags: %v", err), nil
	}
	s.mirrorPost(p)

	verb := "Removed"
	if next.Has(target.ID) {
		verb = "Added"
	}
	return textResult("%s tag %s on post %s; tags now %s", verb, target.ID, p.ID, next), nil
}

func (s *Server) handleAddAttachment(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID       string `json:"id"`
		Filename string `json:"filename"`
		MimeType string `json:"mime_type"`
		Data     string `json:"data"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	p, err := s.resolvePost(params.ID)
	if err != nil {
		return errorResult("failed to find post: %v", err), nil
	}
	data, err := base64.StdEncoding.DecodeString(params.Data)
	if err != nil {
		return errorResult("invalid base64 data: %v", err), nil
	}

	att := models.NewAttachment(p.ID, params.Filename, params.MimeType, data)
	if err := db.CreateAttachment(s.db, att); err != nil {
		return errorResult("failed to create attachment: %v", err), nil
	}
	return textResult("Created attachment %s", att.ID), nil
}

func (s *Server) handleListAttachments(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	p, err := s.resolvePost(params.ID)
	if err != nil {
		return errorResult("failed to find post: %v", err), nil
	}
	atts, err := db.ListPostAttachments(s.db, p.ID)
	if err != nil {
		return errorResult("failed to list attachments: %v", err), nil
	}
	return jsonResult(atts), nil
}

func (s *Server) handleGetAttachment(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	att, err := db.GetAttachmentByPrefix(s.db, params.ID)
	if err != nil {
		return errorResult("failed to get attachment: %v", err), nil
	}
	return jsonResult(map[string]any{
		"id":        att.ID.String(),
		"post_id":   att.PostID.String(),
		"filename":  att.Filename,
		"mime_type": att.MimeType,
		"size":      att.Size(),
		"data":      base64.StdEncoding.EncodeToString(att.Data),
	}), nil
}

func (s *Server) handleExportPost(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID     string `json:"id"`
		Format string `json:"format"`
	}
	params.Format = "json"
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	p, err := s.resolvePost(params.ID)
	if err != nil {
		return errorResult("failed to find post: %v", err), nil
	}

	switch params.Format {
	case "json":
		ep, err := export.FromPost(s.db, p, true)
		if err != nil {
			return errorResult("failed to export post: %v", err), nil
		}
		return jsonResult(ep), nil
	case "md":
		ep, err := export.FromPost(s.db, p, false)
		if err != nil {
			return errorResult("failed to export post: %v", err), nil
		}
		md, err := ep.Markdown()
		if err != nil {
			return errorResult("failed to render markdown: %v", err), nil
		}
		return textResult("%s", md), nil
	}
	return errorResult("unknown format %q", params.Format), nil
}

func (s *Server) handlePublishPost(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return nil, err
	}

	p, err := s.resolvePost(params.ID)
	if err != nil {
		return errorResult("failed to find post: %v", err), nil
	}
	if p.Status == models.StatusPublished {
		return textResult("Post %s is already published", p.ID), nil
	}

	p.Publish()
	if err := db.UpdatePost(s.db, p); err != nil {
		return errorResult("failed to publish post: %v", err), nil
	}
	s.mirrorPost(p)
	return textResult("Published post %s", p.ID), nil
}

// ABOUTME: Tests for MCP tool, resource and prompt handlers.
// ABOUTME: Handlers are called directly against a temporary SQLite database.

package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewServer(conn)
}

func callReq(args string) *mcp.CallToolRequest {
	return &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{Arguments: json.RawMessage(args)},
	}
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func seedPost(t *testing.T, s *Server, title string, labels ...string) *models.Post {
	t.Helper()
	p := models.NewPost(title, "body of "+title)
	require.NoError(t, db.CreatePost(s.db, p))
	for _, l := range labels {
		_, err := db.AddTagToPost(s.db, p.ID, l)
		require.NoError(t, err)
	}
	return p
}

func TestAddPostCreatesTags(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleAddPost(ctx, callReq(`{"title":"Hello","body":"world","tags":["Go","Bubble Tea"]}`))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	posts, err := db.ListPosts(s.db, db.ListFilter{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, models.StatusDraft, posts[0].Status)

	tags, err := db.GetPostTags(s.db, posts[0].ID)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestAddPostRejectsEmptyTitle(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleAddPost(context.Background(), callReq(`{"title":"  ","body":"x"}`))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestListPostsFiltersByTag(t *testing.T) {
	s := newTestServer(t)
	seedPost(t, s, "tagged", "go")
	seedPost(t, s, "untagged")

	res, err := s.handleListPosts(context.Background(), callReq(`{"tag":"go"}`))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var views []postView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "tagged", views[0].Title)
	assert.Empty(t, views[0].Body)
}

func TestListPostsRejectsUnknownStatus(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleListPosts(context.Background(), callReq(`{"status":"archived"}`))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestGetPostByPrefix(t *testing.T) {
	s := newTestServer(t)
	p := seedPost(t, s, "first", "go")

	res, err := s.handleGetPost(context.Background(), callReq(`{"id":"`+p.ID.String()[:8]+`"}`))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var v postView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &v))
	assert.Equal(t, p.ID.String(), v.ID)
	assert.Equal(t, "body of first", v.Body)
	require.Len(t, v.Tags, 1)
	assert.Equal(t, "go", v.Tags[0].ID)
}

func TestUpdatePostReplacesTags(t *testing.T) {
	s := newTestServer(t)
	p := seedPost(t, s, "first", "go", "rust")

	res, err := s.handleUpdatePost(context.Background(), callReq(`{"id":"`+p.ID.String()+`","title":"renamed","tags":["zig"]}`))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	got, err := db.GetPostByID(s.db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	tags, err := db.GetPostTags(s.db, p.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "zig", tags[0].ID)
}

func TestUpdatePostWithoutTagsKeepsThem(t *testing.T) {
	s := newTestServer(t)
	p := seedPost(t, s, "first", "go")

	res, err := s.handleUpdatePost(context.Background(), callReq(`{"id":"`+p.ID.String()+`","body":"new body"}`))
	require.NoError(t, err)
	require.False(t, res.IsError)

	tags, err := db.GetPostTags(s.db, p.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 1)
}

func TestPublishPost(t *testing.T) {
	s := newTestServer(t)
	p := seedPost(t, s, "first")
	ctx := context.Background()

	res, err := s.handlePublishPost(ctx, callReq(`{"id":"`+p.ID.String()+`"}`))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "Published")

	got, err := db.GetPostByID(s.db, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPublished, got.Status)

	res, err = s.handlePublishPost(ctx, callReq(`{"id":"`+p.ID.String()+`"}`))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "already published")
}

func TestDeletePost(t *testing.T) {
	s := newTestServer(t)
	p := seedPost(t, s, "doomed")

	res, err := s.handleDeletePost(context.Background(), callReq(`{"id":"`+p.ID.String()+`"}`))
	require.NoError(t, err)
	require.False(t, res.IsError)

	_, err = db.GetPostByID(s.db, p.ID)
	assert.ErrorIs(t, err, db.ErrPostNotFound)
}

func TestSearchPosts(t *testing.T) {
	s := newTestServer(t)
	seedPost(t, s, "bubbletea tricks")
	seedPost(t, s, "sqlite notes")

	res, err := s.handleSearchPosts(context.Background(), callReq(`{"query":"bubbletea"}`))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	var views []postView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "bubbletea tricks", views[0].Title)
}

func TestSearchPostsEmptyQuery(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleSearchPosts(context.Background(), callReq(`{"query":" "}`))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestListTagsIncludesCounts(t *testing.T) {
	s := newTestServer(t)
	seedPost(t, s, "one", "go")
	seedPost(t, s, "two", "go", "rust")

	res, err := s.handleListTags(context.Background(), callReq(`{}`))
	require.NoError(t, err)

	var views []tagView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &views))
	counts := make(map[string]int)
	for _, v := range views {
		require.NotNil(t, v.Count)
		counts[v.ID] = *v.Count
	}
	assert.Equal(t, map[string]int{"go": 2, "rust": 1}, counts)
}

func TestFilterTagsIgnoresCase(t *testing.T) {
	s := newTestServer(t)
	seedPost(t, s, "one", "Golang", "Rust", "Go Modules")

	res, err := s.handleFilterTags(context.Background(), callReq(`{"query":"GO"}`))
	require.NoError(t, err)

	var views []tagView
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &views))
	var labels []string
	for _, v := range views {
		labels = append(labels, v.Label)
	}
	assert.ElementsMatch(t, []string{"Golang", "Go Modules"}, labels)
}

func TestToggleTagAddsThenRemoves(t *testing.T) {
	s := newTestServer(t)
	p := seedPost(t, s, "one", "go")
	ctx := context.Background()
	args := `{"id":"` + p.ID.String() + `","tag":"Rust"}`

	res, err := s.handleToggleTag(ctx, callReq(args))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))
	assert.Contains(t, resultText(t, res), "Added")

	tags, err := db.GetPostTags(s.db, p.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	res, err = s.handleToggleTag(ctx, callReq(args))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "Removed")

	tags, err = db.GetPostTags(s.db, p.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "go", tags[0].ID)
}

func TestToggleTagRejectsBlank(t *testing.T) {
	s := newTestServer(t)
	p := seedPost(t, s, "one")

	res, err := s.handleToggleTag(context.Background(), callReq(`{"id":"`+p.ID.String()+`","tag":"  "}`))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestAttachmentRoundTrip(t *testing.T) {
	s := newTestServer(t)
	p := seedPost(t, s, "one")
	ctx := context.Background()

	// "aGVsbG8=" is "hello"
	res, err := s.handleAddAttachment(ctx, callReq(`{"id":"`+p.ID.String()+`","filename":"a.txt","mime_type":"text/plain","data":"aGVsbG8="}`))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))
	attID := strings.TrimPrefix(resultText(t, res), "Created attachment ")

	res, err = s.handleListAttachments(ctx, callReq(`{"id":"`+p.ID.String()+`"}`))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "a.txt")

	res, err = s.handleGetAttachment(ctx, callReq(`{"id":"`+attID+`"}`))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))
	assert.Contains(t, resultText(t, res), `"data": "aGVsbG8="`)
}

func TestAddAttachmentRejectsBadBase64(t *testing.T) {
	s := newTestServer(t)
	p := seedPost(t, s, "one")

	res, err := s.handleAddAttachment(context.Background(), callReq(`{"id":"`+p.ID.String()+`","filename":"a","mime_type":"text/plain","data":"%%%"}`))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestExportPostMarkdown(t *testing.T) {
	s := newTestServer(t)
	p := seedPost(t, s, "exported", "go")

	res, err := s.handleExportPost(context.Background(), callReq(`{"id":"`+p.ID.String()+`","format":"md"}`))
	require.NoError(t, err)
	require.False(t, res.IsError, resultText(t, res))

	text := resultText(t, res)
	assert.True(t, strings.HasPrefix(text, "---\n"))
	assert.Contains(t, text, "body of exported")
}

func TestExportPostUnknownFormat(t *testing.T) {
	s := newTestServer(t)
	p := seedPost(t, s, "exported")

	res, err := s.handleExportPost(context.Background(), callReq(`{"id":"`+p.ID.String()+`","format":"pdf"}`))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestReadPostResource(t *testing.T) {
	s := newTestServer(t)
	p := seedPost(t, s, "resource", "go")

	res, err := s.handleReadPost(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "post://" + p.ID.String()},
	})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "text/markdown", res.Contents[0].MIMEType)
	assert.Contains(t, res.Contents[0].Text, "body of resource")
}

func TestReadPostResourceBadURI(t *testing.T) {
	s := newTestServer(t)

	_, err := s.handleReadPost(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "file:///etc/hosts"},
	})
	assert.Error(t, err)
}

func TestTidyTagsPromptListsNearDuplicates(t *testing.T) {
	s := newTestServer(t)
	seedPost(t, s, "one", "golang", "go-lang", "rust")

	res, err := s.getTidyTagsPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{},
	})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)

	text := res.Messages[0].Content.(*mcp.TextContent).Text
	assert.Contains(t, text, "golang")
	assert.Contains(t, text, "go-lang")
	assert.NotContains(t, text, "rust")
}

func TestDraftPostPromptRequiresTopic(t *testing.T) {
	s := newTestServer(t)

	_, err := s.getDraftPostPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Arguments: map[string]string{}},
	})
	assert.Error(t, err)
}

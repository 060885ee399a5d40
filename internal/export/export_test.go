// ABOUTME: Tests for JSON and markdown export and import.
// ABOUTME: Round trips run against a temporary database.

package export

import (
	"path/filepath"
	"testing"

	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownRoundTrip(t *testing.T) {
	in := Post{
		ID:     "0b5c5f7e-8a4e-4c55-9a51-6c5b8a3e7e10",
		Title:  "Hello: World",
		Status: "published",
		Tags:   []string{"Go", "Side Project"},
		Body:   "# Heading\n\nBody text",
	}

	md, err := in.Markdown()
	require.NoError(t, err)
	assert.Contains(t, string(md), "---\n")

	out, err := ParseMarkdown(md, "fallback")
	require.NoError(t, err)
	assert.Equal(t, in.ID, out.ID)
	assert.Equal(t, in.Title, out.Title)
	assert.Equal(t, in.Status, out.Status)
	assert.Equal(t, in.Tags, out.Tags)
	assert.Equal(t, in.Body, out.Body)
}

func TestParseMarkdownWithoutFrontmatter(t *testing.T) {
	p, err := ParseMarkdown([]byte("just text\n"), "my-file")
	require.NoError(t, err)
	assert.Equal(t, "my-file", p.Title)
	assert.Equal(t, "just text", p.Body)
}

func TestParseMarkdownEmptyBody(t *testing.T) {
	_, err := ParseMarkdown([]byte("---\ntitle: x\n---\n\n   \n"), "f")
	assert.ErrorIs(t, err, ErrEmptyBody)
}

func TestParseMarkdownBadFrontmatter(t *testing.T) {
	_, err := ParseMarkdown([]byte("---\ntags: [oops\n---\nbody"), "f")
	assert.Error(t, err)
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "a-b-c", Filename("a/b:c"))
	assert.Equal(t, "untitled", Filename("  "))
}

func TestCollectAndRestore(t *testing.T) {
	src, err := db.Open(filepath.Join(t.TempDir(), "src.db"))
	require.NoError(t, err)
	defer func() { _ = src.Close() }()

	p := models.NewPost("Title", "Body")
	p.Publish()
	require.NoError(t, db.CreatePost(src, p))
	require.NoError(t, db.SetPostTags(src, p.ID, []models.Tag{models.NewTag("Go")}))
	require.NoError(t, db.CreateAttachment(src, models.NewAttachment(p.ID, "a.bin", "application/octet-stream", []byte{1, 2, 3})))

	doc, err := Collect(src, []*models.Post{p})
	require.NoError(t, err)
	require.Len(t, doc.Posts, 1)
	assert.Equal(t, Version, doc.Version)
	assert.Equal(t, []string{"Go"}, doc.Posts[0].Tags)
	require.Len(t, doc.Posts[0].Attachments, 1)

	dst, err := db.Open(filepath.Join(t.TempDir(), "dst.db"))
	require.NoError(t, err)
	defer func() { _ = dst.Close() }()

	restored, err := Restore(dst, doc.Posts[0])
	require.NoError(t, err)
	assert.Equal(t, p.ID, restored.ID)
	assert.Equal(t, models.StatusPublished, restored.Status)

	// Restoring again updates in place.
	_, err = Restore(dst, doc.Posts[0])
	require.NoError(t, err)
	n, err := db.CountPosts(dst, db.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	att, err := db.ListPostAttachments(dst, p.ID)
	require.NoError(t, err)
	assert.Len(t, att, 1)
}

func TestRestoreRejectsBadStatus(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "x.db"))
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	_, err = Restore(conn, Post{Title: "t", Body: "b", Status: "archived"})
	assert.ErrorIs(t, err, models.ErrInvalidStatus)
}

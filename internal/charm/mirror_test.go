// ABOUTME: Tests for copying posts between SQLite and a mirror store.
// ABOUTME: Uses an in-memory store so no charm server is needed.

package charm

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	posts map[string]*PostData
	atts  map[uuid.UUID]*models.Attachment
}

func newMemStore() *memStore {
	return &memStore{
		posts: make(map[string]*PostData),
		atts:  make(map[uuid.UUID]*models.Attachment),
	}
}

func (s *memStore) PushPost(p *models.Post, tags []models.Tag) error {
	s.posts[p.ID.String()] = FromModel(p, tags)
	return nil
}

func (s *memStore) PullPosts() ([]*PostData, error) {
	out := make([]*PostData, 0, len(s.posts))
	for _, p := range s.posts {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (s *memStore) PushAttachment(att *models.Attachment) error {
	s.atts[att.ID] = att
	return nil
}

func (s *memStore) PullAttachments(postID uuid.UUID) ([]*models.Attachment, error) {
	var out []*models.Attachment
	for _, a := range s.atts {
		if postID == uuid.Nil || a.PostID == postID {
			out = append(out, a)
		}
	}
	return out, nil
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "post.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestMirrorPushThenPullIntoEmptyDB(t *testing.T) {
	src := openDB(t)
	store := newMemStore()

	p := models.NewPost("Hello", "world")
	require.NoError(t, db.CreatePost(src, p))
	require.NoError(t, db.SetPostTags(src, p.ID, []models.Tag{models.NewTag("Go")}))
	require.NoError(t, db.CreateAttachment(src, models.NewAttachment(p.ID, "a.txt", "text/plain", []byte("hi"))))

	stats, err := NewMirror(src, store, nil).Push()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Posts)
	assert.Equal(t, 1, stats.Attachments)

	dst := openDB(t)
	stats, err = NewMirror(dst, store, nil).Pull()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Posts)
	assert.Equal(t, 1, stats.Attachments)

	got, err := db.GetPostByID(dst, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", got.Title)

	tags, err := db.GetPostTags(dst, p.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "Go", tags[0].Label)

	metas, err := db.ListPostAttachments(dst, p.ID)
	require.NoError(t, err)
	assert.Len(t, metas, 1)
}

func TestMirrorPullKeepsNewerLocal(t *testing.T) {
	conn := openDB(t)
	store := newMemStore()

	p := models.NewPost("Local", "body")
	require.NoError(t, db.CreatePost(conn, p))

	stale := *p
	stale.Title = "Remote"
	stale.UpdatedAt = p.UpdatedAt.Add(-time.Hour)
	require.NoError(t, store.PushPost(&stale, nil))

	stats, err := NewMirror(conn, store, nil).Pull()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Posts)
	assert.Equal(t, 1, stats.Skipped)

	got, _ := db.GetPostByID(conn, p.ID)
	assert.Equal(t, "Local", got.Title)
}

func TestMirrorPullAppliesNewerRemote(t *testing.T) {
	conn := openDB(t)
	store := newMemStore()

	p := models.NewPost("Local", "body")
	require.NoError(t, db.CreatePost(conn, p))

	fresh := *p
	fresh.Title = "Remote"
	fresh.UpdatedAt = p.UpdatedAt.Add(time.Hour)
	require.NoError(t, store.PushPost(&fresh, []models.Tag{models.NewTag("new")}))

	stats, err := NewMirror(conn, store, nil).Pull()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Posts)

	got, _ := db.GetPostByID(conn, p.ID)
	assert.Equal(t, "Remote", got.Title)
	tags, _ := db.GetPostTags(conn, p.ID)
	require.Len(t, tags, 1)
	assert.Equal(t, "new", tags[0].ID)
}

func TestMirrorPullSkipsOrphanAttachments(t *testing.T) {
	conn := openDB(t)
	store := newMemStore()
	require.NoError(t, store.PushAttachment(models.NewAttachment(uuid.New(), "x", "text/plain", []byte("x"))))

	stats, err := NewMirror(conn, store, nil).Pull()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Attachments)
}

func TestMirrorPullSkipsBadRecords(t *testing.T) {
	conn := openDB(t)
	store := newMemStore()
	store.posts["bad"] = &PostData{ID: "not-a-uuid"}

	stats, err := NewMirror(conn, store, nil).Pull()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
}

func TestMirrorPushTagRefreshesLabel(t *testing.T) {
	conn := openDB(t)
	store := newMemStore()
	m := NewMirror(conn, store, nil)

	tagged := models.NewPost("Tagged", "body")
	other := models.NewPost("Other", "body")
	require.NoError(t, db.CreatePostWithTags(conn, tagged, []models.Tag{models.NewTag("golang")}))
	require.NoError(t, db.CreatePost(conn, other))
	_, err := m.Push()
	require.NoError(t, err)

	require.NoError(t, db.UpsertTag(conn, models.Tag{ID: "golang", Label: "GoLang"}))
	n, err := m.PushTag("golang")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, tags, err := store.posts[tagged.ID.String()].ToModel()
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "GoLang", tags[0].Label)

	dst := openDB(t)
	_, err = NewMirror(dst, store, nil).Pull()
	require.NoError(t, err)
	got, err := db.GetTag(dst, "golang")
	require.NoError(t, err)
	assert.Equal(t, "GoLang", got.Label)
}

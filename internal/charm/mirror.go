// ABOUTME: Copies posts, tags and attachments between SQLite and the charm store.
// ABOUTME: Push overwrites the mirror; pull keeps whichever side was updated last.

package charm

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/post/internal/db"
	"github.com/harper/post/internal/models"
)

// Store is the part of Client the mirror needs.
type Store interface {
	PushPost(p *models.Post, tags []models.Tag) error
	PullPosts() ([]*PostData, error)
	PushAttachment(att *models.Attachment) error
	PullAttachments(postID uuid.UUID) ([]*models.Attachment, error)
}

var _ Store = (*Client)(nil)

type Stats struct {
	Posts       int
	Attachments int
	Skipped     int
}

func (s Stats) String() string {
	return fmt.Sprintf("%d posts, %d attachments, %d unchanged", s.Posts, s.Attachments, s.Skipped)
}

type Mirror struct {
	conn   *sql.DB
	store  Store
	logger *log.Logger
}

func NewMirror(conn *sql.DB, store Store, logger *log.Logger) *Mirror {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Mirror{conn: conn, store: store, logger: logger}
}

// PushPost mirrors one post with its current tags.
func (m *Mirror) PushPost(p *models.Post) error {
	tags, err := db.GetPostTags(m.conn, p.ID)
	if err != nil {
		return fmt.Errorf("load tags: %w", err)
	}
	return m.store.PushPost(p, tags)
}

// PushTag re-mirrors every post carrying the tag, so records hold its current
// label. It returns how many posts were pushed.
func (m *Mirror) PushTag(tagID string) (int, error) {
	posts, err := db.ListPosts(m.conn, db.ListFilter{Tag: tagID})
	if err != nil {
		return 0, fmt.Errorf("list posts: %w", err)
	}
	for i, p := range posts {
		if err := m.PushPost(p); err != nil {
			return i, fmt.Errorf("push post %s: %w", p.ID, err)
		}
	}
	return len(posts), nil
}

// Push writes every local post and attachment to the store.
func (m *Mirror) Push() (Stats, error) {
	var stats Stats

	posts, err := db.ListPosts(m.conn, db.ListFilter{})
	if err != nil {
		return stats, fmt.Errorf("list posts: %w", err)
	}

	for _, p := range posts {
		if err := m.PushPost(p); err != nil {
			return stats, fmt.Errorf("push post %s: %w", p.ID, err)
		}
		stats.Posts++

		metas, err := db.ListPostAttachments(m.conn, p.ID)
		if err != nil {
			return stats, fmt.Errorf("list attachments: %w", err)
		}
		for _, meta := range metas {
			att, err := db.GetAttachment(m.conn, meta.ID)
			if err != nil {
				return stats, fmt.Errorf("load attachment %s: %w", meta.ID, err)
			}
			if err := m.store.PushAttachment(att); err != nil {
				return stats, fmt.Errorf("push attachment %s: %w", att.ID, err)
			}
			stats.Attachments++
		}
	}

	m.logger.Info("push complete", "posts", stats.Posts, "attachments", stats.Attachments)
	return stats, nil
}

// Pull applies remote posts that are missing locally or newer than the
// local copy, then stores attachments whose post exists locally.
func (m *Mirror) Pull() (Stats, error) {
	var stats Stats

	remote, err := m.store.PullPosts()
	if err != nil {
		return stats, fmt.Errorf("pull posts: %w", err)
	}

	for _, rp := range remote {
		p, tags, err := rp.ToModel()
		if err != nil {
			m.logger.Warn("skipping remote post", "id", rp.ID, "err", err)
			stats.Skipped++
			continue
		}

		local, err := db.GetPostByID(m.conn, p.ID)
		switch {
		case errors.Is(err, db.ErrPostNotFound):
		case err != nil:
			return stats, fmt.Errorf("load local post %s: %w", p.ID, err)
		case !p.UpdatedAt.After(local.UpdatedAt.Truncate(time.Millisecond)):
			stats.Skipped++
			continue
		}

		if err := db.UpsertPost(m.conn, p); err != nil {
			return stats, fmt.Errorf("store post %s: %w", p.ID, err)
		}
		if err := db.SetPostTags(m.conn, p.ID, tags); err != nil {
			return stats, fmt.Errorf("store tags for %s: %w", p.ID, err)
		}
		m.logger.Debug("pulled post", "id", p.ID, "title", p.Title)
		stats.Posts++
	}

	atts, err := m.store.PullAttachments(uuid.Nil)
	if err != nil {
		return stats, fmt.Errorf("pull attachments: %w", err)
	}
	for _, att := range atts {
		if _, err := db.GetPostByID(m.conn, att.PostID); err != nil {
			m.logger.Debug("attachment without local post", "id", att.ID, "post", att.PostID)
			continue
		}
		if err := db.UpsertAttachment(m.conn, att); err != nil {
			return stats, fmt.Errorf("store attachment %s: %w", att.ID, err)
		}
		stats.Attachments++
	}

	m.logger.Info("pull complete", "posts", stats.Posts, "attachments", stats.Attachments, "skipped", stats.Skipped)
	return stats, nil
}

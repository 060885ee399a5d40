// ABOUTME: Post mirror operations on Charm KV storage.
// ABOUTME: Uses type-prefixed keys (post:uuid) with tags stored inline.

package charm

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harper/post/internal/models"
)

const (
	// PostPrefix is the key prefix for posts.
	PostPrefix = "post:"
)

var ErrPostNotFound = errors.New("post not found in charm store")

type TagData struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// PostData is a post as stored in charm KV. Times are Unix milliseconds.
type PostData struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Status    string    `json:"status"`
	Tags      []TagData `json:"tags,omitempty"`
	CreatedAt int64     `json:"created_at"`
	UpdatedAt int64     `json:"updated_at"`
}

func (p *PostData) ToModel() (*models.Post, []models.Tag, error) {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("parse post ID: %w", err)
	}
	status, err := models.ParseStatus(p.Status)
	if err != nil {
		status = models.StatusDraft
	}

	tags := make([]models.Tag, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, models.Tag{ID: t.ID, Label: t.Label})
	}

	return &models.Post{
		ID:        id,
		Title:     p.Title,
		Body:      p.Body,
		Status:    status,
		CreatedAt: time.UnixMilli(p.CreatedAt),
		UpdatedAt: time.UnixMilli(p.UpdatedAt),
	}, tags, nil
}

func FromModel(p *models.Post, tags []models.Tag) *PostData {
	data := &PostData{
		ID:        p.ID.String(),
		Title:     p.Title,
		Body:      p.Body,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt.UnixMilli(),
		UpdatedAt: p.UpdatedAt.UnixMilli(),
	}
	for _, t := range tags {
		data.Tags = append(data.Tags, TagData{ID: t.ID, Label: t.Label})
	}
	return data
}

func postKey(id uuid.UUID) []byte {
	return []byte(PostPrefix + id.String())
}

// PushPost writes p and its tags, replacing any stored copy.
func (c *Client) PushPost(p *models.Post, tags []models.Tag) error {
	encoded, err := json.Marshal(FromModel(p, tags))
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}
	return c.Set(postKey(p.ID), encoded)
}

func (c *Client) GetPost(id uuid.UUID) (*PostData, error) {
	raw, err := c.Get(postKey(id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	var data PostData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("unmarshal post: %w", err)
	}
	return &data, nil
}

// scanPrefix calls fn with the value of every key under prefix.
func (c *Client) scanPrefix(prefix []byte, fn func(val []byte) error) error {
	return c.DoReadOnly(func(k *kv.KV) error {
		return k.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.PrefetchValues = true
			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if err := it.Item().Value(fn); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// PullPosts returns every stored post, most recently updated first.
// Records that fail to decode are skipped.
func (c *Client) PullPosts() ([]*PostData, error) {
	var posts []*PostData
	err := c.scanPrefix([]byte(PostPrefix), func(val []byte) error {
		var pd PostData
		if err := json.Unmarshal(val, &pd); err != nil {
			c.logger.Warn("skipping undecodable post", "err", err)
			return nil
		}
		posts = append(posts, &pd)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].UpdatedAt > posts[j].UpdatedAt
	})
	return posts, nil
}

// DeletePost removes a post and its attachments from the store.
func (c *Client) DeletePost(id uuid.UUID) error {
	if err := c.deleteAttachmentsByPost(id); err != nil {
		return fmt.Errorf("delete attachments: %w", err)
	}

	if err := c.Delete(postKey(id)); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

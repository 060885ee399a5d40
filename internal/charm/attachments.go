// ABOUTME: Attachment mirror operations on Charm KV storage.
// ABOUTME: Uses type-prefixed keys (attachment:uuid) with base64 blob data.

package charm

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/charm/kv"
	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harper/post/internal/models"
)

const (
	// AttachmentPrefix is the key prefix for attachments.
	AttachmentPrefix = "attachment:"
)

var ErrAttachmentNotFound = errors.New("attachment not found in charm store")

type AttachmentData struct {
	ID        string `json:"id"`
	PostID    string `json:"post_id"`
	Filename  string `json:"filename"`
	MimeType  string `json:"mime_type"`
	Data      string `json:"data"` // base64
	CreatedAt int64  `json:"created_at"`
}

func (a *AttachmentData) ToModel() (*models.Attachment, error) {
	id, err := uuid.Parse(a.ID)
	if err != nil {
		return nil, fmt.Errorf("parse attachment ID: %w", err)
	}
	postID, err := uuid.Parse(a.PostID)
	if err != nil {
		return nil, fmt.Errorf("parse post ID: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil, fmt.Errorf("decode attachment data: %w", err)
	}
	return &models.Attachment{
		ID:        id,
		PostID:    postID,
		Filename:  a.Filename,
		MimeType:  a.MimeType,
		Data:      data,
		CreatedAt: time.UnixMilli(a.CreatedAt),
	}, nil
}

func FromAttachmentModel(att *models.Attachment) *AttachmentData {
	return &AttachmentData{
		ID:        att.ID.String(),
		PostID:    att.PostID.String(),
		Filename:  att.Filename,
		MimeType:  att.MimeType,
		Data:      base64.StdEncoding.EncodeToString(att.Data),
		CreatedAt: att.CreatedAt.UnixMilli(),
	}
}

func attachmentKey(id uuid.UUID) []byte {
	return []byte(AttachmentPrefix + id.String())
}

func (c *Client) PushAttachment(att *models.Attachment) error {
	encoded, err := json.Marshal(FromAttachmentModel(att))
	if err != nil {
		return fmt.Errorf("marshal attachment: %w", err)
	}
	return c.Set(attachmentKey(att.ID), encoded)
}

// PullAttachments returns every stored attachment. Pass uuid.Nil for all
// posts, or a post ID to narrow the result.
func (c *Client) PullAttachments(postID uuid.UUID) ([]*models.Attachment, error) {
	var out []*models.Attachment
	err := c.scanPrefix([]byte(AttachmentPrefix), func(val []byte) error {
		var ad AttachmentData
		if err := json.Unmarshal(val, &ad); err != nil {
			c.logger.Warn("skipping undecodable attachment", "err", err)
			return nil
		}
		if postID != uuid.Nil && ad.PostID != postID.String() {
			return nil
		}
		att, err := ad.ToModel()
		if err != nil {
			c.logger.Warn("skipping invalid attachment", "id", ad.ID, "err", err)
			return nil
		}
		out = append(out, att)
		return nil
	})
	return out, err
}

func (c *Client) DeleteAttachment(id uuid.UUID) error {
	if err := c.Delete(attachmentKey(id)); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}
	return nil
}

// deleteAttachmentsByPost removes every attachment of a post in one write.
func (c *Client) deleteAttachmentsByPost(postID uuid.UUID) error {
	attachments, err := c.PullAttachments(postID)
	if err != nil {
		return err
	}
	if len(attachments) == 0 {
		return nil
	}

	return c.Do(func(k *kv.KV) error {
		for _, att := range attachments {
			if err := k.Delete(attachmentKey(att.ID)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
}

// ABOUTME: Post model representing a markdown post with publication status.
// ABOUTME: Provides constructor, validation and lifecycle methods for posts.

package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

var (
	ErrEmptyTitle    = errors.New("post title cannot be empty")
	ErrEmptyBody     = errors.New("post body cannot be empty")
	ErrInvalidStatus = errors.New("invalid post status")
)

type Post struct {
	ID        uuid.UUID
	Title     string
	Body      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewPost(title, body string) *Post {
	now := time.Now()
	return &Post{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		Body:      body,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (p *Post) Touch() {
	p.UpdatedAt = time.Now()
}

// Publish marks the post published. Publishing twice is a no-op.
func (p *Post) Publish() {
	if p.Status == StatusPublished {
		return
	}
	p.Status = StatusPublished
	p.Touch()
}

func (p *Post) Validate() error {
	return ValidateDraft(p.Title, p.Body)
}

// ValidateDraft checks the fields every post needs before it can be saved.
func ValidateDraft(title, body string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(body) == "" {
		return ErrEmptyBody
	}
	return nil
}

func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDraft:
		return StatusDraft, nil
	case StatusPublished:
		return StatusPublished, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

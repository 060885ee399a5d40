// ABOUTME: Tests for Post model constructor, validation and publishing.
// ABOUTME: Validates UUID generation, timestamps and status transitions.

package models

import (
	"errors"
	"testing"
	"time"
)

func TestNewPost(t *testing.T) {
	title := "Test Post"
	body := "This is test content"

	post := NewPost(title, body)

	if post.ID.String() == "" {
		t.Error("expected UUID to be generated")
	}
	if post.Title != title {
		t.Errorf("expected title %q, got %q", title, post.Title)
	}
	if post.Body != body {
		t.Errorf("expected body %q, got %q", body, post.Body)
	}
	if post.Status != StatusDraft {
		t.Errorf("expected new post to be a draft, got %q", post.Status)
	}
	if post.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
	if post.UpdatedAt.IsZero() {
		t.Error("expected UpdatedAt to be set")
	}
}

func TestPostTouch(t *testing.T) {
	post := NewPost("Test", "Content")
	originalUpdated := post.UpdatedAt

	time.Sleep(time.Millisecond)
	post.Touch()

	if !post.UpdatedAt.After(originalUpdated) {
		t.Error("expected UpdatedAt to be updated")
	}
}

func TestPostPublish(t *testing.T) {
	post := NewPost("Test", "Content")
	post.Publish()
	if post.Status != StatusPublished {
		t.Fatalf("expected published, got %q", post.Status)
	}

	stamp := post.UpdatedAt
	time.Sleep(time.Millisecond)
	post.Publish()
	if !post.UpdatedAt.Equal(stamp) {
		t.Error("expected second publish to leave UpdatedAt alone")
	}
}

func TestValidateDraft(t *testing.T) {
	if err := ValidateDraft("  ", "body"); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	if err := ValidateDraft("title", "\n\t"); !errors.Is(err, ErrEmptyBody) {
		t.Errorf("expected ErrEmptyBody, got %v", err)
	}
	if err := ValidateDraft("title", "body"); err != nil {
		t.Errorf("expected valid draft, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Published ")
	if err != nil || s != StatusPublished {
		t.Errorf("expected published, got %q (%v)", s, err)
	}
	if _, err := ParseStatus("archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}

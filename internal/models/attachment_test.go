// ABOUTME: Tests for Attachment model.
// ABOUTME: Covers field population and filename clean-up.

package models

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
)

func TestNewAttachmentFields(t *testing.T) {
	postID := uuid.New()
	data := []byte("fake png content")

	att := NewAttachment(postID, "cover.png", "image/png", data)

	if att.ID == uuid.Nil {
		t.Error("expected an ID to be generated")
	}
	if att.PostID != postID {
		t.Errorf("post ID = %v, want %v", att.PostID, postID)
	}
	if att.MimeType != "image/png" {
		t.Errorf("mime type = %q", att.MimeType)
	}
	if !bytes.Equal(att.Data, data) || att.Size() != len(data) {
		t.Errorf("data or size mismatch: %d bytes", att.Size())
	}
	if att.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestNewAttachmentStripsDirectories(t *testing.T) {
	cases := map[string]string{
		"cover.png":            "cover.png",
		"drafts/cover.png":     "cover.png",
		"../../etc/passwd":     "passwd",
		"/tmp/uploads/a b.txt": "a b.txt",
	}
	for in, want := range cases {
		if got := NewAttachment(uuid.New(), in, "text/plain", nil).Filename; got != want {
			t.Errorf("NewAttachment(%q).Filename = %q, want %q", in, got, want)
		}
	}
}

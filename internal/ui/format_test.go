// ABOUTME: Tests for terminal formatting functions.
// ABOUTME: Checks post, tag and attachment output plus markdown rendering.

package ui

import (
	"strings"
	"testing"

	"github.com/harper/post/internal/models"
)

func TestFormatPostListItem(t *testing.T) {
	p := models.NewPost("Test Post", "body")
	tags := []models.Tag{models.NewTag("Important"), models.NewTag("work")}

	output := FormatPostListItem(p, tags)

	if !strings.Contains(output, p.ID.String()[:6]) {
		t.Error("expected output to contain ID prefix")
	}
	if !strings.Contains(output, "Test Post") {
		t.Error("expected output to contain title")
	}
	if !strings.Contains(output, "Important") {
		t.Error("expected output to contain tag label")
	}
	if !strings.Contains(output, "draft") {
		t.Error("expected output to contain status")
	}
}

func TestFormatPostHeaderPublished(t *testing.T) {
	p := models.NewPost("Launch", "body")
	p.Publish()

	output := FormatPostHeader(p, nil)
	if !strings.Contains(output, "published") {
		t.Error("expected published badge")
	}
	if strings.Contains(output, "Tags:") {
		t.Error("expected no tags line when post has no tags")
	}
}

func TestFormatBody(t *testing.T) {
	output, err := FormatBody("# Hello\n\nThis is **bold** text.")
	if err != nil {
		t.Fatalf("failed to format body: %v", err)
	}
	if output == "" {
		t.Error("expected non-empty output")
	}
}

func TestFormatTagList(t *testing.T) {
	output := FormatTagList([]TagCount{
		{ID: "work", Label: "Work", Count: 5},
		{ID: "side-project", Label: "Side Project", Count: 3},
	})

	if !strings.Contains(output, "Work") {
		t.Error("expected output to contain 'Work'")
	}
	if !strings.Contains(output, "side-project") {
		t.Error("expected output to contain tag id")
	}
	if !strings.Contains(output, "(5)") {
		t.Error("expected output to contain count")
	}
}

func TestFormatAttachmentListShortID(t *testing.T) {
	output := FormatAttachmentList([]AttachmentInfo{{ID: "abc", Filename: "a.png", MimeType: "image/png", Size: 10}})
	if !strings.Contains(output, "a.png") {
		t.Error("expected filename")
	}
}

// ABOUTME: Tests for Tag model.
// ABOUTME: Validates label cleanup and identifier derivation.

package models

import "testing"

func TestNewTag(t *testing.T) {
	tag := NewTag("TestTag")

	if tag.ID != "testtag" {
		t.Errorf("expected lowercase id 'testtag', got %q", tag.ID)
	}
	if tag.Label != "TestTag" {
		t.Errorf("expected label to keep casing, got %q", tag.Label)
	}
}

func TestNewTagWithSpaces(t *testing.T) {
	tag := NewTag("  Go   Tips  ")

	if tag.Label != "Go Tips" {
		t.Errorf("expected collapsed label 'Go Tips', got %q", tag.Label)
	}
	if tag.ID != "go-tips" {
		t.Errorf("expected id 'go-tips', got %q", tag.ID)
	}
}

func TestTagIDMatchesAcrossCasing(t *testing.T) {
	if TagID("Go Tips") != TagID("go  tips") {
		t.Error("expected labels differing only in case and spacing to share an id")
	}
	if TagID("   ") != "" {
		t.Error("expected blank label to produce empty id")
	}
}

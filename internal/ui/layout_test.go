// ABOUTME: Tests for the page shell layout.
// ABOUTME: Verifies navbar, body, footer and status placement.

package ui

import (
	"strings"
	"testing"
)

func TestPageRenderOrder(t *testing.T) {
	p := Page{
		Title:  "New post",
		Nav:    []string{"Posts", "New"},
		Active: 1,
		Footer: "ctrl+s save",
	}
	out := p.Render("BODY", 60)

	for _, want := range []string{AppName, "Posts", "New", "New post", "BODY", "ctrl+s save"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
	if strings.Index(out, "BODY") > strings.Index(out, "ctrl+s save") {
		t.Error("expected body before footer")
	}
	if strings.Index(out, "Posts") > strings.Index(out, "BODY") {
		t.Error("expected navbar before body")
	}
}

func TestPageRenderStatus(t *testing.T) {
	out := Page{Footer: "hints", Status: "title is required"}.Render("", 0)
	if !strings.Contains(out, "title is required") {
		t.Error("expected status message in footer")
	}
	if strings.Index(out, "title is required") > strings.Index(out, "hints") {
		t.Error("expected status above key hints")
	}
}

// ABOUTME: Helpers shared by the commands that create and edit posts.
// ABOUTME: Covers $EDITOR round-trips, compose screen options and tag warnings.

package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/harper/post/internal/compose"
	"github.com/harper/post/internal/models"
	"github.com/harper/post/internal/tagselect"
	"github.com/harper/post/internal/ui"
)

// similarTagDistance is the edit distance under which a new tag is reported
// as a probable duplicate of an existing one.
const similarTagDistance = 2

var navItems = []string{"New", "Edit"}

const (
	navNew = iota
	navEdit
)

func openEditor(initial string) (string, error) {
	editor := appConfig.Editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vim"
	}

	tmpFile, err := os.CreateTemp("", "post-*.md")
	if err != nil {
		return "", err
	}
	defer func() {
		_ = os.Remove(tmpFile.Name())
	}()

	if initial != "" {
		if _, err := tmpFile.WriteString(initial); err != nil {
			_ = tmpFile.Close()
			return "", fmt.Errorf("failed to write initial content: %w", err)
		}
	}
	if err := tmpFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}

	cmd := exec.Command(editor, tmpFile.Name()) //nolint:gosec // Launching $EDITOR is expected CLI behavior
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(tmpFile.Name())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func selectorConfig(title string) tagselect.Config {
	return tagselect.Config{
		Title:              title,
		PageSize:           appConfig.Selector.PageSize,
		ResetQueryOnExpand: appConfig.Selector.ResetQueryOnExpand,
	}
}

func composeOptions(heading string, active int) compose.Options {
	return compose.Options{
		Heading:  heading,
		Nav:      navItems,
		Active:   active,
		Selector: selectorConfig("Tags"),
		Logger:   logger,
	}
}

// warnSimilarTags prints a warning for each tag in chosen that is new and
// close to one in existing.
func warnSimilarTags(existing, chosen []models.Tag) {
	known := make(map[string]bool, len(existing))
	for _, t := range existing {
		known[t.ID] = true
	}
	for _, t := range chosen {
		if known[t.ID] {
			continue
		}
		for _, near := range tagselect.Similar(existing, t.Label, similarTagDistance) {
			fmt.Fprintln(os.Stderr, ui.Warning(fmt.Sprintf("new tag %q looks like existing tag %q", t.Label, near.Label)))
		}
	}
}

func sameTags(a, b []models.Tag) bool {
	return tagSelection(a).Equal(tagSelection(b))
}

func tagSelection(tags []models.Tag) tagselect.Selection {
	ids := make([]string, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return tagselect.NewSelection(ids...)
}

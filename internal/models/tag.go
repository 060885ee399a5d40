// ABOUTME: Tag model pairing a stable identifier with a display label.
// ABOUTME: Identifiers are derived from labels: lowercased, whitespace folded to dashes.

package models

import "strings"

type Tag struct {
	ID    string
	Label string
}

// NewTag builds a tag from user input. The label keeps its casing; the ID
// does not, so "Go Tips" and "go tips" name the same tag.
func NewTag(label string) Tag {
	label = strings.Join(strings.Fields(label), " ")
	return Tag{
		ID:    TagID(label),
		Label: label,
	}
}

// TagID returns the identifier a label maps to.
func TagID(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), "-"))
}

// ABOUTME: Pure filtering and near-match helpers over an ordered tag set.
// ABOUTME: Matching is a case-folded substring test against tag labels.

package tagselect

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/harper/post/internal/models"
	"golang.org/x/text/cases"
)

// Filter returns the tags whose label contains query, ignoring case, in
// their original order. An empty query returns every tag. The result is a
// fresh slice; tags is never modified.
func Filter(tags []models.Tag, query string) []models.Tag {
	if query == "" {
		return append([]models.Tag(nil), tags...)
	}

	// Full Unicode case folding, so "ss" matches "Straße".
	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]models.Tag, 0, len(tags))
	for _, t := range tags {
		if strings.Contains(fold.String(t.Label), needle) {
			out = append(out, t)
		}
	}
	return out
}

// Similar returns tags whose label is within maxDistance edits of label but
// which are not the same tag. Used to warn about near-duplicates such as
// "golang" vs "go-lang" before a new tag is created.
func Similar(tags []models.Tag, label string, maxDistance int) []models.Tag {
	want := models.NewTag(label)
	if want.ID == "" {
		return nil
	}

	var out []models.Tag
	for _, t := range tags {
		if t.ID == want.ID {
			continue
		}
		if levenshtein.ComputeDistance(t.ID, want.ID) <= maxDistance {
			out = append(out, t)
		}
	}
	return out
}

// ABOUTME: Tests for the bubbletea selector model and the picker.
// ABOUTME: Keys are sent as synthetic tea.KeyMsg values.

package tagselect

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harper/post/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(m tea.Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(m tea.Model, k tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: k})
	return cmd
}

func TestModelTypingFilters(t *testing.T) {
	m := NewModel(Props{Tags: sampleTags()}, Config{})
	typeText(m, "al")

	assert.Equal(t, "al", m.Selector().Query())
	assert.Equal(t, []string{"a"}, ids(m.Selector().Filtered()))
	assert.Contains(t, m.View(), "Alpha")
	assert.NotContains(t, m.View(), "Beta")
}

func TestModelSpaceIsQueryText(t *testing.T) {
	tags := []models.Tag{models.NewTag("open source"), models.NewTag("opera")}
	m := NewModel(Props{Tags: tags}, Config{})
	typeText(m, "open ")
	assert.Equal(t, "open ", m.Selector().Query())
	assert.Equal(t, []string{"open-source"}, ids(m.Selector().Filtered()))
}

func TestModelEnterTogglesCursorTag(t *testing.T) {
	p := newPicker(sampleTags(), Selection{}, Config{})

	press(p, tea.KeyEnter)
	assert.Equal(t, []string{"a"}, p.selected.IDs())
	assert.True(t, p.model.Selector().IsSelected("a"))

	press(p, tea.KeyEnter)
	assert.Equal(t, 0, p.selected.Len())
}

func TestModelCursorMovement(t *testing.T) {
	p := newPicker(sampleTags(), NewSelection("b"), Config{})

	press(p, tea.KeyDown)
	assert.Equal(t, 1, p.model.Cursor())
	press(p, tea.KeyDown)
	assert.Equal(t, 1, p.model.Cursor(), "cursor stops at the last row")

	press(p, tea.KeyEnter)
	assert.Equal(t, 0, p.selected.Len())

	press(p, tea.KeyCtrlP)
	assert.Equal(t, 0, p.model.Cursor())
	press(p, tea.KeyUp)
	assert.Equal(t, 0, p.model.Cursor())
}

func TestModelQueryChangeResetsCursor(t *testing.T) {
	p := newPicker(sampleTags(), Selection{}, Config{})
	press(p, tea.KeyDown)
	require.Equal(t, 1, p.model.Cursor())

	typeText(p, "a")
	assert.Equal(t, 0, p.model.Cursor())
}

func TestModelEnterWithNoMatchesDoesNothing(t *testing.T) {
	p := newPicker(sampleTags(), NewSelection("b"), Config{})
	typeText(p, "zzz")
	press(p, tea.KeyEnter)
	assert.Equal(t, []string{"b"}, p.selected.IDs())
	assert.Contains(t, p.View(), `no tags match "zzz"`)
}

func TestModelExpandShowsSettings(t *testing.T) {
	p := newPicker(sampleTags(), NewSelection("b"), Config{})
	typeText(p, "al")

	press(p, tea.KeyCtrlE)
	assert.True(t, p.model.Selector().Expanded())
	assert.Equal(t, "al", p.model.Selector().Query())
	assert.Contains(t, p.View(), "Selected: Beta")

	press(p, tea.KeyCtrlE)
	assert.False(t, p.model.Selector().Expanded())
	assert.NotContains(t, p.View(), "Selected:")
}

func TestModelExpandResetsInputWhenConfigured(t *testing.T) {
	m := NewModel(Props{Tags: sampleTags()}, Config{ResetQueryOnExpand: true})
	typeText(m, "al")
	press(m, tea.KeyCtrlE)

	assert.Equal(t, "", m.Selector().Query())
	assert.Equal(t, "", m.input.Value())
	assert.Len(t, m.Selector().Filtered(), 2)
}

func TestModelBlurredIgnoresKeys(t *testing.T) {
	m := NewModel(Props{Tags: sampleTags()}, Config{})
	m.Blur()
	typeText(m, "al")
	press(m, tea.KeyCtrlE)
	assert.Equal(t, "", m.Selector().Query())
	assert.False(t, m.Selector().Expanded())
}

func TestModelEmptyTagSet(t *testing.T) {
	m := NewModel(Props{}, Config{})
	press(m, tea.KeyEnter)
	press(m, tea.KeyDown)
	assert.Equal(t, 0, m.Cursor())
	assert.Contains(t, m.View(), "no tags yet")
}

func TestModelPaging(t *testing.T) {
	var tags []models.Tag
	for _, l := range []string{"t1", "t2", "t3", "t4", "t5"} {
		tags = append(tags, models.NewTag(l))
	}
	m := NewModel(Props{Tags: tags}, Config{PageSize: 2})
	assert.Contains(t, m.View(), "3 more")

	for i := 0; i < 4; i++ {
		press(m, tea.KeyDown)
	}
	view := m.View()
	assert.Contains(t, view, "t5")
	assert.NotContains(t, view, "t1")
}

func TestPickerQuitKeys(t *testing.T) {
	p := newPicker(sampleTags(), Selection{}, Config{})
	cmd := press(p, tea.KeyCtrlS)
	require.NotNil(t, cmd)
	assert.True(t, p.confirmed)

	p = newPicker(sampleTags(), Selection{}, Config{})
	cmd = press(p, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.True(t, p.cancelled)
	assert.False(t, p.confirmed)
}

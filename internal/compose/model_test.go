// ABOUTME: Tests for the compose model driven by synthetic key messages.
// ABOUTME: Checks field focus, tag toggling and submit or cancel.

package compose

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harper/post/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog() []models.Tag {
	return []models.Tag{
		{ID: "a", Label: "Alpha"},
		{ID: "b", Label: "Beta"},
	}
}

func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func keyMsg(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestComposeSubmit(t *testing.T) {
	m := New(Draft{}, catalog(), Options{})

	send(m, runes("Hello"))
	send(m, keyMsg(tea.KeyEnter))
	require.Equal(t, fieldBody, m.focus)
	send(m, runes("Some body"))

	send(m, keyMsg(tea.KeyTab))
	require.Equal(t, fieldTags, m.focus)
	send(m, runes("al"))
	send(m, keyMsg(tea.KeyEnter))
	assert.Equal(t, []string{"a"}, m.Selected().IDs())

	cmd := send(m, keyMsg(tea.KeyCtrlS))
	require.NotNil(t, cmd)

	res := m.Result()
	assert.True(t, res.Submitted)
	assert.Equal(t, "Hello", res.Draft.Title)
	assert.Equal(t, "Some body", res.Draft.Body)
	assert.Equal(t, []string{"a"}, res.Draft.TagIDs())
}

func TestComposeSelectionFlowsBackToSelector(t *testing.T) {
	m := New(Draft{Tags: []models.Tag{{ID: "b", Label: "Beta"}}}, catalog(), Options{})
	m.setFocus(fieldTags)

	send(m, keyMsg(tea.KeyEnter))
	assert.Equal(t, []string{"a", "b"}, m.Selected().IDs())
	assert.True(t, m.tags.Selector().IsSelected("a"))

	send(m, keyMsg(tea.KeyEnter))
	assert.Equal(t, []string{"b"}, m.Selected().IDs())
	assert.False(t, m.tags.Selector().IsSelected("a"))
}

func TestComposeRejectsEmptyTitle(t *testing.T) {
	m := New(Draft{Body: "body"}, catalog(), Options{})
	m.setFocus(fieldBody)

	send(m, keyMsg(tea.KeyCtrlS))
	assert.False(t, m.Result().Submitted)
	assert.Equal(t, fieldTitle, m.focus)
	assert.Equal(t, models.ErrEmptyTitle.Error(), m.status)
	assert.Contains(t, m.View(), "cannot be empty")
}

func TestComposeRejectsEmptyBody(t *testing.T) {
	m := New(Draft{Title: "t"}, catalog(), Options{})
	send(m, keyMsg(tea.KeyCtrlS))
	assert.False(t, m.Result().Submitted)
	assert.Equal(t, fieldBody, m.focus)
}

func TestComposeCancel(t *testing.T) {
	m := New(Draft{Title: "t", Body: "b"}, catalog(), Options{})
	cmd := send(m, keyMsg(tea.KeyEsc))
	require.NotNil(t, cmd)
	assert.False(t, m.Result().Submitted)
}

func TestComposeFocusCycle(t *testing.T) {
	m := New(Draft{}, catalog(), Options{})
	assert.Equal(t, fieldTitle, m.focus)

	send(m, keyMsg(tea.KeyTab))
	send(m, keyMsg(tea.KeyTab))
	assert.Equal(t, fieldTags, m.focus)
	assert.True(t, m.tags.Focused())

	send(m, keyMsg(tea.KeyTab))
	assert.Equal(t, fieldTitle, m.focus)
	assert.False(t, m.tags.Focused())

	send(m, keyMsg(tea.KeyShiftTab))
	assert.Equal(t, fieldTags, m.focus)
}

func TestComposeCreateTagFromQuery(t *testing.T) {
	m := New(Draft{Title: "t", Body: "b"}, catalog(), Options{})
	m.setFocus(fieldTags)

	send(m, runes("Side Project"))
	send(m, keyMsg(tea.KeyCtrlA))

	assert.True(t, m.Selected().Has("side-project"))
	assert.Equal(t, "", m.tags.Selector().Query())
	assert.Len(t, m.tags.Selector().Filtered(), 3)

	send(m, keyMsg(tea.KeyCtrlS))
	res := m.Result()
	require.True(t, res.Submitted)
	require.Len(t, res.Draft.Tags, 1)
	assert.Equal(t, "Side Project", res.Draft.Tags[0].Label)
}

func TestComposeCreateExistingTagSelectsIt(t *testing.T) {
	m := New(Draft{}, catalog(), Options{})
	m.setFocus(fieldTags)
	m.tags.Selector().SetQuery("A")
	send(m, keyMsg(tea.KeyCtrlA))

	assert.True(t, m.Selected().Has("a"))
	assert.Len(t, m.tags.Selector().Props().Tags, 2)
}

func TestComposeCreateTagEmptyQuery(t *testing.T) {
	m := New(Draft{}, catalog(), Options{})
	m.setFocus(fieldTags)
	send(m, keyMsg(tea.KeyCtrlA))
	assert.Equal(t, 0, m.Selected().Len())
	assert.NotEmpty(t, m.status)
}

func TestComposeCtrlAOutsideTagsIsNotCreate(t *testing.T) {
	m := New(Draft{}, catalog(), Options{})
	send(m, keyMsg(tea.KeyCtrlA))
	assert.Empty(t, m.status)
	assert.Len(t, m.candidates, 2)
}

func TestComposePrefillAddsUnknownTags(t *testing.T) {
	m := New(Draft{Tags: []models.Tag{models.NewTag("ghost")}}, catalog(), Options{})
	assert.Len(t, m.candidates, 3)
	assert.True(t, m.Selected().Has("ghost"))
}

func TestComposeExpandInsideTags(t *testing.T) {
	m := New(Draft{}, catalog(), Options{})
	m.setFocus(fieldTags)
	send(m, runes("be"))
	send(m, keyMsg(tea.KeyCtrlE))
	assert.True(t, m.tags.Selector().Expanded())
	assert.Equal(t, "be", m.tags.Selector().Query())
}

// ABOUTME: Create/edit post screen built from a title, a body and a tag selector.
// ABOUTME: Owns the tag selection and hands it to the selector as props.

package compose

import (
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/harper/post/internal/models"
	"github.com/harper/post/internal/tagselect"
	"github.com/harper/post/internal/ui"
)

type field int

const (
	fieldTitle field = iota
	fieldBody
	fieldTags
	fieldCount
)

var (
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	labelFocusStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// Draft is the editable content of a post. Tags carry labels so new tags can
// be stored by the caller.
type Draft struct {
	Title string
	Body  string
	Tags  []models.Tag
}

// TagIDs returns the IDs of d.Tags in order.
func (d Draft) TagIDs() []string {
	ids := make([]string, len(d.Tags))
	for i, t := range d.Tags {
		ids[i] = t.ID
	}
	return ids
}

type Result struct {
	Submitted bool
	Draft     Draft
}

type Options struct {
	Heading  string
	Nav      []string
	Active   int
	Selector tagselect.Config
	Logger   *log.Logger
}

type Model struct {
	title textinput.Model
	body  textarea.Model
	tags  *tagselect.Model

	candidates []models.Tag
	selected   tagselect.Selection

	focus  field
	status string
	width  int
	result Result
	done   bool

	page   ui.Page
	keys   keyMap
	help   help.Model
	logger *log.Logger
}

// New builds the screen with in pre-filled. Tags in in.Tags that are missing
// from tags are added to the candidates.
func New(in Draft, tags []models.Tag, opts Options) *Model {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 200
	ti.SetValue(in.Title)
	ti.Focus()

	ta := textarea.New()
	ta.Placeholder = "Write your post in markdown…"
	ta.ShowLineNumbers = false
	ta.SetHeight(10)
	ta.SetValue(in.Body)

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	heading := opts.Heading
	if heading == "" {
		heading = "New post"
	}

	m := &Model{
		title:      ti,
		body:       ta,
		candidates: mergeTags(tags, in.Tags),
		keys:       defaultKeyMap(),
		help:       help.New(),
		logger:     logger,
		page: ui.Page{
			Title:  heading,
			Nav:    opts.Nav,
			Active: opts.Active,
		},
	}

	ids := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		ids = append(ids, t.ID)
	}
	m.selected = tagselect.NewSelection(ids...)

	selCfg := opts.Selector
	if selCfg.Title == "" {
		selCfg.Title = "Tags"
	}
	m.tags = tagselect.NewModel(m.tagProps(), selCfg)
	m.tags.Blur()
	return m
}

func mergeTags(base, extra []models.Tag) []models.Tag {
	out := append([]models.Tag(nil), base...)
	seen := make(map[string]bool, len(base))
	for _, t := range base {
		seen[t.ID] = true
	}
	for _, t := range extra {
		if !seen[t.ID] {
			seen[t.ID] = true
			out = append(out, t)
		}
	}
	return out
}

func (m *Model) tagProps() tagselect.Props {
	return tagselect.Props{
		Tags:     m.candidates,
		Selected: m.selected,
		OnChange: m.onTagsChange,
	}
}

func (m *Model) onTagsChange(next tagselect.Selection) {
	m.logger.Debug("tag selection changed", "selected", next.String())
	m.selected = next
	m.tags.SetProps(m.tagProps())
}

func (m *Model) Selected() tagselect.Selection {
	return m.selected
}

func (m *Model) Result() Result {
	return m.result
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) setFocus(f field) tea.Cmd {
	m.focus = f
	m.title.Blur()
	m.body.Blur()
	m.tags.Blur()

	switch f {
	case fieldTitle:
		return m.title.Focus()
	case fieldBody:
		return m.body.Focus()
	case fieldTags:
		return m.tags.Focus()
	}
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.title.Width = msg.Width - 4
		m.body.SetWidth(msg.Width - 2)
		m.help.Width = msg.Width
		m.tags.SetWidth(msg.Width)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.logger.Debug("compose cancelled")
			m.done = true
			m.result = Result{}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Submit):
			return m, m.submit()
		case key.Matches(msg, m.keys.Next):
			return m, m.setFocus((m.focus + 1) % fieldCount)
		case key.Matches(msg, m.keys.Prev):
			return m, m.setFocus((m.focus + fieldCount - 1) % fieldCount)
		case m.focus == fieldTitle && key.Matches(msg, m.keys.TitleDone):
			return m, m.setFocus(fieldBody)
		case m.focus == fieldTags && key.Matches(msg, m.keys.CreateTag):
			m.createTagFromQuery()
			return m, nil
		}
		m.status = ""
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldBody:
		m.body, cmd = m.body.Update(msg)
	case fieldTags:
		_, cmd = m.tags.Update(msg)
	}
	return m, cmd
}

func (m *Model) submit() tea.Cmd {
	d := m.draft()
	if err := models.ValidateDraft(d.Title, d.Body); err != nil {
		m.status = err.Error()
		m.logger.Debug("submit rejected", "err", err)
		if strings.TrimSpace(d.Title) == "" {
			return m.setFocus(fieldTitle)
		}
		return m.setFocus(fieldBody)
	}
	m.logger.Debug("compose submitted", "title", d.Title, "tags", m.selected.String())
	m.done = true
	m.result = Result{Submitted: true, Draft: d}
	return tea.Quit
}

// createTagFromQuery turns the search text into a tag, selects it and clears
// the search.
func (m *Model) createTagFromQuery() {
	q := strings.TrimSpace(m.tags.Selector().Query())
	t := models.NewTag(q)
	if t.ID == "" {
		m.status = "type a tag name in the search box first"
		return
	}

	exists := false
	for _, c := range m.candidates {
		if c.ID == t.ID {
			exists = true
			break
		}
	}
	if !exists {
		m.candidates = append(m.candidates, t)
		m.logger.Debug("tag created", "id", t.ID, "label", t.Label)
	}
	m.selected = m.selected.With(t.ID)
	m.tags.Selector().SetQuery("")
	m.tags.SetProps(m.tagProps())
}

func (m *Model) draft() Draft {
	d := Draft{
		Title: strings.TrimSpace(m.title.Value()),
		Body:  m.body.Value(),
	}
	for _, t := range m.candidates {
		if m.selected.Has(t.ID) {
			d.Tags = append(d.Tags, t)
		}
	}
	return d
}

func (m *Model) label(f field, text string) string {
	if m.focus == f {
		return labelFocusStyle.Render("▸ " + text)
	}
	return labelStyle.Render("  " + text)
}

func (m *Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.label(fieldTitle, "Title"))
	b.WriteString("\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")
	b.WriteString(m.label(fieldBody, "Body"))
	b.WriteString("\n")
	b.WriteString(m.body.View())
	b.WriteString("\n\n")
	b.WriteString(m.label(fieldTags, "Tags"))
	b.WriteString("\n")
	b.WriteString(m.tags.View())

	page := m.page
	page.Status = m.status
	page.Footer = m.help.View(m.keys)
	if m.focus == fieldTags {
		page.Footer += "  " + m.help.ShortHelpView([]key.Binding{m.keys.CreateTag})
	}
	return page.Render(b.String(), m.width)
}

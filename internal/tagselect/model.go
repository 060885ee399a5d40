// ABOUTME: Bubble Tea front end for the tag selector.
// ABOUTME: Routes keys to the search field, the cursor, toggles and the settings area.

package tagselect

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/harper/post/internal/models"
)

const defaultPageSize = 8

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	countStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	settingsStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// Config controls presentation. Zero values pick defaults.
type Config struct {
	Title              string
	PageSize           int
	ResetQueryOnExpand bool
}

// Model renders a Selector and turns key presses into selector operations.
type Model struct {
	sel   *Selector
	input textinput.Model
	keys  KeyMap
	help  help.Model

	title     string
	pageSize  int
	width     int
	cursor    int
	lastQuery string
	focused   bool
}

func NewModel(p Props, cfg Config) *Model {
	ti := textinput.New()
	ti.Placeholder = "type to filter tags…"
	ti.Prompt = "/ "
	ti.CharLimit = 64
	ti.Focus()

	m := &Model{
		sel:      New(p, WithResetQueryOnExpand(cfg.ResetQueryOnExpand)),
		input:    ti,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		title:    cfg.Title,
		pageSize: cfg.PageSize,
		focused:  true,
	}
	if m.title == "" {
		m.title = "Tags"
	}
	if m.pageSize <= 0 {
		m.pageSize = defaultPageSize
	}

	m.sel.Subscribe(m.onState)
	return m
}

// onState keeps the cursor on the list. A new query moves it to the top
// match; anything else only clamps it.
func (m *Model) onState(st State) {
	if st.Query != m.lastQuery {
		m.lastQuery = st.Query
		m.cursor = 0
		if m.input.Value() != st.Query {
			m.input.SetValue(st.Query)
		}
	}
	if m.cursor >= len(st.Filtered) {
		m.cursor = len(st.Filtered) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) Selector() *Selector {
	return m.sel
}

func (m *Model) SetProps(p Props) {
	m.sel.SetProps(p)
}

func (m *Model) KeyMap() KeyMap {
	return m.keys
}

func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return m.input.Focus()
}

func (m *Model) Blur() {
	m.focused = false
	m.input.Blur()
}

func (m *Model) Focused() bool {
	return m.focused
}

func (m *Model) SetWidth(w int) {
	m.width = w
	m.help.Width = w
	if w > 8 {
		m.input.Width = w - 8
	}
}

func (m *Model) Cursor() int {
	return m.cursor
}

// Current returns the tag under the cursor.
func (m *Model) Current() (models.Tag, bool) {
	filtered := m.sel.filtered
	if m.cursor < 0 || m.cursor >= len(filtered) {
		return models.Tag{}, false
	}
	return filtered[m.cursor], true
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetWidth(msg.Width)
		return m, nil
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.sel.filtered)-1 {
				m.cursor++
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			if t, ok := m.Current(); ok {
				m.sel.Toggle(t.ID)
			}
			return m, nil
		case key.Matches(msg, m.keys.Expand):
			m.sel.ToggleExpanded()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.sel.Query() {
		m.sel.SetQuery(v)
	}
	return m, cmd
}

func (m *Model) View() string {
	var b strings.Builder

	filtered := m.sel.filtered
	total := len(m.sel.props.Tags)
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString(countStyle.Render(fmt.Sprintf("  %d/%d  %d selected", len(filtered), total, m.sel.Selected().Len())))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if len(filtered) == 0 {
		if total == 0 {
			b.WriteString(emptyStyle.Render("  no tags yet"))
		} else {
			b.WriteString(emptyStyle.Render(fmt.Sprintf("  no tags match %q", m.sel.Query())))
		}
		b.WriteString("\n")
	}

	start := 0
	if m.cursor >= m.pageSize {
		start = m.cursor - m.pageSize + 1
	}
	end := start + m.pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(filtered[i], i == m.cursor))
		b.WriteString("\n")
	}
	if rest := len(filtered) - end; rest > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  … %d more", rest)))
		b.WriteString("\n")
	}

	if m.sel.Expanded() {
		b.WriteString(m.renderSettings())
		b.WriteString("\n")
	}

	if m.focused {
		b.WriteString(m.help.View(m.keys))
	}
	return b.String()
}

func (m *Model) renderRow(t models.Tag, isCursor bool) string {
	mark := "[ ]"
	label := t.Label
	if m.sel.IsSelected(t.ID) {
		mark = "[x]"
		label = selectedStyle.Render(label)
	}
	if isCursor && m.focused {
		return cursorStyle.Render("> "+mark) + " " + label
	}
	return "  " + mark + " " + label
}

func (m *Model) renderSettings() string {
	labels := make(map[string]string, len(m.sel.props.Tags))
	for _, t := range m.sel.props.Tags {
		labels[t.ID] = t.Label
	}

	selected := m.sel.Selected().IDs()
	names := make([]string, 0, len(selected))
	for _, id := range selected {
		if l, ok := labels[id]; ok {
			names = append(names, l)
			continue
		}
		names = append(names, id)
	}
	summary := "none"
	if len(names) > 0 {
		summary = strings.Join(names, ", ")
	}

	reset := "off"
	if m.sel.ResetsQueryOnExpand() {
		reset = "on"
	}

	lines := []string{
		"Selected: " + summary,
		fmt.Sprintf("Matches:  %d of %d", len(m.sel.filtered), len(m.sel.props.Tags)),
		"Clear search on open: " + reset,
	}
	return settingsStyle.Render(strings.Join(lines, "\n"))
}

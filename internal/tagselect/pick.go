// ABOUTME: Standalone picker program that owns a selection and hosts a Model.
// ABOUTME: Used by `post tag pick` to choose tags outside the compose screen.

package tagselect

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/harper/post/internal/models"
)

var (
	pickDone   = key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "done"))
	pickCancel = key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "cancel"))
)

// ErrPickCancelled is returned when the user leaves the picker without
// confirming.
var ErrPickCancelled = errors.New("tag pick cancelled")

// picker is the parent that owns the selection the Model displays.
type picker struct {
	tags      []models.Tag
	selected  Selection
	model     *Model
	confirmed bool
	cancelled bool
}

func newPicker(tags []models.Tag, selected Selection, cfg Config) *picker {
	p := &picker{tags: tags, selected: selected}
	p.model = NewModel(p.props(), cfg)
	return p
}

func (p *picker) props() Props {
	return Props{
		Tags:     p.tags,
		Selected: p.selected,
		OnChange: p.onChange,
	}
}

func (p *picker) onChange(next Selection) {
	p.selected = next
	p.model.SetProps(p.props())
}

func (p *picker) Init() tea.Cmd {
	return p.model.Init()
}

func (p *picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, pickDone):
			p.confirmed = true
			return p, tea.Quit
		case key.Matches(msg, pickCancel):
			p.cancelled = true
			return p, tea.Quit
		}
	}
	_, cmd := p.model.Update(msg)
	return p, cmd
}

func (p *picker) View() string {
	return p.model.View() + "\n" + dimStyle.Render("ctrl+s done • esc cancel") + "\n"
}

// Pick runs an interactive picker and returns the confirmed selection.
func Pick(ctx context.Context, tags []models.Tag, selected Selection, cfg Config) (Selection, error) {
	p := newPicker(tags, selected, cfg)
	final, err := tea.NewProgram(p, tea.WithContext(ctx)).Run()
	if err != nil {
		return selected, fmt.Errorf("run tag picker: %w", err)
	}
	done := final.(*picker)
	if !done.confirmed {
		return selected, ErrPickCancelled
	}
	return done.selected, nil
}

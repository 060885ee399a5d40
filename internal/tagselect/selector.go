// ABOUTME: Tag selector state machine: search query, filtered view, expand flag.
// ABOUTME: Selection stays with the caller and changes only through OnChange.

// Package tagselect implements a searchable tag picker.
//
// The Selector is a controlled component. The caller supplies the candidate
// tags and the current selection through Props and receives proposed
// selections through Props.OnChange; the selector itself never stores an
// authoritative selection. It owns only the search query and whether the
// settings area is expanded, and it announces changes to that state through
// Subscribe.
//
// A Selector is not safe for concurrent use. In a bubbletea program all calls
// happen on the Update goroutine.
package tagselect

import (
	"github.com/harper/post/internal/models"
)

// Props is everything the parent passes down on each render.
type Props struct {
	Tags     []models.Tag
	Selected Selection
	OnChange func(Selection)
}

// State is a snapshot of what the selector would draw.
type State struct {
	Query    string
	Expanded bool
	Filtered []models.Tag
	Selected Selection
}

type Option func(*Selector)

// WithResetQueryOnExpand clears the search query whenever the settings area
// is opened. Off by default: the query survives expanding and collapsing.
func WithResetQueryOnExpand(enabled bool) Option {
	return func(s *Selector) {
		s.resetQueryOnExpand = enabled
	}
}

type Selector struct {
	props    Props
	query    string
	expanded bool
	filtered []models.Tag

	resetQueryOnExpand bool

	listeners map[int]func(State)
	nextID    int
}

func New(p Props, opts ...Option) *Selector {
	s := &Selector{
		props:     p,
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.filtered = Filter(p.Tags, s.query)
	return s
}

// SetProps replaces the parent-owned inputs. The query is kept and the
// filtered view is recomputed against the new tag set.
func (s *Selector) SetProps(p Props) {
	s.props = p
	s.filtered = Filter(p.Tags, s.query)
	s.notify()
}

func (s *Selector) Props() Props {
	return s.props
}

func (s *Selector) Query() string {
	return s.query
}

// SetQuery updates the search text and recomputes the filtered view
// synchronously.
func (s *Selector) SetQuery(q string) {
	if q == s.query {
		return
	}
	s.query = q
	s.filtered = Filter(s.props.Tags, q)
	s.notify()
}

// Filtered returns the tags currently matching the query, in tag-set order.
func (s *Selector) Filtered() []models.Tag {
	return append([]models.Tag(nil), s.filtered...)
}

func (s *Selector) Selected() Selection {
	return s.props.Selected
}

func (s *Selector) IsSelected(id string) bool {
	return s.props.Selected.Has(id)
}

// Toggle proposes the current selection with id flipped. OnChange is called
// exactly once with the complete new selection; the selection held in Props
// is left as it was until the parent passes new props back in.
func (s *Selector) Toggle(id string) Selection {
	next := s.props.Selected.Toggle(id)
	if s.props.OnChange != nil {
		s.props.OnChange(next)
	}
	return next
}

func (s *Selector) Expanded() bool {
	return s.expanded
}

// ToggleExpanded opens or closes the settings area.
func (s *Selector) ToggleExpanded() {
	s.expanded = !s.expanded
	if s.expanded && s.resetQueryOnExpand && s.query != "" {
		s.query = ""
		s.filtered = Filter(s.props.Tags, "")
	}
	s.notify()
}

// ResetsQueryOnExpand reports how ToggleExpanded treats the query.
func (s *Selector) ResetsQueryOnExpand() bool {
	return s.resetQueryOnExpand
}

func (s *Selector) State() State {
	return State{
		Query:    s.query,
		Expanded: s.expanded,
		Filtered: s.Filtered(),
		Selected: s.props.Selected,
	}
}

// Subscribe registers fn to be called after every state change. The returned
// func removes the subscription.
func (s *Selector) Subscribe(fn func(State)) func() {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		delete(s.listeners, id)
	}
}

func (s *Selector) notify() {
	if len(s.listeners) == 0 {
		return
	}
	st := s.State()
	for _, fn := range s.listeners {
		fn(st)
	}
}

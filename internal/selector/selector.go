// Package selector implements the merchant resolution combobox as a small
// state machine: it filters candidates by prefix, and commits a selection
// only on an explicit select or a completed create round-trip. Free text
// entry never silently chooses a merchant.
package selector

import (
	"sort"
	"strings"
)

// State is the visibility state of the selector.
type State string

const (
	StateInitial  State = "initial"
	StateActive   State = "active"
	StateInactive State = "inactive"
)

// Option is a selectable merchant candidate.
type Option struct {
	ID    string
	Title string
}

// Outputs carries the selector's typed messages to its parent. The selector
// owns its own context and never mutates parent state directly.
type Outputs struct {
	// SelectionChanged fires whenever the committed selection changes; the id
	// is empty when editing the input clears a previous selection.
	SelectionChanged func(id string)
	// CreateRequested fires when the user asks to create a merchant from the
	// current input text.
	CreateRequested func(title string)
}

// Machine is a single selector instance. It is rebuilt from scratch for every
// row visited so no selection state leaks across rows.
type Machine struct {
	state     State
	options   []Option
	filtered  []Option
	selected  Option
	input     string
	prevInput string
	out       Outputs
}

// New creates a selector over the given candidates. Candidates are sorted by
// title ascending (case-insensitive) and filtered against the initial input.
func New(options []Option, initialInput string, out Outputs) *Machine {
	sorted := make([]Option, len(options))
	copy(sorted, options)
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].Title) < strings.ToLower(sorted[j].Title)
	})

	m := &Machine{
		state:   StateInitial,
		options: sorted,
		input:   initialInput,
		out:     out,
	}
	m.filtered = m.filter()
	return m
}

// State returns the current visibility state.
func (m *Machine) State() State { return m.state }

// Filtered returns the candidates whose titles begin with the current input.
func (m *Machine) Filtered() []Option { return m.filtered }

// Selected returns the committed selection; the zero Option means none.
func (m *Machine) Selected() Option { return m.selected }

// Input returns the current free-text input.
func (m *Machine) Input() string { return m.input }

// Activate opens the selector. No context changes.
func (m *Machine) Activate() {
	if m.state == StateInitial || m.state == StateInactive {
		m.state = StateActive
	}
}

// Deactivate closes the selector. No context changes.
func (m *Machine) Deactivate() {
	if m.state == StateActive {
		m.state = StateInactive
	}
}

// UpdateInput replaces the free-text input. Any committed selection is
// cleared, the candidate filter is recomputed, and the parent is notified of
// the now-empty selection. Handled in every state.
func (m *Machine) UpdateInput(text string) {
	m.prevInput = m.input
	m.input = text
	m.selected = Option{}
	m.filtered = m.filter()
	if m.out.SelectionChanged != nil {
		m.out.SelectionChanged("")
	}
}

// Select commits a candidate. Only honored while active; the input text is
// replaced by the selected title and the selector closes.
func (m *Machine) Select(id, title string) {
	if m.state != StateActive {
		return
	}
	m.selected = Option{ID: id, Title: title}
	m.prevInput = m.input
	m.input = title
	if m.out.SelectionChanged != nil {
		m.out.SelectionChanged(id)
	}
	m.state = StateInactive
}

// Create asks the parent to create a merchant titled after the current input.
// Only honored while active; the selector state does not change.
func (m *Machine) Create() {
	if m.state != StateActive {
		return
	}
	if m.out.CreateRequested != nil {
		m.out.CreateRequested(m.input)
	}
}

func (m *Machine) filter() []Option {
	prefix := strings.ToLower(m.input)
	var matches []Option
	for _, opt := range m.options {
		if strings.HasPrefix(strings.ToLower(opt.Title), prefix) {
			matches = append(matches, opt)
		}
	}
	return matches
}

// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/userdesk/internal/i18n"
	"github.com/toeirei/userdesk/internal/model"
	"github.com/toeirei/userdesk/internal/state"
	"github.com/toeirei/userdesk/util/slicest"
)

// focusArea is the part of the screen receiving key input.
type focusArea int

const (
	focusName focusArea = iota
	focusEmail
	focusSubmit
	focusSearchID
	focusSearch
	focusList
	focusCount
)

const (
	inputName = iota
	inputEmail
	inputSearchID
)

// changedMsg signals that the controller published new state.
type changedMsg struct{}

// opDoneMsg carries the result of a controller operation run off the UI loop.
type opDoneMsg struct {
	op  string
	err error
}

// copiedMsg reports a clipboard write.
type copiedMsg struct {
	id  string
	err error
}

// Model is the bubbletea model rendering a state.Controller.
type Model struct {
	ctx         context.Context
	ctrl        *state.Controller
	changes     chan struct{}
	unsubscribe func()
	copy        func(string) error

	snap   state.Snapshot
	focus  focusArea
	inputs []textinput.Model
	table  table.Model
	keys   keyMap
	help   help.Model
	width  int
}

// New wires a model to ctrl. The controller is disposed when the model quits.
func New(ctx context.Context, ctrl *state.Controller) Model {
	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		changes: make(chan struct{}, 1),
		copy:    clipboard.WriteAll,
		inputs:  make([]textinput.Model, 3),
		keys:    newKeyMap(),
		help:    help.New(),
	}
	m.unsubscribe = ctrl.Subscribe(func(state.Snapshot) {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})

	for i := range m.inputs {
		t := textinput.New()
		t.Cursor.Style = focusedStyle
		t.CharLimit = 128
		t.Width = 32
		switch i {
		case inputName:
			t.Prompt = i18n.T("tui.create.name")
			t.Placeholder = i18n.T("tui.create.name_placeholder")
		case inputEmail:
			t.Prompt = i18n.T("tui.create.email")
			t.Placeholder = i18n.T("tui.create.email_placeholder")
		case inputSearchID:
			t.Prompt = i18n.T("tui.search.id")
			t.Placeholder = i18n.T("tui.search.id_placeholder")
		}
		m.inputs[i] = t
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: i18n.T("tui.list.col_id"), Width: 38},
			{Title: i18n.T("tui.list.col_name"), Width: 24},
			{Title: i18n.T("tui.list.col_email"), Width: 32},
		}),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorWhite).
		Background(colorHighlight).
		Bold(false)
	t.SetStyles(s)
	m.table = t

	m.snap = ctrl.Snapshot()
	m.setFocus(focusName)
	m.syncFromSnapshot()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForChange(), m.run("start", func(ctx context.Context) error {
		m.ctrl.Start(ctx)
		return nil
	}))
}

// waitForChange blocks until the controller publishes.
func (m Model) waitForChange() tea.Cmd {
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// run executes a controller operation as a command.
func (m Model) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case changedMsg:
		m.snap = m.ctrl.Snapshot()
		m.syncFromSnapshot()
		return m, m.waitForChange()

	case opDoneMsg:
		// state arrives through changedMsg; errors are already reflected there
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.ctrl.Notify(model.Failure(i18n.T("notify.copy_failed", msg.err)))
		} else {
			m.ctrl.Notify(model.Success(i18n.T("notify.copied", msg.id)))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		return m.quit()
	case key.Matches(msg, m.keys.Next):
		cmd := m.setFocus((m.focus + 1) % focusCount)
		return m, cmd
	case key.Matches(msg, m.keys.Prev):
		cmd := m.setFocus((m.focus + focusCount - 1) % focusCount)
		return m, cmd
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run("refresh", m.ctrl.Refresh)
	case key.Matches(msg, m.keys.Dismiss):
		m.ctrl.Dismiss()
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd()
	case key.Matches(msg, m.keys.Submit):
		switch m.focus {
		case focusName, focusEmail, focusSubmit:
			return m, m.run("create", m.ctrl.Create)
		case focusSearchID, focusSearch:
			return m, m.run("search", m.ctrl.Search)
		}
	}

	if idx, ok := m.focusedInput(); ok {
		var cmd tea.Cmd
		before := m.inputs[idx].Value()
		m.inputs[idx], cmd = m.inputs[idx].Update(msg)
		if v := m.inputs[idx].Value(); v != before {
			m.pushInput(idx, v)
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.focus == focusList {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.unsubscribe()
	m.ctrl.Dispose()
	return m, tea.Quit
}

// copyCmd copies the selected list row's id, or the search result's id when
// the list is not focused.
func (m Model) copyCmd() tea.Cmd {
	id := m.copyTarget()
	if id == "" {
		return nil
	}
	write := m.copy
	return func() tea.Msg {
		return copiedMsg{id: id, err: write(id)}
	}
}

func (m Model) copyTarget() string {
	if m.focus == focusList {
		if row := m.table.SelectedRow(); len(row) > 0 {
			return row[0]
		}
	}
	if m.snap.SearchResult != nil {
		return m.snap.SearchResult.ID.String()
	}
	return ""
}

func (m Model) focusedInput() (int, bool) {
	switch m.focus {
	case focusName:
		return inputName, true
	case focusEmail:
		return inputEmail, true
	case focusSearchID:
		return inputSearchID, true
	}
	return 0, false
}

func (m Model) pushInput(idx int, v string) {
	switch idx {
	case inputName:
		m.ctrl.SetDraftName(v)
	case inputEmail:
		m.ctrl.SetDraftEmail(v)
	case inputSearchID:
		m.ctrl.SetSearchID(v)
	}
}

// setFocus moves focus to f and returns the cursor blink command of the
// newly focused input, if any.
func (m *Model) setFocus(f focusArea) tea.Cmd {
	m.focus = f
	var cmd tea.Cmd
	for i := range m.inputs {
		m.inputs[i].Blur()
		m.inputs[i].TextStyle = lipgloss.NewStyle()
	}
	if idx, ok := m.focusedInput(); ok {
		cmd = m.inputs[idx].Focus()
		m.inputs[idx].TextStyle = focusedStyle
	}
	if f == focusList {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
	return cmd
}

// syncFromSnapshot copies controller state into the widgets.
func (m *Model) syncFromSnapshot() {
	values := map[int]string{
		inputName:     m.snap.Draft.Name,
		inputEmail:    m.snap.Draft.Email,
		inputSearchID: m.snap.SearchID,
	}
	for idx, v := range values {
		if m.inputs[idx].Value() != v {
			m.inputs[idx].SetValue(v)
		}
	}
	m.table.SetRows(slicest.Map(m.snap.Users, func(u model.User) table.Row {
		return table.Row{u.ID.String(), u.Name, u.Email}
	}))
}

// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/toeirei/userdesk/internal/directory"
	"github.com/toeirei/userdesk/internal/i18n"
	"github.com/toeirei/userdesk/internal/model"
	"github.com/toeirei/userdesk/internal/state"
	"github.com/toeirei/userdesk/internal/testutil"
)

func TestMain(m *testing.M) {
	i18n.Init("en")
	os.Exit(m.Run())
}

func newTestModel(t *testing.T) (Model, *state.Controller) {
	t.Helper()
	dir := testutil.NewDirectory(t)
	client := directory.NewClient(directory.Config{BaseURL: dir.URL, Logger: log.New(io.Discard)})
	ctrl := state.New(client,
		state.WithClock(testutil.NewManualClock()),
		state.WithLogger(log.New(io.Discard)),
	)
	t.Cleanup(ctrl.Dispose)
	return New(context.Background(), ctrl), ctrl
}

func press(t *testing.T, m Model, msgs ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(Model)
	}
	return m, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// settle delivers a pending controller change to the model.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(changedMsg{})
	return next.(Model)
}

var (
	keyTab      = tea.KeyMsg{Type: tea.KeyTab}
	keyShiftTab = tea.KeyMsg{Type: tea.KeyShiftTab}
	keyEnter    = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestFocusCycle(t *testing.T) {
	m, _ := newTestModel(t)
	assert.Equal(t, focusName, m.focus)
	assert.True(t, m.inputs[inputName].Focused())

	m, _ = press(t, m, keyTab, keyTab, keyTab)
	assert.Equal(t, focusSearchID, m.focus)
	assert.True(t, m.inputs[inputSearchID].Focused())
	assert.False(t, m.inputs[inputName].Focused())

	m, _ = press(t, m, keyTab, keyTab, keyTab)
	assert.Equal(t, focusName, m.focus, "focus wraps around")

	m, _ = press(t, m, keyShiftTab)
	assert.Equal(t, focusList, m.focus)
	assert.True(t, m.table.Focused())
}

func TestTypingUpdatesDraft(t *testing.T) {
	m, ctrl := newTestModel(t)
	m = typeText(t, m, "Ada")
	m, _ = press(t, m, keyTab)
	m = typeText(t, m, "ada@example.com")

	assert.Equal(t, model.Draft{Name: "Ada", Email: "ada@example.com"}, ctrl.Snapshot().Draft)
	assert.Equal(t, "ada@example.com", m.inputs[inputEmail].Value())
}

func TestCreateFromForm(t *testing.T) {
	m, ctrl := newTestModel(t)
	m = typeText(t, m, "Ada")
	m, _ = press(t, m, keyTab)
	m = typeText(t, m, "ada@example.com")

	m, cmd := press(t, m, keyEnter)
	require.NotNil(t, cmd)
	done, ok := cmd().(opDoneMsg)
	require.True(t, ok)
	assert.Equal(t, "create", done.op)
	require.NoError(t, done.err)

	m = settle(t, m)
	assert.Empty(t, m.inputs[inputName].Value(), "form is cleared after success")
	assert.Empty(t, m.inputs[inputEmail].Value())
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "1", m.table.Rows()[0][0])

	view := m.View()
	assert.Contains(t, view, "User created successfully with ID: 1")
	assert.Contains(t, view, "All Users (1)")
	assert.Equal(t, model.KindSuccess, ctrl.Snapshot().Notification.Kind)
}

func TestCreateValidationShowsError(t *testing.T) {
	m, _ := newTestModel(t)
	m, cmd := press(t, m, keyEnter)
	done := cmd().(opDoneMsg)
	assert.True(t, state.IsValidation(done.err))

	m = settle(t, m)
	assert.Contains(t, m.View(), "Please fill in all fields")
}

func TestSearchFromForm(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.SetDraft(model.Draft{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, ctrl.Create(context.Background()))

	m, _ = press(t, m, keyTab, keyTab, keyTab)
	m = typeText(t, m, "1")
	m, cmd := press(t, m, keyEnter)
	done := cmd().(opDoneMsg)
	assert.Equal(t, "search", done.op)
	require.NoError(t, done.err)

	m = settle(t, m)
	view := m.View()
	assert.Contains(t, view, "User Details:")
	assert.Contains(t, view, "ada@example.com")
	assert.Contains(t, view, "User found!")
}

func TestEmptyListHint(t *testing.T) {
	m, _ := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "All Users (0)")
	assert.Contains(t, view, "No users found. Create your first user above!")
}

func TestBusyButton(t *testing.T) {
	m, _ := newTestModel(t)
	m.snap.Creating = true
	assert.Contains(t, m.View(), "Creating...")
}

func TestCopySelectedRow(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.SetDraft(model.Draft{Name: "Ada", Email: "ada@example.com"})
	require.NoError(t, ctrl.Create(context.Background()))
	m = settle(t, m)

	var copied string
	m.copy = func(s string) error {
		copied = s
		return nil
	}

	m, _ = press(t, m, keyShiftTab)
	require.Equal(t, focusList, m.focus)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, "1", copied)

	next, _ := m.Update(msg)
	m = settle(t, next.(Model))
	assert.Contains(t, m.View(), "Copied ID 1 to clipboard")
}

func TestCopyFailure(t *testing.T) {
	m, ctrl := newTestModel(t)
	m.copy = func(string) error { return errors.New("no clipboard") }
	m.snap.SearchResult = &model.User{ID: "7"}

	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Equal(t, model.Failure("Could not copy to clipboard: no clipboard"), ctrl.Snapshot().Notification)
}

func TestCopyWithoutTarget(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Nil(t, cmd)
}

func TestDismiss(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.Notify(model.Failure("boom"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, ctrl.Snapshot().Notification.Active())
	m = settle(t, m)
	assert.NotContains(t, m.View(), "boom")
}

func TestQuitKeys(t *testing.T) {
	t.Run("q types into inputs", func(t *testing.T) {
		m, _ := newTestModel(t)
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		assert.Equal(t, "q", m.inputs[inputName].Value())
	})

	t.Run("q quits outside inputs", func(t *testing.T) {
		m, ctrl := newTestModel(t)
		m, _ = press(t, m, keyTab, keyTab)
		require.Equal(t, focusSubmit, m.focus)
		_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		require.NotNil(t, cmd)
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok)
		assert.ErrorIs(t, ctrl.Refresh(context.Background()), state.ErrDisposed)
	})

	t.Run("ctrl+c always quits", func(t *testing.T) {
		m, _ := newTestModel(t)
		_, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
		_, ok := cmd().(tea.QuitMsg)
		assert.True(t, ok)
	})
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = press(t, m, keyTab, keyTab)
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "copy id")
}

func TestSubscriptionSignalsChange(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctrl.SetSearchID("42")
	msg := m.waitForChange()()
	_, ok := msg.(changedMsg)
	require.True(t, ok)
	m = settle(t, m)
	assert.Equal(t, "42", m.inputs[inputSearchID].Value())
}

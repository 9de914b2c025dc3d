// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/toeirei/userdesk/internal/i18n"
)

type keyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Submit  key.Binding
	Refresh key.Binding
	Copy    key.Binding
	Dismiss key.Binding
	Help    key.Binding
	Quit    key.Binding
	// ForceQuit works regardless of focus.
	ForceQuit key.Binding
}

func (km keyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Next, km.Submit, km.Refresh, km.Quit, km.Help}
}

func (km keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Next, km.Prev, km.Submit},
		{km.Refresh, km.Copy, km.Dismiss},
		{km.Help, km.Quit},
	}
}

var _ help.KeyMap = keyMap{}

// newKeyMap builds the bindings with help text in the active language.
func newKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", i18n.T("tui.help.next")),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", i18n.T("tui.help.prev")),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", i18n.T("tui.help.submit")),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", i18n.T("tui.help.refresh")),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", i18n.T("tui.help.copy")),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", i18n.T("tui.help.dismiss")),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", i18n.T("tui.help.more")),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", i18n.T("tui.help.quit")),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
	}
}

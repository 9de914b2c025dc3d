// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/toeirei/userdesk/internal/i18n"
	"github.com/toeirei/userdesk/internal/model"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(mainTitleStyle.Render(i18n.T("tui.title")))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render(i18n.T("tui.subtitle")))
	b.WriteString("\n\n")

	if notice := m.noticeView(); notice != "" {
		b.WriteString(notice)
		b.WriteString("\n\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.createView(), " ", m.searchView()))
	b.WriteString("\n")
	b.WriteString(m.listView())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return docStyle.Render(b.String())
}

func (m Model) noticeView() string {
	n := m.snap.Notification
	if !n.Active() {
		return ""
	}
	if n.Kind == model.KindError {
		return errorNoticeStyle.Render(n.Text)
	}
	return successNoticeStyle.Render(n.Text)
}

func (m Model) createView() string {
	label := i18n.T("tui.create.submit")
	style := buttonStyle
	switch {
	case m.snap.Creating:
		label = i18n.T("tui.create.busy")
		style = busyButtonStyle
	case m.focus == focusSubmit:
		style = activeButtonStyle
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		sectionTitleStyle.Render(i18n.T("tui.create.title")),
		m.inputs[inputName].View(),
		m.inputs[inputEmail].View(),
		style.Render(label),
	)
	return m.section(body, m.focus <= focusSubmit)
}

func (m Model) searchView() string {
	style := buttonStyle
	if m.focus == focusSearch {
		style = activeButtonStyle
	}
	parts := []string{
		sectionTitleStyle.Render(i18n.T("tui.search.title")),
		m.inputs[inputSearchID].View(),
		style.Render(i18n.T("tui.search.submit")),
	}
	if u := m.snap.SearchResult; u != nil {
		parts = append(parts, "",
			labelStyle.Render(i18n.T("tui.search.details")),
			formatField(i18n.T("tui.list.col_id"), u.ID.String()),
			formatField(i18n.T("tui.list.col_name"), u.Name),
			formatField(i18n.T("tui.list.col_email"), u.Email),
		)
	}
	return m.section(lipgloss.JoinVertical(lipgloss.Left, parts...), m.focus == focusSearchID || m.focus == focusSearch)
}

func (m Model) listView() string {
	title := sectionTitleStyle.Render(i18n.T("tui.list.title", len(m.snap.Users)))
	if len(m.snap.Users) == 0 {
		return m.section(lipgloss.JoinVertical(lipgloss.Left, title, helpStyle.Render(i18n.T("tui.list.empty"))), m.focus == focusList)
	}
	return m.section(lipgloss.JoinVertical(lipgloss.Left, title, m.table.View()), m.focus == focusList)
}

func (m Model) section(body string, focused bool) string {
	if focused {
		return focusedSectionStyle.Render(body)
	}
	return sectionStyle.Render(body)
}

func formatField(label, value string) string {
	return fmt.Sprintf("%s %s", labelStyle.Render(label+":"), value)
}

// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui is the interactive terminal front end. It renders the
// snapshots published by a state.Controller and turns key presses into
// controller calls, which run as bubbletea commands off the UI loop.
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/toeirei/userdesk/internal/logging"
	"github.com/toeirei/userdesk/internal/state"
)

// Run starts the full-screen program and blocks until the operator quits or
// ctx is cancelled. ctrl is disposed on return.
func Run(ctx context.Context, ctrl *state.Controller) error {
	defer ctrl.Dispose()

	if _, err := tea.NewProgram(
		New(ctx, ctrl),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	).Run(); err != nil {
		logging.Errorf("TUI run error: %v", err)
		return fmt.Errorf("terminal UI: %w", err)
	}
	return nil
}

// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/toeirei/userdesk/internal/audit"
	"github.com/toeirei/userdesk/internal/i18n"
	"github.com/toeirei/userdesk/util/slicest"
)

func newHistoryCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded operator actions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := audit.Open(cmd.Context(), appConfig.Audit.Type, appConfig.Audit.Dsn)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, i18n.T("cli.history_empty"))
				return nil
			}
			rows := slicest.Map(entries, func(e audit.Entry) []string {
				return []string{e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Username, e.Action, e.Details}
			})
			fmt.Fprintln(out, table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Timestamp", "User", "Action", "Details").
				Rows(rows...).
				String())
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries (0 for all)")
	return cmd
}

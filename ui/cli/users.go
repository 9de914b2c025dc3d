// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/toeirei/userdesk/internal/directory"
	"github.com/toeirei/userdesk/internal/i18n"
	"github.com/toeirei/userdesk/internal/model"
	"github.com/toeirei/userdesk/util/slicest"
)

func newListCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all users in the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := newClient().ListAll(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, users)
			}
			if len(users) == 0 {
				fmt.Fprintln(out, i18n.T("cli.list_empty"))
				return nil
			}
			fmt.Fprintln(out, i18n.T("tui.list.title", len(users)))
			fmt.Fprintln(out, renderUsers(users))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print users as JSON")
	return cmd
}

func newCreateCmd() *cobra.Command {
	var draft model.Draft
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Example: `  userdesk create --name "Ada Lovelace" --email ada@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup := newController(cmd.Context())
			defer cleanup()

			ctrl.SetDraft(draft)
			err := ctrl.Create(cmd.Context())
			text := ctrl.Snapshot().Notification.Text
			if err != nil {
				var appErr *directory.ApplicationError
				if errors.As(err, &appErr) {
					for _, line := range appErr.FieldErrorList() {
						fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("cli.field_error", line))
					}
				}
				return errors.New(text)
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().StringVar(&draft.Name, "name", "", "Name of the new user")
	cmd.Flags().StringVar(&draft.Email, "email", "", "Email of the new user")
	return cmd
}

func newGetCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Look up a single user by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup := newController(cmd.Context())
			defer cleanup()

			ctrl.SetSearchID(args[0])
			if err := ctrl.Search(cmd.Context()); err != nil {
				return errors.New(ctrl.Snapshot().Notification.Text)
			}
			user := ctrl.Snapshot().SearchResult
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, user)
			}
			fmt.Fprintln(out, renderUsers([]model.User{*user}))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the user as JSON")
	return cmd
}

func renderUsers(users []model.User) string {
	rows := slicest.Map(users, func(u model.User) []string {
		return []string{u.ID.String(), u.Name, u.Email}
	})
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(i18n.T("tui.list.col_id"), i18n.T("tui.list.col_name"), i18n.T("tui.list.col_email")).
		Rows(rows...).
		String()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

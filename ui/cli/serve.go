// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"
	"github.com/toeirei/userdesk/internal/devserver"
	"github.com/toeirei/userdesk/internal/i18n"
	"github.com/toeirei/userdesk/internal/logging"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the in-memory reference directory server",
		Long: `Starts an HTTP server implementing the directory contract
(GET /users, POST /users, GET /users/{id}) backed by memory.
Data is lost when the server stops. Useful for local development and demos.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := appConfig.Server.Listen
			if cmd.Flags().Changed("listen") {
				addr, _ = cmd.Flags().GetString("listen")
			}
			srv := devserver.New(devserver.WithLogger(logging.L))
			return srv.ListenAndServe(cmd.Context(), addr, func(a net.Addr) {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("cli.serve_listening", a.String()))
			})
		},
	}
	cmd.Flags().String("listen", ":8080", "Address to listen on")
	return cmd
}

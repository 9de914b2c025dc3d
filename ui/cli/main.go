// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/toeirei/userdesk/buildvars"
	"github.com/toeirei/userdesk/internal/audit"
	"github.com/toeirei/userdesk/internal/config"
	"github.com/toeirei/userdesk/internal/directory"
	"github.com/toeirei/userdesk/internal/i18n"
	"github.com/toeirei/userdesk/internal/logging"
	"github.com/toeirei/userdesk/internal/state"
	"github.com/toeirei/userdesk/internal/tui"
	"golang.org/x/term"
)

const modulePath = "github.com/toeirei/userdesk"

var gitCommit = "dev" // set at build time with the short commit SHA
var buildDate = ""    // set at build time (RFC3339)

var appConfig config.Config

// isTerminal is replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd())) && term.IsTerminal(int(os.Stdin.Fd()))
}

// Execute runs the CLI entrypoint. main should call this and handle the
// process exit.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// NewRootCmd creates and configures a new root cobra command.
// This function is used to create the main application command as well as
// fresh instances for isolated testing.
func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "userdesk",
		Short: "Userdesk manages users in a remote user directory.",
		Long: `Userdesk is a terminal client for a remote user-directory service.
It creates users, lists every known user and looks up a single user by id.

Running without a subcommand will launch the interactive TUI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupDefaultServices(cmd, verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context())
		},
	}
	cmd.Version = compositeVersion()

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file")
	cmd.PersistentFlags().String("language", "en", `UI language ("en", "de")`)
	cmd.PersistentFlags().String("directory.url", config.DefaultDirectoryURL, "Base URL of the user directory service")

	cmd.AddCommand(
		newListCmd(),
		newCreateCmd(),
		newGetCmd(),
		newExportCmd(),
		newHistoryCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return cmd
}

func setupDefaultServices(cmd *cobra.Command, verbose bool) error {
	configPath, err := getConfigPathFromCli(cmd)
	if err != nil {
		return err
	}

	appConfig, err = config.LoadConfig[config.Config](cmd, config.Defaults(), configPath)
	// A "file not found" error is expected on first run.
	if errors.As(err, &viper.ConfigFileNotFoundError{}) {
		if writeErr := config.WriteConfigFile(&appConfig, false); writeErr != nil {
			logging.Warnf("could not write default config file: %v", writeErr)
		} else {
			logging.Debugf("wrote default config to user config path")
		}
	} else if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	level := appConfig.Log.Level
	if verbose {
		level = "debug"
	}
	if err := logging.SetLevel(level); err != nil {
		logging.Warnf("%v", err)
	}

	i18n.Init(appConfig.Language)

	return appConfig.Validate()
}

func getConfigPathFromCli(cmd *cobra.Command) (*string, error) {
	// Only proceed if the user has explicitly set the --config flag.
	if !cmd.Flags().Changed("config") {
		return nil, nil
	}
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("could not read --config flag: %w", err)
	}
	if path == "" {
		return nil, nil
	}
	// Make sure the user-provided file exists to avoid unwanted behavior.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file specified via --config flag not found or is not accessible: %w", err)
	}
	return &path, nil
}

func newClient() *directory.Client {
	return directory.NewClient(directory.Config{
		BaseURL: appConfig.Directory.URL,
		Timeout: appConfig.Directory.Timeout,
		Logger:  logging.L,
	})
}

// openAudit opens the operator action log. A failure is logged and the
// caller continues without one.
func openAudit(ctx context.Context) (*audit.Store, func()) {
	if !appConfig.Audit.Enabled {
		return nil, func() {}
	}
	store, err := audit.Open(ctx, appConfig.Audit.Type, appConfig.Audit.Dsn)
	if err != nil {
		logging.Warnf("audit log unavailable: %v", err)
		return nil, func() {}
	}
	return store, func() { _ = store.Close() }
}

// newController builds the state controller over the configured directory.
func newController(ctx context.Context) (*state.Controller, func()) {
	opts := []state.Option{
		state.WithNotificationDelay(appConfig.Notification.Duration),
		state.WithLogger(logging.L),
	}
	store, closeAudit := openAudit(ctx)
	if store != nil {
		opts = append(opts, state.WithAuditWriter(store))
	}
	ctrl := state.New(newClient(), opts...)
	return ctrl, func() {
		ctrl.Dispose()
		closeAudit()
	}
}

func runTUI(ctx context.Context) error {
	if !isTerminal() {
		return errors.New(i18n.T("cli.error_not_terminal"))
	}

	restore, err := logging.RedirectToFile(appConfig.Log.File)
	if err != nil {
		logging.Warnf("%v", err)
	}
	defer restore()

	ctrl, cleanup := newController(ctx)
	defer cleanup()
	return tui.Run(ctx, ctrl)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			v, c, d := resolveBuildVersion(nil)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "version: %s\n", v)
			fmt.Fprintf(out, "commit: %s\n", c)
			if d != "" {
				fmt.Fprintf(out, "built: %s\n", d)
			}
		},
	}
}

func compositeVersion() string {
	v, c, d := resolveBuildVersion(nil)
	if c != "" && c != "dev" {
		v = v + " (" + c + ")"
	}
	if d != "" {
		v = v + " built: " + d
	}
	return v
}

// resolveBuildVersion computes the best-available version, commit and build
// date for the running binary. If `info` is nil, it reads build info from
// the runtime.
func resolveBuildVersion(info *debug.BuildInfo) (versionOut, commitOut, dateOut string) {
	resolvedVersion := buildvars.VersionOrDefault("dev")
	resolvedCommit := gitCommit
	resolvedDate := buildDate

	if info == nil {
		if local, found := debug.ReadBuildInfo(); found {
			info = local
		}
	}

	if info != nil {
		if resolvedVersion == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			resolvedVersion = info.Main.Version
		}
		// If Main doesn't contain the version (some build paths), try to
		// find our module in the dependencies and use that version.
		if resolvedVersion == "dev" {
			for _, dep := range info.Deps {
				if dep.Path == modulePath && dep.Version != "" {
					resolvedVersion = dep.Version
					break
				}
			}
		}

		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				if s.Value != "" {
					resolvedCommit = s.Value
				}
			case "vcs.time":
				if s.Value != "" {
					resolvedDate = s.Value
				}
			}
		}
	}

	// As a last resort, show the commit passed via ldflags.
	if resolvedVersion == "dev" && gitCommit != "dev" && gitCommit != "" {
		resolvedVersion = gitCommit
	}

	return resolvedVersion, resolvedCommit, resolvedDate
}

// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

// Package logging holds the process-wide structured logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	clog "github.com/charmbracelet/log"
)

// L is the package-level logger. Callers should use the helper functions
// below or pass L to components that accept a *log.Logger.
var L = clog.NewWithOptions(os.Stderr, clog.Options{ReportTimestamp: true})

// Debugf logs a debug-level formatted message.
func Debugf(format string, v ...interface{}) {
	L.Debug(fmt.Sprintf(format, v...))
}

// Infof logs an info-level formatted message.
func Infof(format string, v ...interface{}) {
	L.Info(fmt.Sprintf(format, v...))
}

// Warnf logs a warning-level formatted message.
func Warnf(format string, v ...interface{}) {
	L.Warn(fmt.Sprintf(format, v...))
}

// Errorf logs an error-level formatted message.
func Errorf(format string, v ...interface{}) {
	L.Error(fmt.Sprintf(format, v...))
}

// SetLevel parses a level name (debug, info, warn, error) and applies it.
// Unknown names leave the level unchanged and return an error.
func SetLevel(name string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	lvl, err := clog.ParseLevel(strings.ToLower(name))
	if err != nil {
		return fmt.Errorf("unknown log level %q: %w", name, err)
	}
	L.SetLevel(lvl)
	return nil
}

// SetOutput redirects the package logger.
func SetOutput(w io.Writer) {
	L.SetOutput(w)
}

// RedirectToFile points the package logger at path (created if missing) and
// returns a function that restores the previous writer and closes the file.
// An empty path selects userdesk.log in the user cache directory.
func RedirectToFile(path string) (func(), error) {
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return func() {}, fmt.Errorf("could not get user cache directory: %w", err)
		}
		path = filepath.Join(dir, "userdesk", "userdesk.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return func() {}, fmt.Errorf("could not create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return func() {}, fmt.Errorf("could not open log file: %w", err)
	}
	L.SetOutput(f)
	return func() {
		L.SetOutput(os.Stderr)
		_ = f.Close()
	}, nil
}

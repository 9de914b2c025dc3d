// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Userdesk.
//
// Usage:
//
//	go run . [flags]
//	./userdesk [flags]
//
// This launches the Userdesk CLI. See --help for options.
package main

import (
	"os"

	"github.com/toeirei/userdesk/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

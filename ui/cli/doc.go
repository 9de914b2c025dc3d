// Copyright (c) 2026 ToeiRei
// Userdesk - user directory client
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Userdesk using Cobra.
// It wires configuration, logging, localization and the operator action log,
// then hands off to the state controller, the terminal UI or the reference
// directory server. Commands stay thin and delegate to internal packages.
package cli

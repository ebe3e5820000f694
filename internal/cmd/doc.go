// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package cmd provides the CLI command entry point for the runner. It handles
// flag parsing, logging setup, wiring of the host facilities and error
// reporting.
package cmd

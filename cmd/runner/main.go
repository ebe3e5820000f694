// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Runner provisions a bridge and tap network topology for a single guest and
// replaces itself with the guest runtime.
package main

import (
	"os"

	"github.com/aibor/unikernel-runner/internal/cmd"
)

func main() {
	os.Exit(cmd.Run(
		os.Args[1:],
		cmd.IO{Stderr: os.Stderr},
		cmd.LinuxHost,
	))
}

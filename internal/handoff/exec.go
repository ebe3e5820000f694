// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package handoff

import (
	"github.com/aibor/unikernel-runner/internal/launch"
	"github.com/aibor/unikernel-runner/internal/sys"
	"golang.org/x/sys/unix"
)

// Execute replaces the current process image with the given command.
//
// It does not return on success. Open files without close-on-exec flag, like
// a tap interface file, are inherited by the new process image.
func Execute(cmd launch.Command, env []string) error {
	err := sys.ValidateExecutable(cmd.Path)
	if err != nil {
		return &Error{Path: cmd.Path, Err: err}
	}

	err = unix.Exec(cmd.Path, cmd.Argv, env)

	return &Error{Path: cmd.Path, Err: err}
}

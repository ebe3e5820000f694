// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import "errors"

var (
	// ErrEmptyPath is returned if an empty path is given.
	ErrEmptyPath = errors.New("path must not be empty")

	// ErrNotRegularFile is returned if a path does not point to a regular
	// file.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrNotExecutable is returned if a file has no execute permission bit
	// set.
	ErrNotExecutable = errors.New("not executable")
)

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package handoff

// Error is a failed process replacement.
type Error struct {
	Path string
	Err  error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	return "exec " + e.Path + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*Error) Is(other error) bool {
	_, ok := other.(*Error)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *Error) Unwrap() error {
	return e.Err
}

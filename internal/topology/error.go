// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package topology

import "fmt"

// Error is a failed topology operation on an interface.
type Error struct {
	Op        string
	Interface string
	Err       error
}

// Error implements the [error] interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Interface, e.Err)
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

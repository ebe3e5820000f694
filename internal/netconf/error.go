// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netconf

import "fmt"

// QueryError wraps failures of the netlink subsystem itself. It is distinct
// from [ErrNotFound], which means the query succeeded but returned nothing.
type QueryError struct {
	Op  string
	Err error
}

// Error implements the [error] interface.
func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s: %v", e.Op, e.Err)
}

// Is implements the [errors.Is] interface.
func (*QueryError) Is(other error) bool {
	_, ok := other.(*QueryError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *QueryError) Unwrap() error {
	return e.Err
}

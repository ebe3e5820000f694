// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package netconf

import "errors"

var (
	// ErrNotFound is returned if the interface or an IPv4 address on it does
	// not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoGateway is returned by [Discover] if the host has no IPv4 default
	// gateway. Guests without gateway are not supported.
	ErrNoGateway = errors.New("no default gateway found")
)

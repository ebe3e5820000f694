// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package launch

import "errors"

var (
	// ErrKindInvalid is returned if a guest runtime kind is unknown.
	ErrKindInvalid = errors.New("unknown kind")

	// ErrLimitExceeded is returned if the guest kernel command line exceeds
	// [MaxCmdlineLen].
	ErrLimitExceeded = errors.New("command line too long")

	// ErrArgumentCollision is returned if two [Argument]s are considered equal.
	ErrArgumentCollision = errors.New("colliding args")

	// ErrTapFileMissing is returned if the kind needs a tap file descriptor
	// but none is given.
	ErrTapFileMissing = errors.New("tap file descriptor missing")

	// ErrInvalidAddress is returned if the address or gateway is not a valid
	// IPv4 address.
	ErrInvalidAddress = errors.New("invalid IPv4 address")
)

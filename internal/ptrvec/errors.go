// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package ptrvec

import "errors"

var (
	// ErrOverflow is the panic value used if the requested capacity of a
	// [Vector] overflows.
	ErrOverflow = errors.New("pointer vector capacity overflow")

	// ErrFinalized is the panic value used if a [Vector] is appended to after
	// [Vector.Finalize] was called.
	ErrFinalized = errors.New("pointer vector already finalized")
)

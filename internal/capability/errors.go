// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capability

import "errors"

var (
	// ErrPermissionDenied is returned if a required capability is not in the
	// effective set of the process.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrAlreadyDropped is returned if [Gate.DropTo] is called more than
	// once.
	ErrAlreadyDropped = errors.New("capabilities already dropped")

	// ErrDropIncomplete is returned if capabilities are still present after
	// they have been dropped.
	ErrDropIncomplete = errors.New("capabilities still present after drop")
)

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package topology

import "errors"

var (
	// ErrNameCollision is returned if an interface to create exists already.
	ErrNameCollision = errors.New("interface exists already")

	// ErrNotEnslaved is returned if the address of an interface is about to be
	// removed before it is attached to a bridge together with the tap.
	ErrNotEnslaved = errors.New("interface is not enslaved to the bridge")

	// ErrUnknownInterface is returned if an interface is used that has not
	// been looked up by [Builder.Refresh].
	ErrUnknownInterface = errors.New("unknown interface")
)

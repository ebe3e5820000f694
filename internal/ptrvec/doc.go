// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package ptrvec provides a growable, nil terminated vector of pointers. It is
// used to assemble process argument vectors without knowing the final number
// of entries in advance.
//
// The backing storage is always terminated by a nil entry right after the last
// live entry, so [Vector.View] can be passed anywhere a nil terminated list is
// expected.
package ptrvec

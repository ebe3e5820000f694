// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package hosttest provides in-memory doubles of the host subsystems the runner
// talks to: netlink, the tun device and the capability syscalls.
//
// All doubles share a [Log] that records every call in order, so tests can
// assert on the sequence of operations across subsystems.
package hosttest

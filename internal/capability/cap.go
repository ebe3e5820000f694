// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capability

import (
	"math/bits"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Cap is a single Linux capability number.
type Cap int

// Capabilities used by the runner.
const (
	NetAdmin       Cap = unix.CAP_NET_ADMIN
	NetBindService Cap = unix.CAP_NET_BIND_SERVICE
	SetPCap        Cap = unix.CAP_SETPCAP
)

var capNames = map[Cap]string{
	NetAdmin:       "CAP_NET_ADMIN",
	NetBindService: "CAP_NET_BIND_SERVICE",
	SetPCap:        "CAP_SETPCAP",
}

// String implements [fmt.Stringer].
func (c Cap) String() string {
	if name, exists := capNames[c]; exists {
		return name
	}

	return "cap(" + strconv.Itoa(int(c)) + ")"
}

// Set is a set of capabilities as used by capget(2) and capset(2).
type Set uint64

// SetOf returns a [Set] with the given capabilities.
func SetOf(caps ...Cap) Set {
	var s Set
	for _, c := range caps {
		s = s.With(c)
	}

	return s
}

// Has returns true if the capability is in the set.
func (s Set) Has(c Cap) bool {
	return c >= 0 && c < 64 && s&(1<<uint(c)) != 0
}

// With returns a copy of the set with the capability added.
func (s Set) With(c Cap) Set {
	if c < 0 || c >= 64 {
		return s
	}

	return s | 1<<uint(c)
}

// Caps returns the capabilities in the set in ascending order.
func (s Set) Caps() []Cap {
	caps := make([]Cap, 0, bits.OnesCount64(uint64(s)))

	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		caps = append(caps, Cap(bits.TrailingZeros64(rest)))
	}

	return caps
}

// String implements [fmt.Stringer].
func (s Set) String() string {
	caps := s.Caps()
	names := make([]string, len(caps))

	for idx, c := range caps {
		names[idx] = c.String()
	}

	return "{" + strings.Join(names, ",") + "}"
}

// State is the capability state of a process.
type State struct {
	Effective   Set
	Permitted   Set
	Inheritable Set
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package hosttest

import (
	"slices"
	"strings"
)

// Log is an ordered record of calls.
type Log struct {
	entries []string
}

// Add records a call.
func (l *Log) Add(entry ...string) {
	l.entries = append(l.entries, strings.Join(entry, " "))
}

// Entries returns all recorded calls.
func (l *Log) Entries() []string {
	return slices.Clone(l.entries)
}

// Filter returns all recorded calls that start with one of the given prefixes.
func (l *Log) Filter(prefixes ...string) []string {
	var entries []string

	for _, entry := range l.entries {
		for _, prefix := range prefixes {
			if strings.HasPrefix(entry, prefix) {
				entries = append(entries, entry)
				break
			}
		}
	}

	return entries
}

// Index returns the index of the first call equal to entry or -1.
func (l *Log) Index(entry string) int {
	return slices.Index(l.entries, entry)
}

// LastIndex returns the index of the last call that starts with one of the
// given prefixes or -1.
func (l *Log) LastIndex(prefixes ...string) int {
	for idx := len(l.entries) - 1; idx >= 0; idx-- {
		for _, prefix := range prefixes {
			if strings.HasPrefix(l.entries[idx], prefix) {
				return idx
			}
		}
	}

	return -1
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package launch

import (
	"fmt"
	"slices"
	"strings"
)

// Argument is a QEMU argument with or without value.
type Argument struct {
	name       string
	value      string
	repeatable bool
}

// String implements [fmt.Stringer].
func (a Argument) String() string {
	s := "-" + a.name
	if a.value != "" {
		s += " " + a.value
	}

	return s
}

// Equal compares the [Argument]s.
//
// Names of unique arguments collide regardless of their value. Repeatable
// arguments collide only if the value is the same as well.
func (a Argument) Equal(other Argument) bool {
	if a.name != other.name {
		return false
	}

	if a.repeatable {
		return a.value == other.value
	}

	return true
}

// UniqueArg returns a new [Argument] that may be used only once. Multiple
// values are joined by comma.
func UniqueArg(name string, value ...string) Argument {
	return Argument{
		name:  name,
		value: strings.Join(value, ","),
	}
}

// RepeatableArg returns a new [Argument] that may be used multiple times with
// different values. Multiple values are joined by comma.
func RepeatableArg(name string, value ...string) Argument {
	return Argument{
		name:       name,
		value:      strings.Join(value, ","),
		repeatable: true,
	}
}

// appendArguments adds the [Argument]s to the argument vector.
//
// It returns an error if the uniqueness constraint of any [Argument] is
// violated. Nothing is added in this case.
func appendArguments(argv *argVector, args []Argument) error {
	for idx, arg := range args {
		if i := slices.IndexFunc(args[:idx], arg.Equal); i != -1 {
			return fmt.Errorf(
				"%w: %s, %s",
				ErrArgumentCollision,
				arg.String(),
				args[i].String(),
			)
		}
	}

	for _, arg := range args {
		argv.add("-" + arg.name)

		if arg.value != "" {
			argv.add(arg.value)
		}
	}

	return nil
}

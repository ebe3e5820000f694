// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package launch

import "github.com/aibor/unikernel-runner/internal/ptrvec"

// argVector collects arguments in a nil terminated pointer vector.
type argVector struct {
	vec *ptrvec.Vector[string]
}

func newArgVector() *argVector {
	return &argVector{vec: ptrvec.New[string]()}
}

func (a *argVector) add(values ...string) {
	for _, value := range values {
		a.vec.Append(&value)
	}
}

func (a *argVector) discard() {
	a.vec.Discard()
}

// finalize returns the collected arguments without the terminator. The
// vector must not be used afterwards.
func (a *argVector) finalize() []string {
	entries := a.vec.Finalize()
	args := make([]string, 0, len(entries)-1)

	for _, entry := range entries[:len(entries)-1] {
		args = append(args, *entry)
	}

	return args
}

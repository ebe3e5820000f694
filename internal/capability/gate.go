// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capability

import (
	"fmt"
)

// Kernel provides the capability syscalls used by a [Gate].
type Kernel interface {
	// Get returns the capability state of the process.
	Get() (State, error)

	// Set applies the given capability state to the process.
	Set(state State) error

	// DropBound removes the capability from the bounding set.
	DropBound(c Cap) error

	// LastCap returns the highest capability number known to the kernel.
	LastCap() Cap
}

// Gate guards the privileged part of the run.
type Gate struct {
	kernel  Kernel
	dropped bool
}

// NewGate returns a new [Gate] using the given [Kernel].
func NewGate(kernel Kernel) *Gate {
	return &Gate{kernel: kernel}
}

// Require checks that the capability is in the effective set of the process.
//
// It returns [ErrPermissionDenied] if it is not.
func (g *Gate) Require(c Cap) error {
	state, err := g.kernel.Get()
	if err != nil {
		return fmt.Errorf("get capabilities: %w", err)
	}

	if !state.Effective.Has(c) {
		return fmt.Errorf("%w: %s is required", ErrPermissionDenied, c)
	}

	return nil
}

// DropTo clears the effective, permitted and inheritable sets except for the
// retained capabilities.
//
// The bounding set is reduced as well if the process is allowed to do so. The
// resulting state is read back and [ErrDropIncomplete] is returned if anything
// but the retained capabilities is left. DropTo can be called only once. A
// second call returns [ErrAlreadyDropped], even if the first one failed.
func (g *Gate) DropTo(retained Set) error {
	if g.dropped {
		return ErrAlreadyDropped
	}

	g.dropped = true

	current, err := g.kernel.Get()
	if err != nil {
		return fmt.Errorf("get capabilities: %w", err)
	}

	// Dropping from the bounding set requires CAP_SETPCAP, which is dropped
	// itself by the capset below. So, do it first.
	if current.Effective.Has(SetPCap) {
		for c := Cap(0); c <= g.kernel.LastCap(); c++ {
			if retained.Has(c) {
				continue
			}

			if err := g.kernel.DropBound(c); err != nil {
				return fmt.Errorf("drop %s from bounding set: %w", c, err)
			}
		}
	}

	reduced := State{
		Effective:   retained,
		Permitted:   retained,
		Inheritable: retained,
	}

	if err := g.kernel.Set(reduced); err != nil {
		return fmt.Errorf("set capabilities: %w", err)
	}

	actual, err := g.kernel.Get()
	if err != nil {
		return fmt.Errorf("verify capabilities: %w", err)
	}

	if actual.Effective&^retained != 0 ||
		actual.Permitted&^retained != 0 ||
		actual.Inheritable&^retained != 0 {
		return fmt.Errorf("%w: %s", ErrDropIncomplete, actual.Permitted)
	}

	return nil
}

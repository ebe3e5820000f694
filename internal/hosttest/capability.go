// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package hosttest

import (
	"strconv"

	"github.com/aibor/unikernel-runner/internal/capability"
	"golang.org/x/sys/unix"
)

// Capabilities is an in-memory [capability.Kernel].
//
// It enforces the capset(2) rule that the permitted set can only shrink and
// the effective set must be a subset of the permitted set. Errors can be
// injected per call by adding them to Errors with the log entry as key, e.g.
// "Capset".
type Capabilities struct {
	Log      *Log
	Errors   map[string]error
	State    capability.State
	Bounding capability.Set
	Last     capability.Cap

	// Sticky capabilities are not removed by Set. It simulates a broken
	// kernel that silently ignores the drop.
	Sticky capability.Set
}

// NewCapabilities returns a [Capabilities] with the given capabilities in the
// effective and permitted set and a full bounding set.
func NewCapabilities(log *Log, caps ...capability.Cap) *Capabilities {
	set := capability.SetOf(caps...)

	return &Capabilities{
		Log:    log,
		Errors: map[string]error{},
		State: capability.State{
			Effective: set,
			Permitted: set,
		},
		Bounding: ^capability.Set(0),
		Last:     unix.CAP_LAST_CAP,
	}
}

func (c *Capabilities) call(entry ...string) error {
	c.Log.Add(entry...)

	key := c.Log.entries[len(c.Log.entries)-1]
	if err, exists := c.Errors[key]; exists {
		return err
	}

	return nil
}

// Get implements [capability.Kernel].
func (c *Capabilities) Get() (capability.State, error) {
	if err := c.call("Capget"); err != nil {
		return capability.State{}, err
	}

	return c.State, nil
}

// Set implements [capability.Kernel].
func (c *Capabilities) Set(state capability.State) error {
	if err := c.call("Capset", state.Permitted.String()); err != nil {
		return err
	}

	if state.Permitted&^c.State.Permitted != 0 ||
		state.Effective&^state.Permitted != 0 {
		return unix.EPERM
	}

	c.State = capability.State{
		Effective:   state.Effective | c.Sticky,
		Permitted:   state.Permitted | c.Sticky,
		Inheritable: state.Inheritable | c.Sticky,
	}

	return nil
}

// DropBound implements [capability.Kernel].
func (c *Capabilities) DropBound(capNum capability.Cap) error {
	if err := c.call("DropBound", strconv.Itoa(int(capNum))); err != nil {
		return err
	}

	if !c.State.Effective.Has(capability.SetPCap) {
		return unix.EPERM
	}

	c.Bounding &^= capability.SetOf(capNum)

	return nil
}

// LastCap implements [capability.Kernel].
func (c *Capabilities) LastCap() capability.Cap {
	return c.Last
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package topology

import (
	"net/netip"
	"os"
)

// Spec describes the topology to build.
type Spec struct {
	// Name of the existing guest facing interface of the host.
	Uplink string

	// Names of the interfaces to create.
	Bridge string
	Tap    string

	// Address currently bound to the uplink interface. It is removed once
	// the uplink is enslaved.
	Address netip.Prefix

	// Keep the tap interface after the process exits. If false, a file bound
	// to the tap interface is returned in [Topology.TapFile].
	PersistentTap bool
}

// Topology is a successfully built bridge topology.
type Topology struct {
	Bridge string
	Tap    string
	Uplink string

	// TapFile is the file bound to a non-persistent tap interface. Nil for
	// persistent taps.
	TapFile *os.File

	members []string
}

// Members returns the names of the interfaces enslaved to the bridge.
func (t *Topology) Members() []string {
	return t.members
}

// Build creates the topology described by the [Spec].
//
// The steps run in a fixed order: create bridge, create tap, refresh, enslave
// uplink, enslave tap, migrate address, bring up tap, bring up bridge. The
// first failing step aborts. Already applied changes are kept. Call
// [Builder.Teardown] to remove them.
func (b *Builder) Build(spec Spec) (*Topology, error) {
	err := b.CreateBridge(spec.Bridge)
	if err != nil {
		return nil, err
	}

	tapFile, err := b.CreateTap(spec.Tap, spec.PersistentTap)
	if err != nil {
		return nil, err
	}

	steps := []func() error{
		func() error { return b.Refresh(spec.Uplink, spec.Bridge, spec.Tap) },
		func() error { return b.Enslave(spec.Bridge, spec.Uplink) },
		func() error { return b.Enslave(spec.Bridge, spec.Tap) },
		func() error { return b.MigrateAddress(spec.Uplink, spec.Address) },
		func() error { return b.BringUp(spec.Tap) },
		func() error { return b.BringUp(spec.Bridge) },
	}

	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	return &Topology{
		Bridge:  spec.Bridge,
		Tap:     spec.Tap,
		Uplink:  spec.Uplink,
		TapFile: tapFile,
		members: b.Members(spec.Bridge),
	}, nil
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package topology_test

import (
	"net/netip"
	"testing"

	"github.com/aibor/unikernel-runner/internal/hosttest"
	"github.com/aibor/unikernel-runner/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func testSpec(persistent bool) topology.Spec {
	return topology.Spec{
		Uplink:        "eth0",
		Bridge:        "br0",
		Tap:           "tap0",
		Address:       netip.MustParsePrefix("10.0.0.2/24"),
		PersistentTap: persistent,
	}
}

func TestBuild(t *testing.T) {
	log := &hosttest.Log{}
	handle := hosttest.Setup(log, "eth0", "10.0.0.2/24", "10.0.0.1")

	topo, err := topology.NewBuilder(handle, handle).Build(testSpec(false))
	require.NoError(t, err)

	require.NotNil(t, topo.TapFile)
	t.Cleanup(func() { _ = topo.TapFile.Close() })

	expectedLog := []string{
		"LinkAdd br0",
		"CreateTap tap0",
		"LinkByName eth0",
		"LinkByName br0",
		"LinkByName tap0",
		"LinkSetMaster eth0 br0",
		"LinkSetMaster tap0 br0",
		"AddrDel eth0 10.0.0.2/24",
		"LinkSetUp tap0",
		"LinkSetUp br0",
	}

	assert.Equal(t, expectedLog, log.Entries())
	assert.Equal(t, []string{"eth0", "tap0"}, topo.Members())
	assert.Equal(t, "br0", topo.Bridge)
	assert.Equal(t, "tap0", topo.Tap)
	assert.Equal(t, "eth0", topo.Uplink)
	assert.Empty(t, handle.Addrs["eth0"])
	assert.True(t, handle.Up["br0"])
	assert.True(t, handle.Up["tap0"])
	assert.False(t, handle.Up["eth0"])
}

func TestBuildPersistentTap(t *testing.T) {
	handle := hosttest.Setup(&hosttest.Log{}, "eth0", "10.0.0.2/24", "10.0.0.1")

	topo, err := topology.NewBuilder(handle, handle).Build(testSpec(true))
	require.NoError(t, err)

	assert.Nil(t, topo.TapFile)
}

func TestBuildNameCollision(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*hosttest.Netlink)
		iface string
	}{
		{
			name:  "bridge exists",
			setup: func(n *hosttest.Netlink) { n.AddDevice("br0") },
			iface: "br0",
		},
		{
			name:  "tap exists",
			setup: func(n *hosttest.Netlink) { n.AddDevice("tap0") },
			iface: "tap0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &hosttest.Log{}
			handle := hosttest.Setup(log, "eth0", "10.0.0.2/24", "10.0.0.1")
			tt.setup(handle)

			_, err := topology.NewBuilder(handle, handle).Build(testSpec(true))
			require.ErrorIs(t, err, topology.ErrNameCollision)

			var topoErr *topology.Error

			require.ErrorAs(t, err, &topoErr)
			assert.Equal(t, tt.iface, topoErr.Interface)
			assert.Empty(t, log.Filter("LinkSetMaster", "AddrDel", "LinkSetUp"))
		})
	}
}

func TestBuildSecondRunFails(t *testing.T) {
	handle := hosttest.Setup(&hosttest.Log{}, "eth0", "10.0.0.2/24", "10.0.0.1")

	_, err := topology.NewBuilder(handle, handle).Build(testSpec(true))
	require.NoError(t, err)

	_, err = topology.NewBuilder(handle, handle).Build(testSpec(true))
	require.ErrorIs(t, err, topology.ErrNameCollision)
}

func TestBuildStepFails(t *testing.T) {
	tests := []struct {
		name          string
		errKey        string
		op            string
		iface         string
		notReachedLog string
	}{
		{
			name:          "refresh",
			errKey:        "LinkByName br0",
			op:            "refresh",
			iface:         "br0",
			notReachedLog: "LinkSetMaster",
		},
		{
			name:          "enslave uplink",
			errKey:        "LinkSetMaster eth0 br0",
			op:            "enslave",
			iface:         "eth0",
			notReachedLog: "LinkSetMaster tap0",
		},
		{
			name:          "enslave tap",
			errKey:        "LinkSetMaster tap0 br0",
			op:            "enslave",
			iface:         "tap0",
			notReachedLog: "AddrDel",
		},
		{
			name:          "migrate address",
			errKey:        "AddrDel eth0 10.0.0.2/24",
			op:            "migrate address",
			iface:         "eth0",
			notReachedLog: "LinkSetUp",
		},
		{
			name:          "bring up tap",
			errKey:        "LinkSetUp tap0",
			op:            "bring up",
			iface:         "tap0",
			notReachedLog: "LinkSetUp br0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &hosttest.Log{}
			handle := hosttest.Setup(log, "eth0", "10.0.0.2/24", "10.0.0.1")
			handle.Errors[tt.errKey] = unix.EPERM

			_, err := topology.NewBuilder(handle, handle).Build(testSpec(true))
			require.ErrorIs(t, err, unix.EPERM)

			var topoErr *topology.Error

			require.ErrorAs(t, err, &topoErr)
			assert.Equal(t, tt.op, topoErr.Op)
			assert.Equal(t, tt.iface, topoErr.Interface)
			assert.Empty(t, log.Filter(tt.notReachedLog))

			// Partial changes stay in place.
			assert.Contains(t, handle.Links, "br0")
			assert.Contains(t, handle.Links, "tap0")
		})
	}
}

func TestMigrateAddressRequiresEnslavement(t *testing.T) {
	log := &hosttest.Log{}
	handle := hosttest.Setup(log, "eth0", "10.0.0.2/24", "10.0.0.1")
	builder := topology.NewBuilder(handle, handle)

	require.NoError(t, builder.Refresh("eth0"))

	err := builder.MigrateAddress("eth0", netip.MustParsePrefix("10.0.0.2/24"))
	require.ErrorIs(t, err, topology.ErrNotEnslaved)
	assert.Empty(t, log.Filter("AddrDel"))
	assert.Len(t, handle.Addrs["eth0"], 1)
}

func TestMigrateAddressRequiresSecondMember(t *testing.T) {
	log := &hosttest.Log{}
	handle := hosttest.Setup(log, "eth0", "10.0.0.2/24", "10.0.0.1")
	builder := topology.NewBuilder(handle, handle)

	require.NoError(t, builder.CreateBridge("br0"))
	_, err := builder.CreateTap("tap0", true)
	require.NoError(t, err)
	require.NoError(t, builder.Refresh("eth0", "br0", "tap0"))
	require.NoError(t, builder.Enslave("br0", "eth0"))

	prefix := netip.MustParsePrefix("10.0.0.2/24")

	err = builder.MigrateAddress("eth0", prefix)
	require.ErrorIs(t, err, topology.ErrNotEnslaved)
	assert.Empty(t, log.Filter("AddrDel"))
	assert.Len(t, handle.Addrs["eth0"], 1)

	require.NoError(t, builder.Enslave("br0", "tap0"))
	require.NoError(t, builder.MigrateAddress("eth0", prefix))
	assert.Empty(t, handle.Addrs["eth0"])
}

func TestUnrefreshedInterface(t *testing.T) {
	handle := hosttest.Setup(&hosttest.Log{}, "eth0", "10.0.0.2/24", "10.0.0.1")
	builder := topology.NewBuilder(handle, handle)

	require.NoError(t, builder.CreateBridge("br0"))

	err := builder.Enslave("br0", "eth0")
	require.ErrorIs(t, err, topology.ErrUnknownInterface)

	err = builder.BringUp("br0")
	require.ErrorIs(t, err, topology.ErrUnknownInterface)
}

func TestTeardown(t *testing.T) {
	log := &hosttest.Log{}
	handle := hosttest.Setup(log, "eth0", "10.0.0.2/24", "10.0.0.1")
	handle.Errors["LinkSetUp br0"] = unix.EPERM

	builder := topology.NewBuilder(handle, handle)

	_, err := builder.Build(testSpec(false))
	require.Error(t, err)

	require.NoError(t, builder.Teardown())

	deleteLog := log.Filter("LinkDel")
	assert.Equal(t, []string{"LinkDel tap0", "LinkDel br0"}, deleteLog)
	assert.NotContains(t, handle.Links, "br0")
	assert.NotContains(t, handle.Links, "tap0")
	assert.Contains(t, handle.Links, "eth0")
	assert.Empty(t, handle.Masters)
	assert.Empty(t, builder.Members("br0"))

	// Nothing left to tear down.
	require.NoError(t, builder.Teardown())
	assert.Len(t, log.Filter("LinkDel"), 2)
}

func TestTeardownCollectsErrors(t *testing.T) {
	handle := hosttest.Setup(&hosttest.Log{}, "eth0", "10.0.0.2/24", "10.0.0.1")
	handle.Errors["LinkDel tap0"] = unix.EBUSY

	builder := topology.NewBuilder(handle, handle)

	_, err := builder.Build(testSpec(true))
	require.NoError(t, err)

	err = builder.Teardown()
	require.ErrorIs(t, err, unix.EBUSY)
	require.ErrorIs(t, err, &topology.Error{})
	assert.NotContains(t, handle.Links, "br0")
}

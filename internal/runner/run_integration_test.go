// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

//go:build integration_netns

package runner_test

import (
	"net"
	"net/netip"
	"os"
	"runtime"
	"testing"

	"github.com/aibor/unikernel-runner/internal/capability"
	"github.com/aibor/unikernel-runner/internal/hosttest"
	"github.com/aibor/unikernel-runner/internal/launch"
	"github.com/aibor/unikernel-runner/internal/runner"
	"github.com/aibor/unikernel-runner/internal/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
	"golang.org/x/sys/unix"
)

// isolatedHandle switches the calling thread into a new network namespace and
// returns a netlink handle for it. The thread is restored on cleanup.
func isolatedHandle(t *testing.T) *netlink.Handle {
	t.Helper()

	if os.Geteuid() != 0 {
		t.Skip("requires root")
	}

	runtime.LockOSThread()

	origin, err := netns.Get()
	require.NoError(t, err)

	isolated, err := netns.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = netns.Set(origin)
		_ = isolated.Close()
		_ = origin.Close()

		runtime.UnlockOSThread()
	})

	handle, err := netlink.NewHandleAt(isolated)
	require.NoError(t, err)
	t.Cleanup(handle.Close)

	uplink := &netlink.Dummy{LinkAttrs: netlink.LinkAttrs{Name: "eth0"}}
	require.NoError(t, handle.LinkAdd(uplink))
	require.NoError(t, handle.LinkSetUp(uplink))

	addr, err := netlink.ParseAddr("10.0.0.2/24")
	require.NoError(t, err)
	require.NoError(t, handle.AddrAdd(uplink, addr))

	require.NoError(t, handle.RouteAdd(&netlink.Route{
		LinkIndex: uplink.Attrs().Index,
		Gw:        net.ParseIP("10.0.0.1"),
	}))

	return handle
}

func TestRunIsolatedNamespace(t *testing.T) {
	handle := isolatedHandle(t)

	var execed []launch.Command

	host := runner.Host{
		Netlink: handle,
		Tun:     topology.TunDevice{},
		Gate: capability.NewGate(hosttest.NewCapabilities(&hosttest.Log{},
			capability.NetAdmin,
			capability.NetBindService,
		)),
		Exec: func(cmd launch.Command, _ []string) error {
			execed = append(execed, cmd)
			return nil
		},
	}

	cfg := runner.Config{
		Kind:   launch.KindUnix,
		Guest:  "/guest/app",
		Uplink: runner.DefaultUplink,
		Bridge: runner.DefaultBridge,
		Tap:    runner.DefaultTap,
	}

	// The handle is released by Run, so query with a new one.
	require.NoError(t, runner.Run(cfg, host))

	check, err := netlink.NewHandle(unix.NETLINK_ROUTE)
	require.NoError(t, err)
	t.Cleanup(check.Close)

	bridge, err := check.LinkByName("br0")
	require.NoError(t, err)
	assert.NotZero(t, bridge.Attrs().Flags&net.FlagUp, "bridge up")

	for _, name := range []string{"eth0", "tap0"} {
		link, err := check.LinkByName(name)
		require.NoError(t, err)
		assert.Equal(t, bridge.Attrs().Index, link.Attrs().MasterIndex, name)
	}

	tap, err := check.LinkByName("tap0")
	require.NoError(t, err)
	assert.NotZero(t, tap.Attrs().Flags&net.FlagUp, "tap up")

	uplink, err := check.LinkByName("eth0")
	require.NoError(t, err)

	addrs, err := check.AddrList(uplink, netlink.FAMILY_V4)
	require.NoError(t, err)
	assert.Empty(t, addrs)

	require.Len(t, execed, 1)
	assert.Equal(t, []string{
		"/guest/app",
		"--interface=tap0",
		"--ipv4=10.0.0.2/24",
		"--ipv4-gateway=10.0.0.1",
	}, execed[0].Argv)

	// Second run must not reuse the topology.
	handle2, err := netlink.NewHandle(unix.NETLINK_ROUTE)
	require.NoError(t, err)

	// Address and default route are gone with the first run, so restore them
	// to get to the topology stage.
	require.NoError(t, handle2.AddrAdd(uplink, mustParseAddr(t, "10.0.0.2/24")))
	require.NoError(t, handle2.RouteReplace(&netlink.Route{
		LinkIndex: uplink.Attrs().Index,
		Gw:        net.ParseIP("10.0.0.1"),
	}))

	host.Netlink = handle2
	host.Gate = capability.NewGate(hosttest.NewCapabilities(&hosttest.Log{},
		capability.NetAdmin,
		capability.NetBindService,
	))

	err = runner.Run(cfg, host)
	require.ErrorIs(t, err, topology.ErrNameCollision)
}

func TestBuilderTeardownIsolatedNamespace(t *testing.T) {
	handle := isolatedHandle(t)
	builder := topology.NewBuilder(handle, topology.TunDevice{})

	topo, err := builder.Build(topology.Spec{
		Uplink:  "eth0",
		Bridge:  "br0",
		Tap:     "tap0",
		Address: netip.MustParsePrefix("10.0.0.2/24"),
	})
	require.NoError(t, err)
	require.NotNil(t, topo.TapFile)

	require.NoError(t, builder.Teardown())

	_, err = handle.LinkByName("br0")
	require.Error(t, err)

	// Non-persistent tap vanishes once its file is closed.
	_, err = handle.LinkByName("tap0")
	require.Error(t, err)

	_, err = handle.LinkByName("eth0")
	require.NoError(t, err)
}

func mustParseAddr(t *testing.T, s string) *netlink.Addr {
	t.Helper()

	addr, err := netlink.ParseAddr(s)
	require.NoError(t, err)

	return addr
}

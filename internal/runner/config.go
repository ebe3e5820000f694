// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package runner

import (
	"io"
	"io/fs"

	"github.com/aibor/unikernel-runner/internal/capability"
	"github.com/aibor/unikernel-runner/internal/launch"
	"github.com/aibor/unikernel-runner/internal/netconf"
	"github.com/aibor/unikernel-runner/internal/topology"
)

// Default interface names.
const (
	DefaultUplink = "eth0"
	DefaultBridge = "br0"
	DefaultTap    = "tap0"
)

// ResolvConfPath is the path of the resolver configuration relative to the
// root of [Host.FS].
const ResolvConfPath = "etc/resolv.conf"

// RequiredCap must be effective for building the topology.
const RequiredCap = capability.NetAdmin

// RetainedCaps are kept for the guest. Everything else is dropped before the
// handoff.
var RetainedCaps = capability.SetOf(capability.NetBindService)

// Config is the configuration of a single [Run].
type Config struct {
	Kind  launch.Kind
	Guest string
	Args  []string

	Uplink string
	Bridge string
	Tap    string

	// Rollback removes already created interfaces if building the topology
	// fails.
	Rollback bool

	// Env is the environment of the guest process.
	Env []string
}

// NetlinkHandle is the part of [netlink.Handle] used by [Run].
type NetlinkHandle interface {
	netconf.Handle
	topology.Handle
	Close()
}

// Gate checks and drops capabilities. See [capability.Gate].
type Gate interface {
	Require(c capability.Cap) error
	DropTo(retained capability.Set) error
}

// ExecFunc replaces the process with the given command. It returns only on
// failure.
type ExecFunc func(cmd launch.Command, env []string) error

// Host provides access to the host system.
type Host struct {
	Netlink NetlinkHandle
	Tun     topology.TapCreator
	Gate    Gate
	Exec    ExecFunc

	// Rand is the source for the guest MAC address. Defaults to
	// [crypto/rand.Reader] if nil.
	Rand io.Reader

	// FS is the host root file system. If nil, the resolver configuration is
	// not read.
	FS fs.FS
}

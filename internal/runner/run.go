// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package runner

import (
	"log/slog"

	"github.com/aibor/unikernel-runner/internal/launch"
	"github.com/aibor/unikernel-runner/internal/netconf"
	"github.com/aibor/unikernel-runner/internal/topology"
	"github.com/davecgh/go-spew/spew"
)

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// dump renders the value with spew once the log record is actually handled.
type dump struct {
	value any
}

// LogValue implements [slog.LogValuer].
func (d dump) LogValue() slog.Value {
	return slog.StringValue(dumpConfig.Sdump(d.value))
}

// Run provisions the host network and replaces the process with the guest.
//
// It returns only on failure. The returned error is a [*StageError]. Changes
// to the host network are not undone on failure unless [Config.Rollback] is
// set. Rollback only covers failures while building the topology.
func Run(cfg Config, host Host) (err error) {
	released := false
	release := func() {
		if !released {
			host.Netlink.Close()

			released = true
		}
	}
	defer release()

	err = host.Gate.Require(RequiredCap)
	if err != nil {
		return &StageError{Stage: StagePrivilege, Err: err}
	}

	state, err := netconf.Discover(host.Netlink, cfg.Uplink)
	if err != nil {
		return &StageError{Stage: StageDiscovery, Err: err}
	}

	slog.Debug("Discovered host network",
		slog.String("interface", cfg.Uplink),
		slog.String("address", state.Address.String()),
		slog.String("gateway", state.Gateway.String()),
	)

	logResolvConf(host)

	topo, err := buildTopology(cfg, host, state)
	if err != nil {
		return &StageError{Stage: StageTopology, Err: err}
	}

	defer func() {
		if err != nil && topo.TapFile != nil {
			_ = topo.TapFile.Close()
		}
	}()

	release()

	cmd, err := launch.Build(launch.Spec{
		Kind:    cfg.Kind,
		Guest:   cfg.Guest,
		Args:    cfg.Args,
		Address: state.Address,
		Gateway: state.Gateway,
		Tap: launch.TapRef{
			Name: topo.Tap,
			File: topo.TapFile,
		},
		Rand: host.Rand,
	})
	if err != nil {
		return &StageError{Stage: StageAssembly, Err: err}
	}

	slog.Debug("Assembled command", slog.Any("command", dump{cmd}))

	err = host.Gate.DropTo(RetainedCaps)
	if err != nil {
		return &StageError{Stage: StageDrop, Err: err}
	}

	err = host.Exec(cmd, cfg.Env)
	if err != nil {
		return &StageError{Stage: StageHandoff, Err: err}
	}

	return nil
}

func buildTopology(
	cfg Config,
	host Host,
	state netconf.HostState,
) (*topology.Topology, error) {
	builder := topology.NewBuilder(host.Netlink, host.Tun)

	topo, err := builder.Build(topology.Spec{
		Uplink:        cfg.Uplink,
		Bridge:        cfg.Bridge,
		Tap:           cfg.Tap,
		Address:       state.Address,
		PersistentTap: !cfg.Kind.NeedsTapFile(),
	})
	if err != nil {
		if cfg.Rollback {
			rollback(builder)
		}

		return nil, err
	}

	slog.Debug("Built topology",
		slog.String("bridge", topo.Bridge),
		slog.Any("members", topo.Members()),
	)

	return topo, nil
}

func rollback(builder *topology.Builder) {
	slog.Debug("Rolling back topology changes")

	err := builder.Teardown()
	if err != nil {
		slog.Warn("Rollback incomplete", slog.Any("error", err))
	}
}

func logResolvConf(host Host) {
	if host.FS == nil {
		return
	}

	dnsConf, err := netconf.ReadResolvConf(host.FS, ResolvConfPath)
	if err != nil {
		slog.Debug("No resolver configuration", slog.Any("error", err))
		return
	}

	slog.Debug("Host resolver configuration",
		slog.Any("nameservers", dnsConf.Nameservers),
		slog.Any("search", dnsConf.Search),
	)
}

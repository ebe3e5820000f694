// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aibor/unikernel-runner/internal/capability"
	"github.com/aibor/unikernel-runner/internal/handoff"
	"github.com/aibor/unikernel-runner/internal/runner"
	"github.com/aibor/unikernel-runner/internal/topology"
	"github.com/vishvananda/netlink"
	"golang.org/x/sys/unix"
)

const localConfigFile = ".runner-args"

// IO provides output details for the command. Usage, version information
// and diagnostics go to Stderr.
type IO struct {
	Stderr io.Writer
}

// HostFunc returns the [runner.Host] to run with.
type HostFunc func() (runner.Host, error)

// LinuxHost returns the [runner.Host] of the running system.
func LinuxHost() (runner.Host, error) {
	handle, err := netlink.NewHandle(unix.NETLINK_ROUTE)
	if err != nil {
		return runner.Host{}, fmt.Errorf("netlink handle: %w", err)
	}

	return runner.Host{
		Netlink: handle,
		Tun:     topology.TunDevice{},
		Gate:    capability.NewGate(capability.LinuxKernel{}),
		Exec:    handoff.Execute,
		FS:      os.DirFS("/"),
	}, nil
}

func loadFlags(args []string, cfg IO) (*flags, error) {
	args, err := MergedArgs(args, os.DirFS("."), localConfigFile)
	if err != nil {
		return nil, err
	}

	flags, err := parseArgs(args, cfg.Stderr)
	if err != nil {
		return nil, fmt.Errorf("parse args: %w", err)
	}

	return flags, nil
}

func handleParseArgsError(err error) int {
	// [ErrHelp] is returned when help is requested. So exit without error
	// in this case.
	if errors.Is(err, ErrHelp) {
		return 0
	}

	// ParseArgs already prints errors, so we just exit without an error.
	if !errors.Is(err, &ParseArgsError{}) {
		slog.Error(err.Error())
	}

	return 1
}

func handleRunError(err error) int {
	var stageErr *runner.StageError
	if errors.As(err, &stageErr) {
		slog.Error("Run failed",
			slog.String("stage", string(stageErr.Stage)),
			slog.Any("error", stageErr.Err),
		)

		return 1
	}

	slog.Error(err.Error())

	return 1
}

// Run is the main entry point for the CLI command.
//
// On success, the process is replaced by the guest and Run does not return.
// Help and version requests return 0. Everything else returns 1.
func Run(args []string, cfg IO, newHost HostFunc) int {
	flags, err := loadFlags(args, cfg)

	debug := EnvVerbose() || (flags != nil && flags.debug)
	setupLogging(cfg.Stderr, debug)

	if err != nil {
		return handleParseArgsError(err)
	}

	flags.config.Env = os.Environ()

	slog.Debug("Parsed flags",
		slog.String("kind", string(flags.config.Kind)),
		slog.String("guest", flags.config.Guest),
		slog.Any("args", flags.config.Args),
	)

	host, err := newHost()
	if err != nil {
		return handleRunError(err)
	}

	err = runner.Run(flags.config, host)
	if err != nil {
		return handleRunError(err)
	}

	return 0
}

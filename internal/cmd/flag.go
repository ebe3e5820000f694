// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"flag"
	"fmt"
	"io"
	"runtime/debug"

	"github.com/aibor/unikernel-runner/internal/runner"
	"github.com/aibor/unikernel-runner/internal/sys"
)

const (
	name = "runner"

	usageMessage = `Usage of 'runner':
    runner [flags...] kind guest [guestargs...]

Kinds:
    qemu    run guest kernel in QEMU
    kvm     run guest kernel in QEMU with KVM
    ukvm    run guest in the ukvm monitor
    unix    execute guest directly

Example:
    runner ukvm /unikernel/app.ukvm --port=80

Creates bridge and tap interface, moves the address of the guest facing
interface to the guest and executes the guest. CAP_NET_ADMIN is required.

All runner flags can also be provided via environment variable RUNNER_ARGS:
    RUNNER_ARGS="-debug -rollback" runner unix ./app

All runner flags can also be provided via file ./.runner-args, with one
argument per line.
`
)

type flags struct {
	config  runner.Config
	flagSet *flag.FlagSet

	uplink InterfaceName
	bridge InterfaceName
	tap    InterfaceName

	version bool
	debug   bool
}

func newFlags(output io.Writer) *flags {
	flags := &flags{
		uplink: runner.DefaultUplink,
		bridge: runner.DefaultBridge,
		tap:    runner.DefaultTap,
	}

	flags.initFlagset(output)

	return flags
}

func (f *flags) ParseArgs(args []string) error {
	// Parses arguments up to the first one that is not prefixed with a "-" or
	// is "--".
	err := f.flagSet.Parse(args)
	if err != nil {
		return &ParseArgsError{msg: "flag parse", err: err}
	}

	// With version flag, just print the version and exit. Using [ErrHelp]
	// the main binary is supposed to return with a non error exit code.
	if f.version {
		err := f.printVersionInformation()
		return &ParseArgsError{msg: "version requested", err: err}
	}

	positionalArgs := f.flagSet.Args()

	if len(positionalArgs) < 1 {
		return f.fail("no kind given", nil)
	}

	err = f.config.Kind.UnmarshalText([]byte(positionalArgs[0]))
	if err != nil {
		return f.fail("kind", fmt.Errorf("%w: %q", err, positionalArgs[0]))
	}

	if len(positionalArgs) < 2 {
		return f.fail("no guest given", nil)
	}

	guest, err := sys.AbsolutePath(positionalArgs[1])
	if err != nil {
		return f.fail("guest path", err)
	}

	f.config.Guest = guest

	// All further positional arguments are passed to the guest.
	f.config.Args = positionalArgs[2:]

	ifaces := []struct {
		flag  string
		value InterfaceName
	}{
		{"uplink", f.uplink},
		{"bridge", f.bridge},
		{"tap", f.tap},
	}

	for idx, iface := range ifaces {
		for _, other := range ifaces[:idx] {
			if iface.value == other.value {
				return f.fail("interface names", fmt.Errorf(
					"%w: -%s and -%s are both %q",
					ErrInvalidInterfaceName,
					other.flag,
					iface.flag,
					iface.value,
				))
			}
		}
	}

	f.config.Uplink = string(f.uplink)
	f.config.Bridge = string(f.bridge)
	f.config.Tap = string(f.tap)

	return nil
}

func (f *flags) initFlagset(output io.Writer) {
	flagSet := flag.NewFlagSet(name, flag.ContinueOnError)
	flagSet.SetOutput(output)
	flagSet.Usage = f.usage

	flagSet.Var(
		&f.uplink,
		"uplink",
		"guest facing interface of the host whose address is moved to the guest",
	)

	flagSet.Var(
		&f.bridge,
		"bridge",
		"name of the bridge interface to create",
	)

	flagSet.Var(
		&f.tap,
		"tap",
		"name of the tap interface to create",
	)

	flagSet.BoolVar(
		&f.config.Rollback,
		"rollback",
		f.config.Rollback,
		"delete created interfaces if building the topology fails",
	)

	flagSet.BoolVar(
		&f.debug,
		"debug",
		f.debug,
		"enable debug output (also enabled by RUNNER_VERBOSE=1)",
	)

	flagSet.BoolVar(
		&f.version,
		"version",
		f.version,
		"show version and exit",
	)

	f.flagSet = flagSet
}

// fail fails like flag does. It prints the error first and then usage.
func (f *flags) fail(msg string, err error) error {
	err = &ParseArgsError{msg: msg, err: err}
	fmt.Fprintln(f.flagSet.Output(), err.Error())

	f.flagSet.Usage()

	return err
}

func (f *flags) printVersionInformation() error {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return ErrReadBuildInfo
	}

	fmt.Fprintf(f.flagSet.Output(), "Version: %s\n", buildInfo.Main.Version)

	return ErrHelp
}

func (f *flags) usage() {
	fmt.Fprint(f.flagSet.Output(), usageMessage)
	fmt.Fprintln(f.flagSet.Output(), "\nFlags:")
	f.flagSet.PrintDefaults()
}

func parseArgs(args []string, output io.Writer) (*flags, error) {
	flags := newFlags(output)

	err := flags.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	return flags, nil
}

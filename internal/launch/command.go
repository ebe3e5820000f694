// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package launch

import (
	"crypto/rand"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"
)

const (
	// QEMUPath is the QEMU binary used for [KindQEMU] and [KindKVM].
	QEMUPath = "/usr/bin/qemu-system-x86_64"

	// UKVMPath is the monitor binary used for [KindUKVM].
	UKVMPath = "/unikernel/ukvm"

	// MaxCmdlineLen is the maximum length of the guest kernel command line
	// passed to QEMU.
	MaxCmdlineLen = 1023
)

// TapRef references the tap interface the guest is attached to.
type TapRef struct {
	Name string

	// File bound to the tap interface. Only required for kinds that
	// [Kind.NeedsTapFile].
	File *os.File
}

// Spec is the input for assembling a [Command].
type Spec struct {
	Kind Kind

	// Guest is the path of the guest binary or kernel.
	Guest string

	// Args are passed through to the guest unchanged.
	Args []string

	// Network configuration of the guest.
	Address netip.Prefix
	Gateway netip.Addr

	Tap TapRef

	// Rand is the source for random values. Defaults to [rand.Reader].
	Rand io.Reader
}

// Command is an assembled command line.
type Command struct {
	// Path is the binary to execute.
	Path string

	// Argv is the full argument vector including the program name.
	Argv []string
}

type assembler func(spec Spec, argv *argVector) error

func assemblers() map[Kind]assembler {
	return map[Kind]assembler{
		KindQEMU: assembleQEMU,
		KindKVM:  assembleQEMU,
		KindUKVM: assembleUKVM,
		KindUnix: assembleUnix,
	}
}

// Build assembles the [Command] for the given [Spec].
func Build(spec Spec) (Command, error) {
	assemble, exists := assemblers()[spec.Kind]
	if !exists {
		return Command{}, fmt.Errorf("%w: %q", ErrKindInvalid, spec.Kind)
	}

	if !spec.Address.Addr().Is4() {
		return Command{}, fmt.Errorf("%w: address %s", ErrInvalidAddress, spec.Address)
	}

	if !spec.Gateway.Is4() {
		return Command{}, fmt.Errorf("%w: gateway %s", ErrInvalidAddress, spec.Gateway)
	}

	if spec.Kind.NeedsTapFile() && spec.Tap.File == nil {
		return Command{}, fmt.Errorf("%w: %s", ErrTapFileMissing, spec.Kind)
	}

	if spec.Rand == nil {
		spec.Rand = rand.Reader
	}

	argv := newArgVector()

	err := assemble(spec, argv)
	if err != nil {
		argv.discard()
		return Command{}, err
	}

	args := argv.finalize()

	return Command{
		Path: args[0],
		Argv: args,
	}, nil
}

func networkFlags(spec Spec) []string {
	return []string{
		"--ipv4=" + spec.Address.String(),
		"--ipv4-gateway=" + spec.Gateway.String(),
	}
}

// cmdline joins the guest arguments and the network flags into a single
// kernel command line.
func cmdline(spec Spec) (string, error) {
	parts := make([]string, 0, len(spec.Args)+2)
	parts = append(parts, spec.Args...)
	parts = append(parts, networkFlags(spec)...)

	line := strings.Join(parts, " ")
	if len(line) > MaxCmdlineLen {
		return "", fmt.Errorf("%w: %d > %d", ErrLimitExceeded, len(line), MaxCmdlineLen)
	}

	return line, nil
}

func assembleQEMU(spec Spec, argv *argVector) error {
	mac, err := GenerateMAC(spec.Rand)
	if err != nil {
		return err
	}

	appendCmdline, err := cmdline(spec)
	if err != nil {
		return err
	}

	cpuArgs := []Argument{UniqueArg("cpu", "Westmere")}
	if spec.Kind == KindKVM {
		cpuArgs = []Argument{
			UniqueArg("enable-kvm"),
			UniqueArg("cpu", "host"),
		}
	}

	args := []Argument{
		UniqueArg("nodefaults"),
		UniqueArg("no-acpi"),
		UniqueArg("display", "none"),
		RepeatableArg("serial", "stdio"),
		UniqueArg("m", "512"),
	}
	args = append(args, cpuArgs...)
	args = append(args,
		RepeatableArg("device", "virtio-net-pci", "netdev=n0", "mac="+mac.String()),
		RepeatableArg("netdev", "tap", "id=n0", "ifname="+spec.Tap.Name, "script=no", "downscript=no"),
		UniqueArg("kernel", spec.Guest),
		UniqueArg("append", appendCmdline),
	)

	argv.add(QEMUPath)

	return appendArguments(argv, args)
}

func assembleUKVM(spec Spec, argv *argVector) error {
	argv.add(
		UKVMPath,
		fmt.Sprintf("--net=@%d", spec.Tap.File.Fd()),
		"--",
		spec.Guest,
	)
	argv.add(spec.Args...)
	argv.add(networkFlags(spec)...)

	return nil
}

func assembleUnix(spec Spec, argv *argVector) error {
	argv.add(
		spec.Guest,
		"--interface="+spec.Tap.Name,
	)
	argv.add(spec.Args...)
	argv.add(networkFlags(spec)...)

	return nil
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package capability

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

const capLastCapFile = "/proc/sys/kernel/cap_last_cap"

// LinuxKernel is the [Kernel] of the running system.
//
// Capabilities are a per thread attribute. Changes are applied to all threads
// of the process. If that is not possible (binaries built with cgo), they are
// applied to the calling thread only and the calling goroutine is locked to
// it, so a subsequent exec runs with the reduced set.
type LinuxKernel struct{}

// Get implements [Kernel].
func (LinuxKernel) Get() (State, error) {
	hdr := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}

	var data [2]unix.CapUserData

	if err := unix.Capget(&hdr, &data[0]); err != nil {
		return State{}, fmt.Errorf("capget: %w", err)
	}

	return State{
		Effective:   Set(data[0].Effective) | Set(data[1].Effective)<<32,
		Permitted:   Set(data[0].Permitted) | Set(data[1].Permitted)<<32,
		Inheritable: Set(data[0].Inheritable) | Set(data[1].Inheritable)<<32,
	}, nil
}

// Set implements [Kernel].
func (LinuxKernel) Set(state State) error {
	hdr := &unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
	data := &[2]unix.CapUserData{
		{
			Effective:   uint32(state.Effective),
			Permitted:   uint32(state.Permitted),
			Inheritable: uint32(state.Inheritable),
		},
		{
			Effective:   uint32(state.Effective >> 32),
			Permitted:   uint32(state.Permitted >> 32),
			Inheritable: uint32(state.Inheritable >> 32),
		},
	}

	err := allThreadsSyscall(
		unix.SYS_CAPSET,
		uintptr(unsafe.Pointer(hdr)),
		uintptr(unsafe.Pointer(&data[0])),
		0,
	)

	runtime.KeepAlive(hdr)
	runtime.KeepAlive(data)

	if err != nil {
		return fmt.Errorf("capset: %w", err)
	}

	return nil
}

// DropBound implements [Kernel].
func (LinuxKernel) DropBound(c Cap) error {
	err := allThreadsSyscall(unix.SYS_PRCTL, unix.PR_CAPBSET_DROP, uintptr(c), 0)
	if err != nil {
		return fmt.Errorf("prctl: %w", err)
	}

	return nil
}

// LastCap implements [Kernel].
func (LinuxKernel) LastCap() Cap {
	content, err := os.ReadFile(capLastCapFile)
	if err != nil {
		return unix.CAP_LAST_CAP
	}

	last, err := strconv.Atoi(string(bytes.TrimSpace(content)))
	if err != nil {
		return unix.CAP_LAST_CAP
	}

	return Cap(last)
}

func allThreadsSyscall(trap, a1, a2, a3 uintptr) error {
	_, _, errno := syscall.AllThreadsSyscall(trap, a1, a2, a3)
	if errno == syscall.ENOTSUP {
		// Never unlocked. The goroutine stays on this thread until exec.
		runtime.LockOSThread()

		_, _, errno = unix.RawSyscall(trap, a1, a2, a3)
	}

	if errno != 0 {
		return errno
	}

	return nil
}

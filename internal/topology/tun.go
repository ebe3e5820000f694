// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package topology

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

const tunDevicePath = "/dev/net/tun"

// TunDevice creates tap interfaces via the tun driver.
type TunDevice struct{}

// CreateTap creates a tap interface with the given name.
//
// If persistent is true, the interface outlives the process and no file is
// returned. Otherwise, the returned file is bound to the interface and the
// interface vanishes once it is closed. The file is not closed on exec, so it
// can be handed to the guest runtime.
//
// It fails with [unix.EBUSY] if an interface with that name exists already.
func (TunDevice) CreateTap(name string, persistent bool) (*os.File, error) {
	ifReq, err := unix.NewIfreq(name)
	if err != nil {
		return nil, fmt.Errorf("interface request: %w", err)
	}

	ifReq.SetUint16(unix.IFF_TAP | unix.IFF_NO_PI | unix.IFF_TUN_EXCL)

	// Opened without O_CLOEXEC on purpose, see above.
	fd, err := unix.Open(tunDevicePath, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", tunDevicePath, err)
	}

	err = unix.IoctlIfreq(fd, unix.TUNSETIFF, ifReq)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("ioctl TUNSETIFF: %w", err)
	}

	if !persistent {
		return os.NewFile(uintptr(fd), tunDevicePath), nil
	}

	err = unix.IoctlSetInt(fd, unix.TUNSETPERSIST, 1)
	_ = unix.Close(fd)

	if err != nil {
		return nil, fmt.Errorf("ioctl TUNSETPERSIST: %w", err)
	}

	return nil, nil
}

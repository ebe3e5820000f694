// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"flag"
)

var (
	// ErrHelp is returned if help or version information is requested.
	ErrHelp = flag.ErrHelp

	// ErrReadBuildInfo is returned if build information can not be read from
	// the binary.
	ErrReadBuildInfo = errors.New("failed to read build info")

	// ErrInvalidInterfaceName is returned if an interface name is not usable.
	ErrInvalidInterfaceName = errors.New("invalid interface name")
)

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// InterfaceName is a network interface name flag value.
type InterfaceName string

func (n *InterfaceName) String() string {
	return string(*n)
}

func (n *InterfaceName) Set(s string) error {
	err := ValidateInterfaceName(s)
	if err != nil {
		return err
	}

	*n = InterfaceName(s)

	return nil
}

// ValidateInterfaceName checks the name is accepted by the kernel.
func ValidateInterfaceName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidInterfaceName, name)
	case len(name) >= unix.IFNAMSIZ:
		return fmt.Errorf("%w: %q longer than %d", ErrInvalidInterfaceName, name, unix.IFNAMSIZ-1)
	case strings.ContainsAny(name, "/: \t\n"):
		return fmt.Errorf("%w: %q contains forbidden character", ErrInvalidInterfaceName, name)
	}

	return nil
}

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package launch

import (
	"fmt"
	"io"
	"net"
)

// GenerateMAC returns a random locally administered unicast MAC address read
// from r.
func GenerateMAC(r io.Reader) (net.HardwareAddr, error) {
	mac := make(net.HardwareAddr, 6)

	_, err := io.ReadFull(r, mac)
	if err != nil {
		return nil, fmt.Errorf("read random bytes: %w", err)
	}

	mac[0] &^= 0x01 // unicast
	mac[0] |= 0x02  // locally administered

	return mac, nil
}

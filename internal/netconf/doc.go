// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package netconf discovers the IPv4 configuration of the host the guest is
// going to inherit: the address of the guest facing interface and the default
// gateway.
//
// Discovery must happen before any topology change, as changes alter what is
// visible here.
package netconf

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package topology builds the bridge and tap network topology the guest is
// attached to.
//
// The guest facing interface of the host and a newly created tap interface are
// both enslaved to a newly created bridge. The address of the guest facing
// interface is removed afterwards, as the guest takes it over. Changes are
// applied in place without any transactional semantics. A failure leaves the
// host in a partially changed state unless [Builder.Teardown] is used.
package topology

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package capability verifies and reduces the Linux capabilities of the
// process.
//
// The [Gate] checks for the capability required for network setup before
// anything is changed and irreversibly drops all but a minimal set of
// capabilities before the guest is executed.
package capability

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package launch assembles the command line that starts the guest.
//
// Each [Kind] of guest runtime has its own fixed argument grammar. The guest
// runtimes parse the network configuration flags literally, so the grammars
// must be reproduced exactly.
package launch

// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

// Package runner provisions the host network for a single guest and hands
// over to it.
//
// [Run] executes all stages strictly one after another: capability check,
// discovery, topology, command assembly, capability drop and handoff. The
// first failing stage aborts the run.
package runner

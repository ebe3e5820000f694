// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package runner

// Stage is a step of [Run].
type Stage string

// Stages in order of execution.
const (
	StagePrivilege Stage = "require capability"
	StageDiscovery Stage = "discover host network"
	StageTopology  Stage = "build topology"
	StageAssembly  Stage = "assemble command"
	StageDrop      Stage = "drop capabilities"
	StageHandoff   Stage = "handoff"
)

// StageError is returned by [Run] and names the [Stage] that failed.
type StageError struct {
	Stage Stage
	Err   error
}

// Error implements the [error] interface.
func (e *StageError) Error() string {
	return string(e.Stage) + ": " + e.Err.Error()
}

// Is implements the [errors.Is] interface.
func (*StageError) Is(other error) bool {
	_, ok := other.(*StageError)
	return ok
}

// Unwrap implements the [errors.Unwrap] interface.
func (e *StageError) Unwrap() error {
	return e.Err
}

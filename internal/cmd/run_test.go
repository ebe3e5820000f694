// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd_test

import (
	"bytes"
	"testing"

	"github.com/aibor/unikernel-runner/internal/capability"
	"github.com/aibor/unikernel-runner/internal/cmd"
	"github.com/aibor/unikernel-runner/internal/hosttest"
	"github.com/aibor/unikernel-runner/internal/launch"
	"github.com/aibor/unikernel-runner/internal/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type fakeHost struct {
	log    *hosttest.Log
	nl     *hosttest.Netlink
	caps   *hosttest.Capabilities
	execed []launch.Command
	err    error
}

func newFakeHost(caps ...capability.Cap) *fakeHost {
	log := &hosttest.Log{}

	return &fakeHost{
		log:  log,
		nl:   hosttest.Setup(log, "eth0", "10.0.0.2/24", "10.0.0.1"),
		caps: hosttest.NewCapabilities(log, caps...),
	}
}

func (f *fakeHost) host() (runner.Host, error) {
	if f.err != nil {
		return runner.Host{}, f.err
	}

	return runner.Host{
		Netlink: f.nl,
		Tun:     f.nl,
		Gate:    capability.NewGate(f.caps),
		Exec: func(cmd launch.Command, _ []string) error {
			f.execed = append(f.execed, cmd)
			return unix.ENOEXEC
		},
	}, nil
}

func TestRun(t *testing.T) {
	tests := []struct {
		name             string
		args             []string
		caps             []capability.Cap
		hostErr          error
		expectedExitCode int
		expectedStderr   string
		expectedExec     []string
	}{
		{
			name:             "help",
			args:             []string{"-help"},
			expectedExitCode: 0,
			expectedStderr:   "Usage of 'runner'",
		},
		{
			name:             "missing guest",
			args:             []string{"unix"},
			expectedExitCode: 1,
			expectedStderr:   "no guest given",
		},
		{
			name:             "unknown kind",
			args:             []string{"xen", "/guest/app"},
			expectedExitCode: 1,
			expectedStderr:   "unknown kind",
		},
		{
			name:             "host setup fails",
			args:             []string{"unix", "/guest/app"},
			hostErr:          unix.EPROTONOSUPPORT,
			expectedExitCode: 1,
			expectedStderr:   "protocol not supported",
		},
		{
			name:             "permission denied",
			args:             []string{"unix", "/guest/app"},
			caps:             []capability.Cap{capability.NetBindService},
			expectedExitCode: 1,
			expectedStderr:   "stage=\"require capability\"",
		},
		{
			name:             "handoff fails",
			args:             []string{"unix", "/guest/app", "--flag"},
			caps:             []capability.Cap{capability.NetAdmin, capability.NetBindService},
			expectedExitCode: 1,
			expectedStderr:   "stage=handoff",
			expectedExec: []string{
				"/guest/app",
				"--interface=tap0",
				"--flag",
				"--ipv4=10.0.0.2/24",
				"--ipv4-gateway=10.0.0.1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("RUNNER_ARGS", "")
			t.Setenv("RUNNER_VERBOSE", "")

			host := newFakeHost(tt.caps...)
			host.err = tt.hostErr

			var stderr bytes.Buffer

			exitCode := cmd.Run(tt.args, cmd.IO{Stderr: &stderr}, host.host)

			assert.Equal(t, tt.expectedExitCode, exitCode)
			assert.Contains(t, stderr.String(), tt.expectedStderr)

			if tt.expectedExec == nil {
				assert.Empty(t, host.execed)
				return
			}

			require.Len(t, host.execed, 1)
			assert.Equal(t, tt.expectedExec, host.execed[0].Argv)
		})
	}
}

func TestRunDebugFromEnv(t *testing.T) {
	t.Setenv("RUNNER_ARGS", "")
	t.Setenv("RUNNER_VERBOSE", "1")

	host := newFakeHost(capability.NetAdmin, capability.NetBindService)

	var stderr bytes.Buffer

	exitCode := cmd.Run([]string{"unix", "/guest/app"}, cmd.IO{Stderr: &stderr}, host.host)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, stderr.String(), "level=DEBUG")
	assert.Contains(t, stderr.String(), "Discovered host network")
	assert.Contains(t, stderr.String(), "(launch.Command)")
}

func TestRunArgsFromEnv(t *testing.T) {
	t.Setenv("RUNNER_ARGS", "-tap=tapenv -bridge=brenv")
	t.Setenv("RUNNER_VERBOSE", "")

	host := newFakeHost(capability.NetAdmin, capability.NetBindService)

	exitCode := cmd.Run([]string{"unix", "/guest/app"}, cmd.IO{Stderr: &bytes.Buffer{}}, host.host)

	assert.Equal(t, 1, exitCode)
	assert.Contains(t, host.nl.Links, "brenv")
	assert.Contains(t, host.nl.Links, "tapenv")
	require.Len(t, host.execed, 1)
	assert.Contains(t, host.execed[0].Argv, "--interface=tapenv")
}

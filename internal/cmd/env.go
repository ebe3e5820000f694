// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

const (
	envArgs    = "RUNNER_ARGS"
	envVerbose = "RUNNER_VERBOSE"
)

// EnvArgs returns runner arguments from the environment.
func EnvArgs() []string {
	return strings.Fields(os.Getenv(envArgs))
}

// EnvVerbose returns true if debug output is requested via the environment.
func EnvVerbose() bool {
	return os.Getenv(envVerbose) == "1"
}

// LocalConfigArgs returns runner arguments from a local config file.
//
// The file's format is one argument per line. Environment variables may be used
// and are expanded with [os.ExpandEnv].
func LocalConfigArgs(fsys fs.FS, file string) ([]string, error) {
	conf, err := fs.ReadFile(fsys, file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("read file: %w", err)
	}

	args := []string{}

	expandedConf := os.ExpandEnv(string(conf))
	for line := range strings.SplitSeq(expandedConf, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			args = append(args, line)
		}
	}

	return args, nil
}

// MergedArgs returns the flags from the local config file and the environment
// in front of the given command line arguments.
//
// Later flags override earlier ones, so the command line wins over the
// environment, which wins over the local config file.
func MergedArgs(args []string, fsys fs.FS, file string) ([]string, error) {
	localArgs, err := LocalConfigArgs(fsys, file)
	if err != nil {
		return nil, fmt.Errorf("local config: %w", err)
	}

	merged := make([]string, 0, len(localArgs)+len(args))
	merged = append(merged, localArgs...)
	merged = append(merged, EnvArgs()...)
	merged = append(merged, args...)

	return merged, nil
}

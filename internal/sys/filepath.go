// SPDX-FileCopyrightText: 2026 Tobias Böhm <code@aibor.de>
//
// SPDX-License-Identifier: GPL-3.0-or-later

package sys

import (
	"fmt"
	"os"
	"path/filepath"
)

// AbsolutePath returns the absolute path as resolved by [filepath.Abs].
//
// It returns [ErrEmptyPath] if the given path is empty.
func AbsolutePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("absolute path: %w", err)
	}

	return abs, nil
}

// MustAbsolutePath calls [AbsolutePath] and panics in case of errors.
func MustAbsolutePath(path string) string {
	abs, err := AbsolutePath(path)
	if err != nil {
		panic(err)
	}

	return abs
}

// ValidateExecutable checks that the given path is a regular file with at
// least one execute permission bit set.
func ValidateExecutable(path string) error {
	if path == "" {
		return ErrEmptyPath
	}

	stat, err := os.Stat(path)
	if err != nil {
		return err //nolint:wrapcheck
	}

	if !stat.Mode().IsRegular() {
		return ErrNotRegularFile
	}

	if stat.Mode().Perm()&0o111 == 0 {
		return ErrNotExecutable
	}

	return nil
}

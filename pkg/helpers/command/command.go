// Amazon Games Sync
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Amazon Games Sync.
//
// Amazon Games Sync is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Amazon Games Sync is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Amazon Games Sync.  If not, see <http://www.gnu.org/licenses/>.

// Package command provides an abstraction over exec.Command for testability.
package command

import (
	"context"
	"os/exec"
)

// StartOptions configures command startup behavior.
type StartOptions struct {
	// Dir is the working directory of the new process. Empty means inherit.
	Dir string
	// HideWindow prevents a console window from appearing (Windows-only).
	HideWindow bool
	// Detached starts the process outside the caller's console and ignores
	// context cancellation once started, so it outlives the service.
	Detached bool
}

// Executor starts external programs. Launches are fire-and-forget: the
// Amazon Games client and its games manage their own lifetime.
type Executor interface {
	// Start starts a command without waiting for it to complete.
	Start(ctx context.Context, name string, args ...string) error

	// StartWithOptions starts a command with platform-specific options.
	StartWithOptions(ctx context.Context, opts StartOptions, name string, args ...string) error
}

// RealExecutor uses exec.Command to start system commands.
type RealExecutor struct{}

var _ Executor = (*RealExecutor)(nil)

// Start starts a command without waiting for it to complete.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) Start(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Start()
}

// StartWithOptions starts a command with the given options.
//
//nolint:wrapcheck // Wrapping exec errors loses important context
func (*RealExecutor) StartWithOptions(ctx context.Context, opts StartOptions, name string, args ...string) error {
	var cmd *exec.Cmd
	if opts.Detached {
		if err := ctx.Err(); err != nil {
			return err
		}
		//nolint:noctx // detached processes must not be killed with the context
		cmd = exec.Command(name, args...)
	} else {
		cmd = exec.CommandContext(ctx, name, args...)
	}
	cmd.Dir = opts.Dir
	applyPlatformOptions(cmd, opts)
	if err := cmd.Start(); err != nil {
		return err
	}
	if opts.Detached {
		// reap in the background so the child doesn't linger as a zombie
		go func() { _ = cmd.Wait() }()
	}
	return nil
}

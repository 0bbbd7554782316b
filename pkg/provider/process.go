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

package provider

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/process"
)

// Process is a live process table entry.
type Process struct {
	ExecutablePath string
	PID            int32
}

// ProcessTable reads and acts on the OS process table.
type ProcessTable interface {
	// Processes lists processes whose executable path could be read.
	Processes(ctx context.Context) ([]Process, error)
	// Children lists the direct children of pid.
	Children(ctx context.Context, pid int32) ([]int32, error)
	// Terminate asks pid to exit.
	Terminate(ctx context.Context, pid int32) error
}

// SystemProcesses implements ProcessTable with gopsutil.
type SystemProcesses struct{}

var _ ProcessTable = SystemProcesses{}

func (SystemProcesses) Processes(ctx context.Context) ([]Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	result := make([]Process, 0, len(procs))
	for _, p := range procs {
		exe, err := p.ExeWithContext(ctx)
		if err != nil || exe == "" {
			// access denied for system processes is normal
			continue
		}
		result = append(result, Process{PID: p.Pid, ExecutablePath: exe})
	}
	return result, nil
}

func (SystemProcesses) Children(ctx context.Context, pid int32) ([]int32, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return nil, fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	children, err := p.ChildrenWithContext(ctx)
	if err != nil {
		// gopsutil reports "no children" as an error
		log.Debug().Err(err).Int32("pid", pid).Msg("no child processes")
		return nil, nil
	}
	pids := make([]int32, 0, len(children))
	for _, c := range children {
		pids = append(pids, c.Pid)
	}
	return pids, nil
}

func (SystemProcesses) Terminate(ctx context.Context, pid int32) error {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := p.TerminateWithContext(ctx); err != nil {
		return fmt.Errorf("failed to terminate process %d: %w", pid, err)
	}
	return nil
}

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

package mocks

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/amazon-games-sync/pkg/games"
	"github.com/ZaparooProject/amazon-games-sync/pkg/provider"
	"github.com/stretchr/testify/mock"
)

// MockProgramLister is a mock of provider.ProgramLister.
type MockProgramLister struct {
	mock.Mock
}

var _ provider.ProgramLister = (*MockProgramLister)(nil)

// Programs returns the configured uninstall list or error.
func (m *MockProgramLister) Programs(ctx context.Context) provider.Result[[]provider.UninstallProgram] {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return provider.Failure[[]provider.UninstallProgram](err)
	}
	if programs, ok := args.Get(0).([]provider.UninstallProgram); ok {
		return provider.Success(programs)
	}
	return provider.Success[[]provider.UninstallProgram](nil)
}

// MockProcessTable is a mock of provider.ProcessTable.
type MockProcessTable struct {
	mock.Mock
}

var _ provider.ProcessTable = (*MockProcessTable)(nil)

// Processes returns the configured process list.
func (m *MockProcessTable) Processes(ctx context.Context) ([]provider.Process, error) {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock processes failed: %w", err)
	}
	if procs, ok := args.Get(0).([]provider.Process); ok {
		return procs, nil
	}
	return nil, nil
}

// Children returns the configured child pids.
func (m *MockProcessTable) Children(ctx context.Context, pid int32) ([]int32, error) {
	args := m.Called(ctx, pid)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock children failed: %w", err)
	}
	if pids, ok := args.Get(0).([]int32); ok {
		return pids, nil
	}
	return nil, nil
}

// Terminate records the termination request.
func (m *MockProcessTable) Terminate(ctx context.Context, pid int32) error {
	args := m.Called(ctx, pid)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock terminate failed: %w", err)
	}
	return nil
}

// MockLibrarySource is a mock of library.Source.
type MockLibrarySource struct {
	mock.Mock
}

// OwnedGames returns the configured owned list or error.
func (m *MockLibrarySource) OwnedGames(ctx context.Context) provider.Result[[]games.Game] {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return provider.Failure[[]games.Game](err)
	}
	owned, _ := args.Get(0).([]games.Game)
	return provider.Success(owned)
}

// InstalledGames returns the configured install rows or error.
func (m *MockLibrarySource) InstalledGames(ctx context.Context) provider.Result[[]provider.InstalledRow] {
	args := m.Called(ctx)
	if err := args.Error(1); err != nil {
		return provider.Failure[[]provider.InstalledRow](err)
	}
	rows, _ := args.Get(0).([]provider.InstalledRow)
	return provider.Success(rows)
}

// RunningGames returns the configured liveness map or error.
func (m *MockLibrarySource) RunningGames(ctx context.Context, ids []string) provider.Result[map[string]bool] {
	args := m.Called(ctx, ids)
	if err := args.Error(1); err != nil {
		return provider.Failure[map[string]bool](err)
	}
	running, _ := args.Get(0).(map[string]bool)
	if running == nil {
		running = map[string]bool{}
	}
	return provider.Success(running)
}

// MockProcessWatcher is a mock of playtime.ProcessWatcher.
type MockProcessWatcher struct {
	mock.Mock
}

// GameProcess returns the configured pid and liveness.
func (m *MockProcessWatcher) GameProcess(ctx context.Context, gameID string) (pid int32, running bool, err error) {
	args := m.Called(ctx, gameID)
	if err := args.Error(2); err != nil {
		return 0, false, fmt.Errorf("mock game process failed: %w", err)
	}
	pid, _ = args.Get(0).(int32)
	return pid, args.Bool(1), nil
}

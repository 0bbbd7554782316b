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

package client

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/amazon-games-sync/pkg/helpers/command"
	"github.com/ZaparooProject/amazon-games-sync/pkg/provider"
	"github.com/ZaparooProject/amazon-games-sync/pkg/testing/mocks"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testInstall = "/games/Amazon Games"
	testGameDir = "/games/Amazon Games Library/Some Game"
	testGameID  = "4ab7c4b8-1c2d-4e5f-9a0b-123456789abc"
)

func clientProgram() provider.UninstallProgram {
	return provider.UninstallProgram{
		DisplayName:     DisplayName,
		InstallLocation: testInstall,
		UninstallString: `"` + testInstall + `/Uninstall Amazon Games.exe"`,
	}
}

func gameProgram() provider.UninstallProgram {
	return provider.UninstallProgram{
		DisplayName:     "Some Game",
		InstallLocation: testGameDir,
		UninstallString: `"` + testInstall + `/App/Amazon Game Remover.exe" -m Game -p ` + testGameID,
	}
}

type fixture struct {
	programs *mocks.MockProgramLister
	procs    *mocks.MockProcessTable
	cmd      *mocks.MockCommandExecutor
	fs       afero.Fs
	mgr      *Manager
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		programs: &mocks.MockProgramLister{},
		procs:    &mocks.MockProcessTable{},
		cmd:      &mocks.MockCommandExecutor{},
		fs:       afero.NewMemMapFs(),
	}
	require.NoError(t, f.fs.MkdirAll(filepath.Join(testInstall, "App"), 0o755))
	require.NoError(t, f.fs.MkdirAll(testGameDir, 0o755))
	opts = append([]Option{WithExecutor(f.cmd), WithFs(f.fs)}, opts...)
	f.mgr = NewManager(f.programs, f.procs, opts...)
	return f
}

func TestUpdateInstallLocation(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.programs.On("Programs", mock.Anything).
		Return([]provider.UninstallProgram{gameProgram(), clientProgram()}, nil).Once()

	assert.False(t, f.mgr.IsInstalled())
	assert.Empty(t, f.mgr.ExecPath())
	assert.Empty(t, f.mgr.OwnedGamesDBPath())

	f.mgr.UpdateInstallLocation(context.Background())
	assert.True(t, f.mgr.IsInstalled())
	assert.Equal(t, filepath.Clean(testInstall), f.mgr.InstallLocation())
	assert.Equal(t, filepath.Join(testInstall, "App", ExecutableName), f.mgr.ExecPath())
	assert.Equal(t, filepath.Join("/games", "Data", "Games", "Sql", OwnedGamesDBFile),
		f.mgr.OwnedGamesDBPath())
	assert.Equal(t, filepath.Join("/games", "Data", "Games", "Sql", InstalledGamesDBFile),
		f.mgr.InstalledGamesDBPath())

	// a valid location is not re-resolved
	f.mgr.UpdateInstallLocation(context.Background())
	f.programs.AssertExpectations(t)
}

func TestUpdateInstallLocation_StaleIsReResolved(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	moved := clientProgram()
	moved.InstallLocation = "/other/Amazon Games"
	require.NoError(t, f.fs.MkdirAll(moved.InstallLocation, 0o755))

	f.programs.On("Programs", mock.Anything).
		Return([]provider.UninstallProgram{clientProgram()}, nil).Once()
	f.programs.On("Programs", mock.Anything).
		Return([]provider.UninstallProgram{moved}, nil).Once()

	f.mgr.UpdateInstallLocation(context.Background())
	require.True(t, f.mgr.IsInstalled())

	require.NoError(t, f.fs.RemoveAll(testInstall))
	assert.False(t, f.mgr.IsInstalled())

	f.mgr.UpdateInstallLocation(context.Background())
	assert.True(t, f.mgr.IsInstalled())
	assert.Equal(t, filepath.Clean(moved.InstallLocation), f.mgr.InstallLocation())
}

func TestUpdateInstallLocation_RegistryFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.programs.On("Programs", mock.Anything).Return(nil, provider.ErrUnsupportedPlatform)

	f.mgr.UpdateInstallLocation(context.Background())
	assert.False(t, f.mgr.IsInstalled())
	assert.Empty(t, f.mgr.InstallLocation())
}

func TestUpdateInstallLocation_Override(t *testing.T) {
	t.Parallel()

	f := newFixture(t, WithInstallDirOverride(testInstall))
	f.mgr.UpdateInstallLocation(context.Background())

	assert.True(t, f.mgr.IsInstalled())
	f.programs.AssertNotCalled(t, "Programs", mock.Anything)
}

func resolved(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t, WithInstallDirOverride(testInstall))
	f.mgr.UpdateInstallLocation(context.Background())
	require.True(t, f.mgr.IsInstalled())
	return f
}

func TestStart(t *testing.T) {
	t.Parallel()

	t.Run("not installed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		err := f.mgr.Start(context.Background())
		require.ErrorIs(t, err, ErrNotInstalled)
	})

	t.Run("starts when stopped", func(t *testing.T) {
		t.Parallel()
		f := resolved(t)
		exe := f.mgr.ExecPath()
		f.procs.On("Processes", mock.Anything).Return([]provider.Process{}, nil)
		f.cmd.On("StartWithOptions", mock.Anything, command.StartOptions{
			Dir:        filepath.Dir(exe),
			Detached:   true,
			HideWindow: true,
		}, exe, []string(nil)).Return(nil).Once()

		require.NoError(t, f.mgr.Start(context.Background()))
		f.cmd.AssertExpectations(t)
	})

	t.Run("idempotent when running", func(t *testing.T) {
		t.Parallel()
		f := resolved(t)
		f.procs.On("Processes", mock.Anything).
			Return([]provider.Process{{PID: 10, ExecutablePath: f.mgr.ExecPath()}}, nil)

		require.NoError(t, f.mgr.Start(context.Background()))
		f.cmd.AssertNotCalled(t, "StartWithOptions",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestStop(t *testing.T) {
	t.Parallel()

	t.Run("not running", func(t *testing.T) {
		t.Parallel()
		f := resolved(t)
		f.procs.On("Processes", mock.Anything).Return([]provider.Process{}, nil)

		require.NoError(t, f.mgr.Stop(context.Background()))
		f.procs.AssertNotCalled(t, "Terminate", mock.Anything, mock.Anything)
	})

	t.Run("children first", func(t *testing.T) {
		t.Parallel()
		f := resolved(t)
		var order []int32
		f.procs.On("Processes", mock.Anything).Return([]provider.Process{
			{PID: 5, ExecutablePath: "/usr/bin/other"},
			{PID: 10, ExecutablePath: f.mgr.ExecPath()},
		}, nil)
		f.procs.On("Children", mock.Anything, int32(10)).Return([]int32{11, 12}, nil)
		f.procs.On("Terminate", mock.Anything, mock.AnythingOfType("int32")).
			Run(func(args mock.Arguments) {
				order = append(order, args.Get(1).(int32))
			}).Return(nil)

		require.NoError(t, f.mgr.Stop(context.Background()))
		assert.Equal(t, []int32{11, 12, 10}, order)
	})

	t.Run("terminate failure", func(t *testing.T) {
		t.Parallel()
		f := resolved(t)
		f.procs.On("Processes", mock.Anything).
			Return([]provider.Process{{PID: 10, ExecutablePath: f.mgr.ExecPath()}}, nil)
		f.procs.On("Children", mock.Anything, int32(10)).Return(nil, nil)
		f.procs.On("Terminate", mock.Anything, int32(10)).Return(errors.New("denied"))

		require.Error(t, f.mgr.Stop(context.Background()))
	})
}

func TestInstalledGames(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	missing := gameProgram()
	missing.InstallLocation = "/nowhere"
	noID := gameProgram()
	noID.UninstallString = `"C:\Amazon Game Remover.exe" -m Game`

	f.programs.On("Programs", mock.Anything).Return([]provider.UninstallProgram{
		clientProgram(), gameProgram(), missing, noID,
		{DisplayName: "Other", InstallLocation: testGameDir, UninstallString: "unins000.exe"},
	}, nil)

	installed, err := f.mgr.InstalledGames(context.Background())
	require.NoError(t, err)
	require.Len(t, installed, 1)
	assert.Equal(t, testGameID, installed[0].ID)
	assert.Equal(t, testGameDir, installed[0].Program.InstallLocation)
}

func TestUninstall(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.programs.On("Programs", mock.Anything).
		Return([]provider.UninstallProgram{gameProgram()}, nil)
	f.cmd.On("StartWithOptions", mock.Anything, command.StartOptions{Detached: true},
		testInstall+"/App/Amazon Game Remover.exe",
		[]string{"-m", "Game", "-p", testGameID}).Return(nil).Once()

	require.NoError(t, f.mgr.Uninstall(context.Background(), testGameID))
	f.cmd.AssertExpectations(t)

	err := f.mgr.Uninstall(context.Background(), "unknown")
	require.ErrorIs(t, err, ErrGameNotInstalled)
}

func TestGameProcess(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.programs.On("Programs", mock.Anything).
		Return([]provider.UninstallProgram{gameProgram()}, nil)
	f.procs.On("Processes", mock.Anything).Return([]provider.Process{
		{PID: 3, ExecutablePath: "/games/Amazon Games Library/Some Game Two/game.exe"},
		{PID: 7, ExecutablePath: testGameDir + "/bin/game.exe"},
	}, nil)

	pid, running, err := f.mgr.GameProcess(context.Background(), testGameID)
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, int32(7), pid)

	live, err := f.mgr.RunningGames(context.Background(), []string{testGameID, "other"})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{testGameID: true}, live)
}

func TestGameProcess_NotInstalled(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.programs.On("Programs", mock.Anything).Return([]provider.UninstallProgram{}, nil)

	_, running, err := f.mgr.GameProcess(context.Background(), testGameID)
	require.NoError(t, err)
	assert.False(t, running)
	f.procs.AssertNotCalled(t, "Processes", mock.Anything)
}

func TestOpenScheme(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	detached := command.StartOptions{HideWindow: true, Detached: true}
	f.cmd.On("StartWithOptions", mock.Anything, detached, mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, f.mgr.OpenScheme(context.Background(), "play", testGameID))

	require.Len(t, f.cmd.Calls, 1)
	args, ok := f.cmd.Calls[0].Arguments.Get(3).([]string)
	require.True(t, ok)
	require.NotEmpty(t, args)
	assert.Equal(t, "amazon-games://play/"+testGameID, args[len(args)-1])
	f.cmd.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything)

	err := f.mgr.OpenScheme(context.Background(), "play", "x; rm -rf /")
	require.ErrorIs(t, err, ErrInvalidGameID)
}

func TestSplitCommandLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "bare", in: "a b  c", want: []string{"a", "b", "c"}},
		{
			name: "quoted exe",
			in:   `"C:\Program Files\Amazon Games\App\Amazon Game Remover.exe" -m Game -p abc-1`,
			want: []string{`C:\Program Files\Amazon Games\App\Amazon Game Remover.exe`, "-m", "Game", "-p", "abc-1"},
		},
		{name: "empty quotes", in: `start "" uri`, want: []string{"start", "", "uri"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SplitCommandLine(tt.in))
		})
	}
}

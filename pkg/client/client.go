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

// Package client manages the Amazon Games desktop application: where it is
// installed, whether it runs, and the commands used to drive it.
package client

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/ZaparooProject/amazon-games-sync/pkg/helpers/command"
	"github.com/ZaparooProject/amazon-games-sync/pkg/helpers/syncutil"
	"github.com/ZaparooProject/amazon-games-sync/pkg/provider"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	// DisplayName is the uninstall registry name of the client itself.
	DisplayName    = "Amazon Games"
	ExecutableName = "Amazon Games.exe"
	RemoverName    = "Amazon Game Remover.exe"
	URIScheme      = "amazon-games"

	OwnedGamesDBFile     = "GameProductInfo.sqlite"
	InstalledGamesDBFile = "GameInstallInfo.sqlite"
)

var (
	ErrNotInstalled     = errors.New("amazon games client is not installed")
	ErrGameNotInstalled = errors.New("game is not installed")
	ErrInvalidGameID    = errors.New("invalid game id")
)

var (
	removerIDRe = regexp.MustCompile(`-p\s+([a-z\d\-]+)`)
	gameIDRe    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-_]*$`)
)

// InstalledGame is a game found through its uninstall entry.
type InstalledGame struct {
	ID      string
	Program provider.UninstallProgram
}

// Manager tracks the client install location and starts or stops it.
// UpdateInstallLocation is the only method that changes the location.
type Manager struct {
	programs        provider.ProgramLister
	procs           provider.ProcessTable
	cmd             command.Executor
	fs              afero.Fs
	override        string
	installLocation string
	mu              syncutil.RWMutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithExecutor replaces the command executor, for tests.
func WithExecutor(cmd command.Executor) Option {
	return func(m *Manager) {
		m.cmd = cmd
	}
}

// WithFs replaces the filesystem used for existence checks.
func WithFs(fs afero.Fs) Option {
	return func(m *Manager) {
		m.fs = fs
	}
}

// WithInstallDirOverride uses dir instead of the registry lookup while it
// exists.
func WithInstallDirOverride(dir string) Option {
	return func(m *Manager) {
		m.override = dir
	}
}

// NewManager creates a client manager. The install location is empty until
// UpdateInstallLocation runs.
func NewManager(programs provider.ProgramLister, procs provider.ProcessTable, opts ...Option) *Manager {
	m := &Manager{
		programs: programs,
		procs:    procs,
		cmd:      &command.RealExecutor{},
		fs:       afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// UpdateInstallLocation re-resolves the install location if it is unset or
// no longer exists. It must run before any read of the derived paths.
func (m *Manager) UpdateInstallLocation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.installLocation != "" && m.dirExists(m.installLocation) {
		return
	}

	if m.override != "" {
		if m.dirExists(m.override) {
			m.setLocation(filepath.Clean(m.override))
			return
		}
		log.Warn().Str("path", m.override).Msg("configured install directory not found")
	}

	programs, err := m.programs.Programs(ctx).Unwrap()
	if err != nil {
		log.Debug().Err(err).Msg("failed to read uninstall programs")
		return
	}
	for _, p := range programs {
		if p.DisplayName == DisplayName && p.InstallLocation != "" {
			m.setLocation(filepath.Clean(p.InstallLocation))
			return
		}
	}
}

func (m *Manager) setLocation(loc string) {
	if loc != m.installLocation {
		log.Info().Str("path", loc).Msg("resolved Amazon Games install location")
	}
	m.installLocation = loc
}

func (m *Manager) dirExists(path string) bool {
	ok, err := afero.DirExists(m.fs, path)
	return err == nil && ok
}

// InstallLocation returns the last resolved install location.
func (m *Manager) InstallLocation() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.installLocation
}

// IsInstalled reports whether the resolved install location exists.
func (m *Manager) IsInstalled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.installLocation != "" && m.dirExists(m.installLocation)
}

// ExecPath returns the client executable, or "" before resolution.
func (m *Manager) ExecPath() string {
	loc := m.InstallLocation()
	if loc == "" {
		return ""
	}
	return filepath.Join(loc, "App", ExecutableName)
}

// OwnedGamesDBPath returns the product database path.
func (m *Manager) OwnedGamesDBPath() string {
	return m.dataFile(OwnedGamesDBFile)
}

// InstalledGamesDBPath returns the install database path.
func (m *Manager) InstalledGamesDBPath() string {
	return m.dataFile(InstalledGamesDBFile)
}

func (m *Manager) dataFile(name string) string {
	loc := m.InstallLocation()
	if loc == "" {
		return ""
	}
	return filepath.Join(loc, "..", "Data", "Games", "Sql", name)
}

// IsRunning scans the process table for the client executable.
func (m *Manager) IsRunning(ctx context.Context) (bool, error) {
	pids, err := m.clientPIDs(ctx)
	if err != nil {
		return false, err
	}
	return len(pids) > 0, nil
}

func (m *Manager) clientPIDs(ctx context.Context) ([]int32, error) {
	exe := m.ExecPath()
	if exe == "" {
		return nil, nil
	}
	procs, err := m.procs.Processes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan processes: %w", err)
	}
	var pids []int32
	for _, p := range procs {
		if samePath(p.ExecutablePath, exe) {
			pids = append(pids, p.PID)
		}
	}
	return pids, nil
}

// Start launches the client detached unless it is already running.
func (m *Manager) Start(ctx context.Context) error {
	if !m.IsInstalled() {
		return ErrNotInstalled
	}
	running, err := m.IsRunning(ctx)
	if err != nil {
		return err
	}
	if running {
		log.Debug().Msg("Amazon Games client already running")
		return nil
	}

	exe := m.ExecPath()
	opts := command.StartOptions{Dir: filepath.Dir(exe), Detached: true, HideWindow: true}
	if err := m.cmd.StartWithOptions(ctx, opts, exe); err != nil {
		return fmt.Errorf("failed to start Amazon Games client: %w", err)
	}
	log.Info().Str("exe", exe).Msg("started Amazon Games client")
	return nil
}

// Stop terminates the client, children first, if it is running.
func (m *Manager) Stop(ctx context.Context) error {
	pids, err := m.clientPIDs(ctx)
	if err != nil {
		return err
	}
	if len(pids) == 0 {
		return nil
	}

	var errs []error
	for _, pid := range pids {
		children, err := m.procs.Children(ctx, pid)
		if err != nil {
			errs = append(errs, err)
		}
		for _, child := range children {
			if err := m.procs.Terminate(ctx, child); err != nil {
				log.Debug().Err(err).Int32("pid", child).Msg("failed to terminate child process")
			}
		}
		if err := m.procs.Terminate(ctx, pid); err != nil {
			errs = append(errs, err)
			continue
		}
		log.Info().Int32("pid", pid).Msg("stopped Amazon Games client")
	}
	return errors.Join(errs...)
}

// InstalledGames lists games whose uninstall entry points at the Amazon
// game remover and whose install directory still exists.
func (m *Manager) InstalledGames(ctx context.Context) ([]InstalledGame, error) {
	programs, err := m.programs.Programs(ctx).Unwrap()
	if err != nil {
		return nil, fmt.Errorf("failed to read uninstall programs: %w", err)
	}

	var result []InstalledGame
	for _, p := range programs {
		if !strings.Contains(strings.ToLower(p.UninstallString), strings.ToLower(RemoverName)) {
			continue
		}
		if p.InstallLocation == "" || !m.dirExists(p.InstallLocation) {
			continue
		}
		match := removerIDRe.FindStringSubmatch(p.UninstallString)
		if match == nil {
			continue
		}
		result = append(result, InstalledGame{ID: match[1], Program: p})
	}
	return result, nil
}

// Uninstall runs the game's uninstall command.
func (m *Manager) Uninstall(ctx context.Context, gameID string) error {
	installed, err := m.InstalledGames(ctx)
	if err != nil {
		return err
	}
	for _, g := range installed {
		if g.ID != gameID {
			continue
		}
		args := SplitCommandLine(g.Program.UninstallString)
		if len(args) == 0 {
			return fmt.Errorf("empty uninstall command for %s", gameID)
		}
		opts := command.StartOptions{Detached: true}
		if err := m.cmd.StartWithOptions(ctx, opts, args[0], args[1:]...); err != nil {
			return fmt.Errorf("failed to run uninstaller for %s: %w", gameID, err)
		}
		log.Info().Str("gameID", gameID).Msg("started game uninstaller")
		return nil
	}
	return fmt.Errorf("%w: %s", ErrGameNotInstalled, gameID)
}

// GameProcess finds a process running from the game's install directory.
func (m *Manager) GameProcess(ctx context.Context, gameID string) (pid int32, running bool, err error) {
	live, err := m.runningGames(ctx, []string{gameID})
	if err != nil {
		return 0, false, err
	}
	pid, running = live[gameID]
	return pid, running, nil
}

// RunningGames checks liveness for many games with one registry read and
// one process scan.
func (m *Manager) RunningGames(ctx context.Context, ids []string) (map[string]bool, error) {
	live, err := m.runningGames(ctx, ids)
	if err != nil {
		return nil, err
	}
	result := make(map[string]bool, len(live))
	for id := range live {
		result[id] = true
	}
	return result, nil
}

func (m *Manager) runningGames(ctx context.Context, ids []string) (map[string]int32, error) {
	if len(ids) == 0 {
		return map[string]int32{}, nil
	}
	installed, err := m.InstalledGames(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	dirs := make(map[string]string)
	for _, g := range installed {
		if wanted[g.ID] {
			dirs[g.ID] = g.Program.InstallLocation
		}
	}

	live := make(map[string]int32)
	if len(dirs) == 0 {
		return live, nil
	}

	procs, err := m.procs.Processes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan processes: %w", err)
	}
	for id, dir := range dirs {
		for _, p := range procs {
			if insideDir(p.ExecutablePath, dir) {
				live[id] = p.PID
				break
			}
		}
	}
	return live, nil
}

// OpenScheme hands an amazon-games:// URI to the OS, e.g. "play".
func (m *Manager) OpenScheme(ctx context.Context, verb, gameID string) error {
	if !gameIDRe.MatchString(gameID) {
		return fmt.Errorf("%w: %q", ErrInvalidGameID, gameID)
	}
	uri := fmt.Sprintf("%s://%s/%s", URIScheme, verb, gameID)

	opts := command.StartOptions{HideWindow: true, Detached: true}
	var err error
	if runtime.GOOS == "windows" {
		err = m.cmd.StartWithOptions(ctx, opts, "cmd", "/c", "start", "", uri)
	} else {
		err = m.cmd.StartWithOptions(ctx, opts, "xdg-open", uri)
	}
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", uri, err)
	}
	log.Info().Str("uri", uri).Msg("issued client command")
	return nil
}

func normalizePath(p string) string {
	p = filepath.Clean(p)
	if runtime.GOOS == "windows" {
		p = strings.ToLower(p)
	}
	return p
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return normalizePath(a) == normalizePath(b)
}

func insideDir(path, dir string) bool {
	if path == "" || dir == "" {
		return false
	}
	rel, err := filepath.Rel(normalizePath(dir), normalizePath(path))
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}

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

// Package plugin adapts the sync engine, login controller, session tracker
// and client manager to the game-library host.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/amazon-games-sync/pkg/api/models"
	"github.com/ZaparooProject/amazon-games-sync/pkg/api/notifications"
	"github.com/ZaparooProject/amazon-games-sync/pkg/auth"
	"github.com/ZaparooProject/amazon-games-sync/pkg/client"
	"github.com/ZaparooProject/amazon-games-sync/pkg/config"
	"github.com/ZaparooProject/amazon-games-sync/pkg/games"
	"github.com/ZaparooProject/amazon-games-sync/pkg/helpers/syncutil"
	"github.com/ZaparooProject/amazon-games-sync/pkg/library"
	"github.com/ZaparooProject/amazon-games-sync/pkg/playtime"
	"github.com/ZaparooProject/amazon-games-sync/pkg/provider"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const (
	UserID   = "amazon_user_id"
	UserName = "Amazon Games User"

	// scheme verb for both launching and installing
	verbPlay = "play"
)

// credentialMarker is stored once login completes. The client app holds the
// real session, so the host only needs to know the handshake happened.
var credentialMarker = map[string]string{"creds": "dummy_data_because_local_app"}

var ErrNoGameTime = errors.New("no playtime recorded for game")

// Feature is a capability advertised to the host.
type Feature string

const (
	FeatureImportOwnedGames       Feature = "ImportOwnedGames"
	FeatureImportInstalledGames   Feature = "ImportInstalledGames"
	FeatureLaunchGame             Feature = "LaunchGame"
	FeatureInstallGame            Feature = "InstallGame"
	FeatureUninstallGame          Feature = "UninstallGame"
	FeatureLaunchPlatformClient   Feature = "LaunchPlatformClient"
	FeatureShutdownPlatformClient Feature = "ShutdownPlatformClient"
	FeatureImportGameTime         Feature = "ImportGameTime"
	FeatureImportOSCompatibility  Feature = "ImportOSCompatibility"
)

// AuthResult is either a completed login or the next web step to show.
type AuthResult struct {
	Authentication *games.Authentication
	Step           *auth.WebStep
}

// GameTimes is the playtime context built by PrepareGameTimes.
type GameTimes map[string]games.GameTime

// Host is the surface the game-library host calls.
type Host interface {
	Authenticate(ctx context.Context, stored map[string]string) (AuthResult, error)
	PassLoginCredentials(ctx context.Context, endURI string, cookies map[string]string) (AuthResult, error)
	HandshakeComplete(ctx context.Context) <-chan struct{}
	GetOwnedGames(ctx context.Context) ([]games.Game, error)
	GetLocalGames(ctx context.Context) ([]games.LocalGame, error)
	Tick(ctx context.Context)
	LaunchGame(ctx context.Context, gameID string) error
	InstallGame(ctx context.Context, gameID string) error
	UninstallGame(ctx context.Context, gameID string) error
	LaunchPlatformClient(ctx context.Context) error
	ShutdownPlatformClient(ctx context.Context) error
	GetOSCompatibility(ctx context.Context, gameID string) (games.OSCompatibility, error)
	PrepareGameTimes(ctx context.Context, gameIDs []string) (GameTimes, error)
	GetGameTime(ctx context.Context, gameID string, times GameTimes) (games.GameTime, error)
	Features() []Feature
}

// Deps are the collaborators a Plugin is built from.
type Deps struct {
	Config        *config.Instance
	Client        *client.Manager
	Ledger        *playtime.Ledger
	Notifications chan<- models.Notification
	SplashDir     string
}

// Plugin implements Host.
type Plugin struct {
	cfg       *config.Instance
	client    *client.Manager
	engine    *library.Engine
	auth      *auth.Controller
	tracker   *playtime.Tracker
	ledger    *playtime.Ledger
	clock     clockwork.Clock
	source    library.Source
	ns        chan<- models.Notification
	tickCount int
	tickMu    syncutil.Mutex
}

var _ Host = (*Plugin)(nil)

// Option configures a Plugin.
type Option func(*Plugin)

func WithClock(clock clockwork.Clock) Option {
	return func(p *Plugin) {
		p.clock = clock
	}
}

// WithSource replaces the database-backed library source.
func WithSource(src library.Source) Option {
	return func(p *Plugin) {
		p.source = src
	}
}

// New wires the components from deps. Intervals, timeouts and the launch
// grace are read from the config once.
func New(deps Deps, opts ...Option) *Plugin {
	p := &Plugin{
		cfg:    deps.Config,
		client: deps.Client,
		ledger: deps.Ledger,
		ns:     deps.Notifications,
		clock:  clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.source == nil {
		p.source = &dbSource{db: provider.NewDatabase(afero.NewOsFs()), client: p.client}
	}

	p.engine = library.NewEngine(p.source,
		library.WithClock(p.clock),
		library.WithOwnedInterval(p.cfg.OwnedInterval()),
		library.WithLocalInterval(p.cfg.LocalInterval()),
		library.WithFallbackTimeout(p.cfg.FallbackTimeout()),
	)
	p.auth = auth.NewController(deps.SplashDir, auth.WithClock(p.clock))
	p.tracker = playtime.NewTracker(p.ledger, p.client,
		playtime.WithClock(p.clock),
		playtime.WithLaunchGrace(p.cfg.LaunchGrace()),
	)
	return p
}

// Engine exposes the sync engine.
func (p *Plugin) Engine() *library.Engine {
	return p.engine
}

// Auth exposes the login controller.
func (p *Plugin) Auth() *auth.Controller {
	return p.auth
}

// Tracker exposes the session tracker.
func (p *Plugin) Tracker() *playtime.Tracker {
	return p.tracker
}

func (p *Plugin) Authenticate(ctx context.Context, stored map[string]string) (AuthResult, error) {
	log.Info().Msg("plugin authenticate")
	p.client.UpdateInstallLocation(ctx)

	step, needsWeb := p.auth.Begin(len(stored) > 0)
	if needsWeb {
		return AuthResult{Step: &step}, nil
	}
	p.auth.MarkAuthenticated()
	return p.onAuth(), nil
}

func (p *Plugin) PassLoginCredentials(ctx context.Context, endURI string, _ map[string]string) (AuthResult, error) {
	p.client.UpdateInstallLocation(ctx)

	out := p.auth.Advance(endURI, p.client.IsInstalled())
	if !out.Authenticated {
		return AuthResult{Step: &out.Step}, nil
	}
	return p.onAuth(), nil
}

func (p *Plugin) onAuth() AuthResult {
	log.Info().Msg("auth finished")
	if err := p.cfg.StoreCredentials(credentialMarker); err != nil {
		log.Warn().Err(err).Msg("failed to store credentials")
	} else {
		notifications.CredentialsStored(p.ns)
	}
	return AuthResult{Authentication: &games.Authentication{UserID: UserID, UserName: UserName}}
}

// HandshakeComplete arms the fallback initialization timer.
func (p *Plugin) HandshakeComplete(ctx context.Context) <-chan struct{} {
	return p.engine.StartFallback(ctx)
}

// GetOwnedGames loads the owned library on first call and returns the
// cached list afterwards. Read failures are logged and yield what is
// cached.
func (p *Plugin) GetOwnedGames(ctx context.Context) ([]games.Game, error) {
	p.client.UpdateInstallLocation(ctx)
	snap, err := p.engine.EnsureOwned(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load owned games")
	}
	return snap.Values(), nil
}

// GetLocalGames waits for login before loading the local library. A wait
// timeout returns an empty list.
func (p *Plugin) GetLocalGames(ctx context.Context) ([]games.LocalGame, error) {
	if !p.auth.WaitUntilAuthenticated(ctx, p.cfg.AuthWaitTimeout()) {
		log.Warn().Msg("not authenticated, returning no local games")
		return []games.LocalGame{}, nil
	}

	p.client.UpdateInstallLocation(ctx)
	snap, err := p.engine.EnsureLocal(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load local games")
	}
	return snap.Values(), nil
}

// Tick advances everything: install path, local then owned refresh,
// session poll and the periodic playtime report.
func (p *Plugin) Tick(ctx context.Context) {
	p.tickMu.Lock()
	defer p.tickMu.Unlock()

	p.tickCount++
	now := p.clock.Now()

	p.client.UpdateInstallLocation(ctx)
	if p.client.IsInstalled() {
		p.refresh(ctx, now)
	}

	p.pollSession(ctx, now)

	if p.tickCount%p.cfg.FlushTicks() == 0 {
		p.flushGameTimes()
	}
}

func (p *Plugin) refresh(ctx context.Context, now time.Time) {
	doLocal := p.engine.SnapshotLocal().Initialized()
	doOwned := p.engine.SnapshotOwned().Initialized()

	var (
		localDelta library.LocalDelta
		ownedDelta library.OwnedDelta
		localErr   error
		ownedErr   error
	)
	refreshLocal := func() {
		if doLocal {
			localDelta, localErr = p.engine.RefreshLocal(ctx, now)
		}
	}
	refreshOwned := func() {
		if doOwned {
			ownedDelta, ownedErr = p.engine.RefreshOwned(ctx, now)
		}
	}

	if p.cfg.ParallelReads() {
		var g errgroup.Group
		g.Go(func() error {
			refreshLocal()
			return nil
		})
		g.Go(func() error {
			refreshOwned()
			return nil
		})
		_ = g.Wait()
	} else {
		refreshLocal()
		refreshOwned()
	}

	if localErr != nil {
		log.Warn().Err(localErr).Msg("local games refresh failed")
	} else {
		p.emitLocal(localDelta)
	}
	if ownedErr != nil {
		log.Warn().Err(ownedErr).Msg("owned games refresh failed")
	} else {
		p.emitOwned(ownedDelta)
	}
}

func (p *Plugin) emitLocal(d library.LocalDelta) {
	if d.Empty() {
		return
	}
	changed := d.Changed()
	updates := make([]models.LocalGameResponse, 0, len(changed)+len(d.Removed))
	for _, g := range changed {
		updates = append(updates, localGameResponse(g))
	}
	for _, id := range d.Removed {
		updates = append(updates, localGameResponse(games.LocalGame{ID: id, State: games.LocalStateNone}))
	}
	notifications.LocalGamesUpdated(p.ns, models.LocalGamesUpdatedParams{Games: updates})
}

func (p *Plugin) emitOwned(d library.OwnedDelta) {
	if len(d.Removed) > 0 {
		notifications.GamesRemoved(p.ns, models.GamesRemovedParams{IDs: d.Removed})
	}
	if len(d.Added) > 0 {
		notifications.GamesAdded(p.ns, models.GamesAddedParams{Games: gameResponses(d.Added)})
	}
}

func (p *Plugin) pollSession(ctx context.Context, now time.Time) {
	gt, err := p.tracker.Poll(ctx, now)
	if err != nil {
		log.Warn().Err(err).Msg("failed to poll game session")
		return
	}
	if gt != nil {
		notifications.GameTimeUpdated(p.ns, gameTimeResponse(*gt))
	}
}

func (p *Plugin) flushGameTimes() {
	ids := p.engine.SnapshotLocal().IDs()
	times, err := p.ledger.Load(ids)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load playtime ledger")
		return
	}
	for _, id := range ids {
		notifications.GameTimeUpdated(p.ns, gameTimeResponse(times[id]))
	}
}

// LaunchGame opens the game through the client and starts a session.
func (p *Plugin) LaunchGame(ctx context.Context, gameID string) error {
	closed, err := p.tracker.Launch(ctx, gameID, func(ctx context.Context, id string) error {
		return p.client.OpenScheme(ctx, verbPlay, id)
	})
	if closed != nil {
		notifications.GameTimeUpdated(p.ns, gameTimeResponse(*closed))
	}
	if err != nil {
		return fmt.Errorf("launch game: %w", err)
	}
	return nil
}

// InstallGame asks the client to play the game, which prompts an install
// for games that are not on disk. No session is opened.
func (p *Plugin) InstallGame(ctx context.Context, gameID string) error {
	if err := p.client.OpenScheme(ctx, verbPlay, gameID); err != nil {
		return fmt.Errorf("install game: %w", err)
	}
	return nil
}

func (p *Plugin) UninstallGame(ctx context.Context, gameID string) error {
	log.Info().Str("gameID", gameID).Msg("uninstalling game")
	if err := p.client.Uninstall(ctx, gameID); err != nil {
		return fmt.Errorf("uninstall game: %w", err)
	}
	return nil
}

func (p *Plugin) LaunchPlatformClient(ctx context.Context) error {
	p.client.UpdateInstallLocation(ctx)
	if err := p.client.Start(ctx); err != nil {
		return fmt.Errorf("launch platform client: %w", err)
	}
	return nil
}

func (p *Plugin) ShutdownPlatformClient(ctx context.Context) error {
	if err := p.client.Stop(ctx); err != nil {
		return fmt.Errorf("shutdown platform client: %w", err)
	}
	return nil
}

func (*Plugin) GetOSCompatibility(context.Context, string) (games.OSCompatibility, error) {
	return games.OSWindows, nil
}

// PrepareGameTimes reads the ledger for a batch of GetGameTime calls.
func (p *Plugin) PrepareGameTimes(_ context.Context, gameIDs []string) (GameTimes, error) {
	times, err := p.ledger.Load(gameIDs)
	if err != nil {
		return nil, fmt.Errorf("prepare game times: %w", err)
	}
	return times, nil
}

func (*Plugin) GetGameTime(_ context.Context, gameID string, times GameTimes) (games.GameTime, error) {
	gt, ok := times[gameID]
	if !ok {
		return games.GameTime{}, fmt.Errorf("%w: %s", ErrNoGameTime, gameID)
	}
	return gt, nil
}

// Features lists every capability except InstallGame, which is only
// reachable through the client's own play flow.
func (*Plugin) Features() []Feature {
	return []Feature{
		FeatureImportOwnedGames,
		FeatureImportInstalledGames,
		FeatureLaunchGame,
		FeatureUninstallGame,
		FeatureLaunchPlatformClient,
		FeatureShutdownPlatformClient,
		FeatureImportGameTime,
		FeatureImportOSCompatibility,
	}
}

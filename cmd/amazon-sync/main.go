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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/ZaparooProject/amazon-games-sync/internal/telemetry"
	"github.com/ZaparooProject/amazon-games-sync/pkg/api/models"
	"github.com/ZaparooProject/amazon-games-sync/pkg/auth"
	"github.com/ZaparooProject/amazon-games-sync/pkg/client"
	"github.com/ZaparooProject/amazon-games-sync/pkg/config"
	"github.com/ZaparooProject/amazon-games-sync/pkg/helpers"
	"github.com/ZaparooProject/amazon-games-sync/pkg/playtime"
	"github.com/ZaparooProject/amazon-games-sync/pkg/plugin"
	"github.com/ZaparooProject/amazon-games-sync/pkg/provider"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// set at build time
var appVersion = "DEVELOPMENT"

const (
	sentryDSNEnv  = "AMAZON_SYNC_SENTRY_DSN"
	loginRetry    = 30 * time.Second
	notifyBacklog = 256
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

type flags struct {
	launch      string
	uninstall   string
	daemon      bool
	debug       bool
	listOwned   bool
	listLocal   bool
	startClient bool
	stopClient  bool
	version     bool
}

func parseFlags() flags {
	var f flags
	flag.BoolVar(&f.daemon, "daemon", false, "also log to stderr")
	flag.BoolVar(&f.debug, "debug", false, "enable debug logging for this run")
	flag.BoolVar(&f.listOwned, "list-owned", false, "print owned games and exit")
	flag.BoolVar(&f.listLocal, "list-local", false, "print installed games and exit")
	flag.StringVar(&f.launch, "launch", "", "launch a game by id, then keep tracking")
	flag.StringVar(&f.uninstall, "uninstall", "", "run the uninstaller for a game id and exit")
	flag.BoolVar(&f.startClient, "start-client", false, "start the Amazon Games app and exit")
	flag.BoolVar(&f.stopClient, "stop-client", false, "stop the Amazon Games app and exit")
	flag.BoolVar(&f.version, "version", false, "print version and exit")
	flag.Parse()
	return f
}

func run() error {
	f := parseFlags()
	if f.version {
		_, _ = fmt.Fprintf(os.Stdout, "amazon-sync %s\n", appVersion)
		return nil
	}

	var logWriters []io.Writer
	if f.daemon {
		logWriters = []io.Writer{os.Stderr}
	}
	if err := helpers.InitLogging(helpers.LogDir(), false, logWriters); err != nil {
		return fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), config.BaseDefaults)
	if err != nil {
		log.Error().Err(err).Msg("error loading config")
		return fmt.Errorf("error loading config: %w", err)
	}
	if f.debug {
		cfg.SetDebugLogging(true)
	}
	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Info().Str("version", appVersion).Str("config", cfg.Path()).Msg("amazon-sync starting")

	dataDir := helpers.DataDir()
	reporter, err := telemetry.Init(telemetry.Options{
		Enabled:     cfg.ErrorReporting(),
		DSN:         os.Getenv(sentryDSNEnv),
		Release:     appVersion,
		Environment: "cli",
		InstallID:   uuid.NewSHA1(uuid.NameSpaceURL, []byte(dataDir)).String(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("error starting error reporting")
	}
	defer reporter.Close()

	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %v\n", r)
			log.Fatal().Msgf("panic: %v", r)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	osFs := afero.NewOsFs()
	splashDir := cfg.SplashDir(dataDir)
	if err := auth.WriteSplash(osFs, splashDir); err != nil {
		log.Warn().Err(err).Msg("error writing splash page")
	}

	ns := make(chan models.Notification, notifyBacklog)
	mgr := client.NewManager(provider.RegistryPrograms{}, provider.SystemProcesses{},
		client.WithInstallDirOverride(cfg.InstallDir()),
	)
	p := plugin.New(plugin.Deps{
		Config:        cfg,
		Client:        mgr,
		Ledger:        playtime.NewLedger(osFs, cfg.LedgerPath(dataDir)),
		Notifications: ns,
		SplashDir:     splashDir,
	})

	switch {
	case f.startClient:
		return p.LaunchPlatformClient(ctx)
	case f.stopClient:
		return p.ShutdownPlatformClient(ctx)
	case f.uninstall != "":
		return p.UninstallGame(ctx, f.uninstall)
	}

	pending := authenticate(ctx, cfg, p)

	switch {
	case f.listOwned:
		return listOwned(ctx, p)
	case f.listLocal:
		return listLocal(ctx, p)
	}

	go logNotifications(ctx, ns)

	if f.launch != "" {
		if err := p.LaunchGame(ctx, f.launch); err != nil {
			log.Error().Err(err).Str("gameID", f.launch).Msg("error launching game")
		}
	}

	p.HandshakeComplete(ctx)
	if _, err := p.GetOwnedGames(ctx); err != nil {
		log.Warn().Err(err).Msg("error loading owned games")
	}
	if pending == nil {
		if _, err := p.GetLocalGames(ctx); err != nil {
			log.Warn().Err(err).Msg("error loading local games")
		}
	}

	return tickLoop(ctx, cfg, p, pending)
}

// authenticate signs in with stored credentials or clicks through the
// splash page. A returned step means the app was missing and the retry
// page is still pending.
func authenticate(ctx context.Context, cfg *config.Instance, p *plugin.Plugin) *auth.WebStep {
	stored, err := cfg.StoredCredentials()
	if err != nil {
		log.Warn().Err(err).Msg("error reading stored credentials")
	}

	res, err := p.Authenticate(ctx, stored)
	if err != nil {
		log.Error().Err(err).Msg("error authenticating")
		return nil
	}
	if res.Step == nil {
		return nil
	}
	return continueStep(ctx, p, res.Step)
}

func continueStep(ctx context.Context, p *plugin.Plugin, step *auth.WebStep) *auth.WebStep {
	action := "splash_continue"
	if step.EndURIRegex == ".*missing_app_retry.*" {
		action = "missing_app_retry"
	}
	log.Debug().Str("uri", step.StartURI).Msg("continuing login step")

	res, err := p.PassLoginCredentials(ctx, step.StartURI+"&action="+action, nil)
	if err != nil {
		log.Error().Err(err).Msg("error passing login credentials")
		return step
	}
	return res.Step
}

func tickLoop(ctx context.Context, cfg *config.Instance, p *plugin.Plugin, pending *auth.WebStep) error {
	clock := clockwork.NewRealClock()
	ticker := clock.NewTicker(cfg.TickInterval())
	defer ticker.Stop()

	lastRetry := clock.Now()
	log.Info().Dur("interval", cfg.TickInterval()).Msg("tick loop started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return nil
		case <-ticker.Chan():
		}

		if pending != nil && clock.Since(lastRetry) >= loginRetry {
			lastRetry = clock.Now()
			pending = continueStep(ctx, p, pending)
			if pending == nil {
				if _, err := p.GetLocalGames(ctx); err != nil {
					log.Warn().Err(err).Msg("error loading local games")
				}
			}
		}

		p.Tick(ctx)
	}
}

func logNotifications(ctx context.Context, ns <-chan models.Notification) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-ns:
			params := []byte(n.Params)
			if len(params) == 0 {
				params = []byte("null")
			}
			log.Info().Str("method", n.Method).RawJSON("params", params).Msg("notification")
		}
	}
}

func listOwned(ctx context.Context, p *plugin.Plugin) error {
	owned, err := p.GetOwnedGames(ctx)
	if err != nil {
		return fmt.Errorf("error listing owned games: %w", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, g := range owned {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", g.ID, g.Title)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	return nil
}

func listLocal(ctx context.Context, p *plugin.Plugin) error {
	if p.Auth().Session().State != auth.Authenticated {
		return errors.New("not authenticated: is the Amazon Games app installed?")
	}
	local, err := p.GetLocalGames(ctx)
	if err != nil {
		return fmt.Errorf("error listing local games: %w", err)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, g := range local {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", g.ID, g.State)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("error writing output: %w", err)
	}
	return nil
}

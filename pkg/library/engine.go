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

package library

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/ZaparooProject/amazon-games-sync/pkg/games"
	"github.com/ZaparooProject/amazon-games-sync/pkg/helpers/syncutil"
	"github.com/ZaparooProject/amazon-games-sync/pkg/provider"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	DefaultOwnedInterval   = 10 * time.Minute
	DefaultLocalInterval   = time.Minute
	DefaultFallbackTimeout = 150 * time.Second
)

// Source performs the uncached reads behind the engine.
type Source interface {
	OwnedGames(ctx context.Context) provider.Result[[]games.Game]
	InstalledGames(ctx context.Context) provider.Result[[]provider.InstalledRow]
	RunningGames(ctx context.Context, ids []string) provider.Result[map[string]bool]
}

type cache[T comparable] struct {
	refreshedAt time.Time
	items       map[string]T
	status      CacheStatus
	mu          syncutil.Mutex
}

func (c *cache[T]) snapshot() Snapshot[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot[T]{
		Items:       maps.Clone(c.items),
		RefreshedAt: c.refreshedAt,
		Status:      c.status,
	}
}

// due reports whether enough time has passed since the last stamp.
func (c *cache[T]) due(now time.Time, interval time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refreshedAt.IsZero() || now.Sub(c.refreshedAt) >= interval
}

func (c *cache[T]) uninitialized() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status == CacheUninitialized
}

// replace swaps in a fresh read and returns the differences. The stamp never
// moves backwards.
func (c *cache[T]) replace(next map[string]T, now time.Time) (added, updated []T, removed []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	added, updated, removed = diff(c.items, next)
	c.items = next
	c.status = CachePopulated
	if now.After(c.refreshedAt) {
		c.refreshedAt = now
	}
	return added, updated, removed
}

// fallback empties a cache that was never read.
func (c *cache[T]) fallback() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != CacheUninitialized {
		return false
	}
	c.items = make(map[string]T)
	c.status = CacheFallback
	return true
}

// Engine owns the owned and local caches.
type Engine struct {
	src             Source
	clock           clockwork.Clock
	fallbackDone    chan struct{}
	owned           cache[games.Game]
	local           cache[games.LocalGame]
	ownedInterval   time.Duration
	localInterval   time.Duration
	fallbackTimeout time.Duration
	fallbackMu      syncutil.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

func WithClock(clock clockwork.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

func WithOwnedInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.ownedInterval = d
		}
	}
}

func WithLocalInterval(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.localInterval = d
		}
	}
}

func WithFallbackTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.fallbackTimeout = d
		}
	}
}

// NewEngine creates an engine with both caches uninitialized.
func NewEngine(src Source, opts ...Option) *Engine {
	e := &Engine{
		src:             src,
		clock:           clockwork.NewRealClock(),
		ownedInterval:   DefaultOwnedInterval,
		localInterval:   DefaultLocalInterval,
		fallbackTimeout: DefaultFallbackTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SnapshotOwned returns a copy of the owned cache.
func (e *Engine) SnapshotOwned() Snapshot[games.Game] {
	return e.owned.snapshot()
}

// SnapshotLocal returns a copy of the local cache.
func (e *Engine) SnapshotLocal() Snapshot[games.LocalGame] {
	return e.local.snapshot()
}

// RefreshOwned re-reads the owned library if the owned interval has passed
// since the last successful read. A failed read leaves the cache as it was.
func (e *Engine) RefreshOwned(ctx context.Context, now time.Time) (OwnedDelta, error) {
	if !e.owned.due(now, e.ownedInterval) {
		return OwnedDelta{}, nil
	}
	return e.refreshOwned(ctx, now)
}

func (e *Engine) refreshOwned(ctx context.Context, now time.Time) (OwnedDelta, error) {
	owned, err := e.src.OwnedGames(ctx).Unwrap()
	if err != nil {
		return OwnedDelta{}, fmt.Errorf("failed to read owned games: %w", err)
	}

	next := make(map[string]games.Game, len(owned))
	for _, g := range owned {
		if g.ID == "" {
			continue
		}
		next[g.ID] = g
	}

	added, _, removed := e.owned.replace(next, now)
	log.Debug().
		Int("count", len(next)).
		Int("added", len(added)).
		Int("removed", len(removed)).
		Msg("refreshed owned games")
	return OwnedDelta{Added: added, Removed: removed}, nil
}

// RefreshLocal re-reads installed games and their liveness if the local
// interval has passed. Either read failing leaves the cache as it was.
func (e *Engine) RefreshLocal(ctx context.Context, now time.Time) (LocalDelta, error) {
	if !e.local.due(now, e.localInterval) {
		return LocalDelta{}, nil
	}
	return e.refreshLocal(ctx, now)
}

func (e *Engine) refreshLocal(ctx context.Context, now time.Time) (LocalDelta, error) {
	rows, err := e.src.InstalledGames(ctx).Unwrap()
	if err != nil {
		return LocalDelta{}, fmt.Errorf("failed to read installed games: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Installed && row.ID != "" {
			ids = append(ids, row.ID)
		}
	}

	running, err := e.src.RunningGames(ctx, ids).Unwrap()
	if err != nil {
		return LocalDelta{}, fmt.Errorf("failed to read running games: %w", err)
	}

	next := make(map[string]games.LocalGame, len(ids))
	for _, id := range ids {
		state := games.LocalStateInstalled
		if running[id] {
			state = state.With(games.LocalStateRunning)
		}
		next[id] = games.LocalGame{ID: id, State: state}
	}

	added, updated, removed := e.local.replace(next, now)
	log.Debug().
		Int("count", len(next)).
		Int("added", len(added)).
		Int("updated", len(updated)).
		Int("removed", len(removed)).
		Msg("refreshed local games")
	return LocalDelta{Added: added, Updated: updated, Removed: removed}, nil
}

// EnsureOwned populates the owned cache on first use, ignoring the
// throttle, and returns its snapshot. The snapshot is returned alongside
// any read error.
func (e *Engine) EnsureOwned(ctx context.Context) (Snapshot[games.Game], error) {
	var err error
	if e.owned.uninitialized() {
		_, err = e.refreshOwned(ctx, e.clock.Now())
	}
	return e.owned.snapshot(), err
}

// EnsureLocal populates the local cache on first use.
func (e *Engine) EnsureLocal(ctx context.Context) (Snapshot[games.LocalGame], error) {
	var err error
	if e.local.uninitialized() {
		_, err = e.refreshLocal(ctx, e.clock.Now())
	}
	return e.local.snapshot(), err
}

// StartFallback arms the fallback timer. When it fires, any cache still
// uninitialized becomes an empty fallback cache so ticks stop waiting on
// it. The returned channel closes once the timer fired or ctx ended.
// Calling it again returns the same channel, unless ctx ended first, in
// which case the fallback can be armed again.
func (e *Engine) StartFallback(ctx context.Context) <-chan struct{} {
	e.fallbackMu.Lock()
	defer e.fallbackMu.Unlock()
	if e.fallbackDone != nil {
		return e.fallbackDone
	}

	done := make(chan struct{})
	e.fallbackDone = done
	timer := e.clock.NewTimer(e.fallbackTimeout)

	go func() {
		defer close(done)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			e.fallbackMu.Lock()
			if e.fallbackDone == done {
				e.fallbackDone = nil
			}
			e.fallbackMu.Unlock()
			return
		case <-timer.Chan():
		}
		if e.owned.fallback() {
			log.Info().Msg("owned games not loaded in time, using empty cache")
		}
		if e.local.fallback() {
			log.Info().Msg("local games not loaded in time, using empty cache")
		}
	}()

	return done
}

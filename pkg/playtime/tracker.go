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

package playtime

import (
	"context"
	"fmt"
	"time"

	"github.com/ZaparooProject/amazon-games-sync/pkg/games"
	"github.com/ZaparooProject/amazon-games-sync/pkg/helpers/syncutil"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// DefaultLaunchGrace is how long a launched game may take to show up in the
// process table before its absence counts as an exit.
const DefaultLaunchGrace = 30 * time.Second

// ProcessWatcher reports whether a game currently has a live process.
type ProcessWatcher interface {
	GameProcess(ctx context.Context, gameID string) (pid int32, running bool, err error)
}

// CommandIssuer sends the launch command for a game.
type CommandIssuer func(ctx context.Context, gameID string) error

// RunningSession is the game launched through the tracker.
type RunningSession struct {
	StartedAt   time.Time
	GameID      string
	ID          uuid.UUID
	PID         int32
	SeenRunning bool
}

// Tracker holds at most one running session and records its duration in
// the ledger when the game exits.
type Tracker struct {
	ledger  *Ledger
	watcher ProcessWatcher
	clock   clockwork.Clock
	session *RunningSession
	grace   time.Duration
	mu      syncutil.Mutex
}

// Option configures a Tracker.
type Option func(*Tracker)

func WithClock(clock clockwork.Clock) Option {
	return func(t *Tracker) {
		t.clock = clock
	}
}

func WithLaunchGrace(d time.Duration) Option {
	return func(t *Tracker) {
		if d >= 0 {
			t.grace = d
		}
	}
}

func NewTracker(ledger *Ledger, watcher ProcessWatcher, opts ...Option) *Tracker {
	t := &Tracker{
		ledger:  ledger,
		watcher: watcher,
		clock:   clockwork.NewRealClock(),
		grace:   DefaultLaunchGrace,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Launch closes any open session, issues the launch command and opens a new
// session. The closed session's entry is returned when there was one. If
// the command fails no session is left open.
func (t *Tracker) Launch(ctx context.Context, gameID string, issue CommandIssuer) (*games.GameTime, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var closed *games.GameTime
	if t.session != nil {
		prev := t.session.GameID
		gt, err := t.closeLocked(t.clock.Now())
		if err != nil {
			log.Warn().Err(err).Str("gameID", prev).Msg("failed to record replaced session")
		} else {
			closed = &gt
		}
	}

	if err := issue(ctx, gameID); err != nil {
		return closed, fmt.Errorf("failed to launch %s: %w", gameID, err)
	}

	t.session = &RunningSession{
		ID:        uuid.New(),
		GameID:    gameID,
		StartedAt: t.clock.Now(),
	}
	log.Info().
		Str("gameID", gameID).
		Str("session", t.session.ID.String()).
		Msg("game session started")
	return closed, nil
}

// Poll checks the session's process. When the game has exited its
// duration up to now is added to the ledger and the entry returned.
func (t *Tracker) Poll(ctx context.Context, now time.Time) (*games.GameTime, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.session
	if s == nil {
		return nil, nil
	}

	pid, running, err := t.watcher.GameProcess(ctx, s.GameID)
	if err != nil {
		return nil, fmt.Errorf("failed to check game process: %w", err)
	}
	if running {
		if !s.SeenRunning {
			log.Debug().Str("gameID", s.GameID).Int32("pid", pid).Msg("game process found")
		}
		s.SeenRunning = true
		s.PID = pid
		return nil, nil
	}
	if !s.SeenRunning && now.Sub(s.StartedAt) < t.grace {
		return nil, nil
	}

	gt, err := t.closeLocked(now)
	if err != nil {
		return nil, err
	}
	return &gt, nil
}

// Current returns a copy of the running session.
func (t *Tracker) Current() (RunningSession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.session == nil {
		return RunningSession{}, false
	}
	return *t.session, true
}

// closeLocked records the session and clears it even if the write fails,
// so the same interval is never counted twice.
func (t *Tracker) closeLocked(now time.Time) (games.GameTime, error) {
	s := t.session
	t.session = nil

	d := now.Sub(s.StartedAt)
	log.Info().
		Str("gameID", s.GameID).
		Str("session", s.ID.String()).
		Dur("duration", d).
		Msg("game session ended")
	return t.ledger.AddSession(s.GameID, d, now)
}

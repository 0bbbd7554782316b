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

// Package playtime tracks the running game session and keeps the per-game
// playtime ledger.
package playtime

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/amazon-games-sync/pkg/games"
	"github.com/ZaparooProject/amazon-games-sync/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

type ledgerEntry struct {
	LastTimePlayed *int64 `json:"last_time_played"`
	TimePlayed     int64  `json:"time_played"`
}

type ledgerDoc map[string]ledgerEntry

func (e ledgerEntry) gameTime(gameID string) games.GameTime {
	gt := games.GameTime{GameID: gameID, TimePlayed: e.TimePlayed}
	if e.LastTimePlayed != nil {
		t := time.Unix(*e.LastTimePlayed, 0).UTC()
		gt.LastPlayed = &t
	}
	return gt
}

// Ledger is the JSON playtime document. Entries are only ever added to, and
// time played only ever grows.
type Ledger struct {
	fs   afero.Fs
	path string
	mu   syncutil.Mutex
}

// NewLedger returns a ledger stored at path. Nothing is read or written
// until first use.
func NewLedger(fs afero.Fs, path string) *Ledger {
	return &Ledger{fs: fs, path: path}
}

// Path returns the ledger document location.
func (l *Ledger) Path() string {
	return l.path
}

// Load returns every entry, adding zeroed entries for known ids that are
// not yet in the document. The document is created if missing.
func (l *Ledger) Load(knownIDs []string) (map[string]games.GameTime, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, existed, err := l.read()
	if err != nil {
		return nil, err
	}

	dirty := !existed
	for _, id := range knownIDs {
		if _, ok := doc[id]; !ok && id != "" {
			doc[id] = ledgerEntry{}
			dirty = true
		}
	}
	if dirty {
		if err := l.write(doc); err != nil {
			return nil, err
		}
	}

	result := make(map[string]games.GameTime, len(doc))
	for id, e := range doc {
		result[id] = e.gameTime(id)
	}
	return result, nil
}

// AddSession adds d to the game's time played and stamps it as last played
// at. Negative durations count as zero.
func (l *Ledger) AddSession(gameID string, d time.Duration, at time.Time) (games.GameTime, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	doc, _, err := l.read()
	if err != nil {
		return games.GameTime{}, err
	}

	secs := int64(d / time.Second)
	if secs < 0 {
		secs = 0
	}
	last := at.Unix()

	e := doc[gameID]
	e.TimePlayed += secs
	e.LastTimePlayed = &last
	doc[gameID] = e

	if err := l.write(doc); err != nil {
		return games.GameTime{}, err
	}
	log.Debug().
		Str("gameID", gameID).
		Int64("added", secs).
		Int64("total", e.TimePlayed).
		Msg("recorded play session")
	return e.gameTime(gameID), nil
}

func (l *Ledger) read() (doc ledgerDoc, existed bool, err error) {
	data, err := afero.ReadFile(l.fs, l.path)
	if errors.Is(err, os.ErrNotExist) {
		return ledgerDoc{}, false, nil
	} else if err != nil {
		return nil, false, fmt.Errorf("failed to read playtime ledger: %w", err)
	}

	doc = ledgerDoc{}
	if len(data) == 0 {
		return doc, true, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, true, fmt.Errorf("failed to parse playtime ledger %s: %w", l.path, err)
	}
	return doc, true, nil
}

func (l *Ledger) write(doc ledgerDoc) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode playtime ledger: %w", err)
	}
	if err := l.fs.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return fmt.Errorf("failed to create ledger dir: %w", err)
	}

	tmp := l.path + ".tmp"
	if err := afero.WriteFile(l.fs, tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write playtime ledger: %w", err)
	}
	if err := l.fs.Rename(tmp, l.path); err != nil {
		_ = l.fs.Remove(tmp)
		return fmt.Errorf("failed to replace playtime ledger: %w", err)
	}
	return nil
}

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

// Package games holds the records shared between the sync engine, the
// session tracker and the host adapter.
package games

import (
	"strings"
	"time"
)

// LicenseType describes how a game is entitled to the user.
type LicenseType int

const (
	LicenseUnknown LicenseType = iota
	LicenseSinglePurchase
	LicenseFreeToPlay
	LicenseOtherUserLicense
)

func (l LicenseType) String() string {
	switch l {
	case LicenseSinglePurchase:
		return "SinglePurchase"
	case LicenseFreeToPlay:
		return "FreeToPlay"
	case LicenseOtherUserLicense:
		return "OtherUserLicense"
	default:
		return "Unknown"
	}
}

// Game is an entry in the user's owned library. Records are replaced
// wholesale on every successful sync and never edited in place.
type Game struct {
	ID      string      `json:"id"`
	Title   string      `json:"title"`
	License LicenseType `json:"license"`
}

// LocalState is a set of local installation flags.
type LocalState uint8

const (
	LocalStateNone      LocalState = 0
	LocalStateInstalled LocalState = 1 << 0
	LocalStateRunning   LocalState = 1 << 1
)

// Has reports whether every flag in f is set.
func (s LocalState) Has(f LocalState) bool {
	return s&f == f
}

// With returns the state with f added.
func (s LocalState) With(f LocalState) LocalState {
	return s | f
}

func (s LocalState) String() string {
	if s == LocalStateNone {
		return "None"
	}
	var parts []string
	if s.Has(LocalStateInstalled) {
		parts = append(parts, "Installed")
	}
	if s.Has(LocalStateRunning) {
		parts = append(parts, "Running")
	}
	return strings.Join(parts, "|")
}

// LocalGame is the on-disk state of a game.
type LocalGame struct {
	ID    string     `json:"id"`
	State LocalState `json:"state"`
}

// GameTime is the accumulated playtime of a single game.
type GameTime struct {
	LastPlayed *time.Time `json:"lastPlayed,omitempty"`
	GameID     string     `json:"gameId"`
	TimePlayed int64      `json:"timePlayed"`
}

// OSCompatibility lists the operating systems a game runs on.
type OSCompatibility uint8

const (
	OSWindows OSCompatibility = 1 << iota
	OSMacOS
	OSLinux
)

// Authentication identifies the user once the login handshake completes.
type Authentication struct {
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
}

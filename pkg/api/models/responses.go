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

package models

import "time"

type GameResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	License string `json:"license"`
}

type GamesAddedParams struct {
	Games []GameResponse `json:"games"`
}

type GamesRemovedParams struct {
	IDs []string `json:"ids"`
}

type LocalGameResponse struct {
	ID        string `json:"id"`
	State     string `json:"state"`
	Installed bool   `json:"installed"`
	Running   bool   `json:"running"`
}

type LocalGamesUpdatedParams struct {
	Games []LocalGameResponse `json:"games"`
}

type GameTimeResponse struct {
	LastPlayed *time.Time `json:"lastPlayed,omitempty"`
	GameID     string     `json:"gameId"`
	TimePlayed int64      `json:"timePlayed"`
}

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

package plugin

import (
	"github.com/ZaparooProject/amazon-games-sync/pkg/api/models"
	"github.com/ZaparooProject/amazon-games-sync/pkg/games"
)

func gameResponses(gs []games.Game) []models.GameResponse {
	out := make([]models.GameResponse, 0, len(gs))
	for _, g := range gs {
		out = append(out, models.GameResponse{
			ID:      g.ID,
			Title:   g.Title,
			License: g.License.String(),
		})
	}
	return out
}

func localGameResponse(g games.LocalGame) models.LocalGameResponse {
	return models.LocalGameResponse{
		ID:        g.ID,
		State:     g.State.String(),
		Installed: g.State.Has(games.LocalStateInstalled),
		Running:   g.State.Has(games.LocalStateRunning),
	}
}

func gameTimeResponse(gt games.GameTime) models.GameTimeResponse {
	return models.GameTimeResponse{
		GameID:     gt.GameID,
		TimePlayed: gt.TimePlayed,
		LastPlayed: gt.LastPlayed,
	}
}

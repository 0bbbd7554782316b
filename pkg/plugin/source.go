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
	"context"

	"github.com/ZaparooProject/amazon-games-sync/pkg/client"
	"github.com/ZaparooProject/amazon-games-sync/pkg/games"
	"github.com/ZaparooProject/amazon-games-sync/pkg/library"
	"github.com/ZaparooProject/amazon-games-sync/pkg/provider"
)

// dbSource reads the client's SQLite databases and the process table.
type dbSource struct {
	db     *provider.Database
	client *client.Manager
}

var _ library.Source = (*dbSource)(nil)

func (s *dbSource) OwnedGames(ctx context.Context) provider.Result[[]games.Game] {
	path := s.client.OwnedGamesDBPath()
	if path == "" {
		return provider.Failure[[]games.Game](client.ErrNotInstalled)
	}
	rows, err := s.db.OwnedGames(ctx, path).Unwrap()
	if err != nil {
		return provider.Failure[[]games.Game](err)
	}
	owned := make([]games.Game, 0, len(rows))
	for _, row := range rows {
		owned = append(owned, games.Game{
			ID:      row.ProductID,
			Title:   row.Title,
			License: games.LicenseSinglePurchase,
		})
	}
	return provider.Success(owned)
}

func (s *dbSource) InstalledGames(ctx context.Context) provider.Result[[]provider.InstalledRow] {
	path := s.client.InstalledGamesDBPath()
	if path == "" {
		return provider.Failure[[]provider.InstalledRow](client.ErrNotInstalled)
	}
	return s.db.InstalledGames(ctx, path)
}

func (s *dbSource) RunningGames(ctx context.Context, ids []string) provider.Result[map[string]bool] {
	return provider.FromPair(s.client.RunningGames(ctx, ids))
}

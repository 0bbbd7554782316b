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

package provider

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrDatabaseMissing is returned when a database file doesn't exist yet.
// The SQLite driver would otherwise create an empty file in its place.
var ErrDatabaseMissing = errors.New("database file not found")

const (
	sqliteReadParams = "mode=ro&_busy_timeout=5000"

	ownedGamesQuery     = `SELECT ProductIdStr, ProductTitle FROM DbSet;`
	installedGamesQuery = `SELECT Id, Installed FROM DbSet;`
)

// OwnedRow is a row of GameProductInfo.sqlite.
type OwnedRow struct {
	ProductID string
	Title     string
}

// InstalledRow is a row of GameInstallInfo.sqlite.
type InstalledRow struct {
	ID        string
	Installed bool
}

// Database reads the Amazon Games SQLite files. Each read opens its own
// read-only connection since the client rewrites the files while running.
type Database struct {
	fs afero.Fs
}

// NewDatabase creates a reader that checks file presence through fs.
func NewDatabase(fs afero.Fs) *Database {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Database{fs: fs}
}

// OwnedGames reads every product row.
func (d *Database) OwnedGames(ctx context.Context, path string) Result[[]OwnedRow] {
	db, err := d.open(path)
	if err != nil {
		return Failure[[]OwnedRow](err)
	}
	defer closeDB(db, path)
	return FromPair(sqlOwnedGames(ctx, db))
}

// InstalledGames reads every install row, installed or not.
func (d *Database) InstalledGames(ctx context.Context, path string) Result[[]InstalledRow] {
	db, err := d.open(path)
	if err != nil {
		return Failure[[]InstalledRow](err)
	}
	defer closeDB(db, path)
	return FromPair(sqlInstalledGames(ctx, db))
}

func (d *Database) open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrDatabaseMissing)
	}
	if _, err := d.fs.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrDatabaseMissing, path)
	}
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func sqliteDSN(path string) string {
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		// Windows volume paths need an empty authority: file:///C:/...
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: sqliteReadParams}
	return u.String()
}

func closeDB(db *sql.DB, path string) {
	if err := db.Close(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to close database")
	}
}

func sqlOwnedGames(ctx context.Context, db *sql.DB) ([]OwnedRow, error) {
	rows, err := db.QueryContext(ctx, ownedGamesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query owned games: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close owned games rows")
		}
	}()

	var result []OwnedRow
	for rows.Next() {
		var id, title sql.NullString
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("failed to scan owned game: %w", err)
		}
		if !id.Valid || id.String == "" {
			continue
		}
		result = append(result, OwnedRow{ProductID: id.String, Title: title.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate owned games: %w", err)
	}
	return result, nil
}

func sqlInstalledGames(ctx context.Context, db *sql.DB) ([]InstalledRow, error) {
	rows, err := db.QueryContext(ctx, installedGamesQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query installed games: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close installed games rows")
		}
	}()

	var result []InstalledRow
	for rows.Next() {
		var id sql.NullString
		var installed sql.NullBool
		if err := rows.Scan(&id, &installed); err != nil {
			return nil, fmt.Errorf("failed to scan installed game: %w", err)
		}
		if !id.Valid || id.String == "" {
			continue
		}
		result = append(result, InstalledRow{ID: id.String, Installed: installed.Valid && installed.Bool})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate installed games: %w", err)
	}
	return result, nil
}

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

package helpers

import (
	"os"
	"path/filepath"

	"github.com/ZaparooProject/amazon-games-sync/pkg/config"
	"github.com/adrg/xdg"
)

// UserDirEnv points every directory at one parent folder, for portable
// installs and tests.
const UserDirEnv = "AMAZON_SYNC_USER_DIR"

const logsDir = "logs"

func userDir() (string, bool) {
	v := os.Getenv(UserDirEnv)
	return v, v != ""
}

// ConfigDir is where the config and credentials files live.
func ConfigDir() string {
	if v, ok := userDir(); ok {
		return v
	}
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

// DataDir is where the playtime ledger and splash page live.
func DataDir() string {
	if v, ok := userDir(); ok {
		return v
	}
	return filepath.Join(xdg.DataHome, config.AppName)
}

// LogDir is where rotated log files are written.
func LogDir() string {
	return filepath.Join(DataDir(), logsDir)
}

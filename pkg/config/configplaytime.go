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

package config

import "time"

// Playtime configures session tracking and the playtime ledger.
type Playtime struct {
	LedgerFile  string `toml:"ledger_file,omitempty"`
	LaunchGrace string `toml:"launch_grace" validate:"omitempty,duration"`
	FlushTicks  int    `toml:"flush_ticks" validate:"gte=0"`
}

// LedgerPath returns the playtime ledger location. Relative paths are
// resolved against dataDir.
func (c *Instance) LedgerPath(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return resolvePath(c.vals.Playtime.LedgerFile, dataDir, LedgerFile)
}

// FlushTicks returns how many ticks pass between full playtime reports.
// Returns 12 if not configured.
func (c *Instance) FlushTicks() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Playtime.FlushTicks <= 0 {
		return 12
	}
	return c.vals.Playtime.FlushTicks
}

// LaunchGrace returns how long a launched game may take to show up in the
// process table before the session is considered over.
func (c *Instance) LaunchGrace() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.Playtime.LaunchGrace, 30*time.Second)
}

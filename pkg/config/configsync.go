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

// Sync configures how often the library caches are refreshed.
type Sync struct {
	OwnedInterval   string `toml:"owned_interval" validate:"omitempty,duration"`
	LocalInterval   string `toml:"local_interval" validate:"omitempty,duration"`
	FallbackTimeout string `toml:"fallback_timeout" validate:"omitempty,duration"`
	ParallelReads   bool   `toml:"parallel_reads"`
}

// OwnedInterval returns the minimum time between owned games reads.
// Returns 10 minutes if not configured or invalid.
func (c *Instance) OwnedInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.Sync.OwnedInterval, 10*time.Minute)
}

// LocalInterval returns the minimum time between installed games reads.
// Returns 1 minute if not configured or invalid.
func (c *Instance) LocalInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.Sync.LocalInterval, time.Minute)
}

// FallbackTimeout returns how long after the handshake caches that were
// never populated are initialized to empty.
func (c *Instance) FallbackTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.Sync.FallbackTimeout, 150*time.Second)
}

// ParallelReads returns true if the owned and installed databases are read
// concurrently during a tick.
func (c *Instance) ParallelReads() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Sync.ParallelReads
}

func (c *Instance) SetParallelReads(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Sync.ParallelReads = enabled
}

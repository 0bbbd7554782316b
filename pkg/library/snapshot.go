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

// Package library keeps cached views of the user's owned games and local
// installs, refreshes them on a throttle and reports what changed.
package library

import (
	"maps"
	"slices"
	"time"

	"github.com/ZaparooProject/amazon-games-sync/pkg/games"
)

// CacheStatus tells a never-read cache apart from one that timed out into an
// empty fallback and from one populated by a real read.
type CacheStatus int

const (
	CacheUninitialized CacheStatus = iota
	CacheFallback
	CachePopulated
)

func (s CacheStatus) String() string {
	switch s {
	case CacheFallback:
		return "fallback"
	case CachePopulated:
		return "populated"
	default:
		return "uninitialized"
	}
}

// Snapshot is a copy of a cache at one moment.
type Snapshot[T any] struct {
	RefreshedAt time.Time
	Items       map[string]T
	Status      CacheStatus
}

// Initialized reports whether the cache has been read or has fallen back.
func (s Snapshot[T]) Initialized() bool {
	return s.Status != CacheUninitialized
}

// IDs returns the cached ids in sorted order.
func (s Snapshot[T]) IDs() []string {
	return slices.Sorted(maps.Keys(s.Items))
}

// Values returns the cached records sorted by id.
func (s Snapshot[T]) Values() []T {
	ids := s.IDs()
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.Items[id])
	}
	return out
}

// OwnedDelta is the change between two owned-game reads.
type OwnedDelta struct {
	Added   []games.Game
	Removed []string
}

// Empty reports whether nothing changed.
func (d OwnedDelta) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// LocalDelta is the change between two local-game reads.
type LocalDelta struct {
	Added   []games.LocalGame
	Updated []games.LocalGame
	Removed []string
}

// Empty reports whether nothing changed.
func (d LocalDelta) Empty() bool {
	return len(d.Added) == 0 && len(d.Updated) == 0 && len(d.Removed) == 0
}

// Changed returns added and updated records together, which the host
// receives through the same notification.
func (d LocalDelta) Changed() []games.LocalGame {
	out := make([]games.LocalGame, 0, len(d.Added)+len(d.Updated))
	out = append(out, d.Added...)
	out = append(out, d.Updated...)
	return out
}

// diff compares two keyed sets. Results are sorted by id.
func diff[T comparable](prev, next map[string]T) (added, updated []T, removed []string) {
	for _, id := range slices.Sorted(maps.Keys(next)) {
		old, ok := prev[id]
		switch {
		case !ok:
			added = append(added, next[id])
		case old != next[id]:
			updated = append(updated, next[id])
		}
	}
	for _, id := range slices.Sorted(maps.Keys(prev)) {
		if _, ok := next[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, updated, removed
}

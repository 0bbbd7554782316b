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

package library

import (
	"testing"

	"pgregory.net/rapid"
)

func genSet(t *rapid.T, label string) map[string]int {
	return rapid.MapOf(
		rapid.StringMatching(`[a-f0-9]{1,4}`),
		rapid.IntRange(0, 3),
	).Draw(t, label)
}

// TestDiffProperties checks that applying a diff to the previous set yields
// the next set and that every id lands in at most one bucket.
func TestDiffProperties(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		prev := genSet(t, "prev")
		next := genSet(t, "next")

		added, updated, removed := diff(prev, next)

		rebuilt := make(map[string]int, len(prev))
		for id, v := range prev {
			rebuilt[id] = v
		}
		for _, id := range removed {
			if _, ok := next[id]; ok {
				t.Fatalf("removed id %q still present", id)
			}
			delete(rebuilt, id)
		}
		if len(added)+len(updated) > len(next) {
			t.Fatalf("more changes than items: %d+%d > %d", len(added), len(updated), len(next))
		}
		for id, v := range next {
			old, existed := prev[id]
			if existed && old == v {
				continue
			}
			rebuilt[id] = v
		}
		if len(rebuilt) != len(next) {
			t.Fatalf("rebuilt size %d, want %d", len(rebuilt), len(next))
		}
		for id, v := range next {
			if rebuilt[id] != v {
				t.Fatalf("rebuilt[%q] = %d, want %d", id, rebuilt[id], v)
			}
		}
	})
}

func TestDiffIdentity(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		set := genSet(t, "set")
		added, updated, removed := diff(set, set)
		if len(added)+len(updated)+len(removed) != 0 {
			t.Fatalf("diff of a set with itself is not empty")
		}
	})
}

func TestDiffSorted(t *testing.T) {
	t.Parallel()

	_, _, removed := diff(map[string]int{"c": 1, "a": 1, "b": 1}, nil)
	if len(removed) != 3 || removed[0] != "a" || removed[1] != "b" || removed[2] != "c" {
		t.Fatalf("removed not sorted: %v", removed)
	}
}

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

package telemetry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{
			name:     "no username",
			input:    `C:\Program Files (x86)\Amazon Games\App\Amazon Games.exe`,
			expected: `C:\Program Files (x86)\Amazon Games\App\Amazon Games.exe`,
		},
		{
			name:     "linux home",
			input:    "/home/sam/.local/share/amazon-sync/game_times.json",
			expected: "/home/<user>/.local/share/amazon-sync/game_times.json",
		},
		{
			name:     "macos users lowercase",
			input:    "/users/sam/Library/amazon-sync.toml",
			expected: "/Users/<user>/Library/amazon-sync.toml",
		},
		{
			name:     "windows appdata",
			input:    `d:\Users\Sam\AppData\Local\amazon-sync\amazon-sync.log`,
			expected: `C:\Users\<user>\AppData\Local\amazon-sync\amazon-sync.log`,
		},
		{
			name:     "message with two paths",
			input:    "copying /home/alice/a to /home/bob/b",
			expected: "copying /home/<user>/a to /home/<user>/b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}

func TestSanitizeEvent(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{
		ServerName: "sams-pc",
		Message:    "failed to read /home/sam/ledger.json",
		Extra:      map[string]any{"path": `C:\Users\sam\x`, "count": 3},
		Exception: []sentry.Exception{{
			Value: "open /home/sam/ledger.json: denied",
			Stacktrace: &sentry.Stacktrace{Frames: []sentry.Frame{{
				AbsPath:  "/home/sam/src/amazon-games-sync/pkg/playtime/ledger.go",
				Filename: "pkg/playtime/ledger.go",
			}}},
		}},
	}

	out := sanitizeEvent(event)
	require.NotNil(t, out)
	assert.Empty(t, out.ServerName)
	assert.Equal(t, "failed to read /home/<user>/ledger.json", out.Message)
	assert.Equal(t, `C:\Users\<user>\x`, out.Extra["path"])
	assert.Equal(t, 3, out.Extra["count"])
	assert.Equal(t, "open /home/<user>/ledger.json: denied", out.Exception[0].Value)
	assert.Equal(t, "/home/<user>/src/amazon-games-sync/pkg/playtime/ledger.go",
		out.Exception[0].Stacktrace.Frames[0].AbsPath)
}

func TestInit_Disabled(t *testing.T) {
	t.Parallel()

	r, err := Init(Options{Enabled: false, DSN: "https://key@example.invalid/1"})
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.False(t, r.Enabled())

	r, err = Init(Options{Enabled: true})
	require.NoError(t, err)
	assert.False(t, r.Enabled())

	// nil reporters are safe to use
	r.Flush()
	r.Close()
}

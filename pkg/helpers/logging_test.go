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
	"strings"
	"testing"

	"github.com/ZaparooProject/amazon-games-sync/pkg/config"
	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Not parallel: both tests touch process-wide state.

func TestDirs(t *testing.T) {
	t.Setenv(UserDirEnv, "")
	assert.True(t, strings.HasPrefix(ConfigDir(), xdg.ConfigHome))
	assert.True(t, strings.HasPrefix(DataDir(), xdg.DataHome))
	assert.Equal(t, filepath.Join(DataDir(), "logs"), LogDir())

	portable := t.TempDir()
	t.Setenv(UserDirEnv, portable)
	assert.Equal(t, portable, ConfigDir())
	assert.Equal(t, portable, DataDir())
}

func TestInitLogging(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, InitLogging(dir, true, nil))
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	log.Info().Str("component", "test").Msg("hello from the log test")

	data, err := os.ReadFile(filepath.Join(dir, config.LogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello from the log test")
	assert.NotNil(t, LogWriter())
}

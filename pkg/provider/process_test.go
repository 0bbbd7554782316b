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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemProcesses_IncludesSelf(t *testing.T) {
	t.Parallel()

	procs, err := SystemProcesses{}.Processes(context.Background())
	require.NoError(t, err)

	self := int32(os.Getpid()) //nolint:gosec // pid fits in int32
	found := false
	for _, p := range procs {
		if p.PID == self {
			found = true
			assert.NotEmpty(t, p.ExecutablePath)
			break
		}
	}
	assert.True(t, found, "own process should be listed")
}

func TestRegistryPrograms_Result(t *testing.T) {
	t.Parallel()

	res := RegistryPrograms{}.Programs(context.Background())
	if res.Ok() {
		programs, err := res.Unwrap()
		require.NoError(t, err)
		assert.NotNil(t, programs)
		return
	}
	// only Windows has an uninstall registry
	assert.ErrorIs(t, res.Err(), ErrUnsupportedPlatform)
}

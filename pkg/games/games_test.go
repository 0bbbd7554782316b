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

package games

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalStateFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		wantString  string
		state       LocalState
		wantInstall bool
		wantRunning bool
	}{
		{name: "none", state: LocalStateNone, wantString: "None"},
		{name: "installed", state: LocalStateInstalled, wantString: "Installed", wantInstall: true},
		{
			name:        "installed and running",
			state:       LocalStateInstalled.With(LocalStateRunning),
			wantString:  "Installed|Running",
			wantInstall: true,
			wantRunning: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantString, tt.state.String())
			assert.Equal(t, tt.wantInstall, tt.state.Has(LocalStateInstalled))
			assert.Equal(t, tt.wantRunning, tt.state.Has(LocalStateRunning))
		})
	}
}

func TestLocalStateEquality(t *testing.T) {
	t.Parallel()

	a := LocalStateInstalled.With(LocalStateRunning)
	b := LocalStateRunning.With(LocalStateInstalled)
	assert.Equal(t, a, b)
	assert.NotEqual(t, LocalStateInstalled, a)
}

func TestLicenseTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "SinglePurchase", LicenseSinglePurchase.String())
	assert.Equal(t, "Unknown", LicenseType(99).String())
}

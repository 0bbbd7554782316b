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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultSuccess(t *testing.T) {
	t.Parallel()

	r := Success([]string{"a", "b"})
	assert.True(t, r.Ok())
	require.NoError(t, r.Err())

	v, err := r.Unwrap()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, v)
}

func TestResultFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	r := Failure[[]string](boom)
	assert.False(t, r.Ok())
	require.ErrorIs(t, r.Err(), boom)

	v, err := r.Unwrap()
	require.ErrorIs(t, err, boom)
	assert.Nil(t, v)
}

func TestResultFailureNilError(t *testing.T) {
	t.Parallel()

	r := Failure[int](nil)
	assert.False(t, r.Ok())
	assert.Error(t, r.Err())
}

func TestFromPair(t *testing.T) {
	t.Parallel()

	assert.True(t, FromPair(1, nil).Ok())
	assert.False(t, FromPair(0, errors.New("x")).Ok())
}

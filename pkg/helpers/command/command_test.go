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

package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealExecutor_Start(t *testing.T) {
	t.Parallel()

	executor := &RealExecutor{}

	t.Run("starts_command_without_waiting", func(t *testing.T) {
		t.Parallel()

		err := executor.Start(context.Background(), "true")

		assert.NoError(t, err)
	})

	t.Run("returns_error_for_nonexistent_command", func(t *testing.T) {
		t.Parallel()

		err := executor.Start(context.Background(), "nonexistent_command_that_should_not_exist_12345")

		require.Error(t, err)
	})
}

func TestRealExecutor_StartWithOptions(t *testing.T) {
	t.Parallel()

	executor := &RealExecutor{}

	t.Run("starts_detached_command", func(t *testing.T) {
		t.Parallel()

		opts := StartOptions{Detached: true, HideWindow: true}
		err := executor.StartWithOptions(context.Background(), opts, "true")

		assert.NoError(t, err)
	})

	t.Run("starts_command_in_dir", func(t *testing.T) {
		t.Parallel()

		opts := StartOptions{Dir: t.TempDir()}
		err := executor.StartWithOptions(context.Background(), opts, "true")

		assert.NoError(t, err)
	})

	t.Run("detached_refuses_cancelled_context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := executor.StartWithOptions(ctx, StartOptions{Detached: true}, "true")

		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("returns_error_for_nonexistent_command", func(t *testing.T) {
		t.Parallel()

		err := executor.StartWithOptions(context.Background(), StartOptions{},
			"nonexistent_command_that_should_not_exist_12345")

		require.Error(t, err)
	})
}

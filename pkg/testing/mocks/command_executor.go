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

package mocks

import (
	"context"

	"github.com/ZaparooProject/amazon-games-sync/pkg/helpers/command"
	"github.com/stretchr/testify/mock"
)

// MockCommandExecutor is a testify mock for command.Executor.
// It allows testing code that launches programs without actually running them.
//
// Example:
//
//	mockCmd := &MockCommandExecutor{}
//	mockCmd.On("StartWithOptions", mock.Anything, mock.Anything, "cmd", mock.Anything).Return(nil)
type MockCommandExecutor struct {
	mock.Mock
}

var _ command.Executor = (*MockCommandExecutor)(nil)

// Start mocks starting a command.
func (m *MockCommandExecutor) Start(ctx context.Context, name string, args ...string) error {
	called := m.Called(ctx, name, args)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return called.Error(0)
}

// StartWithOptions mocks starting a command with options.
func (m *MockCommandExecutor) StartWithOptions(
	ctx context.Context,
	opts command.StartOptions,
	name string,
	args ...string,
) error {
	called := m.Called(ctx, opts, name, args)
	//nolint:wrapcheck // Mock returns are already wrapped by caller
	return called.Error(0)
}

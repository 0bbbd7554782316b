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

import "context"

// UninstallRegistryPath is the key listing installed programs under both
// HKEY_CURRENT_USER and HKEY_LOCAL_MACHINE.
const UninstallRegistryPath = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`

// UninstallProgram is a single entry of the uninstall registry.
type UninstallProgram struct {
	DisplayName     string
	InstallLocation string
	UninstallString string
}

// ProgramLister enumerates uninstall-capable programs.
type ProgramLister interface {
	Programs(ctx context.Context) Result[[]UninstallProgram]
}

// RegistryPrograms reads uninstall entries from the Windows registry,
// current user first.
type RegistryPrograms struct{}

var _ ProgramLister = RegistryPrograms{}

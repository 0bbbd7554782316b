//go:build windows

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
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/windows/registry"
)

// Programs lists HKCU then HKLM uninstall entries. A hive that can't be
// opened is skipped; the read only fails if neither can be.
func (RegistryPrograms) Programs(_ context.Context) Result[[]UninstallProgram] {
	hives := []struct {
		name string
		key  registry.Key
	}{
		{name: "CURRENT_USER", key: registry.CURRENT_USER},
		{name: "LOCAL_MACHINE", key: registry.LOCAL_MACHINE},
	}

	var programs []UninstallProgram
	var errs []error
	for _, hive := range hives {
		found, err := listPrograms(hive.key)
		if err != nil {
			log.Debug().Err(err).Str("hive", hive.name).Msg("failed to read uninstall registry")
			errs = append(errs, fmt.Errorf("%s: %w", hive.name, err))
			continue
		}
		programs = append(programs, found...)
	}

	if len(errs) == len(hives) {
		return Failure[[]UninstallProgram](errors.Join(errs...))
	}
	return Success(programs)
}

func listPrograms(root registry.Key) ([]UninstallProgram, error) {
	key, err := registry.OpenKey(root, UninstallRegistryPath, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return nil, fmt.Errorf("open uninstall key: %w", err)
	}
	defer func() { _ = key.Close() }()

	names, err := key.ReadSubKeyNames(0)
	if err != nil {
		return nil, fmt.Errorf("read uninstall subkeys: %w", err)
	}

	programs := make([]UninstallProgram, 0, len(names))
	for _, name := range names {
		item, err := registry.OpenKey(key, name, registry.QUERY_VALUE)
		if err != nil {
			continue
		}
		programs = append(programs, UninstallProgram{
			DisplayName:     stringValue(item, "DisplayName"),
			InstallLocation: stringValue(item, "InstallLocation"),
			UninstallString: stringValue(item, "UninstallString"),
		})
		_ = item.Close()
	}
	return programs, nil
}

// stringValue returns an empty string for missing or non-string values.
func stringValue(key registry.Key, name string) string {
	v, _, err := key.GetStringValue(name)
	if err != nil {
		return ""
	}
	return v
}

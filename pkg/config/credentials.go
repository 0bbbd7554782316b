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

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

// Credentials is the marker the host stores after a successful login. The
// Amazon Games client holds the real session, so the contents are opaque.
type Credentials struct {
	Creds map[string]string `toml:"creds,omitempty"`
}

// StoredCredentials loads the credentials file. Returns nil if none has
// been stored yet.
func (c *Instance) StoredCredentials() (map[string]string, error) {
	c.mu.RLock()
	path := c.credsPath
	c.mu.RUnlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	var creds Credentials
	if err := toml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credentials file: %w", err)
	}
	if len(creds.Creds) == 0 {
		return nil, nil
	}
	return creds.Creds, nil
}

// StoreCredentials replaces the credentials file.
func (c *Instance) StoreCredentials(creds map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := toml.Marshal(Credentials{Creds: creds})
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.credsPath), 0o750); err != nil {
		return fmt.Errorf("failed to create credentials directory: %w", err)
	}
	if err := os.WriteFile(c.credsPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	log.Info().Msg("stored credentials marker")
	return nil
}

// ClearCredentials removes the credentials file, forcing the web login
// flow on the next start.
func (c *Instance) ClearCredentials() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := os.Remove(c.credsPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove credentials file: %w", err)
	}
	return nil
}

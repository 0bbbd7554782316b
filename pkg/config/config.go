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
	"time"

	"github.com/ZaparooProject/amazon-games-sync/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "AMAZON_SYNC_CFG"
	AppName       = "amazon-sync"
	CfgFile       = "amazon-sync.toml"
	CredsFile     = "credentials.toml"
	LogFile       = "amazon-sync.log"
	LedgerFile    = "game_times.json"
	SplashDir     = "splash"
)

type Values struct {
	TickInterval   string   `toml:"tick_interval" validate:"omitempty,duration"`
	Client         Client   `toml:"client,omitempty"`
	Sync           Sync     `toml:"sync"`
	Auth           Auth     `toml:"auth"`
	Playtime       Playtime `toml:"playtime"`
	ConfigSchema   int      `toml:"config_schema"`
	DebugLogging   bool     `toml:"debug_logging"`
	ErrorReporting bool     `toml:"error_reporting"`
}

type Client struct {
	InstallDir string `toml:"install_dir,omitempty"`
}

type Auth struct {
	WaitTimeout string `toml:"wait_timeout" validate:"omitempty,duration"`
	SplashDir   string `toml:"splash_dir,omitempty"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	TickInterval: "1s",
	Sync: Sync{
		OwnedInterval:   "10m",
		LocalInterval:   "1m",
		FallbackTimeout: "2m30s",
	},
	Auth: Auth{
		WaitTimeout: "15s",
	},
	Playtime: Playtime{
		FlushTicks:  12,
		LaunchGrace: "30s",
	},
}

type Instance struct {
	cfgPath   string
	credsPath string
	vals      Values
	defaults  Values
	mu        syncutil.RWMutex
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		cfgPath:   cfgPath,
		credsPath: filepath.Join(filepath.Dir(cfgPath), CredsFile),
		vals:      defaults,
		defaults:  defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := os.ReadFile(c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top.
	// This ensures fields not present in the file retain their default values.
	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return errors.New("schema version mismatch")
	}

	if err := validate(&newVals); err != nil {
		return err
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}

func (c *Instance) ErrorReporting() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.ErrorReporting
}

// TickInterval is how often the daemon drives the sync pipeline.
func (c *Instance) TickInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.TickInterval, time.Second)
}

// InstallDir is a user override for the Amazon Games install location.
func (c *Instance) InstallDir() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Client.InstallDir
}

// AuthWaitTimeout bounds how long local game queries wait for login.
func (c *Instance) AuthWaitTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.Auth.WaitTimeout, 15*time.Second)
}

// SplashDir returns the configured splash page directory, resolving
// relative paths against dataDir. Empty config means dataDir/splash.
func (c *Instance) SplashDir(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return resolvePath(c.vals.Auth.SplashDir, dataDir, SplashDir)
}

// parseDuration returns def for empty, invalid or non-positive values.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func resolvePath(p, dataDir, def string) string {
	if p == "" {
		return filepath.Join(dataDir, def)
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dataDir, p)
}

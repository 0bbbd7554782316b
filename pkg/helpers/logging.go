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
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/amazon-games-sync/pkg/config"
	"github.com/ZaparooProject/amazon-games-sync/pkg/helpers/syncutil"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

var (
	logWriterMu syncutil.Mutex
	logWriter   io.Writer = os.Stderr
)

// InitLogging sends the global logger to a rotating file in logDir plus any
// extra writers, and sets the level from debug.
func InitLogging(logDir string, debug bool, writers []io.Writer) error {
	if err := os.MkdirAll(logDir, 0o750); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logWriters := []io.Writer{&lumberjack.Logger{
		Filename:   filepath.Join(logDir, config.LogFile),
		MaxSize:    1,
		MaxBackups: 2,
	}}

	if len(writers) > 0 {
		logWriters = append(logWriters, writers...)
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	w := io.MultiWriter(logWriters...)
	logWriterMu.Lock()
	logWriter = w
	logWriterMu.Unlock()

	log.Logger = log.Output(w).With().Timestamp().Caller().Logger()

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return nil
}

// LogWriter returns the writer set up by InitLogging, for components that
// wrap the global logger with extra outputs.
func LogWriter() io.Writer {
	logWriterMu.Lock()
	defer logWriterMu.Unlock()
	return logWriter
}

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

// Package telemetry provides opt-in error reporting via Sentry. Usernames
// in file paths are stripped before anything is sent.
package telemetry

import (
	"fmt"
	"regexp"
	"runtime"
	"sync"
	"time"

	"github.com/ZaparooProject/amazon-games-sync/pkg/helpers"
	"github.com/getsentry/sentry-go"
	sentryzerolog "github.com/getsentry/sentry-go/zerolog"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const flushTimeout = 2 * time.Second

var (
	homePathRe    = regexp.MustCompile(`(?i)/home/[^/]+/`)
	usersPathRe   = regexp.MustCompile(`(?i)/Users/[^/]+/`)
	windowsUserRe = regexp.MustCompile(`(?i)[a-zA-Z]:\\Users\\[^\\]+\\`)
)

// Options configures error reporting. Reporting stays off unless Enabled is
// set and a DSN is provided.
type Options struct {
	DSN         string
	Release     string
	Environment string
	InstallID   string
	Enabled     bool
}

// Reporter forwards error-level log events to Sentry. A nil or disabled
// Reporter is safe to use.
type Reporter struct {
	writer    *sentryzerolog.Writer
	closeOnce sync.Once
}

// Init starts Sentry and tees error logs into it. It returns a nil Reporter
// when reporting is disabled.
func Init(opts Options) (*Reporter, error) {
	if !opts.Enabled {
		log.Debug().Msg("error reporting disabled")
		return nil, nil
	}
	if opts.DSN == "" {
		log.Warn().Msg("error reporting enabled but no DSN configured")
		return nil, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              opts.DSN,
		Release:          "amazon-sync@" + opts.Release,
		Environment:      opts.Environment,
		AttachStacktrace: true,
		SendDefaultPII:   false,
		ServerName:       "",
		MaxBreadcrumbs:   0,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return sanitizeEvent(event)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	sentry.ConfigureScope(func(scope *sentry.Scope) {
		if opts.InstallID != "" {
			scope.SetUser(sentry.User{ID: opts.InstallID})
		}
		scope.SetTag("os", runtime.GOOS)
		scope.SetTag("arch", runtime.GOARCH)
	})

	writer, err := sentryzerolog.NewWithHub(sentry.CurrentHub(), sentryzerolog.Options{
		Levels:          []zerolog.Level{zerolog.ErrorLevel, zerolog.FatalLevel, zerolog.PanicLevel},
		FlushTimeout:    flushTimeout,
		WithBreadcrumbs: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sentry zerolog writer: %w", err)
	}

	log.Logger = log.Output(zerolog.MultiLevelWriter(
		helpers.LogWriter(),
		writer,
	)).With().Caller().Logger()

	log.Info().Msg("error reporting enabled")
	return &Reporter{writer: writer}, nil
}

// Enabled reports whether events are being sent.
func (r *Reporter) Enabled() bool {
	return r != nil && r.writer != nil
}

// Flush waits for pending events to be sent.
func (r *Reporter) Flush() {
	if !r.Enabled() {
		return
	}
	sentry.Flush(flushTimeout)
}

// Close flushes and detaches the writer. Safe to call more than once.
func (r *Reporter) Close() {
	if !r.Enabled() {
		return
	}
	r.closeOnce.Do(func() {
		_ = r.writer.Close()
		sentry.Flush(flushTimeout)
	})
}

func sanitizeEvent(event *sentry.Event) *sentry.Event {
	// the SDK may fill in the hostname regardless of ServerName
	event.ServerName = ""

	for i := range event.Exception {
		event.Exception[i].Value = sanitizePath(event.Exception[i].Value)
		if event.Exception[i].Stacktrace == nil {
			continue
		}
		for j := range event.Exception[i].Stacktrace.Frames {
			frame := &event.Exception[i].Stacktrace.Frames[j]
			frame.AbsPath = sanitizePath(frame.AbsPath)
			frame.Filename = sanitizePath(frame.Filename)
		}
	}

	event.Message = sanitizePath(event.Message)

	for k, v := range event.Extra {
		if s, ok := v.(string); ok {
			event.Extra[k] = sanitizePath(s)
		}
	}

	return event
}

func sanitizePath(path string) string {
	if path == "" {
		return path
	}

	result := homePathRe.ReplaceAllString(path, "/home/<user>/")
	result = usersPathRe.ReplaceAllString(result, "/Users/<user>/")
	result = windowsUserRe.ReplaceAllString(result, "C:\\Users\\<user>\\")

	return result
}

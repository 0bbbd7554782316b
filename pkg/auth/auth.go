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

// Package auth drives the web login handshake. The Amazon Games app keeps
// its own session, so the handshake only confirms the user has seen the
// splash page and that the app is installed.
package auth

import (
	"context"
	_ "embed"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZaparooProject/amazon-games-sync/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	DefaultWaitTimeout = 15 * time.Second

	WindowTitle  = "Amazon Games Integration"
	WindowWidth  = 560
	WindowHeight = 710

	SplashFile = "index.html"

	splashContinue  = "splash_continue"
	missingAppRetry = "missing_app_retry"
)

//go:embed splash/index.html
var splashPage []byte

// State is the position in the login handshake.
type State int

const (
	Unauthenticated State = iota
	AwaitingWebStep
	Authenticated
)

func (s State) String() string {
	switch s {
	case AwaitingWebStep:
		return "awaiting_web_step"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

// Purpose tells which page an AwaitingWebStep session is showing.
type Purpose int

const (
	PurposeNone Purpose = iota
	PurposeLogin
	PurposeMissingAppRetry
)

func (p Purpose) String() string {
	switch p {
	case PurposeLogin:
		return "login"
	case PurposeMissingAppRetry:
		return "missing_app_retry"
	default:
		return "none"
	}
}

// Session is a snapshot of the handshake. Deadline is set while a caller is
// blocked in WaitUntilAuthenticated.
type Session struct {
	Deadline time.Time
	State    State
	Purpose  Purpose
}

// WebStep asks the host to open StartURI in a browser window and report back
// the first navigation matching EndURIRegex.
type WebStep struct {
	WindowTitle  string `json:"windowTitle"`
	StartURI     string `json:"startUri"`
	EndURIRegex  string `json:"endUriRegex"`
	WindowWidth  int    `json:"windowWidth"`
	WindowHeight int    `json:"windowHeight"`
}

// Outcome is the result of Advance: either authenticated or another step.
type Outcome struct {
	Step          WebStep
	Authenticated bool
}

// Controller owns the handshake state.
type Controller struct {
	clock      clockwork.Clock
	authed     chan struct{}
	splashPath string
	session    Session
	mu         syncutil.Mutex
}

// Option configures a Controller.
type Option func(*Controller)

func WithClock(clock clockwork.Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// NewController creates an unauthenticated controller serving the splash
// page from splashDir.
func NewController(splashDir string, opts ...Option) *Controller {
	c := &Controller{
		clock:      clockwork.NewRealClock(),
		authed:     make(chan struct{}),
		splashPath: filepath.Join(splashDir, SplashFile),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin returns the login step when there are no stored credentials. It
// never changes state.
func (c *Controller) Begin(hasStoredCredentials bool) (WebStep, bool) {
	if hasStoredCredentials {
		return WebStep{}, false
	}
	return c.loginStep(), true
}

// Advance handles the end URI of a finished web step.
func (c *Controller) Advance(endURI string, appInstalled bool) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	matched := strings.Contains(endURI, splashContinue) || strings.Contains(endURI, missingAppRetry)
	switch {
	case matched && appInstalled:
		c.markLocked()
		return Outcome{Authenticated: true}
	case matched:
		c.leaveAuthenticatedLocked()
		c.session.State = AwaitingWebStep
		c.session.Purpose = PurposeMissingAppRetry
		log.Info().Msg("Amazon Games app not installed, showing retry page")
		return Outcome{Step: c.missingAppStep()}
	default:
		c.leaveAuthenticatedLocked()
		c.session.State = AwaitingWebStep
		c.session.Purpose = PurposeLogin
		log.Debug().Str("uri", endURI).Msg("unrecognized end uri, restarting login")
		return Outcome{Step: c.loginStep()}
	}
}

// MarkAuthenticated completes the handshake without a web step, used when
// credentials were already stored.
func (c *Controller) MarkAuthenticated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.markLocked()
}

func (c *Controller) markLocked() {
	if c.session.State == Authenticated {
		return
	}
	c.session.State = Authenticated
	c.session.Purpose = PurposeNone
	close(c.authed)
	log.Info().Msg("authenticated")
}

// Reset returns to Unauthenticated.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leaveAuthenticatedLocked()
	c.session = Session{}
}

// leaveAuthenticatedLocked replaces the closed authed channel so waiters
// block again until the next markLocked.
func (c *Controller) leaveAuthenticatedLocked() {
	if c.session.State == Authenticated {
		c.authed = make(chan struct{})
	}
}

// Session returns a snapshot of the handshake state.
func (c *Controller) Session() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// WaitUntilAuthenticated blocks until the handshake completes, the timeout
// passes or ctx ends. A non-positive timeout uses DefaultWaitTimeout.
func (c *Controller) WaitUntilAuthenticated(ctx context.Context, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultWaitTimeout
	}

	c.mu.Lock()
	if c.session.State == Authenticated {
		c.mu.Unlock()
		return true
	}
	authed := c.authed
	deadline := c.clock.Now().Add(timeout)
	c.session.Deadline = deadline
	timer := c.clock.NewTimer(timeout)
	c.mu.Unlock()

	defer func() {
		timer.Stop()
		c.mu.Lock()
		if c.session.Deadline.Equal(deadline) {
			c.session.Deadline = time.Time{}
		}
		c.mu.Unlock()
	}()

	select {
	case <-authed:
		return true
	case <-timer.Chan():
		log.Warn().Dur("timeout", timeout).Msg("timed out waiting for authentication")
		return false
	case <-ctx.Done():
		return false
	}
}

func (c *Controller) loginStep() WebStep {
	return c.step("splash", ".*"+splashContinue+".*")
}

func (c *Controller) missingAppStep() WebStep {
	return c.step("missing-app", ".*"+missingAppRetry+".*")
}

func (c *Controller) step(view, endRegex string) WebStep {
	return WebStep{
		WindowTitle:  WindowTitle,
		WindowWidth:  WindowWidth,
		WindowHeight: WindowHeight,
		StartURI:     fileURI(c.splashPath, "view="+view),
		EndURIRegex:  endRegex,
	}
}

func fileURI(path, query string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: query}
	return u.String()
}

// WriteSplash writes the splash page into dir so the step's file URI
// resolves.
func WriteSplash(fs afero.Fs, dir string) error {
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create splash dir: %w", err)
	}
	path := filepath.Join(dir, SplashFile)
	if err := afero.WriteFile(fs, path, splashPage, 0o600); err != nil {
		return fmt.Errorf("failed to write splash page: %w", err)
	}
	return nil
}

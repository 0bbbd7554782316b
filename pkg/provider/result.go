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

// Package provider reads the Amazon Games application's local state: the
// uninstall registry, its two SQLite databases and the OS process table.
// Nothing here caches; every call is a fresh read.
package provider

import "errors"

// ErrUnsupportedPlatform is returned by readers that only exist on Windows.
var ErrUnsupportedPlatform = errors.New("not supported on this platform")

// Result is the outcome of a single provider read. A failed read carries no
// rows, so callers cannot mistake a failure for an empty library.
type Result[T any] struct {
	err   error
	value T
}

// Success wraps the rows of a successful read.
func Success[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Failure wraps a read error. A nil error is replaced so the result is
// never accidentally treated as successful.
func Failure[T any](err error) Result[T] {
	if err == nil {
		err = errors.New("unknown provider failure")
	}
	return Result[T]{err: err}
}

// FromPair builds a Result from a conventional (value, error) return.
func FromPair[T any](v T, err error) Result[T] {
	if err != nil {
		return Failure[T](err)
	}
	return Success(v)
}

// Ok reports whether the read succeeded.
func (r Result[T]) Ok() bool {
	return r.err == nil
}

// Err returns the read error, or nil on success.
func (r Result[T]) Err() error {
	return r.err
}

// Unwrap returns the rows and the read error.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.err
}

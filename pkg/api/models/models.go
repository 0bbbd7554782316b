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

package models

import "encoding/json"

const (
	NotificationGamesAdded        = "games.added"
	NotificationGamesRemoved      = "games.removed"
	NotificationLocalGamesUpdated = "games.local.updated"
	NotificationGameTimeUpdated   = "games.time.updated"
	NotificationCredentialsStored = "credentials.stored"
)

// Notification is an event pushed to the host. Params holds the encoded
// payload and is nil for events without one.
type Notification struct {
	Method string
	Params json.RawMessage
}

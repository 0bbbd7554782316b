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

// Package notifications sends typed events to the host. Sends never block:
// a full channel drops the event and logs it.
package notifications

import (
	"encoding/json"

	"github.com/ZaparooProject/amazon-games-sync/pkg/api/models"
	"github.com/rs/zerolog/log"
)

func sendNotification(ns chan<- models.Notification, method string, payload any) {
	var params json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("method", method).Msg("error marshalling notification params")
			return
		}
		params = data
	}

	select {
	case ns <- models.Notification{Method: method, Params: params}:
	default:
		log.Warn().Str("method", method).Msg("notification channel full, dropping notification")
	}
}

func GamesAdded(ns chan<- models.Notification, payload models.GamesAddedParams) {
	sendNotification(ns, models.NotificationGamesAdded, payload)
}

func GamesRemoved(ns chan<- models.Notification, payload models.GamesRemovedParams) {
	sendNotification(ns, models.NotificationGamesRemoved, payload)
}

func LocalGamesUpdated(ns chan<- models.Notification, payload models.LocalGamesUpdatedParams) {
	sendNotification(ns, models.NotificationLocalGamesUpdated, payload)
}

func GameTimeUpdated(ns chan<- models.Notification, payload models.GameTimeResponse) {
	sendNotification(ns, models.NotificationGameTimeUpdated, payload)
}

func CredentialsStored(ns chan<- models.Notification) {
	sendNotification(ns, models.NotificationCredentialsStored, nil)
}

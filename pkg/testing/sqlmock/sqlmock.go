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

// Package sqlmock provides SQL mocking utilities for testing.
// This package is separate from the provider to avoid import cycles.
package sqlmock

import (
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
)

// NewSQLMock creates a sqlmock with regex query matching enabled.
func NewSQLMock() (*sql.DB, sqlmock.Sqlmock, error) {
	db, mockDB, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sqlmock: %w", err)
	}
	return db, mockDB, nil
}

// DbSetRows builds a result set shaped like the Amazon Games DbSet tables.
func DbSetRows(columns []string, values ...[]any) *sqlmock.Rows {
	rows := sqlmock.NewRows(columns)
	for _, v := range values {
		row := make([]driver.Value, len(v))
		for i := range v {
			row[i] = v[i]
		}
		rows.AddRow(row...)
	}
	return rows
}

/*
 * Copyright 2026 The Revtask Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package rdb_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revtask/revtask/server/backend/database/rdb"
)

func TestConfig(t *testing.T) {
	t.Run("validate test", func(t *testing.T) {
		// 1. success
		config := &rdb.Config{
			Driver:     rdb.DriverSQLite,
			DataSource: ":memory:",
		}
		assert.NoError(t, config.Validate())

		// 2. invalid driver
		config.Driver = "mysql"
		assert.ErrorIs(t, config.Validate(), rdb.ErrInvalidDriver)

		// 3. empty data source
		config.Driver = rdb.DriverPostgres
		config.DataSource = ""
		assert.ErrorIs(t, config.Validate(), rdb.ErrEmptyDataSource)
	})
}

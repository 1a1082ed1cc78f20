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

package server_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revtask/revtask/server"
	"github.com/revtask/revtask/server/backend"
	"github.com/revtask/revtask/server/backend/database/rdb"
)

func TestNewConfigFromFile(t *testing.T) {
	t.Run("fail read config file test", func(t *testing.T) {
		conf := server.NewConfig()
		assert.NoError(t, conf.Validate())
		assert.Equal(t, server.DefaultDatabase, conf.Backend.Database)
		assert.Nil(t, conf.Profiling)

		_, err := server.NewConfigFromFile("nowhere.yml")
		assert.Error(t, err)
	})

	t.Run("read config file test", func(t *testing.T) {
		conf, err := server.NewConfigFromFile("config.sample.yml")
		require.NoError(t, err)
		assert.NoError(t, conf.Validate())

		assert.Equal(t, server.DefaultProfilingPort, conf.Profiling.Port)
		assert.Equal(t, backend.DatabaseRDB, conf.Backend.Database)
		assert.Equal(t, server.DefaultPageSize, conf.Backend.DefaultPageSize)
		assert.Equal(t, server.DefaultMaxPageSize, conf.Backend.MaxPageSize)
		assert.Equal(t, rdb.DriverSQLite, conf.RDB.Driver)
		assert.Equal(t, server.DefaultRDBDataSource, conf.RDB.DataSource)

		connTimeout, err := time.ParseDuration(conf.Mongo.ConnectionTimeout)
		assert.NoError(t, err)
		assert.Equal(t, server.DefaultMongoConnectionTimeout, connTimeout)
		assert.Equal(t, server.DefaultMongoDatabase, conf.Mongo.Database)

		pingTimeout, err := time.ParseDuration(conf.Mongo.PingTimeout)
		assert.NoError(t, err)
		assert.Equal(t, server.DefaultMongoPingTimeout, pingTimeout)
	})

	t.Run("default values test", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "revtask.yml")
		require.NoError(t, os.WriteFile(path, []byte("RDB:\n  Driver: sqlite\nMongo: {}\n"), 0o600))

		conf, err := server.NewConfigFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, server.DefaultDatabase, conf.Backend.Database)
		assert.Equal(t, server.DefaultRDBDataSource, conf.RDB.DataSource)
		assert.Equal(t, server.DefaultMongoConnection, conf.Mongo.ConnectionURI)
		assert.Equal(t, server.DefaultMongoConnectionTimeout.String(), conf.Mongo.ConnectionTimeout)
		assert.NoError(t, conf.Validate())
	})

	t.Run("missing database config test", func(t *testing.T) {
		conf := server.NewConfig()
		conf.Backend.Database = backend.DatabaseRDB
		assert.ErrorIs(t, conf.Validate(), backend.ErrMissingDatabaseConfig)

		conf.RDB = &rdb.Config{Driver: "oracle", DataSource: "x"}
		assert.ErrorIs(t, conf.Validate(), rdb.ErrInvalidDriver)
	})
}

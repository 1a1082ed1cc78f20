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


package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revtask/revtask/server/backend"
	"github.com/revtask/revtask/server/backend/database/rdb"
)

func resetSettings(t *testing.T) {
	t.Cleanup(func() {
		viper.Reset()
		SetupEnv()
	})
}

func TestLoad(t *testing.T) {
	t.Run("settings test", func(t *testing.T) {
		resetSettings(t)

		viper.Set(KeyDatabase, backend.DatabaseRDB)
		viper.Set(KeyRDBDriver, rdb.DriverSQLite)
		viper.Set(KeyRDBDataSource, ":memory:")
		conf, err := Load()
		require.NoError(t, err)
		assert.Equal(t, backend.DatabaseRDB, conf.Backend.Database)
		assert.Equal(t, ":memory:", conf.RDB.DataSource)
		assert.Nil(t, conf.Mongo)
		assert.NoError(t, conf.Validate())

		viper.Set(KeyDatabase, backend.DatabaseMongo)
		viper.Set(KeyMongoURI, "mongodb://localhost:27017")
		viper.Set(KeyMongoDatabase, "revtask")
		conf, err = Load()
		require.NoError(t, err)
		assert.Nil(t, conf.RDB)
		assert.Equal(t, "revtask", conf.Mongo.Database)
		assert.NoError(t, conf.Validate())

		viper.Set(KeyDatabase, backend.DatabaseMemory)
		conf, err = Load()
		require.NoError(t, err)
		assert.Nil(t, conf.RDB)
		assert.Nil(t, conf.Mongo)
	})

	t.Run("environment variables test", func(t *testing.T) {
		resetSettings(t)

		cmd := &cobra.Command{}
		AddFlags(cmd)
		require.NoError(t, cmd.PersistentFlags().Set(KeyRDBDriver, rdb.DriverSQLite))

		t.Setenv("REVTASK_RDB_DATA_SOURCE", ":memory:")
		t.Setenv("REVTASK_OUTPUT", "json")

		conf, err := Load()
		require.NoError(t, err)
		assert.Equal(t, backend.DatabaseRDB, conf.Backend.Database)
		assert.Equal(t, ":memory:", conf.RDB.DataSource)
		assert.NoError(t, ValidateOutput())

		t.Setenv("REVTASK_DATABASE", backend.DatabaseMemory)
		conf, err = Load()
		require.NoError(t, err)
		assert.Equal(t, backend.DatabaseMemory, conf.Backend.Database)

		require.NoError(t, cmd.PersistentFlags().Set(KeyDatabase, backend.DatabaseRDB))
		conf, err = Load()
		require.NoError(t, err)
		assert.Equal(t, backend.DatabaseRDB, conf.Backend.Database)
	})

	t.Run("config file test", func(t *testing.T) {
		resetSettings(t)

		path := filepath.Join(t.TempDir(), "revtask.yml")
		require.NoError(t, os.WriteFile(path, []byte("Backend:\n  Database: memory\n  MaxPageSize: 20\n"), 0600))

		viper.Set(KeyConfig, path)
		viper.Set(KeyDatabase, backend.DatabaseRDB)
		conf, err := Load()
		require.NoError(t, err)
		assert.Equal(t, backend.DatabaseMemory, conf.Backend.Database)
		assert.Equal(t, 20, conf.Backend.MaxPageSize)
		assert.Equal(t, 50, conf.Backend.DefaultPageSize)
	})
}

func TestOutput(t *testing.T) {
	resetSettings(t)

	cmd := &cobra.Command{}
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	assert.NoError(t, ValidateOutput())
	printed, err := Print(cmd, map[string]int64{"task_id": 1})
	assert.NoError(t, err)
	assert.False(t, printed)
	assert.Empty(t, buf.String())

	viper.Set(KeyOutput, "json")
	printed, err = Print(cmd, map[string]int64{"task_id": 1})
	assert.NoError(t, err)
	assert.True(t, printed)
	assert.JSONEq(t, `{"task_id": 1}`, buf.String())

	buf.Reset()
	viper.Set(KeyOutput, "yaml")
	_, err = Print(cmd, map[string]int64{"task_id": 1})
	assert.NoError(t, err)
	assert.Equal(t, "task_id: 1\n", buf.String())

	viper.Set(KeyOutput, "xml")
	assert.ErrorIs(t, ValidateOutput(), ErrInvalidOutput)
}

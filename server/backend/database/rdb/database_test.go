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
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revtask/revtask/server/backend/database"
	"github.com/revtask/revtask/server/backend/database/rdb"
	"github.com/revtask/revtask/server/backend/database/testcases"
)

func newSQLite(t *testing.T) *rdb.DB {
	db, err := rdb.Dial(context.Background(), &rdb.Config{
		Driver:     rdb.DriverSQLite,
		DataSource: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, db.Close())
	})
	return db
}

func TestSQLite(t *testing.T) {
	t.Run("RunRevisionStore test", func(t *testing.T) {
		testcases.RunRevisionStoreTest(t, newSQLite(t))
	})

	t.Run("RunPointer test", func(t *testing.T) {
		testcases.RunPointerTest(t, newSQLite(t))
	})

	t.Run("RunUserInfo test", func(t *testing.T) {
		testcases.RunUserInfoTest(t, newSQLite(t))
	})

	t.Run("RunTransaction test", func(t *testing.T) {
		testcases.RunTransactionTest(t, newSQLite(t))
	})

	t.Run("RunFindTaskSummaries test", func(t *testing.T) {
		testcases.RunFindTaskSummariesTest(t, newSQLite(t))
	})

	t.Run("file database persists test", func(t *testing.T) {
		ctx := context.Background()
		conf := &rdb.Config{
			Driver:     rdb.DriverSQLite,
			DataSource: "file:" + filepath.Join(t.TempDir(), "revtask.db"),
		}

		db, err := rdb.Dial(ctx, conf)
		require.NoError(t, err)
		_, err = db.CreateUserInfo(ctx, 1, "alice")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		// the schema is applied again without touching existing rows
		db, err = rdb.Dial(ctx, conf)
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, db.Close())
		}()

		assert.NoError(t, db.View(ctx, func(ctx context.Context, tx database.Tx) error {
			info, err := tx.FindUserInfoByName(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, int64(1), info.ID)
			return nil
		}))
	})
}

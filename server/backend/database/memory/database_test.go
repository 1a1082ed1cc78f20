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

package memory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/revtask/revtask/server/backend/database/memory"
	"github.com/revtask/revtask/server/backend/database/testcases"
)

func newDB(t *testing.T) *memory.DB {
	db, err := memory.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})
	return db
}

func TestDB(t *testing.T) {
	t.Run("RunRevisionStore test", func(t *testing.T) {
		testcases.RunRevisionStoreTest(t, newDB(t))
	})

	t.Run("RunPointer test", func(t *testing.T) {
		testcases.RunPointerTest(t, newDB(t))
	})

	t.Run("RunUserInfo test", func(t *testing.T) {
		testcases.RunUserInfoTest(t, newDB(t))
	})

	t.Run("RunTransaction test", func(t *testing.T) {
		testcases.RunTransactionTest(t, newDB(t))
	})

	t.Run("RunFindTaskSummaries test", func(t *testing.T) {
		testcases.RunFindTaskSummariesTest(t, newDB(t))
	})
}

//go:build integration

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

package mongo_test

import (
	"context"
	"os"
	"testing"

	"github.com/rs/xid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revtask/revtask/server/backend/database/mongo"
	"github.com/revtask/revtask/server/backend/database/testcases"
)

// setupTestClient dials a fresh database on the replica set given by
// REVTASK_MONGO_URI and drops it when the test finishes.
func setupTestClient(t *testing.T) *mongo.Client {
	uri := os.Getenv("REVTASK_MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017/?replicaSet=rs0"
	}

	config := &mongo.Config{
		ConnectionTimeout: "5s",
		ConnectionURI:     uri,
		Database:          "test-revtask-" + xid.New().String(),
		PingTimeout:       "5s",
	}
	require.NoError(t, config.Validate())

	cli, err := mongo.Dial(config)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, cli.DropDatabase(context.Background()))
		assert.NoError(t, cli.Close())
	})

	return cli
}

func TestClient(t *testing.T) {
	t.Run("RunRevisionStore test", func(t *testing.T) {
		testcases.RunRevisionStoreTest(t, setupTestClient(t))
	})

	t.Run("RunPointer test", func(t *testing.T) {
		testcases.RunPointerTest(t, setupTestClient(t))
	})

	t.Run("RunUserInfo test", func(t *testing.T) {
		testcases.RunUserInfoTest(t, setupTestClient(t))
	})

	t.Run("RunTransaction test", func(t *testing.T) {
		testcases.RunTransactionTest(t, setupTestClient(t))
	})

	t.Run("RunFindTaskSummaries test", func(t *testing.T) {
		testcases.RunFindTaskSummariesTest(t, setupTestClient(t))
	})
}

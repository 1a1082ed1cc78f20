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

package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/server/backend"
	"github.com/revtask/revtask/server/backend/database"
	"github.com/revtask/revtask/server/users"
)

func TestUsers(t *testing.T) {
	be, err := backend.New(&backend.Config{
		Database:        backend.DatabaseMemory,
		DefaultPageSize: 50,
		MaxPageSize:     100,
	}, nil, nil, nil)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, be.Shutdown())
	}()

	ctx := context.Background()
	id := int64(10)
	username := "alice"

	t.Run("add and get user test", func(t *testing.T) {
		user, err := users.AddUser(ctx, be, &types.UserFields{ID: &id, Username: &username})
		require.NoError(t, err)
		assert.Equal(t, &types.User{ID: 10, Username: "alice"}, user)

		found, err := users.GetUser(ctx, be, "alice")
		require.NoError(t, err)
		assert.Equal(t, user, found)

		_, err = users.GetUser(ctx, be, "bob")
		assert.ErrorIs(t, err, database.ErrUserNotFound)
	})

	t.Run("duplicated user test", func(t *testing.T) {
		_, err := users.AddUser(ctx, be, &types.UserFields{ID: &id, Username: &username})
		assert.ErrorIs(t, err, database.ErrUserAlreadyExists)
	})

	t.Run("invalid fields test", func(t *testing.T) {
		invalid := "no spaces allowed"
		_, err := users.AddUser(ctx, be, &types.UserFields{Username: &invalid})
		assert.ErrorIs(t, err, users.ErrInvalidUserFields)
	})
}

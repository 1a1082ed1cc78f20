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

package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/server/backend"
	"github.com/revtask/revtask/server/tasks"
)

func TestStress(t *testing.T) {
	be, err := backend.New(&backend.Config{
		Database:        backend.DatabaseMemory,
		DefaultPageSize: 50,
		MaxPageSize:     100,
	}, nil, nil, nil)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, be.Shutdown())
	}()

	stressWorkers, stressRounds = 4, 3
	stressUserID, stressUsername = 1, "stress"

	ctx := context.Background()
	ops, err := runStress(ctx, be)
	require.NoError(t, err)
	assert.Equal(t, 4*3*6, ops)

	// NOTE: the user is already there on the second run.
	_, err = runStress(ctx, be)
	require.NoError(t, err)

	page, err := tasks.List(ctx, be, &types.TaskQueryFields{
		Status: string(types.StatusPending),
	}, types.Paging{})
	require.NoError(t, err)
	assert.Equal(t, int64(24), page.Total)
}

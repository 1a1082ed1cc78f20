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
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/server"
	"github.com/revtask/revtask/server/tasks"
)

func TestRevtask(t *testing.T) {
	t.Run("start and shutdown test", func(t *testing.T) {
		r, err := server.New(server.NewConfig())
		require.NoError(t, err)
		require.NoError(t, r.Start())

		title := "wired"
		ctx := context.Background()
		taskID, err := tasks.Create(ctx, r.Backend(), &types.TaskFields{Title: &title})
		require.NoError(t, err)
		task, err := tasks.Get(ctx, r.Backend(), taskID)
		require.NoError(t, err)
		assert.Equal(t, title, *task.Title)

		require.NoError(t, r.Shutdown(true))
		<-r.ShutdownCh()
		assert.NoError(t, r.Shutdown(true))
	})

	t.Run("invalid config test", func(t *testing.T) {
		conf := server.NewConfig()
		conf.Backend.Database = "cassandra"
		_, err := server.New(conf)
		assert.Error(t, err)
	})
}

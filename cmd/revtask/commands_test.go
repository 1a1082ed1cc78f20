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
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/cmd/revtask/config"
	"github.com/revtask/revtask/server/tasks"
)

func TestCommands(t *testing.T) {
	dataSource := "file:" + filepath.Join(t.TempDir(), "revtask.db")

	execute := func(args ...string) (string, error) {
		if err := rootCmd.PersistentFlags().Set(config.KeyOutput, ""); err != nil {
			return "", err
		}

		buf := &bytes.Buffer{}
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs(append(args, "--database", "rdb", "--rdb-data-source", dataSource))
		err := rootCmd.Execute()
		return buf.String(), err
	}

	t.Run("task lifecycle test", func(t *testing.T) {
		mustExecute := func(args ...string) string {
			out, err := execute(args...)
			require.NoError(t, err, out)
			return out
		}

		assert.Contains(t, mustExecute("user", "add", "--id", "10", "--username", "alice"), "User added: alice (10)")

		assert.Contains(t, mustExecute(
			"task", "create",
			"--title", "write",
			"--due-date", "2022-12-31",
			"--created-by", "10",
		), "Task created: 1")

		assert.Contains(t, mustExecute(
			"task", "update", "1",
			"--title", "rewrite",
			"--status", "in_progress",
			"--created-by", "10",
		), "Task updated: 1")

		var task types.Task
		require.NoError(t, json.Unmarshal([]byte(mustExecute("task", "get", "1", "-o", "json")), &task))
		assert.Equal(t, "rewrite", *task.Title)
		assert.Equal(t, types.StatusInProgress, task.Status)
		assert.Nil(t, task.DueDate)

		assert.Contains(t, mustExecute("task", "undo", "1"), "Task undone: 1")
		assert.Contains(t, mustExecute("task", "delete", "1"), "Task deleted: 1")

		var page types.TaskPage
		require.NoError(t, json.Unmarshal([]byte(mustExecute("task", "ls", "-o", "json")), &page))
		assert.Equal(t, int64(0), page.Total)
		assert.Empty(t, page.Items)

		var revisions []*types.Revision
		require.NoError(t, json.Unmarshal([]byte(mustExecute("task", "history", "1", "-o", "json")), &revisions))
		require.Len(t, revisions, 1)
		assert.Equal(t, "write", *revisions[0].Title)
		assert.Equal(t, "2022-12-31", revisions[0].DueDate.String())
		assert.True(t, revisions[0].IsDeleted)

		mustExecute("task", "undo", "1")
		out := mustExecute("task", "ls")
		assert.Contains(t, out, "write")
		assert.Contains(t, out, "alice(10)")
		assert.Contains(t, out, "PAGE 1/1")
	})

	t.Run("task errors test", func(t *testing.T) {
		_, err := execute("task", "get", "99")
		assert.ErrorIs(t, err, tasks.ErrTaskNotFound)

		_, err = execute("task", "delete", "zero")
		assert.Error(t, err)

		_, err = execute("task", "history")
		assert.Error(t, err)
	})

	t.Run("version test", func(t *testing.T) {
		out, err := execute("version", "-o", "yaml")
		require.NoError(t, err, out)
		assert.Contains(t, out, "revtaskVersion:")

		_, err = execute("version", "-o", "xml")
		assert.ErrorIs(t, err, config.ErrInvalidOutput)
	})
}

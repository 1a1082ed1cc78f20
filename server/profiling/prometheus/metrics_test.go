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

package prometheus_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revtask/revtask/server/profiling/prometheus"
)

func TestMetrics(t *testing.T) {
	metrics, err := prometheus.NewMetrics()
	require.NoError(t, err)

	t.Run("task operation counter test", func(t *testing.T) {
		metrics.AddTaskOperation("create", "memory", "")
		metrics.AddTaskOperation("create", "memory", "")
		metrics.AddTaskOperation("undo", "memory", "ErrNothingToUndo")

		expected := `
# HELP revtask_task_operations_total Total number of task operations completed, regardless of success or failure.
# TYPE revtask_task_operations_total counter
revtask_task_operations_total{code="ErrNothingToUndo",database="memory",operation="undo"} 1
revtask_task_operations_total{code="OK",database="memory",operation="create"} 2
`
		assert.NoError(t, testutil.GatherAndCompare(
			metrics.Registry(),
			strings.NewReader(expected),
			"revtask_task_operations_total",
		))
	})

	t.Run("undo and list counter test", func(t *testing.T) {
		metrics.AddTaskUndo("delete")
		metrics.AddTaskUndo("update")
		metrics.AddTaskUndo("update")
		metrics.AddTaskListReturned(7)
		metrics.AddRevisionsAppended(3)

		count, err := testutil.GatherAndCount(metrics.Registry(), "revtask_task_undo_total")
		assert.NoError(t, err)
		assert.Equal(t, 2, count)

		expected := `
# HELP revtask_task_list_returned_total The total count of task summaries returned by List.
# TYPE revtask_task_list_returned_total counter
revtask_task_list_returned_total 7
`
		assert.NoError(t, testutil.GatherAndCompare(
			metrics.Registry(),
			strings.NewReader(expected),
			"revtask_task_list_returned_total",
		))
	})

	t.Run("operation histogram test", func(t *testing.T) {
		metrics.ObserveTaskOperationSeconds("list", 0.01)
		count, err := testutil.GatherAndCount(metrics.Registry(), "revtask_task_operation_seconds")
		assert.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

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

package database_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/server/backend/database"
)

func TestRevisionInfo(t *testing.T) {
	title := "write report"
	creator := int64(10)
	content := types.TaskContent{Title: &title, Status: types.StatusPending}

	t.Run("new revision info test", func(t *testing.T) {
		first := database.NewRevisionInfo(1, content, &creator, false, nil)
		assert.NoError(t, first.ID.Validate())
		assert.Equal(t, int64(1), first.Seq)
		assert.Equal(t, time.UTC, first.CreatedAt.Location())
		assert.Equal(t, content, first.Content())

		second := database.NewRevisionInfo(1, content, &creator, false, first)
		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, int64(2), second.Seq)
		assert.True(t, first.Less(second))
		assert.False(t, second.Less(first))
	})

	t.Run("clock step back test", func(t *testing.T) {
		latest := database.NewRevisionInfo(1, content, nil, false, nil)
		latest.CreatedAt = database.Now().Add(time.Hour)

		next := database.NewRevisionInfo(1, content, nil, false, latest)
		assert.Equal(t, latest.CreatedAt, next.CreatedAt)
		assert.True(t, latest.Less(next))
	})

	t.Run("deep copy test", func(t *testing.T) {
		info := database.NewRevisionInfo(1, content, &creator, false, nil)
		clone := info.DeepCopy()
		assert.Equal(t, info, clone)

		*clone.Title = "changed"
		assert.Equal(t, "write report", *info.Title)
		assert.Nil(t, (*database.RevisionInfo)(nil).DeepCopy())
	})
}

func TestPointerInfo(t *testing.T) {
	creator := int64(10)
	revision := database.NewRevisionInfo(3, types.TaskContent{Status: types.StatusPending}, &creator, false, nil)

	at := database.Now()
	pointer := database.NewPointerInfo(revision, at)
	assert.Equal(t, revision.ID, pointer.RevisionID)
	assert.Equal(t, int64(3), pointer.TaskID)
	assert.Equal(t, &creator, pointer.CreatedBy)
	assert.Equal(t, &creator, pointer.UpdatedBy)
	assert.Equal(t, at, pointer.CreatedAt)

	task := pointer.ToTypesTask(revision)
	assert.Equal(t, int64(3), task.ID)
	assert.Equal(t, revision.ID, task.RevisionID)
	assert.Equal(t, types.StatusPending, task.Status)
}

func TestMatchTaskFilter(t *testing.T) {
	alice, bob := int64(1), int64(2)
	dueDate := types.Date{Year: 2022, Month: time.December, Day: 31}
	otherDate := types.Date{Year: 2023, Month: time.January, Day: 1}
	pending, completed := types.StatusPending, types.StatusCompleted

	revision := &database.RevisionInfo{DueDate: &dueDate, Status: pending}
	pointer := &database.PointerInfo{CreatedBy: &alice, UpdatedBy: &bob}

	tests := []struct {
		name   string
		filter *types.TaskFilter
		want   bool
	}{
		{"nil filter", nil, true},
		{"empty filter", &types.TaskFilter{}, true},
		{"due date match", &types.TaskFilter{DueDate: &dueDate}, true},
		{"due date mismatch", &types.TaskFilter{DueDate: &otherDate}, false},
		{"status mismatch", &types.TaskFilter{Status: &completed}, false},
		{"creator match", &types.TaskFilter{CreatedBy: &alice}, true},
		{"creator mismatch", &types.TaskFilter{CreatedBy: &bob}, false},
		{"updater match", &types.TaskFilter{UpdatedBy: &bob}, true},
		{"intersection", &types.TaskFilter{Status: &pending, CreatedBy: &alice, UpdatedBy: &alice}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, database.MatchTaskFilter(tt.filter, revision, pointer))
		})
	}

	t.Run("missing values test", func(t *testing.T) {
		empty := &database.RevisionInfo{Status: pending}
		assert.False(t, database.MatchTaskFilter(&types.TaskFilter{DueDate: &dueDate}, empty, &database.PointerInfo{}))
		assert.False(t, database.MatchTaskFilter(&types.TaskFilter{CreatedBy: &alice}, empty, &database.PointerInfo{}))
	})
}

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

// Package testcases contains testcases for database. It is used by database
// implementations to test their own implementations with the same testcases.
// Every testcase expects a database with no tasks and no users.
package testcases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/server/backend/database"
)

var errRollback = errors.New("rollback")

// RunRevisionStoreTest runs the revision store testcases for the given db.
func RunRevisionStoreTest(t *testing.T, db database.Database) {
	ctx := context.Background()
	creator := int64(10)

	t.Run("append and find latest test", func(t *testing.T) {
		var first, second *database.RevisionInfo
		assert.NoError(t, db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			_, err := tx.FindLatestRevision(ctx, 1)
			assert.ErrorIs(t, err, database.ErrRevisionNotFound)

			first, err = tx.AppendRevision(ctx, 1, content("first", "2022-12-31", types.StatusPending), &creator, false)
			if err != nil {
				return err
			}
			second, err = tx.AppendRevision(ctx, 1, content("second", "", types.StatusInProgress), nil, false)
			return err
		}))

		assert.NoError(t, first.ID.Validate())
		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, int64(1), first.Seq)
		assert.Equal(t, int64(2), second.Seq)

		assert.NoError(t, db.View(ctx, func(ctx context.Context, tx database.Tx) error {
			latest, err := tx.FindLatestRevision(ctx, 1)
			require.NoError(t, err)
			assert.Equal(t, second.ID, latest.ID)
			assert.Equal(t, "second", *latest.Title)
			assert.Nil(t, latest.DueDate)
			assert.Nil(t, latest.CreatedBy)

			infos, err := tx.FindRevisionInfos(ctx, 1)
			require.NoError(t, err)
			require.Len(t, infos, 2)
			assert.Equal(t, first.ID, infos[0].ID)
			assert.Equal(t, "2022-12-31", infos[0].DueDate.String())
			assert.Equal(t, creator, *infos[0].CreatedBy)
			assert.Equal(t, types.StatusPending, infos[0].Status)
			assert.True(t, first.CreatedAt.Equal(infos[0].CreatedAt))
			assert.Equal(t, second.ID, infos[1].ID)

			previous, err := tx.FindPreviousRevision(ctx, 1, second.ID)
			require.NoError(t, err)
			assert.Equal(t, first.ID, previous.ID)

			previous, err = tx.FindPreviousRevision(ctx, 1, first.ID)
			require.NoError(t, err)
			assert.Equal(t, second.ID, previous.ID)

			infos, err = tx.FindRevisionInfos(ctx, 2)
			assert.NoError(t, err)
			assert.Empty(t, infos)
			return nil
		}))
	})

	t.Run("active revision test", func(t *testing.T) {
		var info *database.RevisionInfo
		assert.NoError(t, db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			var err error
			info, err = tx.AppendRevision(ctx, 3, content("active", "", types.StatusPending), nil, false)
			return err
		}))

		assert.NoError(t, db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			active, err := tx.FindActiveRevision(ctx, 3, info.ID)
			require.NoError(t, err)
			assert.Equal(t, info.ID, active.ID)

			_, err = tx.FindActiveRevision(ctx, 4, info.ID)
			assert.ErrorIs(t, err, database.ErrRevisionNotFound)

			require.NoError(t, tx.MarkRevisionDeleted(ctx, info.ID, true))
			_, err = tx.FindActiveRevision(ctx, 3, info.ID)
			assert.ErrorIs(t, err, database.ErrRevisionNotFound)

			latest, err := tx.FindLatestRevision(ctx, 3)
			require.NoError(t, err)
			assert.True(t, latest.IsDeleted)

			require.NoError(t, tx.MarkRevisionDeleted(ctx, info.ID, false))
			_, err = tx.FindActiveRevision(ctx, 3, info.ID)
			assert.NoError(t, err)

			missing := types.ID("000000000000000000000000")
			assert.ErrorIs(t, tx.MarkRevisionDeleted(ctx, missing, true), database.ErrRevisionNotFound)
			_, err = tx.FindActiveRevision(ctx, 3, missing)
			assert.ErrorIs(t, err, database.ErrRevisionNotFound)
			return nil
		}))
	})

	t.Run("remove revision test", func(t *testing.T) {
		var first, second *database.RevisionInfo
		assert.NoError(t, db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			var err error
			if first, err = tx.AppendRevision(ctx, 5, content("v1", "", types.StatusPending), nil, false); err != nil {
				return err
			}
			second, err = tx.AppendRevision(ctx, 5, content("v2", "", types.StatusPending), nil, false)
			return err
		}))

		assert.NoError(t, db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			require.NoError(t, tx.RemoveRevision(ctx, second.ID))
			assert.ErrorIs(t, tx.RemoveRevision(ctx, second.ID), database.ErrRevisionNotFound)

			latest, err := tx.FindLatestRevision(ctx, 5)
			require.NoError(t, err)
			assert.Equal(t, first.ID, latest.ID)
			_, err = tx.FindPreviousRevision(ctx, 5, first.ID)
			assert.ErrorIs(t, err, database.ErrRevisionNotFound)

			// the sequence continues from the remaining latest revision
			third, err := tx.AppendRevision(ctx, 5, content("v3", "", types.StatusPending), nil, false)
			require.NoError(t, err)
			assert.Equal(t, int64(2), third.Seq)

			latest, err = tx.FindLatestRevision(ctx, 5)
			require.NoError(t, err)
			assert.Equal(t, third.ID, latest.ID)
			return nil
		}))
	})

	t.Run("same timestamp ordering test", func(t *testing.T) {
		var ids []types.ID
		assert.NoError(t, db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			for i := 0; i < 5; i++ {
				info, err := tx.AppendRevision(ctx, 6, content(fmt.Sprintf("v%d", i), "", types.StatusPending), nil, false)
				if err != nil {
					return err
				}
				ids = append(ids, info.ID)
			}
			return nil
		}))

		assert.NoError(t, db.View(ctx, func(ctx context.Context, tx database.Tx) error {
			infos, err := tx.FindRevisionInfos(ctx, 6)
			require.NoError(t, err)
			require.Len(t, infos, 5)
			for i, info := range infos {
				assert.Equal(t, ids[i], info.ID)
				assert.Equal(t, int64(i+1), info.Seq)
			}

			latest, err := tx.FindLatestRevision(ctx, 6)
			require.NoError(t, err)
			assert.Equal(t, ids[4], latest.ID)

			previous, err := tx.FindPreviousRevision(ctx, 6, latest.ID)
			require.NoError(t, err)
			assert.Equal(t, ids[3], previous.ID)
			return nil
		}))
	})
}

// RunPointerTest runs the current-pointer testcases for the given db.
func RunPointerTest(t *testing.T, db database.Database) {
	ctx := context.Background()
	alice, bob := int64(1), int64(2)

	t.Run("next task id test", func(t *testing.T) {
		for want := int64(1); want <= 3; want++ {
			assert.NoError(t, db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
				id, err := tx.NextTaskID(ctx)
				assert.Equal(t, want, id)
				return err
			}))
		}

		// a rolled back allocation is not consumed
		assert.ErrorIs(t, db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			if _, err := tx.NextTaskID(ctx); err != nil {
				return err
			}
			return errRollback
		}), errRollback)

		assert.NoError(t, db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			id, err := tx.NextTaskID(ctx)
			assert.Equal(t, int64(4), id)
			return err
		}))
	})

	t.Run("pointer lifecycle test", func(t *testing.T) {
		assert.NoError(t, db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			_, err := tx.FindPointerInfo(ctx, 10)
			assert.ErrorIs(t, err, database.ErrPointerNotFound)

			first, err := tx.AppendRevision(ctx, 10, content("v1", "", types.StatusPending), &alice, false)
			require.NoError(t, err)
			pointer := database.NewPointerInfo(first, first.CreatedAt)
			require.NoError(t, tx.CreatePointerInfo(ctx, pointer))
			assert.ErrorIs(t, tx.CreatePointerInfo(ctx, pointer), database.ErrPointerAlreadyExists)

			found, err := tx.FindPointerInfo(ctx, 10)
			require.NoError(t, err)
			assert.Equal(t, first.ID, found.RevisionID)
			assert.Equal(t, alice, *found.CreatedBy)
			assert.Equal(t, alice, *found.UpdatedBy)
			assert.True(t, first.CreatedAt.Equal(found.CreatedAt))

			second, err := tx.AppendRevision(ctx, 10, content("v2", "", types.StatusPending), &bob, false)
			require.NoError(t, err)
			found.RevisionID = second.ID
			found.UpdatedBy = &bob
			found.UpdatedAt = second.CreatedAt
			require.NoError(t, tx.UpdatePointerInfo(ctx, found))

			updated, err := tx.FindPointerInfo(ctx, 10)
			require.NoError(t, err)
			assert.Equal(t, second.ID, updated.RevisionID)
			assert.Equal(t, alice, *updated.CreatedBy)
			assert.Equal(t, bob, *updated.UpdatedBy)

			require.NoError(t, tx.DeletePointerInfo(ctx, 10))
			_, err = tx.FindPointerInfo(ctx, 10)
			assert.ErrorIs(t, err, database.ErrPointerNotFound)
			assert.ErrorIs(t, tx.DeletePointerInfo(ctx, 10), database.ErrPointerNotFound)
			assert.ErrorIs(t, tx.UpdatePointerInfo(ctx, found), database.ErrPointerNotFound)

			// the pointer can be recreated, as undo of a delete does
			require.NoError(t, tx.CreatePointerInfo(ctx, database.NewPointerInfo(second, database.Now())))
			_, err = tx.FindPointerInfo(ctx, 10)
			assert.NoError(t, err)
			return nil
		}))
	})

	t.Run("pointer revision uniqueness test", func(t *testing.T) {
		assert.NoError(t, db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			info, err := tx.AppendRevision(ctx, 11, content("v1", "", types.StatusPending), nil, false)
			require.NoError(t, err)
			require.NoError(t, tx.CreatePointerInfo(ctx, database.NewPointerInfo(info, info.CreatedAt)))

			other := database.NewPointerInfo(info, info.CreatedAt)
			other.TaskID = 12
			assert.ErrorIs(t, tx.CreatePointerInfo(ctx, other), database.ErrPointerAlreadyExists)
			return nil
		}))
	})
}

// RunUserInfoTest runs the user directory testcases for the given db.
func RunUserInfoTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	info, err := db.CreateUserInfo(ctx, 10, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(10), info.ID)
	assert.Equal(t, "alice", info.Username)

	_, err = db.CreateUserInfo(ctx, 10, "other")
	assert.ErrorIs(t, err, database.ErrUserAlreadyExists)
	_, err = db.CreateUserInfo(ctx, 11, "alice")
	assert.ErrorIs(t, err, database.ErrUserAlreadyExists)

	assert.NoError(t, db.View(ctx, func(ctx context.Context, tx database.Tx) error {
		found, err := tx.FindUserInfoByID(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, "alice", found.Username)

		found, err = tx.FindUserInfoByName(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, int64(10), found.ID)

		_, err = tx.FindUserInfoByID(ctx, 11)
		assert.ErrorIs(t, err, database.ErrUserNotFound)
		_, err = tx.FindUserInfoByName(ctx, "bob")
		assert.ErrorIs(t, err, database.ErrUserNotFound)
		return nil
	}))
}

// RunTransactionTest runs the atomicity testcases for the given db.
func RunTransactionTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	t.Run("rollback test", func(t *testing.T) {
		err := db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			info, err := tx.AppendRevision(ctx, 1, content("lost", "", types.StatusPending), nil, false)
			if err != nil {
				return err
			}
			if err := tx.CreatePointerInfo(ctx, database.NewPointerInfo(info, info.CreatedAt)); err != nil {
				return err
			}
			return errRollback
		})
		assert.ErrorIs(t, err, errRollback)

		assert.NoError(t, db.View(ctx, func(ctx context.Context, tx database.Tx) error {
			infos, err := tx.FindRevisionInfos(ctx, 1)
			assert.NoError(t, err)
			assert.Empty(t, infos)

			_, err = tx.FindPointerInfo(ctx, 1)
			assert.ErrorIs(t, err, database.ErrPointerNotFound)
			return nil
		}))
	})

	t.Run("concurrent task id test", func(t *testing.T) {
		const workers = 8
		const perWorker = 5

		var mu sync.Mutex
		seen := make(map[int64]bool)
		wg := sync.WaitGroup{}
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < perWorker; j++ {
					var id int64
					err := db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
						var err error
						id, err = tx.NextTaskID(ctx)
						return err
					})
					if !assert.NoError(t, err) {
						return
					}
					mu.Lock()
					assert.False(t, seen[id], "task id %d allocated twice", id)
					seen[id] = true
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Len(t, seen, workers*perWorker)
	})
}

// RunFindTaskSummariesTest runs the list join testcases for the given db.
func RunFindTaskSummariesTest(t *testing.T, db database.Database) {
	ctx := context.Background()

	_, err := db.CreateUserInfo(ctx, 1, "alice")
	require.NoError(t, err)
	_, err = db.CreateUserInfo(ctx, 2, "bob")
	require.NoError(t, err)
	alice, bob, ghost := int64(1), int64(2), int64(99)

	// task 1: alice, pending, 2022-12-31
	// task 2: bob, completed, 2023-01-01, updated by alice
	// task 3: ghost (not in the directory), pending
	// task 4: alice, deleted
	// task 5: no creator, in_progress, 2022-12-31
	assert.NoError(t, db.Update(ctx, func(ctx context.Context, tx database.Tx) error {
		createTask(ctx, t, tx, content("one", "2022-12-31", types.StatusPending), &alice)
		two := createTask(ctx, t, tx, content("two", "2023-01-01", types.StatusCompleted), &bob)
		createTask(ctx, t, tx, content("three", "", types.StatusPending), &ghost)
		four := createTask(ctx, t, tx, content("four", "", types.StatusPending), &alice)
		createTask(ctx, t, tx, content("five", "2022-12-31", types.StatusInProgress), nil)

		updated, err := tx.AppendRevision(ctx, two.TaskID, content("two", "2023-01-01", types.StatusCompleted), &alice, false)
		require.NoError(t, err)
		two.RevisionID = updated.ID
		two.UpdatedBy = &alice
		require.NoError(t, tx.UpdatePointerInfo(ctx, two))

		require.NoError(t, tx.MarkRevisionDeleted(ctx, four.RevisionID, true))
		require.NoError(t, tx.DeletePointerInfo(ctx, four.TaskID))
		return nil
	}))

	find := func(filter *types.TaskFilter, paging types.Paging) ([]*database.TaskSummaryInfo, int64) {
		var infos []*database.TaskSummaryInfo
		var total int64
		assert.NoError(t, db.View(ctx, func(ctx context.Context, tx database.Tx) error {
			var err error
			infos, total, err = tx.FindTaskSummaries(ctx, filter, paging)
			return err
		}))
		return infos, total
	}

	t.Run("join test", func(t *testing.T) {
		infos, total := find(&types.TaskFilter{}, types.Paging{Page: 1, PageSize: 10})
		assert.Equal(t, int64(4), total)
		assert.Equal(t, []int64{1, 2, 3, 5}, taskIDs(infos))

		assert.Equal(t, "one", *infos[0].Title)
		assert.Equal(t, "2022-12-31", infos[0].DueDate.String())
		assert.Equal(t, "alice", *infos[0].CreatedByUsername)
		assert.Equal(t, "alice", *infos[0].UpdatedByUsername)

		assert.Equal(t, bob, *infos[1].CreatedBy)
		assert.Equal(t, "bob", *infos[1].CreatedByUsername)
		assert.Equal(t, alice, *infos[1].UpdatedBy)
		assert.Equal(t, "alice", *infos[1].UpdatedByUsername)

		assert.Equal(t, ghost, *infos[2].CreatedBy)
		assert.Nil(t, infos[2].CreatedByUsername)
		assert.Nil(t, infos[2].DueDate)

		assert.Nil(t, infos[3].CreatedBy)
		assert.Nil(t, infos[3].CreatedByUsername)
		assert.Nil(t, infos[3].UpdatedByUsername)
	})

	t.Run("filter test", func(t *testing.T) {
		dueDate := mustDate(t, "2022-12-31")
		pending, completed := types.StatusPending, types.StatusCompleted
		paging := types.Paging{Page: 1, PageSize: 10}

		infos, total := find(&types.TaskFilter{DueDate: &dueDate}, paging)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, []int64{1, 5}, taskIDs(infos))

		infos, _ = find(&types.TaskFilter{Status: &pending}, paging)
		assert.Equal(t, []int64{1, 3}, taskIDs(infos))

		infos, _ = find(&types.TaskFilter{Status: &completed}, paging)
		assert.Equal(t, []int64{2}, taskIDs(infos))

		infos, _ = find(&types.TaskFilter{CreatedBy: &alice}, paging)
		assert.Equal(t, []int64{1}, taskIDs(infos))

		infos, _ = find(&types.TaskFilter{UpdatedBy: &alice}, paging)
		assert.Equal(t, []int64{1, 2}, taskIDs(infos))

		infos, total = find(&types.TaskFilter{DueDate: &dueDate, Status: &pending}, paging)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []int64{1}, taskIDs(infos))

		infos, total = find(&types.TaskFilter{CreatedBy: &bob, Status: &pending}, paging)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, infos)
	})

	t.Run("paging test", func(t *testing.T) {
		infos, total := find(nil, types.Paging{Page: 1, PageSize: 3})
		assert.Equal(t, int64(4), total)
		assert.Equal(t, []int64{1, 2, 3}, taskIDs(infos))

		infos, total = find(nil, types.Paging{Page: 2, PageSize: 3})
		assert.Equal(t, int64(4), total)
		assert.Equal(t, []int64{5}, taskIDs(infos))

		infos, total = find(nil, types.Paging{Page: 3, PageSize: 3})
		assert.Equal(t, int64(4), total)
		assert.Empty(t, infos)
	})
}

func createTask(
	ctx context.Context,
	t *testing.T,
	tx database.Tx,
	c types.TaskContent,
	createdBy *int64,
) *database.PointerInfo {
	taskID, err := tx.NextTaskID(ctx)
	require.NoError(t, err)
	info, err := tx.AppendRevision(ctx, taskID, c, createdBy, false)
	require.NoError(t, err)
	pointer := database.NewPointerInfo(info, info.CreatedAt)
	require.NoError(t, tx.CreatePointerInfo(ctx, pointer))
	return pointer
}

func content(title, dueDate string, status types.Status) types.TaskContent {
	c := types.TaskContent{Title: &title, Status: status}
	if dueDate != "" {
		d, err := types.ParseDate(dueDate)
		if err != nil {
			panic(err)
		}
		c.DueDate = &d
	}
	return c
}

func mustDate(t *testing.T, s string) types.Date {
	d, err := types.ParseDate(s)
	require.NoError(t, err)
	return d
}

func taskIDs(infos []*database.TaskSummaryInfo) []int64 {
	ids := make([]int64, 0, len(infos))
	for _, info := range infos {
		ids = append(ids, info.TaskID)
	}
	return ids
}

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

// Package memory implements the database interface using in-memory database.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-memdb"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/server/backend/database"
)

// DB is an in-memory database for testing or temporarily.
type DB struct {
	db *memdb.MemDB
}

// New returns a new in-memory database.
func New() (*DB, error) {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}

	return &DB{
		db: memDB,
	}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return nil
}

// CreateUserInfo adds a user to the user directory.
func (d *DB) CreateUserInfo(_ context.Context, id int64, username string) (*database.UserInfo, error) {
	txn := d.db.Txn(true)
	defer txn.Abort()

	raw, err := txn.First(tblUsers, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find user by id %d: %w", id, err)
	}
	if raw != nil {
		return nil, fmt.Errorf("%d: %w", id, database.ErrUserAlreadyExists)
	}

	raw, err = txn.First(tblUsers, "username", username)
	if err != nil {
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}
	if raw != nil {
		return nil, fmt.Errorf("%s: %w", username, database.ErrUserAlreadyExists)
	}

	info := &database.UserInfo{ID: id, Username: username}
	if err := txn.Insert(tblUsers, info); err != nil {
		return nil, fmt.Errorf("insert user %s: %w", username, err)
	}
	txn.Commit()

	return info.DeepCopy(), nil
}

// View runs fn in a read-only transaction.
func (d *DB) View(ctx context.Context, fn func(ctx context.Context, tx database.Tx) error) error {
	txn := d.db.Txn(false)
	defer txn.Abort()

	return fn(ctx, &tx{txn: txn})
}

// Update runs fn in a write transaction. memdb allows a single writer at a
// time, so concurrent updates are serialized.
func (d *DB) Update(ctx context.Context, fn func(ctx context.Context, tx database.Tx) error) error {
	txn := d.db.Txn(true)
	defer txn.Abort()

	if err := fn(ctx, &tx{txn: txn}); err != nil {
		return err
	}

	txn.Commit()
	return nil
}

// tx implements database.Tx over a memdb transaction. Records stored in
// memdb are never mutated in place; updates insert a modified copy.
type tx struct {
	txn *memdb.Txn
}

// AppendRevision inserts a new revision of the task.
func (t *tx) AppendRevision(
	ctx context.Context,
	taskID int64,
	content types.TaskContent,
	createdBy *int64,
	deleted bool,
) (*database.RevisionInfo, error) {
	latest, err := t.FindLatestRevision(ctx, taskID)
	if err != nil && !errors.Is(err, database.ErrRevisionNotFound) {
		return nil, err
	}

	info := database.NewRevisionInfo(taskID, content, createdBy, deleted, latest)
	if err := t.txn.Insert(tblRevisions, info.DeepCopy()); err != nil {
		return nil, fmt.Errorf("insert revision of task %d: %w", taskID, err)
	}

	return info, nil
}

// FindLatestRevision returns the most recent revision of the task.
func (t *tx) FindLatestRevision(_ context.Context, taskID int64) (*database.RevisionInfo, error) {
	infos, err := t.revisionsOf(taskID)
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, fmt.Errorf("latest of task %d: %w", taskID, database.ErrRevisionNotFound)
	}

	return infos[len(infos)-1].DeepCopy(), nil
}

// FindActiveRevision returns the revision matching both keys that is not
// flagged deleted.
func (t *tx) FindActiveRevision(
	_ context.Context,
	taskID int64,
	revisionID types.ID,
) (*database.RevisionInfo, error) {
	raw, err := t.txn.First(tblRevisions, "id", revisionID.String())
	if err != nil {
		return nil, fmt.Errorf("find revision %s: %w", revisionID, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", revisionID, database.ErrRevisionNotFound)
	}

	info := raw.(*database.RevisionInfo)
	if info.TaskID != taskID || info.IsDeleted {
		return nil, fmt.Errorf("%s of task %d: %w", revisionID, taskID, database.ErrRevisionNotFound)
	}

	return info.DeepCopy(), nil
}

// FindRevisionInfos returns every revision of the task in ascending order.
func (t *tx) FindRevisionInfos(_ context.Context, taskID int64) ([]*database.RevisionInfo, error) {
	infos, err := t.revisionsOf(taskID)
	if err != nil {
		return nil, err
	}

	copied := make([]*database.RevisionInfo, 0, len(infos))
	for _, info := range infos {
		copied = append(copied, info.DeepCopy())
	}
	return copied, nil
}

// FindPreviousRevision returns the most recent revision of the task other
// than the given one.
func (t *tx) FindPreviousRevision(
	_ context.Context,
	taskID int64,
	revisionID types.ID,
) (*database.RevisionInfo, error) {
	infos, err := t.revisionsOf(taskID)
	if err != nil {
		return nil, err
	}

	for i := len(infos) - 1; i >= 0; i-- {
		if infos[i].ID != revisionID {
			return infos[i].DeepCopy(), nil
		}
	}
	return nil, fmt.Errorf("before %s of task %d: %w", revisionID, taskID, database.ErrRevisionNotFound)
}

// RemoveRevision hard-deletes a single revision.
func (t *tx) RemoveRevision(_ context.Context, revisionID types.ID) error {
	raw, err := t.txn.First(tblRevisions, "id", revisionID.String())
	if err != nil {
		return fmt.Errorf("find revision %s: %w", revisionID, err)
	}
	if raw == nil {
		return fmt.Errorf("%s: %w", revisionID, database.ErrRevisionNotFound)
	}

	if err := t.txn.Delete(tblRevisions, raw); err != nil {
		return fmt.Errorf("delete revision %s: %w", revisionID, err)
	}
	return nil
}

// MarkRevisionDeleted sets the deleted flag of a single revision.
func (t *tx) MarkRevisionDeleted(_ context.Context, revisionID types.ID, deleted bool) error {
	raw, err := t.txn.First(tblRevisions, "id", revisionID.String())
	if err != nil {
		return fmt.Errorf("find revision %s: %w", revisionID, err)
	}
	if raw == nil {
		return fmt.Errorf("%s: %w", revisionID, database.ErrRevisionNotFound)
	}

	info := raw.(*database.RevisionInfo).DeepCopy()
	info.IsDeleted = deleted
	if err := t.txn.Insert(tblRevisions, info); err != nil {
		return fmt.Errorf("update revision %s: %w", revisionID, err)
	}
	return nil
}

// NextTaskID increments the task id sequence and returns the new value.
func (t *tx) NextTaskID(_ context.Context) (int64, error) {
	raw, err := t.txn.First(tblCounters, "id", counterTaskID)
	if err != nil {
		return 0, fmt.Errorf("find counter %s: %w", counterTaskID, err)
	}

	next := int64(1)
	if raw != nil {
		next = raw.(*counterRecord).Value + 1
	}

	if err := t.txn.Insert(tblCounters, &counterRecord{Name: counterTaskID, Value: next}); err != nil {
		return 0, fmt.Errorf("update counter %s: %w", counterTaskID, err)
	}
	return next, nil
}

// FindPointerInfo returns the current pointer of the task.
func (t *tx) FindPointerInfo(_ context.Context, taskID int64) (*database.PointerInfo, error) {
	raw, err := t.txn.First(tblPointers, "id", taskID)
	if err != nil {
		return nil, fmt.Errorf("find pointer of task %d: %w", taskID, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("task %d: %w", taskID, database.ErrPointerNotFound)
	}

	return raw.(*database.PointerInfo).DeepCopy(), nil
}

// CreatePointerInfo creates the current pointer of a task.
func (t *tx) CreatePointerInfo(_ context.Context, info *database.PointerInfo) error {
	if err := t.checkPointerFree(info); err != nil {
		return err
	}

	raw, err := t.txn.First(tblPointers, "id", info.TaskID)
	if err != nil {
		return fmt.Errorf("find pointer of task %d: %w", info.TaskID, err)
	}
	if raw != nil {
		return fmt.Errorf("task %d: %w", info.TaskID, database.ErrPointerAlreadyExists)
	}

	if err := t.txn.Insert(tblPointers, info.DeepCopy()); err != nil {
		return fmt.Errorf("insert pointer of task %d: %w", info.TaskID, err)
	}
	return nil
}

// UpdatePointerInfo replaces the current pointer of info.TaskID.
func (t *tx) UpdatePointerInfo(_ context.Context, info *database.PointerInfo) error {
	raw, err := t.txn.First(tblPointers, "id", info.TaskID)
	if err != nil {
		return fmt.Errorf("find pointer of task %d: %w", info.TaskID, err)
	}
	if raw == nil {
		return fmt.Errorf("task %d: %w", info.TaskID, database.ErrPointerNotFound)
	}
	if err := t.checkPointerFree(info); err != nil {
		return err
	}

	// NOTE: the revision_id index entry of the old record is only replaced
	// when the old record is deleted first.
	if err := t.txn.Delete(tblPointers, raw); err != nil {
		return fmt.Errorf("delete pointer of task %d: %w", info.TaskID, err)
	}
	if err := t.txn.Insert(tblPointers, info.DeepCopy()); err != nil {
		return fmt.Errorf("insert pointer of task %d: %w", info.TaskID, err)
	}
	return nil
}

// DeletePointerInfo removes the current pointer of the task.
func (t *tx) DeletePointerInfo(_ context.Context, taskID int64) error {
	raw, err := t.txn.First(tblPointers, "id", taskID)
	if err != nil {
		return fmt.Errorf("find pointer of task %d: %w", taskID, err)
	}
	if raw == nil {
		return fmt.Errorf("task %d: %w", taskID, database.ErrPointerNotFound)
	}

	if err := t.txn.Delete(tblPointers, raw); err != nil {
		return fmt.Errorf("delete pointer of task %d: %w", taskID, err)
	}
	return nil
}

// FindUserInfoByID returns the user of the given id.
func (t *tx) FindUserInfoByID(_ context.Context, id int64) (*database.UserInfo, error) {
	raw, err := t.txn.First(tblUsers, "id", id)
	if err != nil {
		return nil, fmt.Errorf("find user by id %d: %w", id, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%d: %w", id, database.ErrUserNotFound)
	}

	return raw.(*database.UserInfo).DeepCopy(), nil
}

// FindUserInfoByName returns the user of the given username.
func (t *tx) FindUserInfoByName(_ context.Context, username string) (*database.UserInfo, error) {
	raw, err := t.txn.First(tblUsers, "username", username)
	if err != nil {
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%s: %w", username, database.ErrUserNotFound)
	}

	return raw.(*database.UserInfo).DeepCopy(), nil
}

// FindTaskSummaries returns the page of live tasks matching the filter.
func (t *tx) FindTaskSummaries(
	_ context.Context,
	filter *types.TaskFilter,
	paging types.Paging,
) ([]*database.TaskSummaryInfo, int64, error) {
	iter, err := t.txn.Get(tblPointers, "id")
	if err != nil {
		return nil, 0, fmt.Errorf("find pointers: %w", err)
	}

	var matched []*database.TaskSummaryInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		pointer := raw.(*database.PointerInfo)

		rawRevision, err := t.txn.First(tblRevisions, "id", pointer.RevisionID.String())
		if err != nil {
			return nil, 0, fmt.Errorf("find revision %s: %w", pointer.RevisionID, err)
		}
		if rawRevision == nil {
			continue
		}
		revision := rawRevision.(*database.RevisionInfo)
		if revision.IsDeleted || revision.TaskID != pointer.TaskID {
			continue
		}
		if !database.MatchTaskFilter(filter, revision, pointer) {
			continue
		}

		matched = append(matched, &database.TaskSummaryInfo{
			TaskID:      pointer.TaskID,
			Title:       revision.Title,
			Description: revision.Description,
			DueDate:     revision.DueDate,
			Status:      revision.Status,
			CreatedBy:   pointer.CreatedBy,
			UpdatedBy:   pointer.UpdatedBy,
		})
	}

	// NOTE: the int index orders by varint bytes, not by value.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].TaskID < matched[j].TaskID
	})

	total := int64(len(matched))
	offset := max(min(paging.Offset(), len(matched)), 0)
	end := len(matched)
	if paging.PageSize > 0 {
		end = min(offset+paging.PageSize, len(matched))
	}
	matched = matched[offset:end]

	var userIDs []int64
	for _, summary := range matched {
		if summary.CreatedBy != nil {
			userIDs = append(userIDs, *summary.CreatedBy)
		}
		if summary.UpdatedBy != nil {
			userIDs = append(userIDs, *summary.UpdatedBy)
		}
	}
	usernames, err := t.usernamesOf(userIDs)
	if err != nil {
		return nil, 0, err
	}

	page := make([]*database.TaskSummaryInfo, 0, len(matched))
	for _, summary := range matched {
		page = append(page, &database.TaskSummaryInfo{
			TaskID:            summary.TaskID,
			Title:             copyPtr(summary.Title),
			Description:       copyPtr(summary.Description),
			DueDate:           copyPtr(summary.DueDate),
			Status:            summary.Status,
			CreatedBy:         copyPtr(summary.CreatedBy),
			CreatedByUsername: usernameOf(usernames, summary.CreatedBy),
			UpdatedBy:         copyPtr(summary.UpdatedBy),
			UpdatedByUsername: usernameOf(usernames, summary.UpdatedBy),
		})
	}

	return page, total, nil
}

// revisionsOf returns the revisions of the task in ascending order. The
// returned records are owned by memdb and must not be modified.
func (t *tx) revisionsOf(taskID int64) ([]*database.RevisionInfo, error) {
	iter, err := t.txn.Get(tblRevisions, "task_id", taskID)
	if err != nil {
		return nil, fmt.Errorf("find revisions of task %d: %w", taskID, err)
	}

	var infos []*database.RevisionInfo
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		infos = append(infos, raw.(*database.RevisionInfo))
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Less(infos[j])
	})
	return infos, nil
}

// checkPointerFree returns ErrPointerAlreadyExists if another task points at
// info.RevisionID.
func (t *tx) checkPointerFree(info *database.PointerInfo) error {
	raw, err := t.txn.First(tblPointers, "revision_id", info.RevisionID.String())
	if err != nil {
		return fmt.Errorf("find pointer of revision %s: %w", info.RevisionID, err)
	}
	if raw != nil && raw.(*database.PointerInfo).TaskID != info.TaskID {
		return fmt.Errorf("revision %s: %w", info.RevisionID, database.ErrPointerAlreadyExists)
	}
	return nil
}

// usernamesOf resolves the usernames of the given user ids in one scan of
// the users table. Unknown ids are left out.
func (t *tx) usernamesOf(ids []int64) (map[int64]string, error) {
	usernames := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return usernames, nil
	}

	wanted := make(map[int64]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	iter, err := t.txn.Get(tblUsers, "id")
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	for raw := iter.Next(); raw != nil; raw = iter.Next() {
		info := raw.(*database.UserInfo)
		if wanted[info.ID] {
			usernames[info.ID] = info.Username
		}
	}
	return usernames, nil
}

// usernameOf returns the username of id in usernames, nil if id is nil or
// unknown.
func usernameOf(usernames map[int64]string, id *int64) *string {
	if id == nil {
		return nil
	}
	username, ok := usernames[*id]
	if !ok {
		return nil
	}
	return &username
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

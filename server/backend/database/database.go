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

// Package database provides the database interface for the task store.
package database

import (
	"context"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/pkg/errors"
)

var (
	// ErrRevisionNotFound is returned when the revision could not be found.
	ErrRevisionNotFound = errors.NotFound("revision not found").WithCode("ErrRevisionNotFound")

	// ErrPointerNotFound is returned when the task has no current pointer.
	ErrPointerNotFound = errors.NotFound("pointer not found").WithCode("ErrPointerNotFound")

	// ErrPointerAlreadyExists is returned when the task already has a pointer.
	ErrPointerAlreadyExists = errors.AlreadyExists("pointer already exists").WithCode("ErrPointerAlreadyExists")

	// ErrUserNotFound is returned when the user is not found.
	ErrUserNotFound = errors.NotFound("user not found").WithCode("ErrUserNotFound")

	// ErrUserAlreadyExists is returned when the user already exists.
	ErrUserAlreadyExists = errors.AlreadyExists("user already exists").WithCode("ErrUserAlreadyExists")
)

// Database represents database which reads or saves the revisions and
// current pointers of tasks.
type Database interface {
	// Close all resources of this database.
	Close() error

	// CreateUserInfo adds a user to the user directory.
	CreateUserInfo(ctx context.Context, id int64, username string) (*UserInfo, error)

	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	// Update runs fn in a read-write transaction. The transaction is
	// committed if fn returns nil and rolled back otherwise.
	Update(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is a unit of work over the revision store, the current-pointer table
// and the user directory. A Tx must not be used after its callback returns.
type Tx interface {
	// AppendRevision inserts a new revision of the task with a fresh ID and
	// returns it.
	AppendRevision(
		ctx context.Context,
		taskID int64,
		content types.TaskContent,
		createdBy *int64,
		deleted bool,
	) (*RevisionInfo, error)

	// FindLatestRevision returns the most recent revision of the task,
	// ordered by CreatedAt and then Seq.
	FindLatestRevision(ctx context.Context, taskID int64) (*RevisionInfo, error)

	// FindActiveRevision returns the revision matching both keys that is not
	// flagged deleted.
	FindActiveRevision(ctx context.Context, taskID int64, revisionID types.ID) (*RevisionInfo, error)

	// FindRevisionInfos returns every revision of the task in ascending order.
	FindRevisionInfos(ctx context.Context, taskID int64) ([]*RevisionInfo, error)

	// FindPreviousRevision returns the most recent revision of the task other
	// than the given one, flagged deleted or not.
	FindPreviousRevision(ctx context.Context, taskID int64, revisionID types.ID) (*RevisionInfo, error)

	// RemoveRevision hard-deletes a single revision.
	RemoveRevision(ctx context.Context, revisionID types.ID) error

	// MarkRevisionDeleted sets the deleted flag of a single revision.
	MarkRevisionDeleted(ctx context.Context, revisionID types.ID, deleted bool) error

	// NextTaskID increments the task id sequence and returns the new value.
	NextTaskID(ctx context.Context) (int64, error)

	// FindPointerInfo returns the current pointer of the task.
	FindPointerInfo(ctx context.Context, taskID int64) (*PointerInfo, error)

	// CreatePointerInfo creates the current pointer of a task.
	CreatePointerInfo(ctx context.Context, info *PointerInfo) error

	// UpdatePointerInfo replaces the current pointer of info.TaskID.
	UpdatePointerInfo(ctx context.Context, info *PointerInfo) error

	// DeletePointerInfo removes the current pointer of the task.
	DeletePointerInfo(ctx context.Context, taskID int64) error

	// FindUserInfoByID returns the user of the given id.
	FindUserInfoByID(ctx context.Context, id int64) (*UserInfo, error)

	// FindUserInfoByName returns the user of the given username.
	FindUserInfoByName(ctx context.Context, username string) (*UserInfo, error)

	// FindTaskSummaries returns the page of live tasks matching the filter in
	// ascending task id order, and the number of matching tasks before paging.
	FindTaskSummaries(
		ctx context.Context,
		filter *types.TaskFilter,
		paging types.Paging,
	) ([]*TaskSummaryInfo, int64, error)
}

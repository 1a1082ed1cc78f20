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

// Package tasks provides the task related business logic. Every mutation
// appends to or rolls back the revision history of a task and moves its
// current pointer inside one database transaction.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/internal/validation"
	pkgerrors "github.com/revtask/revtask/pkg/errors"
	"github.com/revtask/revtask/server/backend"
	"github.com/revtask/revtask/server/backend/database"
	"github.com/revtask/revtask/server/logging"
)

var (
	// ErrTaskNotFound is returned when the task has no live pointer or never
	// existed.
	ErrTaskNotFound = pkgerrors.NotFound("task not found").WithCode("ErrTaskNotFound")

	// ErrNothingToUndo is returned when undo is requested on a task whose
	// only revision is the one it was created with.
	ErrNothingToUndo = pkgerrors.FailedPrecond(
		"task was created and immediately undone",
	).WithCode("ErrNothingToUndo")

	// ErrInvalidTaskFields is returned with the violations of the given
	// fields.
	ErrInvalidTaskFields = pkgerrors.InvalidArgument("invalid task fields").WithCode("ErrInvalidTaskFields")
)

const (
	opCreate  = "create"
	opUpdate  = "update"
	opDelete  = "delete"
	opUndo    = "undo"
	opGet     = "get"
	opList    = "list"
	opHistory = "history"

	undoBranchDelete = "delete"
	undoBranchUpdate = "update"
)

// Create creates a task from the fields and returns its id.
func Create(
	ctx context.Context,
	be *backend.Backend,
	fields *types.TaskFields,
) (int64, error) {
	var taskID int64
	err := run(ctx, be, opCreate, 0, func(ctx context.Context) error {
		content, err := checkTaskFields(fields)
		if err != nil {
			return err
		}

		return be.DB.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			if err := checkCreator(ctx, tx, fields.CreatedBy); err != nil {
				return err
			}

			id, err := tx.NextTaskID(ctx)
			if err != nil {
				return err
			}

			revision, err := tx.AppendRevision(ctx, id, content, fields.CreatedBy, false)
			if err != nil {
				return err
			}
			if err := tx.CreatePointerInfo(ctx, database.NewPointerInfo(revision, revision.CreatedAt)); err != nil {
				return err
			}

			taskID = id
			return nil
		})
	})
	if err != nil {
		return 0, err
	}

	addRevisionsAppended(be, 1)
	return taskID, nil
}

// Update replaces the content of the task with a new revision. The creator
// of the new revision becomes the last updater of the task.
func Update(
	ctx context.Context,
	be *backend.Backend,
	taskID int64,
	fields *types.TaskFields,
) error {
	err := run(ctx, be, opUpdate, taskID, func(ctx context.Context) error {
		content, err := checkTaskFields(fields)
		if err != nil {
			return err
		}

		return be.DB.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			pointer, err := findPointer(ctx, tx, taskID)
			if err != nil {
				return err
			}
			if err := checkCreator(ctx, tx, fields.CreatedBy); err != nil {
				return err
			}

			revision, err := tx.AppendRevision(ctx, taskID, content, fields.CreatedBy, false)
			if err != nil {
				return err
			}

			pointer.RevisionID = revision.ID
			pointer.UpdatedBy = revision.CreatedBy
			pointer.UpdatedAt = revision.CreatedAt
			return tx.UpdatePointerInfo(ctx, pointer)
		})
	})
	if err != nil {
		return err
	}

	addRevisionsAppended(be, 1)
	return nil
}

// Delete hides the task. Its history is kept and the current revision is
// flagged deleted so that Undo can restore it.
func Delete(ctx context.Context, be *backend.Backend, taskID int64) error {
	return run(ctx, be, opDelete, taskID, func(ctx context.Context) error {
		return be.DB.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			pointer, err := findPointer(ctx, tx, taskID)
			if err != nil {
				return err
			}

			if err := tx.MarkRevisionDeleted(ctx, pointer.RevisionID, true); err != nil {
				return err
			}
			return tx.DeletePointerInfo(ctx, taskID)
		})
	})
}

// Undo reverts the most recent update or delete of the task. A task without
// a pointer was deleted last; a task with a pointer was updated last unless
// its history holds a single revision.
func Undo(ctx context.Context, be *backend.Backend, taskID int64) error {
	var branch string
	err := run(ctx, be, opUndo, taskID, func(ctx context.Context) error {
		return be.DB.Update(ctx, func(ctx context.Context, tx database.Tx) error {
			pointer, err := tx.FindPointerInfo(ctx, taskID)
			if errors.Is(err, database.ErrPointerNotFound) {
				branch = undoBranchDelete
				return undoDelete(ctx, tx, taskID)
			}
			if err != nil {
				return err
			}

			branch = undoBranchUpdate
			return undoUpdate(ctx, tx, pointer)
		})
	})
	if err != nil {
		return err
	}

	if be.Metrics != nil {
		be.Metrics.AddTaskUndo(branch)
	}
	return nil
}

// undoDelete restores the pointer at the deleted revision. The revision
// creator becomes both actors of the restored pointer.
func undoDelete(ctx context.Context, tx database.Tx, taskID int64) error {
	latest, err := tx.FindLatestRevision(ctx, taskID)
	if errors.Is(err, database.ErrRevisionNotFound) {
		return fmt.Errorf("task %d: %w", taskID, ErrTaskNotFound)
	}
	if err != nil {
		return err
	}
	if !latest.IsDeleted {
		return fmt.Errorf("task %d has no pointer and no deleted revision: %w", taskID, ErrTaskNotFound)
	}

	if err := tx.MarkRevisionDeleted(ctx, latest.ID, false); err != nil {
		return err
	}
	logging.From(ctx).Debugf("restore pointer at %s", latest.ID)
	return tx.CreatePointerInfo(ctx, database.NewPointerInfo(latest, database.Now()))
}

// undoUpdate drops the current revision and points the task back at the
// latest remaining one. The actors and times of the pointer are kept.
func undoUpdate(ctx context.Context, tx database.Tx, pointer *database.PointerInfo) error {
	previous, err := tx.FindPreviousRevision(ctx, pointer.TaskID, pointer.RevisionID)
	if errors.Is(err, database.ErrRevisionNotFound) {
		return fmt.Errorf("task %d: %w", pointer.TaskID, ErrNothingToUndo)
	}
	if err != nil {
		return err
	}

	if previous.IsDeleted {
		if err := tx.MarkRevisionDeleted(ctx, previous.ID, false); err != nil {
			return err
		}
	}

	// NOTE(revtask): repoint before removing, the pointer references the
	// revision it points at.
	removed := pointer.RevisionID
	logging.From(ctx).Debugf("repoint %s to %s", removed, previous.ID)
	pointer.RevisionID = previous.ID
	if err := tx.UpdatePointerInfo(ctx, pointer); err != nil {
		return err
	}
	return tx.RemoveRevision(ctx, removed)
}

// Get returns the current view of a live task.
func Get(ctx context.Context, be *backend.Backend, taskID int64) (*types.Task, error) {
	var task *types.Task
	err := run(ctx, be, opGet, taskID, func(ctx context.Context) error {
		return be.DB.View(ctx, func(ctx context.Context, tx database.Tx) error {
			pointer, err := findPointer(ctx, tx, taskID)
			if err != nil {
				return err
			}

			revision, err := tx.FindActiveRevision(ctx, taskID, pointer.RevisionID)
			if errors.Is(err, database.ErrRevisionNotFound) {
				return fmt.Errorf("task %d: %w", taskID, ErrTaskNotFound)
			}
			if err != nil {
				return err
			}

			task = pointer.ToTypesTask(revision)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// List returns a page of live tasks matching the query fields in ascending
// task id order. Every invalid field is reported in one error.
func List(
	ctx context.Context,
	be *backend.Backend,
	fields *types.TaskQueryFields,
	paging types.Paging,
) (*types.TaskPage, error) {
	var page *types.TaskPage
	err := run(ctx, be, opList, 0, func(ctx context.Context) error {
		if fields == nil {
			fields = &types.TaskQueryFields{}
		}

		violations := &validation.StructError{}
		if err := violations.Merge("", fields.Validate()); err != nil {
			return err
		}
		if err := violations.Merge("", paging.Validate()); err != nil {
			return err
		}
		paging = paging.Normalize(be.Config.DefaultPageSize, be.Config.MaxPageSize)

		return be.DB.View(ctx, func(ctx context.Context, tx database.Tx) error {
			createdBy, err := resolveUsername(ctx, tx, violations, "created_by_username", fields.CreatedByUsername)
			if err != nil {
				return err
			}
			updatedBy, err := resolveUsername(ctx, tx, violations, "updated_by_username", fields.UpdatedByUsername)
			if err != nil {
				return err
			}
			if err := violations.ErrOrNil(); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidTaskFields, err)
			}

			filter, err := taskFilterOf(fields, createdBy, updatedBy)
			if err != nil {
				return err
			}

			infos, total, err := tx.FindTaskSummaries(ctx, filter, paging)
			if err != nil {
				return err
			}

			items := make([]*types.TaskSummary, 0, len(infos))
			for _, info := range infos {
				items = append(items, info.ToTypesTaskSummary())
			}
			page = &types.TaskPage{
				Items:    items,
				Total:    total,
				Page:     paging.Page,
				PageSize: paging.PageSize,
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if be.Metrics != nil {
		be.Metrics.AddTaskListReturned(len(page.Items))
	}
	return page, nil
}

// History returns every revision of the task in order, including the
// revision flagged deleted when the task is deleted.
func History(ctx context.Context, be *backend.Backend, taskID int64) ([]*types.Revision, error) {
	var revisions []*types.Revision
	err := run(ctx, be, opHistory, taskID, func(ctx context.Context) error {
		return be.DB.View(ctx, func(ctx context.Context, tx database.Tx) error {
			infos, err := tx.FindRevisionInfos(ctx, taskID)
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				return fmt.Errorf("task %d: %w", taskID, ErrTaskNotFound)
			}

			revisions = make([]*types.Revision, 0, len(infos))
			for _, info := range infos {
				revisions = append(revisions, info.ToTypesRevision())
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return revisions, nil
}

// run executes an operation with a logger carrying the operation id, and
// records its outcome.
func run(
	ctx context.Context,
	be *backend.Backend,
	op string,
	taskID int64,
	fn func(ctx context.Context) error,
) error {
	fields := []logging.Field{logging.NewField("op", xid.New().String())}
	if taskID > 0 {
		fields = append(fields, logging.TaskIDField(taskID))
	}
	logger := logging.New("tasks", fields...)
	ctx = logging.With(ctx, logger)

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	if err != nil {
		err = pkgerrors.WithMetadata(err, map[string]string{"op": op})
		logging.LogOpError(logger, op, duration, err)
	} else {
		logging.LogOpSuccess(logger, op, duration)
	}

	if be.Metrics != nil {
		be.Metrics.AddTaskOperation(op, be.DatabaseName(), statusLabel(err))
		be.Metrics.ObserveTaskOperationSeconds(op, duration.Seconds())
	}

	return err
}

// checkTaskFields validates the fields and converts them into content.
func checkTaskFields(fields *types.TaskFields) (types.TaskContent, error) {
	if fields == nil {
		fields = &types.TaskFields{}
	}

	if err := fields.Validate(); err != nil {
		return types.TaskContent{}, fmt.Errorf("%w: %w", ErrInvalidTaskFields, err)
	}

	content, err := fields.Content()
	if err != nil {
		return types.TaskContent{}, fmt.Errorf("%w: %w", ErrInvalidTaskFields, err)
	}
	return content, nil
}

// checkCreator returns ErrInvalidTaskFields if the creator is not in the user
// directory.
func checkCreator(ctx context.Context, tx database.Tx, createdBy *int64) error {
	if createdBy == nil {
		return nil
	}

	if _, err := tx.FindUserInfoByID(ctx, *createdBy); err != nil {
		if !errors.Is(err, database.ErrUserNotFound) {
			return err
		}

		violations := &validation.StructError{}
		violations.Add("created_by", "exists", fmt.Sprintf("user %d does not exist", *createdBy))
		return fmt.Errorf("%w: %w", ErrInvalidTaskFields, violations)
	}
	return nil
}

// findPointer returns the pointer of a live task or ErrTaskNotFound.
func findPointer(ctx context.Context, tx database.Tx, taskID int64) (*database.PointerInfo, error) {
	pointer, err := tx.FindPointerInfo(ctx, taskID)
	if errors.Is(err, database.ErrPointerNotFound) {
		return nil, fmt.Errorf("task %d: %w", taskID, ErrTaskNotFound)
	}
	if err != nil {
		return nil, err
	}
	return pointer, nil
}

// resolveUsername returns the id of the named user. An unknown username is
// added to violations.
func resolveUsername(
	ctx context.Context,
	tx database.Tx,
	violations *validation.StructError,
	field string,
	username string,
) (*int64, error) {
	if username == "" {
		return nil, nil
	}

	info, err := tx.FindUserInfoByName(ctx, username)
	if errors.Is(err, database.ErrUserNotFound) {
		violations.Add(field, "exists", fmt.Sprintf("user '%s' does not exist", username))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info.ID, nil
}

// taskFilterOf builds the filter of validated query fields.
func taskFilterOf(fields *types.TaskQueryFields, createdBy, updatedBy *int64) (*types.TaskFilter, error) {
	filter := &types.TaskFilter{
		CreatedBy: createdBy,
		UpdatedBy: updatedBy,
	}

	if fields.DueDate != "" {
		date, err := types.ParseDate(fields.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTaskFields, err)
		}
		filter.DueDate = &date
	}
	if fields.Status != "" {
		status, err := types.ParseStatus(fields.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTaskFields, err)
		}
		filter.Status = &status
	}

	return filter, nil
}

func addRevisionsAppended(be *backend.Backend, count int) {
	if be.Metrics != nil {
		be.Metrics.AddRevisionsAppended(count)
	}
}

// statusLabel returns the metric label of an operation result.
func statusLabel(err error) string {
	if err == nil {
		return ""
	}
	info := pkgerrors.ErrorInfoOf(err)
	if info.Code != "" {
		return info.Code
	}
	if info.Status != 0 {
		return info.Status.String()
	}
	return "unknown"
}

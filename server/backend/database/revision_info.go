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

package database

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/revtask/revtask/api/types"
)

// RevisionInfo is one content snapshot in the history of a task. Only
// IsDeleted changes after the revision is written.
type RevisionInfo struct {
	// ID is the unique identifier of the revision.
	ID types.ID `bson:"_id"`

	// TaskID is the id of the task that this revision belongs to.
	TaskID int64 `bson:"task_id"`

	// Seq is the sequence number of the revision within the task. It breaks
	// ties between revisions sharing CreatedAt.
	Seq int64 `bson:"seq"`

	Title       *string      `bson:"title"`
	Description *string      `bson:"description"`
	DueDate     *types.Date  `bson:"due_date"`
	Status      types.Status `bson:"status"`

	// IsDeleted marks the revision that was current when the task was deleted.
	IsDeleted bool `bson:"is_deleted"`

	// CreatedBy is the id of the user who wrote this revision.
	CreatedBy *int64 `bson:"created_by"`

	// CreatedAt is the time when this revision was created.
	CreatedAt time.Time `bson:"created_at"`
}

// NewRevisionInfo creates the revision that follows latest in the history of
// the task. latest is nil for the first revision.
func NewRevisionInfo(
	taskID int64,
	content types.TaskContent,
	createdBy *int64,
	deleted bool,
	latest *RevisionInfo,
) *RevisionInfo {
	info := &RevisionInfo{
		ID:          types.ID(bson.NewObjectID().Hex()),
		TaskID:      taskID,
		Seq:         1,
		Title:       content.Title,
		Description: content.Description,
		DueDate:     content.DueDate,
		Status:      content.Status,
		IsDeleted:   deleted,
		CreatedBy:   createdBy,
		CreatedAt:   Now(),
	}

	if latest != nil {
		info.Seq = latest.Seq + 1
		// NOTE(revtask): keep the history ordered even if the wall clock steps back.
		if info.CreatedAt.Before(latest.CreatedAt) {
			info.CreatedAt = latest.CreatedAt
		}
	}

	return info
}

// Content returns the content snapshot of the revision.
func (r *RevisionInfo) Content() types.TaskContent {
	return types.TaskContent{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Status:      r.Status,
	}
}

// Less reports whether r precedes other in the history of a task.
func (r *RevisionInfo) Less(other *RevisionInfo) bool {
	if !r.CreatedAt.Equal(other.CreatedAt) {
		return r.CreatedAt.Before(other.CreatedAt)
	}
	return r.Seq < other.Seq
}

// ToTypesRevision converts the RevisionInfo to types.Revision.
func (r *RevisionInfo) ToTypesRevision() *types.Revision {
	return &types.Revision{
		ID:          r.ID,
		TaskID:      r.TaskID,
		Seq:         r.Seq,
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Status:      r.Status,
		IsDeleted:   r.IsDeleted,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
	}
}

// DeepCopy creates a deep copy of the RevisionInfo.
func (r *RevisionInfo) DeepCopy() *RevisionInfo {
	if r == nil {
		return nil
	}

	return &RevisionInfo{
		ID:          r.ID,
		TaskID:      r.TaskID,
		Seq:         r.Seq,
		Title:       copyPtr(r.Title),
		Description: copyPtr(r.Description),
		DueDate:     copyPtr(r.DueDate),
		Status:      r.Status,
		IsDeleted:   r.IsDeleted,
		CreatedBy:   copyPtr(r.CreatedBy),
		CreatedAt:   r.CreatedAt,
	}
}

// Now returns the current time as stored by every database: UTC with
// millisecond precision.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

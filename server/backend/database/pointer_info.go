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

	"github.com/revtask/revtask/api/types"
)

// PointerInfo maps a live task to its current revision. A task has a pointer
// if and only if it is not deleted.
type PointerInfo struct {
	// RevisionID is the id of the current revision.
	RevisionID types.ID `bson:"revision_id"`

	// TaskID is the id of the task. It is unique among pointers.
	TaskID int64 `bson:"_id"`

	// CreatedBy is the id of the user who created the task.
	CreatedBy *int64 `bson:"created_by"`

	// UpdatedBy is the id of the user who performed the most recent update.
	UpdatedBy *int64 `bson:"updated_by"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewPointerInfo creates a pointer to the given revision whose creator is
// both the creator and the last updater of the task.
func NewPointerInfo(revision *RevisionInfo, at time.Time) *PointerInfo {
	return &PointerInfo{
		RevisionID: revision.ID,
		TaskID:     revision.TaskID,
		CreatedBy:  copyPtr(revision.CreatedBy),
		UpdatedBy:  copyPtr(revision.CreatedBy),
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}

// ToTypesTask builds the current view of the task from the pointer and its
// revision.
func (i *PointerInfo) ToTypesTask(revision *RevisionInfo) *types.Task {
	return &types.Task{
		ID:            i.TaskID,
		RevisionID:    revision.ID,
		Title:         revision.Title,
		Description:   revision.Description,
		DueDate:       revision.DueDate,
		Status:        revision.Status,
		CreatedBy:     revision.CreatedBy,
		TaskCreatedBy: i.CreatedBy,
		UpdatedBy:     i.UpdatedBy,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// DeepCopy returns a deep copy of the PointerInfo.
func (i *PointerInfo) DeepCopy() *PointerInfo {
	if i == nil {
		return nil
	}

	return &PointerInfo{
		RevisionID: i.RevisionID,
		TaskID:     i.TaskID,
		CreatedBy:  copyPtr(i.CreatedBy),
		UpdatedBy:  copyPtr(i.UpdatedBy),
		CreatedAt:  i.CreatedAt,
		UpdatedAt:  i.UpdatedAt,
	}
}

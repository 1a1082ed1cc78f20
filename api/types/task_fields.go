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

package types

import (
	"github.com/revtask/revtask/internal/validation"
)

// TaskFields is a set of fields that use to create or update a task. Status
// and DueDate arrive as raw strings and are checked by Validate.
type TaskFields struct {
	// Title is the title of the task.
	Title *string `json:"title"`

	// Description is the description of the task.
	Description *string `json:"description"`

	// DueDate is the due date of the task in YYYY-MM-DD format.
	DueDate *string `json:"due_date" validate:"omitempty,due_date"`

	// Status is the status of the task. It defaults to pending.
	Status *string `json:"status" validate:"omitempty,task_status"`

	// CreatedBy is the id of the user who writes this revision.
	CreatedBy *int64 `json:"created_by"`
}

// Validate validates the TaskFields.
func (i *TaskFields) Validate() error {
	return validation.ValidateStruct(i)
}

// Content converts the fields into a TaskContent. The fields must have been
// validated.
func (i *TaskFields) Content() (TaskContent, error) {
	content := TaskContent{
		Title:       i.Title,
		Description: i.Description,
		Status:      StatusPending,
	}

	if i.Status != nil {
		status, err := ParseStatus(*i.Status)
		if err != nil {
			return TaskContent{}, err
		}
		content.Status = status
	}

	if i.DueDate != nil {
		date, err := ParseDate(*i.DueDate)
		if err != nil {
			return TaskContent{}, err
		}
		content.DueDate = &date
	}

	return content, nil
}

// TaskQueryFields is a set of raw filters for listing tasks. Empty values do
// not filter.
type TaskQueryFields struct {
	// DueDate keeps tasks due on the date, in YYYY-MM-DD format.
	DueDate string `json:"due_date" validate:"omitempty,due_date"`

	// Status keeps tasks in the status.
	Status string `json:"status" validate:"omitempty,task_status"`

	// CreatedByUsername keeps tasks created by the user.
	CreatedByUsername string `json:"created_by_username"`

	// UpdatedByUsername keeps tasks last updated by the user.
	UpdatedByUsername string `json:"updated_by_username"`
}

// Validate validates the format of DueDate and Status. Usernames are
// resolved against the user directory by the caller.
func (i *TaskQueryFields) Validate() error {
	return validation.ValidateStruct(i)
}

// TaskFilter is a resolved set of list filters. Nil values do not filter.
type TaskFilter struct {
	DueDate   *Date
	Status    *Status
	CreatedBy *int64
	UpdatedBy *int64
}

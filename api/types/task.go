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
	"errors"
	"fmt"
	"time"

	"github.com/revtask/revtask/internal/validation"
)

var (
	// ErrInvalidStatus is returned when a status literal is unknown.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidDate is returned when a date is not in YYYY-MM-DD format.
	ErrInvalidDate = errors.New("invalid date")
)

// Status is the progress state of a task.
type Status string

const (
	// StatusPending is the status of a task that has not been started.
	StatusPending Status = "pending"

	// StatusInProgress is the status of a task being worked on.
	StatusInProgress Status = "in_progress"

	// StatusCompleted is the status of a finished task.
	StatusCompleted Status = "completed"
)

// ParseStatus parses the given literal into a Status.
func ParseStatus(s string) (Status, error) {
	if !validation.IsTaskStatus(s) {
		return "", fmt.Errorf("%s: %w", s, ErrInvalidStatus)
	}
	return Status(s), nil
}

// String returns the literal of the status.
func (s Status) String() string {
	return string(s)
}

// Date is a calendar date without a time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(validation.DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%s: %w", s, ErrInvalidDate)
	}
	return DateOf(t), nil
}

// DateOf returns the date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// String returns the date in YYYY-MM-DD format.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// TaskContent is the content snapshot stored in every revision of a task.
type TaskContent struct {
	Title       *string
	Description *string
	DueDate     *Date
	Status      Status
}

// Task is the current view of a live task.
type Task struct {
	// ID is the task id, stable across the whole history of the task.
	ID int64 `json:"task_id" yaml:"task_id"`

	// RevisionID is the id of the revision the task currently points to.
	RevisionID ID `json:"revision_id" yaml:"revision_id"`

	Title       *string `json:"title" yaml:"title"`
	Description *string `json:"description" yaml:"description"`
	DueDate     *Date   `json:"due_date" yaml:"due_date"`
	Status      Status  `json:"status" yaml:"status"`

	// CreatedBy is the creator of the current revision. After an update it
	// is the updater, unlike TaskSummary.CreatedBy.
	CreatedBy *int64 `json:"created_by" yaml:"created_by"`

	// TaskCreatedBy is the user who created the task. It is what lists
	// report and filter on as created_by.
	TaskCreatedBy *int64 `json:"task_created_by" yaml:"task_created_by"`

	// UpdatedBy is the user who performed the most recent update.
	UpdatedBy *int64 `json:"updated_by" yaml:"updated_by"`

	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// TaskSummary is a row of a task list, annotated with usernames.
type TaskSummary struct {
	ID                int64   `json:"task_id" yaml:"task_id"`
	Title             *string `json:"title" yaml:"title"`
	Description       *string `json:"description" yaml:"description"`
	DueDate           *Date   `json:"due_date" yaml:"due_date"`
	Status            Status  `json:"status" yaml:"status"`

	// CreatedBy is the user who created the task, kept on its pointer. It
	// matches Task.TaskCreatedBy, not Task.CreatedBy.
	CreatedBy         *int64  `json:"created_by" yaml:"created_by"`
	CreatedByUsername *string `json:"created_by_username" yaml:"created_by_username"`
	UpdatedBy         *int64  `json:"updated_by" yaml:"updated_by"`
	UpdatedByUsername *string `json:"updated_by_username" yaml:"updated_by_username"`
}

// Revision is one content snapshot in the history of a task.
type Revision struct {
	ID          ID        `json:"revision_id" yaml:"revision_id"`
	TaskID      int64     `json:"task_id" yaml:"task_id"`
	Seq         int64     `json:"seq" yaml:"seq"`
	Title       *string   `json:"title" yaml:"title"`
	Description *string   `json:"description" yaml:"description"`
	DueDate     *Date     `json:"due_date" yaml:"due_date"`
	Status      Status    `json:"status" yaml:"status"`
	IsDeleted   bool      `json:"is_deleted" yaml:"is_deleted"`
	CreatedBy   *int64    `json:"created_by" yaml:"created_by"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

// Content returns the content snapshot of the revision.
func (r *Revision) Content() TaskContent {
	return TaskContent{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Status:      r.Status,
	}
}

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
	"github.com/revtask/revtask/api/types"
)

// TaskSummaryInfo is a live task joined from its pointer, its active
// revision and the usernames of its creator and last updater.
type TaskSummaryInfo struct {
	TaskID      int64        `bson:"_id"`
	Title       *string      `bson:"title"`
	Description *string      `bson:"description"`
	DueDate     *types.Date  `bson:"due_date"`
	Status      types.Status `bson:"status"`

	// CreatedBy and UpdatedBy come from the pointer. Their usernames are nil
	// when the id is nil or no longer in the user directory.
	CreatedBy         *int64  `bson:"created_by"`
	CreatedByUsername *string `bson:"created_by_username"`
	UpdatedBy         *int64  `bson:"updated_by"`
	UpdatedByUsername *string `bson:"updated_by_username"`
}

// ToTypesTaskSummary converts the TaskSummaryInfo to types.TaskSummary.
func (i *TaskSummaryInfo) ToTypesTaskSummary() *types.TaskSummary {
	return &types.TaskSummary{
		ID:                i.TaskID,
		Title:             i.Title,
		Description:       i.Description,
		DueDate:           i.DueDate,
		Status:            i.Status,
		CreatedBy:         i.CreatedBy,
		CreatedByUsername: i.CreatedByUsername,
		UpdatedBy:         i.UpdatedBy,
		UpdatedByUsername: i.UpdatedByUsername,
	}
}

// MatchTaskFilter reports whether a revision and its pointer pass the filter.
// Databases that cannot push the filter into a query use it directly.
func MatchTaskFilter(filter *types.TaskFilter, revision *RevisionInfo, pointer *PointerInfo) bool {
	if filter == nil {
		return true
	}
	if filter.DueDate != nil && (revision.DueDate == nil || *revision.DueDate != *filter.DueDate) {
		return false
	}
	if filter.Status != nil && revision.Status != *filter.Status {
		return false
	}
	if filter.CreatedBy != nil && (pointer.CreatedBy == nil || *pointer.CreatedBy != *filter.CreatedBy) {
		return false
	}
	if filter.UpdatedBy != nil && (pointer.UpdatedBy == nil || *pointer.UpdatedBy != *filter.UpdatedBy) {
		return false
	}
	return true
}

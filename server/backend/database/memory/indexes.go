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

package memory

import "github.com/hashicorp/go-memdb"

var (
	tblRevisions = "revisions"
	tblPointers  = "pointers"
	tblUsers     = "users"
	tblCounters  = "counters"
)

// counterTaskID is the name of the task id sequence.
const counterTaskID = "task_id"

// counterRecord is a named sequence.
type counterRecord struct {
	Name  string
	Value int64
}

var schema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		tblRevisions: {
			Name: tblRevisions,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "ID"},
				},
				"task_id": {
					Name:    "task_id",
					Indexer: &memdb.IntFieldIndex{Field: "TaskID"},
				},
			},
		},
		tblPointers: {
			Name: tblPointers,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "TaskID"},
				},
				"revision_id": {
					Name:    "revision_id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "RevisionID"},
				},
			},
		},
		tblUsers: {
			Name: tblUsers,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.IntFieldIndex{Field: "ID"},
				},
				"username": {
					Name:    "username",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Username"},
				},
			},
		},
		tblCounters: {
			Name: tblCounters,
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Name"},
				},
			},
		},
	},
}

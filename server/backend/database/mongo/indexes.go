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

package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	// ColRevisions represents the revisions collection in the database.
	ColRevisions = "revisions"
	// ColPointers represents the current pointers collection in the database.
	ColPointers = "pointers"
	// ColUsers represents the users collection in the database.
	ColUsers = "users"
	// ColCounters represents the sequences collection in the database.
	ColCounters = "counters"

	// counterTaskID is the id of the counter that issues task ids.
	counterTaskID = "task_id"
)

// Collections represents the list of all collections in the database.
var Collections = []string{
	ColRevisions,
	ColPointers,
	ColUsers,
	ColCounters,
}

type collectionInfo struct {
	name    string
	indexes []mongo.IndexModel
}

// Below are names and indexes information of Collections that stores task data.
var collectionInfos = []collectionInfo{
	{
		name: ColRevisions,
		indexes: []mongo.IndexModel{{
			Keys: bson.D{
				{Key: "task_id", Value: int32(1)},
				{Key: "created_at", Value: int32(1)},
				{Key: "seq", Value: int32(1)},
			},
		}},
	},
	{
		name: ColPointers,
		indexes: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "revision_id", Value: int32(1)}},
			Options: options.Index().SetUnique(true),
		}},
	},
	{
		name: ColUsers,
		indexes: []mongo.IndexModel{{
			Keys:    bson.D{{Key: "username", Value: int32(1)}},
			Options: options.Index().SetUnique(true),
		}},
	},
}

// ensureIndexes creates the collections and their indexes. Collections are
// created up front because creating one inside a transaction needs MongoDB
// 4.4 or later.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	exists := make(map[string]bool, len(existing))
	for _, name := range existing {
		exists[name] = true
	}

	for _, name := range Collections {
		if exists[name] {
			continue
		}
		if err := db.CreateCollection(ctx, name); err != nil {
			return fmt.Errorf("create collection %s: %w", name, err)
		}
	}

	for _, info := range collectionInfos {
		_, err := db.Collection(info.name).Indexes().CreateMany(ctx, info.indexes)
		if err != nil {
			return fmt.Errorf("create indexes: %w", err)
		}
	}
	return nil
}

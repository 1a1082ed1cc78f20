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

// Package mongo implements database interfaces using MongoDB. Transactions
// need a replica set or a sharded cluster.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readconcern"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/server/backend/database"
	"github.com/revtask/revtask/server/logging"
)

// Client is a client that connects to Mongo DB and reads or saves tasks.
type Client struct {
	config *Config
	client *mongo.Client
	db     *mongo.Database
}

// Dial creates an instance of Client and dials the given MongoDB.
func Dial(conf *Config) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), conf.ParseConnectionTimeout())
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(conf.ConnectionURI).
		SetRegistry(NewRegistryBuilder())

	if conf.MonitoringEnabled {
		var threshold time.Duration
		if conf.MonitoringSlowQueryThreshold != "" {
			parsed, err := time.ParseDuration(conf.MonitoringSlowQueryThreshold)
			if err != nil {
				return nil, fmt.Errorf("parse slow query threshold: %w", err)
			}
			threshold = parsed
		}

		monitor := NewQueryMonitor(&MonitorConfig{
			Enabled:            conf.MonitoringEnabled,
			SlowQueryThreshold: threshold,
		})

		clientOptions.SetMonitor(monitor.CreateCommandMonitor())
	}

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	ctxPing, cancelPing := context.WithTimeout(ctx, conf.ParsePingTimeout())
	defer cancelPing()

	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(conf.Database)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, err
	}

	logging.DefaultLogger().Infof("MongoDB connected, URI: %s, DB: %s", conf.ConnectionURI, conf.Database)

	return &Client{
		config: conf,
		client: client,
		db:     db,
	}, nil
}

// Close all resources of this client.
func (c *Client) Close() error {
	if err := c.client.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("close mongo client: %w", err)
	}

	return nil
}

// DropDatabase drops the database of this client. It is used to clean up
// after tests.
func (c *Client) DropDatabase(ctx context.Context) error {
	if err := c.db.Drop(ctx); err != nil {
		return fmt.Errorf("drop database %s: %w", c.config.Database, err)
	}
	return nil
}

// CreateUserInfo adds a user to the user directory.
func (c *Client) CreateUserInfo(ctx context.Context, id int64, username string) (*database.UserInfo, error) {
	info := &database.UserInfo{ID: id, Username: username}

	if _, err := c.collection(ColUsers).InsertOne(ctx, info); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%d %s: %w", id, username, database.ErrUserAlreadyExists)
		}
		return nil, fmt.Errorf("create user %s: %w", username, err)
	}

	return info, nil
}

// View runs fn in a snapshot transaction.
func (c *Client) View(ctx context.Context, fn func(ctx context.Context, tx database.Tx) error) error {
	return c.run(ctx, options.Transaction().SetReadConcern(readconcern.Snapshot()), fn)
}

// Update runs fn in a transaction. The driver retries fn when the
// transaction hits a transient error such as a write conflict.
func (c *Client) Update(ctx context.Context, fn func(ctx context.Context, tx database.Tx) error) error {
	return c.run(ctx, options.Transaction().SetReadConcern(readconcern.Majority()), fn)
}

func (c *Client) run(
	ctx context.Context,
	opts *options.TransactionOptionsBuilder,
	fn func(ctx context.Context, tx database.Tx) error,
) error {
	session, err := c.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(ctx context.Context) (any, error) {
		return nil, fn(ctx, &tx{client: c})
	}, opts)
	return err
}

func (c *Client) collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// tx implements database.Tx. Every call must use the context given to the
// transaction callback so that it runs inside the session.
type tx struct {
	client *Client
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
	if _, err := t.client.collection(ColRevisions).InsertOne(ctx, info); err != nil {
		return nil, fmt.Errorf("insert revision of task %d: %w", taskID, err)
	}

	return info, nil
}

// FindLatestRevision returns the most recent revision of the task.
func (t *tx) FindLatestRevision(ctx context.Context, taskID int64) (*database.RevisionInfo, error) {
	result := t.client.collection(ColRevisions).FindOne(ctx, bson.M{
		"task_id": taskID,
	}, options.FindOne().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "seq", Value: -1},
	}))

	info := &database.RevisionInfo{}
	if err := result.Decode(info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("latest of task %d: %w", taskID, database.ErrRevisionNotFound)
		}
		return nil, fmt.Errorf("find latest revision of task %d: %w", taskID, err)
	}

	return info, nil
}

// FindActiveRevision returns the revision matching both keys that is not
// flagged deleted.
func (t *tx) FindActiveRevision(
	ctx context.Context,
	taskID int64,
	revisionID types.ID,
) (*database.RevisionInfo, error) {
	if err := revisionID.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", revisionID, database.ErrRevisionNotFound)
	}

	result := t.client.collection(ColRevisions).FindOne(ctx, bson.M{
		"_id":        revisionID,
		"task_id":    taskID,
		"is_deleted": false,
	})

	info := &database.RevisionInfo{}
	if err := result.Decode(info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s of task %d: %w", revisionID, taskID, database.ErrRevisionNotFound)
		}
		return nil, fmt.Errorf("find revision %s: %w", revisionID, err)
	}

	return info, nil
}

// FindRevisionInfos returns every revision of the task in ascending order.
func (t *tx) FindRevisionInfos(ctx context.Context, taskID int64) ([]*database.RevisionInfo, error) {
	cursor, err := t.client.collection(ColRevisions).Find(ctx, bson.M{
		"task_id": taskID,
	}, options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "seq", Value: 1},
	}))
	if err != nil {
		return nil, fmt.Errorf("find revisions of task %d: %w", taskID, err)
	}

	var infos []*database.RevisionInfo
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("fetch revisions of task %d: %w", taskID, err)
	}

	return infos, nil
}

// FindPreviousRevision returns the most recent revision of the task other
// than the given one.
func (t *tx) FindPreviousRevision(
	ctx context.Context,
	taskID int64,
	revisionID types.ID,
) (*database.RevisionInfo, error) {
	filter := bson.M{"task_id": taskID}
	if revisionID.Validate() == nil {
		filter["_id"] = bson.M{"$ne": revisionID}
	}

	result := t.client.collection(ColRevisions).FindOne(ctx, filter, options.FindOne().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "seq", Value: -1},
	}))

	info := &database.RevisionInfo{}
	if err := result.Decode(info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("before %s of task %d: %w", revisionID, taskID, database.ErrRevisionNotFound)
		}
		return nil, fmt.Errorf("find revision before %s: %w", revisionID, err)
	}

	return info, nil
}

// RemoveRevision hard-deletes a single revision.
func (t *tx) RemoveRevision(ctx context.Context, revisionID types.ID) error {
	if err := revisionID.Validate(); err != nil {
		return fmt.Errorf("%s: %w", revisionID, database.ErrRevisionNotFound)
	}

	result, err := t.client.collection(ColRevisions).DeleteOne(ctx, bson.M{
		"_id": revisionID,
	})
	if err != nil {
		return fmt.Errorf("delete revision %s: %w", revisionID, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", revisionID, database.ErrRevisionNotFound)
	}

	return nil
}

// MarkRevisionDeleted sets the deleted flag of a single revision.
func (t *tx) MarkRevisionDeleted(ctx context.Context, revisionID types.ID, deleted bool) error {
	if err := revisionID.Validate(); err != nil {
		return fmt.Errorf("%s: %w", revisionID, database.ErrRevisionNotFound)
	}

	result, err := t.client.collection(ColRevisions).UpdateOne(ctx, bson.M{
		"_id": revisionID,
	}, bson.M{
		"$set": bson.M{"is_deleted": deleted},
	})
	if err != nil {
		return fmt.Errorf("update revision %s: %w", revisionID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%s: %w", revisionID, database.ErrRevisionNotFound)
	}

	return nil
}

// NextTaskID increments the task id sequence and returns the new value.
func (t *tx) NextTaskID(ctx context.Context) (int64, error) {
	result := t.client.collection(ColCounters).FindOneAndUpdate(ctx, bson.M{
		"_id": counterTaskID,
	}, bson.M{
		"$inc": bson.M{"value": int64(1)},
	}, options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After))

	var counter struct {
		Value int64 `bson:"value"`
	}
	if err := result.Decode(&counter); err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", counterTaskID, err)
	}

	return counter.Value, nil
}

// FindPointerInfo returns the current pointer of the task.
func (t *tx) FindPointerInfo(ctx context.Context, taskID int64) (*database.PointerInfo, error) {
	result := t.client.collection(ColPointers).FindOne(ctx, bson.M{
		"_id": taskID,
	})

	info := &database.PointerInfo{}
	if err := result.Decode(info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("task %d: %w", taskID, database.ErrPointerNotFound)
		}
		return nil, fmt.Errorf("find pointer of task %d: %w", taskID, err)
	}

	return info, nil
}

// CreatePointerInfo creates the current pointer of a task.
func (t *tx) CreatePointerInfo(ctx context.Context, info *database.PointerInfo) error {
	// NOTE: a failed write aborts the whole transaction, so conflicts are
	// checked before writing.
	count, err := t.client.collection(ColPointers).CountDocuments(ctx, bson.M{
		"_id": info.TaskID,
	})
	if err != nil {
		return fmt.Errorf("find pointer of task %d: %w", info.TaskID, err)
	}
	if count > 0 {
		return fmt.Errorf("task %d: %w", info.TaskID, database.ErrPointerAlreadyExists)
	}
	if err := t.checkPointerFree(ctx, info); err != nil {
		return err
	}

	if _, err := t.client.collection(ColPointers).InsertOne(ctx, info); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("task %d: %w", info.TaskID, database.ErrPointerAlreadyExists)
		}
		return fmt.Errorf("insert pointer of task %d: %w", info.TaskID, err)
	}

	return nil
}

// UpdatePointerInfo replaces the current pointer of info.TaskID.
func (t *tx) UpdatePointerInfo(ctx context.Context, info *database.PointerInfo) error {
	if err := t.checkPointerFree(ctx, info); err != nil {
		return err
	}

	result, err := t.client.collection(ColPointers).ReplaceOne(ctx, bson.M{
		"_id": info.TaskID,
	}, info)
	if err != nil {
		return fmt.Errorf("replace pointer of task %d: %w", info.TaskID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("task %d: %w", info.TaskID, database.ErrPointerNotFound)
	}

	return nil
}

// DeletePointerInfo removes the current pointer of the task.
func (t *tx) DeletePointerInfo(ctx context.Context, taskID int64) error {
	result, err := t.client.collection(ColPointers).DeleteOne(ctx, bson.M{
		"_id": taskID,
	})
	if err != nil {
		return fmt.Errorf("delete pointer of task %d: %w", taskID, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("task %d: %w", taskID, database.ErrPointerNotFound)
	}

	return nil
}

// FindUserInfoByID returns the user of the given id.
func (t *tx) FindUserInfoByID(ctx context.Context, id int64) (*database.UserInfo, error) {
	result := t.client.collection(ColUsers).FindOne(ctx, bson.M{
		"_id": id,
	})

	info := &database.UserInfo{}
	if err := result.Decode(info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%d: %w", id, database.ErrUserNotFound)
		}
		return nil, fmt.Errorf("find user by id %d: %w", id, err)
	}

	return info, nil
}

// FindUserInfoByName returns the user of the given username.
func (t *tx) FindUserInfoByName(ctx context.Context, username string) (*database.UserInfo, error) {
	result := t.client.collection(ColUsers).FindOne(ctx, bson.M{
		"username": username,
	})

	info := &database.UserInfo{}
	if err := result.Decode(info); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", username, database.ErrUserNotFound)
		}
		return nil, fmt.Errorf("find user by username %s: %w", username, err)
	}

	return info, nil
}

// FindTaskSummaries returns the page of live tasks matching the filter. The
// pointers are joined with their revisions and users in one aggregation.
func (t *tx) FindTaskSummaries(
	ctx context.Context,
	filter *types.TaskFilter,
	paging types.Paging,
) ([]*database.TaskSummaryInfo, int64, error) {
	cursor, err := t.client.collection(ColPointers).Aggregate(ctx, taskSummaryPipeline(filter, paging))
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate task summaries: %w", err)
	}

	var results []struct {
		Total []struct {
			Count int64 `bson:"count"`
		} `bson:"total"`
		Items []*database.TaskSummaryInfo `bson:"items"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, 0, fmt.Errorf("fetch task summaries: %w", err)
	}
	if len(results) == 0 {
		return nil, 0, nil
	}

	var total int64
	if len(results[0].Total) > 0 {
		total = results[0].Total[0].Count
	}
	return results[0].Items, total, nil
}

// checkPointerFree returns ErrPointerAlreadyExists if another task points at
// info.RevisionID.
func (t *tx) checkPointerFree(ctx context.Context, info *database.PointerInfo) error {
	count, err := t.client.collection(ColPointers).CountDocuments(ctx, bson.M{
		"revision_id": info.RevisionID,
		"_id":         bson.M{"$ne": info.TaskID},
	})
	if err != nil {
		return fmt.Errorf("find pointer of revision %s: %w", info.RevisionID, err)
	}
	if count > 0 {
		return fmt.Errorf("revision %s: %w", info.RevisionID, database.ErrPointerAlreadyExists)
	}
	return nil
}

// taskSummaryPipeline builds the aggregation over the pointers collection
// used by FindTaskSummaries.
func taskSummaryPipeline(filter *types.TaskFilter, paging types.Paging) mongo.Pipeline {
	pointerMatch := bson.D{}
	revisionMatch := bson.D{
		{Key: "revision.is_deleted", Value: false},
		{Key: "$expr", Value: bson.M{"$eq": bson.A{"$revision.task_id", "$_id"}}},
	}
	if filter != nil {
		if filter.CreatedBy != nil {
			pointerMatch = append(pointerMatch, bson.E{Key: "created_by", Value: *filter.CreatedBy})
		}
		if filter.UpdatedBy != nil {
			pointerMatch = append(pointerMatch, bson.E{Key: "updated_by", Value: *filter.UpdatedBy})
		}
		if filter.DueDate != nil {
			revisionMatch = append(revisionMatch, bson.E{Key: "revision.due_date", Value: filter.DueDate.String()})
		}
		if filter.Status != nil {
			revisionMatch = append(revisionMatch, bson.E{Key: "revision.status", Value: string(*filter.Status)})
		}
	}

	items := bson.A{bson.D{{Key: "$skip", Value: int64(paging.Offset())}}}
	if paging.PageSize > 0 {
		items = append(items, bson.D{{Key: "$limit", Value: int64(paging.PageSize)}})
	}
	items = append(items,
		lookupUser("created_by", "creator"),
		lookupUser("updated_by", "updater"),
		bson.D{{Key: "$project", Value: bson.D{
			{Key: "title", Value: "$revision.title"},
			{Key: "description", Value: "$revision.description"},
			{Key: "due_date", Value: "$revision.due_date"},
			{Key: "status", Value: "$revision.status"},
			{Key: "created_by", Value: 1},
			{Key: "created_by_username", Value: bson.M{"$arrayElemAt": bson.A{"$creator.username", 0}}},
			{Key: "updated_by", Value: 1},
			{Key: "updated_by_username", Value: bson.M{"$arrayElemAt": bson.A{"$updater.username", 0}}},
		}}},
	)

	return mongo.Pipeline{
		{{Key: "$match", Value: pointerMatch}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: ColRevisions},
			{Key: "localField", Value: "revision_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "revision"},
		}}},
		{{Key: "$unwind", Value: "$revision"}},
		{{Key: "$match", Value: revisionMatch}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$facet", Value: bson.D{
			{Key: "total", Value: bson.A{bson.D{{Key: "$count", Value: "count"}}}},
			{Key: "items", Value: items},
		}}},
	}
}

func lookupUser(localField, as string) bson.D {
	return bson.D{{Key: "$lookup", Value: bson.D{
		{Key: "from", Value: ColUsers},
		{Key: "localField", Value: localField},
		{Key: "foreignField", Value: "_id"},
		{Key: "as", Value: as},
	}}}
}

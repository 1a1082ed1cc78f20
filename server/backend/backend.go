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

// Package backend assembles the resources the task operations run on: the
// database and the metrics.
package backend

import (
	"context"
	"errors"
	"fmt"

	"github.com/revtask/revtask/server/backend/database"
	memdb "github.com/revtask/revtask/server/backend/database/memory"
	"github.com/revtask/revtask/server/backend/database/mongo"
	"github.com/revtask/revtask/server/backend/database/rdb"
	"github.com/revtask/revtask/server/logging"
	"github.com/revtask/revtask/server/profiling/prometheus"
)

// ErrMissingDatabaseConfig is returned when the chosen database has no
// configuration.
var ErrMissingDatabaseConfig = errors.New("missing database config")

// Backend manages the database and the metrics of the task store.
type Backend struct {
	Config *Config

	// Metrics is used to expose metrics.
	Metrics *prometheus.Metrics
	// DB is the database instance.
	DB database.Database
}

// New creates a new instance of Backend. rdbConf and mongoConf are only
// read when Config.Database selects them.
func New(
	conf *Config,
	rdbConf *rdb.Config,
	mongoConf *mongo.Config,
	metrics *prometheus.Metrics,
) (*Backend, error) {
	var db database.Database
	var dbInfo string

	switch conf.Database {
	case DatabaseRDB:
		if rdbConf == nil {
			return nil, fmt.Errorf("%s: %w", conf.Database, ErrMissingDatabaseConfig)
		}
		rdbDB, err := rdb.Dial(context.Background(), rdbConf)
		if err != nil {
			return nil, err
		}
		db = rdbDB
		dbInfo = rdbConf.Driver
	case DatabaseMongo:
		if mongoConf == nil {
			return nil, fmt.Errorf("%s: %w", conf.Database, ErrMissingDatabaseConfig)
		}
		client, err := mongo.Dial(mongoConf)
		if err != nil {
			return nil, err
		}
		db = client
		dbInfo = mongoConf.ConnectionURI
	default:
		memDB, err := memdb.New()
		if err != nil {
			return nil, err
		}
		db = memDB
		dbInfo = DatabaseMemory
	}

	logging.DefaultLogger().Infof("backend created: db: %s", dbInfo)

	return &Backend{
		Config:  conf,
		Metrics: metrics,
		DB:      db,
	}, nil
}

// Shutdown closes all resources of this instance.
func (b *Backend) Shutdown() error {
	if err := b.DB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	logging.DefaultLogger().Infof("backend stopped")
	return nil
}

// DatabaseName returns the kind of the database used to label metrics.
func (b *Backend) DatabaseName() string {
	if b.Config.Database == "" {
		return DatabaseMemory
	}
	return b.Config.Database
}

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

package backend

import (
	"errors"
	"fmt"
)

const (
	// DatabaseMemory keeps every task in process memory.
	DatabaseMemory = "memory"

	// DatabaseRDB stores tasks in SQLite or PostgreSQL.
	DatabaseRDB = "rdb"

	// DatabaseMongo stores tasks in MongoDB.
	DatabaseMongo = "mongo"
)

var (
	// ErrInvalidDatabase is returned when the database kind is unknown.
	ErrInvalidDatabase = errors.New("database should be one of memory, rdb, mongo")

	// ErrInvalidPageSize is returned when the page sizes are out of range.
	ErrInvalidPageSize = errors.New("page size should be positive and not exceed the max page size")
)

// Config is the configuration for creating a Backend instance.
type Config struct {
	// Database is the kind of the database: memory, rdb or mongo.
	Database string `yaml:"Database"`

	// DefaultPageSize is the page size used when a listing does not give one.
	DefaultPageSize int `yaml:"DefaultPageSize"`

	// MaxPageSize caps the page size of a listing.
	MaxPageSize int `yaml:"MaxPageSize"`
}

// Validate validates this config.
func (c *Config) Validate() error {
	switch c.Database {
	case DatabaseMemory, DatabaseRDB, DatabaseMongo:
	default:
		return fmt.Errorf(`invalid argument "%s" for "--database" flag: %w`, c.Database, ErrInvalidDatabase)
	}

	if c.DefaultPageSize <= 0 || c.MaxPageSize <= 0 || c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf(
			`invalid argument "%d/%d" for "--default-page-size/--max-page-size" flags: %w`,
			c.DefaultPageSize,
			c.MaxPageSize,
			ErrInvalidPageSize,
		)
	}

	return nil
}

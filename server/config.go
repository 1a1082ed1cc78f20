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

package server

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/revtask/revtask/server/backend"
	"github.com/revtask/revtask/server/backend/database/mongo"
	"github.com/revtask/revtask/server/backend/database/rdb"
	"github.com/revtask/revtask/server/profiling"
)

// Below are the values of the default values of revtask config.
const (
	DefaultProfilingPort = 8081

	DefaultDatabase        = backend.DatabaseMemory
	DefaultPageSize        = 50
	DefaultMaxPageSize     = 100
	DefaultRDBDriver       = rdb.DriverSQLite
	DefaultRDBDataSource   = "file:revtask.db"
	DefaultMongoDatabase   = "revtask"
	DefaultMongoConnection = "mongodb://localhost:27017"

	DefaultMongoConnectionTimeout            = 5 * time.Second
	DefaultMongoPingTimeout                  = 5 * time.Second
	DefaultMongoMonitoringSlowQueryThreshold = 100 * time.Millisecond
)

// Config is the configuration for creating a Revtask instance.
type Config struct {
	Profiling *profiling.Config `yaml:"Profiling"`
	Backend   *backend.Config   `yaml:"Backend"`
	RDB       *rdb.Config       `yaml:"RDB"`
	Mongo     *mongo.Config     `yaml:"Mongo"`
}

// NewConfig returns a Config struct that contains reasonable defaults
// for most of the configurations.
func NewConfig() *Config {
	return &Config{
		Backend: &backend.Config{
			Database:        DefaultDatabase,
			DefaultPageSize: DefaultPageSize,
			MaxPageSize:     DefaultMaxPageSize,
		},
	}
}

// NewConfigFromFile returns a Config struct for the given conf file.
func NewConfigFromFile(path string) (*Config, error) {
	conf := &Config{}
	bytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(bytes, conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	conf.ensureDefaultValue()
	return conf, nil
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if c.Profiling != nil {
		if err := c.Profiling.Validate(); err != nil {
			return err
		}
	}

	if err := c.Backend.Validate(); err != nil {
		return err
	}

	switch c.Backend.Database {
	case backend.DatabaseRDB:
		if c.RDB == nil {
			return fmt.Errorf("RDB: %w", backend.ErrMissingDatabaseConfig)
		}
		if err := c.RDB.Validate(); err != nil {
			return err
		}
	case backend.DatabaseMongo:
		if c.Mongo == nil {
			return fmt.Errorf("Mongo: %w", backend.ErrMissingDatabaseConfig)
		}
		if err := c.Mongo.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// ensureDefaultValue sets the value of the option to which the default value
// should be applied when the user does not input it.
func (c *Config) ensureDefaultValue() {
	if c.Backend == nil {
		c.Backend = &backend.Config{}
	}
	if c.Backend.Database == "" {
		c.Backend.Database = DefaultDatabase
	}
	if c.Backend.DefaultPageSize == 0 {
		c.Backend.DefaultPageSize = DefaultPageSize
	}
	if c.Backend.MaxPageSize == 0 {
		c.Backend.MaxPageSize = DefaultMaxPageSize
	}

	if c.Profiling != nil && c.Profiling.Port == 0 {
		c.Profiling.Port = DefaultProfilingPort
	}

	if c.RDB != nil {
		if c.RDB.Driver == "" {
			c.RDB.Driver = DefaultRDBDriver
		}
		if c.RDB.DataSource == "" && c.RDB.Driver == rdb.DriverSQLite {
			c.RDB.DataSource = DefaultRDBDataSource
		}
	}

	if c.Mongo != nil {
		if c.Mongo.ConnectionURI == "" {
			c.Mongo.ConnectionURI = DefaultMongoConnection
		}

		if c.Mongo.ConnectionTimeout == "" {
			c.Mongo.ConnectionTimeout = DefaultMongoConnectionTimeout.String()
		}

		if c.Mongo.Database == "" {
			c.Mongo.Database = DefaultMongoDatabase
		}

		if c.Mongo.PingTimeout == "" {
			c.Mongo.PingTimeout = DefaultMongoPingTimeout.String()
		}

		if c.Mongo.MonitoringEnabled {
			if c.Mongo.MonitoringSlowQueryThreshold == "" {
				c.Mongo.MonitoringSlowQueryThreshold = DefaultMongoMonitoringSlowQueryThreshold.String()
			}
		}
	}
}

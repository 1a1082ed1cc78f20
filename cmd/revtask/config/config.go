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


// Package config holds the global settings of the CLI and turns them into
// the configuration of the task store. Settings are read through viper so
// that REVTASK_* environment variables can stand in for the flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/revtask/revtask/server"
	"github.com/revtask/revtask/server/backend"
	"github.com/revtask/revtask/server/backend/database/mongo"
	"github.com/revtask/revtask/server/backend/database/rdb"
	"github.com/revtask/revtask/server/logging"
)

// Keys of the global settings. They match the names of the persistent flags.
const (
	KeyConfig        = "config"
	KeyLogLevel      = "log-level"
	KeyDatabase      = "database"
	KeyRDBDriver     = "rdb-driver"
	KeyRDBDataSource = "rdb-data-source"
	KeyMongoURI      = "mongo-connection-uri"
	KeyMongoDatabase = "mongo-database"
	KeyOutput        = "output"
)

// EnvPrefix is the prefix of the environment variables of the settings,
// e.g. REVTASK_RDB_DATA_SOURCE.
const EnvPrefix = "REVTASK"

var (
	// ErrInvalidOutput is returned when the output format is unknown.
	ErrInvalidOutput = errors.New("--output must be 'yaml' or 'json'")
)

// SetupEnv makes viper read the settings from REVTASK_* environment
// variables.
func SetupEnv() {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// Preload prepares the logger and checks the global settings before a
// command runs.
func Preload(_ *cobra.Command, _ []string) error {
	if err := logging.SetLogLevel(viper.GetString(KeyLogLevel)); err != nil {
		return err
	}

	return ValidateOutput()
}

// ValidateOutput validates the output format.
func ValidateOutput() error {
	output := viper.GetString(KeyOutput)
	if output != "" && output != "yaml" && output != "json" {
		return ErrInvalidOutput
	}
	return nil
}

// Load returns the configuration of the task store from the config file if
// one is given, from the settings otherwise.
func Load() (*server.Config, error) {
	if path := viper.GetString(KeyConfig); path != "" {
		return server.NewConfigFromFile(path)
	}

	database := viper.GetString(KeyDatabase)
	conf := server.NewConfig()
	conf.Backend.Database = database

	switch database {
	case backend.DatabaseRDB:
		conf.RDB = &rdb.Config{
			Driver:     viper.GetString(KeyRDBDriver),
			DataSource: viper.GetString(KeyRDBDataSource),
		}
	case backend.DatabaseMongo:
		conf.Mongo = &mongo.Config{
			ConnectionURI:     viper.GetString(KeyMongoURI),
			ConnectionTimeout: server.DefaultMongoConnectionTimeout.String(),
			Database:          viper.GetString(KeyMongoDatabase),
			PingTimeout:       server.DefaultMongoPingTimeout.String(),
		}
	}

	return conf, nil
}

// Open opens the task store the settings point to. The caller must shut it
// down.
func Open() (*server.Revtask, error) {
	conf, err := Load()
	if err != nil {
		return nil, err
	}

	r, err := server.New(conf)
	if err != nil {
		return nil, fmt.Errorf("open task store: %w", err)
	}
	return r, nil
}

// Close shuts down the task store and logs the failure, if any.
func Close(r *server.Revtask) {
	if err := r.Shutdown(true); err != nil {
		logging.DefaultLogger().Warnf("shutdown task store: %v", err)
	}
}

// Print writes v to the command output in the format of --output. It
// reports false when no structured format is selected so the caller can
// print its own text form.
func Print(cmd *cobra.Command, v any) (bool, error) {
	switch viper.GetString(KeyOutput) {
	case "yaml":
		marshalled, err := yaml.Marshal(v)
		if err != nil {
			return true, fmt.Errorf("marshal YAML: %w", err)
		}
		cmd.Print(string(marshalled))
		return true, nil
	case "json":
		marshalled, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("marshal JSON: %w", err)
		}
		cmd.Println(string(marshalled))
		return true, nil
	}

	return false, nil
}

// AddFlags registers the global flags on the root command and binds them to
// their settings.
func AddFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringP(KeyConfig, "c", "", "Config path")
	flags.StringP(KeyLogLevel, "l", "warn", "Log level: debug, info, warn, error, panic, fatal")
	flags.String(KeyDatabase, backend.DatabaseRDB, "Database to store tasks: memory, rdb or mongo")
	flags.String(KeyRDBDriver, server.DefaultRDBDriver, "SQL dialect: sqlite or postgres")
	flags.String(KeyRDBDataSource, server.DefaultRDBDataSource, "DSN of the rdb database")
	flags.String(KeyMongoURI, server.DefaultMongoConnection, "MongoDB's connection URI")
	flags.String(KeyMongoDatabase, server.DefaultMongoDatabase, "Revtask's database name in MongoDB")
	flags.StringP(KeyOutput, "o", "", "One of 'yaml' or 'json'.")

	for _, key := range []string{
		KeyConfig,
		KeyLogLevel,
		KeyDatabase,
		KeyRDBDriver,
		KeyRDBDataSource,
		KeyMongoURI,
		KeyMongoDatabase,
		KeyOutput,
	} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

func init() {
	SetupEnv()
}

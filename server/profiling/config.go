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


// Package profiling serves the metrics registry of the store, and the
// runtime pprof endpoints when asked, next to a long-running command such
// as stress.
package profiling

import (
	"errors"
	"fmt"
)

const (
	minPort = 1
	maxPort = 65535
)

// ErrInvalidProfilingPort is returned when the port cannot be bound.
var ErrInvalidProfilingPort = errors.New("invalid port number for profiling server")

// Config is the Profiling section of the server config.
type Config struct {
	Port int `yaml:"Port"`

	// EnablePprof adds the /debug/pprof handlers next to /metrics.
	EnablePprof bool `yaml:"EnablePprof"`
}

// Addr returns the address the server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate checks that the port can be bound.
func (c *Config) Validate() error {
	if c.Port < minPort || maxPort < c.Port {
		return fmt.Errorf("port %d not in [%d, %d]: %w", c.Port, minPort, maxPort, ErrInvalidProfilingPort)
	}
	return nil
}

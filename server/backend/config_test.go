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

package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revtask/revtask/server/backend"
)

func newValidBackendConf() backend.Config {
	return backend.Config{
		Database:        backend.DatabaseMemory,
		DefaultPageSize: 50,
		MaxPageSize:     100,
	}
}

func TestConfig(t *testing.T) {
	t.Run("validate test", func(t *testing.T) {
		validConf := newValidBackendConf()
		assert.NoError(t, validConf.Validate())

		conf1 := validConf
		conf1.Database = "redis"
		assert.ErrorIs(t, conf1.Validate(), backend.ErrInvalidDatabase)

		conf2 := validConf
		conf2.DefaultPageSize = 0
		assert.ErrorIs(t, conf2.Validate(), backend.ErrInvalidPageSize)

		conf3 := validConf
		conf3.DefaultPageSize = 200
		assert.ErrorIs(t, conf3.Validate(), backend.ErrInvalidPageSize)
	})
}

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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueryMonitor(t *testing.T) {
	t.Run("disabled monitor test", func(t *testing.T) {
		monitor := NewQueryMonitor(&MonitorConfig{Enabled: false})
		assert.Nil(t, monitor.CreateCommandMonitor())
	})

	t.Run("enabled monitor test", func(t *testing.T) {
		monitor := NewQueryMonitor(&MonitorConfig{Enabled: true, SlowQueryThreshold: time.Second})
		cm := monitor.CreateCommandMonitor()
		assert.NotNil(t, cm)
		assert.NotNil(t, cm.Started)
		assert.NotNil(t, cm.Succeeded)
		assert.NotNil(t, cm.Failed)
	})

	t.Run("expected failure test", func(t *testing.T) {
		assert.False(t, isExpectedFailure(nil))
		assert.True(t, isExpectedFailure(errors.New("(WriteConflict) Write conflict during plan execution")))
		assert.True(t, isExpectedFailure(errors.New("E11000 duplicate key error collection: revtask.users")))
		assert.False(t, isExpectedFailure(errors.New("E11000 duplicate key error collection: revtask.pointers")))
		assert.False(t, isExpectedFailure(errors.New("connection refused")))
	})
}

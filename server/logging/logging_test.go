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

package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() {
		assert.NoError(t, SetLogLevel("info"))
	})

	logger := New("tasks")
	assert.NoError(t, SetLogLevel("WARN"))
	assert.False(t, Enabled(zapcore.InfoLevel))
	assert.True(t, Enabled(zapcore.WarnLevel))
	assert.False(t, logger.Desugar().Core().Enabled(zapcore.InfoLevel))

	assert.NoError(t, SetLogLevel("debug"))
	assert.True(t, logger.Desugar().Core().Enabled(zapcore.DebugLevel))

	assert.Error(t, SetLogLevel("verbose"))
	assert.True(t, Enabled(zapcore.DebugLevel))
}

func TestContext(t *testing.T) {
	assert.Equal(t, DefaultLogger(), From(context.Background()))

	logger := New("tasks", TaskIDField(3))
	ctx := With(context.Background(), logger)
	assert.Equal(t, logger, From(ctx))
}

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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/revtask/revtask/pkg/errors"
)

func TestToOpLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected OpLogLevel
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: OpLogDebug,
		},
		{
			name:     "context canceled",
			err:      context.Canceled,
			expected: OpLogDebug,
		},
		{
			name:     "deadline exceeded",
			err:      fmt.Errorf("find pointer: %w", context.DeadlineExceeded),
			expected: OpLogWarn,
		},
		{
			name:     "invalid argument",
			err:      pkgerrors.InvalidArgument("invalid"),
			expected: OpLogInfo,
		},
		{
			name:     "not found",
			err:      fmt.Errorf("get 3: %w", pkgerrors.NotFound("task not found")),
			expected: OpLogInfo,
		},
		{
			name:     "nothing to undo",
			err:      pkgerrors.FailedPrecond("task was created and immediately undone"),
			expected: OpLogInfo,
		},
		{
			name:     "internal error",
			err:      pkgerrors.New(pkgerrors.ErrCodeInternal, "internal"),
			expected: OpLogError,
		},
		{
			name:     "storage error",
			err:      errors.New("database is locked"),
			expected: OpLogError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, toOpLogLevel(tt.err))
		})
	}
}

func TestOpLogLevelString(t *testing.T) {
	assert.Equal(t, "debug", OpLogDebug.String())
	assert.Equal(t, "info", OpLogInfo.String())
	assert.Equal(t, "warn", OpLogWarn.String())
	assert.Equal(t, "error", OpLogError.String())
}

func TestContextLogger(t *testing.T) {
	logger := New("test", NewField("op", "create"))
	ctx := With(context.Background(), logger)
	assert.Same(t, logger, From(ctx))
	assert.Same(t, DefaultLogger(), From(context.Background()))
}

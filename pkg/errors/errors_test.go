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

package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode_String(t *testing.T) {
	tests := []struct {
		name string
		code StatusCode
		want string
	}{
		{"InvalidArgument", ErrCodeInvalidArgument, "invalid_argument"},
		{"NotFound", ErrCodeNotFound, "not_found"},
		{"AlreadyExists", ErrCodeAlreadyExists, "already_exists"},
		{"FailedPrecondition", ErrCodeFailedPrecondition, "failed_precondition"},
		{"Internal", ErrCodeInternal, "internal"},
		{"Unavailable", ErrCodeUnavailable, "unavailable"},
		{"Unknown", StatusCode(999), "code_999"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.code.String())
		})
	}
}

func TestStatusCode_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, ErrCodeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusUnprocessableEntity, ErrCodeInvalidArgument.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, ErrCodeFailedPrecondition.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, StatusCode(0).HTTPStatus())
}

func TestStatusOf(t *testing.T) {
	t.Run("StatusError", func(t *testing.T) {
		assert.Equal(t, ErrCodeNotFound, StatusOf(NotFound("test error")))
	})

	t.Run("WrappedStatusError", func(t *testing.T) {
		wrappedErr := fmt.Errorf("wrapped: %w", FailedPrecond("base error"))
		assert.Equal(t, ErrCodeFailedPrecondition, StatusOf(wrappedErr))
	})

	t.Run("StandardError", func(t *testing.T) {
		assert.Equal(t, StatusCode(0), StatusOf(errors.New("standard error")))
	})

	t.Run("NilError", func(t *testing.T) {
		assert.Equal(t, StatusCode(0), StatusOf(nil))
	})
}

func TestSentinelComparison(t *testing.T) {
	errTaskNotFound := NotFound("task not found").WithCode("ErrTaskNotFound")
	wrapped := fmt.Errorf("get task 3: %w", errTaskNotFound)

	assert.ErrorIs(t, wrapped, errTaskNotFound)
	assert.NotErrorIs(t, wrapped, NotFound("task not found").WithCode("ErrTaskNotFound"))
	assert.Equal(t, "ErrTaskNotFound", ErrorInfoOf(wrapped).Code)
}

func TestErrorInfoOf(t *testing.T) {
	assert.Equal(t, ErrorInfo{}, ErrorInfoOf(nil))

	info := ErrorInfoOf(errors.New("database is locked"))
	assert.Equal(t, StatusCode(0), info.Status)
	assert.Empty(t, info.Code)
	assert.Equal(t, "database is locked", info.Message)

	errNothingToUndo := FailedPrecond("nothing to undo").WithCode("ErrNothingToUndo")
	info = ErrorInfoOf(fmt.Errorf("undo 7: %w", errNothingToUndo))
	assert.Equal(t, ErrCodeFailedPrecondition, info.Status)
	assert.Equal(t, "ErrNothingToUndo", info.Code)
	assert.Equal(t, "undo 7: nothing to undo", info.Message)
	assert.True(t, IsStatus(errNothingToUndo, ErrCodeFailedPrecondition))
	assert.False(t, IsStatus(New(ErrCodeUnavailable, "down"), ErrCodeInternal))
}

func TestMetadata(t *testing.T) {
	base := NotFound("task not found")

	err := WithMetadata(base, map[string]string{"task_id": "1"})
	err = WithMetadata(err, map[string]string{"op": "undo"})

	assert.ErrorIs(t, err, base)
	assert.Equal(t, ErrCodeNotFound, StatusOf(err))
	assert.Equal(t, map[string]string{"task_id": "1", "op": "undo"}, Metadata(err))

	assert.Nil(t, WithMetadata(nil, map[string]string{"a": "b"}))
	assert.Nil(t, Metadata(errors.New("plain")))
}

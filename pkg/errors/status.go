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

// Package errors provides status-coded errors shared by the task store and
// whatever transport is put in front of it.
package errors

import (
	"fmt"
	"net/http"
)

// StatusCode represents the error codes used throughout the task store.
// The numeric values follow the gRPC/Connect code table so that a transport
// layer can forward them without a lookup.
type StatusCode int

const (
	// ErrCodeInvalidArgument indicates that the caller gave field values that
	// are problematic regardless of the state of the store.
	ErrCodeInvalidArgument StatusCode = 3

	// ErrCodeNotFound indicates that the requested task or user does not exist.
	ErrCodeNotFound StatusCode = 5

	// ErrCodeAlreadyExists indicates that the entity the caller attempted to
	// create already exists.
	ErrCodeAlreadyExists StatusCode = 6

	// ErrCodeFailedPrecondition indicates that the operation was rejected
	// because the task is not in a state required for it, e.g. there is
	// nothing left to undo.
	ErrCodeFailedPrecondition StatusCode = 9

	// ErrCodeInternal indicates that some invariant expected by the store
	// has been broken.
	ErrCodeInternal StatusCode = 13

	// ErrCodeUnavailable indicates that the storage backend is unavailable.
	ErrCodeUnavailable StatusCode = 14
)

// String returns the string representation of the error code.
func (c StatusCode) String() string {
	switch c {
	case ErrCodeInvalidArgument:
		return "invalid_argument"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeAlreadyExists:
		return "already_exists"
	case ErrCodeFailedPrecondition:
		return "failed_precondition"
	case ErrCodeInternal:
		return "internal"
	case ErrCodeUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("code_%d", int(c))
	}
}

// HTTPStatus returns the HTTP status an HTTP binding should answer with.
// Unknown codes map to 500.
func (c StatusCode) HTTPStatus() int {
	switch c {
	case ErrCodeInvalidArgument:
		return http.StatusUnprocessableEntity
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeAlreadyExists:
		return http.StatusConflict
	case ErrCodeFailedPrecondition:
		return http.StatusBadRequest
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

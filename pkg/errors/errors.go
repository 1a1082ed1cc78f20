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
)

// StatusError is an error tagged with a StatusCode. Sentinels also carry a
// code naming them, e.g. "ErrTaskNotFound", which callers can match on
// without importing the package that declares the sentinel.
type StatusError interface {
	error
	Status() StatusCode
	Code() string
	WithCode(code string) StatusError
}

// statusError is held by pointer, so two sentinels with the same message
// and code are still told apart by errors.Is.
type statusError struct {
	message string
	status  StatusCode
	code    string
}

func (e *statusError) Error() string {
	return e.message
}

func (e *statusError) Status() StatusCode {
	return e.status
}

func (e *statusError) Code() string {
	return e.code
}

// WithCode returns a copy of the error named by code.
func (e *statusError) WithCode(code string) StatusError {
	return &statusError{message: e.message, status: e.status, code: code}
}

// New returns an error with the given status.
func New(status StatusCode, message string) StatusError {
	return &statusError{message: message, status: status}
}

// NotFound is used for tasks, revisions and users that do not exist.
func NotFound(message string) StatusError {
	return New(ErrCodeNotFound, message)
}

// InvalidArgument is used for field values rejected before any lookup.
func InvalidArgument(message string) StatusError {
	return New(ErrCodeInvalidArgument, message)
}

// AlreadyExists is used for duplicate users and pointers.
func AlreadyExists(message string) StatusError {
	return New(ErrCodeAlreadyExists, message)
}

// FailedPrecond is used when the task exists but its history does not allow
// the operation, e.g. an undo with a single revision left.
func FailedPrecond(message string) StatusError {
	return New(ErrCodeFailedPrecondition, message)
}

// StatusOf returns the status of the first StatusError in the chain of err,
// or 0 if there is none.
func StatusOf(err error) StatusCode {
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status()
	}
	return 0
}

// IsStatus reports whether err carries the given status.
func IsStatus(err error, status StatusCode) bool {
	return StatusOf(err) == status
}

// ErrorInfo is the flattened view of an error used for metric labels.
type ErrorInfo struct {
	Status  StatusCode
	Code    string
	Message string
}

// ErrorInfoOf flattens err. The zero ErrorInfo is returned for nil.
func ErrorInfoOf(err error) ErrorInfo {
	if err == nil {
		return ErrorInfo{}
	}

	info := ErrorInfo{Message: err.Error()}
	var statusErr StatusError
	if errors.As(err, &statusErr) {
		info.Status = statusErr.Status()
		info.Code = statusErr.Code()
	}
	return info
}

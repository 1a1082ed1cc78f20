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
	"time"

	"go.uber.org/zap"

	pkgerrors "github.com/revtask/revtask/pkg/errors"
)

// OpLogLevel represents the severity level for logging a task operation.
type OpLogLevel int

const (
	OpLogDebug OpLogLevel = iota
	OpLogInfo
	OpLogWarn
	OpLogError
)

// String returns the string representation of OpLogLevel
func (l OpLogLevel) String() string {
	switch l {
	case OpLogDebug:
		return "debug"
	case OpLogInfo:
		return "info"
	case OpLogError:
		return "error"
	}
	return "warn"
}

// toOpLogLevel determines the log level of an operation result from the
// status of its error.
func toOpLogLevel(err error) OpLogLevel {
	if err == nil {
		return OpLogDebug
	}

	if errors.Is(err, context.Canceled) {
		return OpLogDebug
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return OpLogWarn
	}

	switch pkgerrors.StatusOf(err) {
	case pkgerrors.ErrCodeInvalidArgument, pkgerrors.ErrCodeNotFound, pkgerrors.ErrCodeAlreadyExists:
		return OpLogInfo
	case pkgerrors.ErrCodeFailedPrecondition:
		return OpLogInfo
	case pkgerrors.ErrCodeInternal, pkgerrors.ErrCodeUnavailable:
		return OpLogError
	}

	// errors without a status come from storage
	return OpLogError
}

// LogOpError logs a failed operation with the level matching its error.
func LogOpError(logger *zap.SugaredLogger, op string, duration time.Duration, err error) {
	const template = "OP : %q %s => %q"
	switch toOpLogLevel(err) {
	case OpLogDebug:
		logger.Debugf(template, op, duration, err)
	case OpLogInfo:
		logger.Infof(template, op, duration, err)
	case OpLogWarn:
		logger.Warnf(template, op, duration, err)
	default:
		logger.Errorf(template, op, duration, err)
	}
}

// LogOpSuccess logs a successful operation at debug level.
func LogOpSuccess(logger *zap.SugaredLogger, op string, duration time.Duration) {
	logger.Debugf("OP : %q %s", op, duration)
}

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


// Package logging builds the zap loggers of the task store. Each task
// operation runs with its own named logger, and all output goes to stderr
// so command results on stdout stay parseable.
package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a wrapper of zap.Logger.
type Logger = *zap.SugaredLogger

// Field is a wrapper of zap.Field.
type Field = zap.Field

var levels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
	"panic": zapcore.PanicLevel,
	"fatal": zapcore.FatalLevel,
}

var (
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	defaultLogger Logger
	defaultOnce   sync.Once
)

// SetLogLevel sets the level shared by every logger, including the ones
// already built.
func SetLogLevel(name string) error {
	l, ok := levels[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("invalid log level: %s", name)
	}
	level.SetLevel(l)
	return nil
}

// Enabled reports whether entries at l are written.
func Enabled(l zapcore.Level) bool {
	return level.Enabled(l)
}

// New returns a logger named after the component, e.g. "tasks" or "mongo".
func New(name string, fields ...Field) Logger {
	return newLogger(name).With(fields...).Sugar()
}

// NewField creates a string field.
func NewField(key string, value string) Field {
	return zap.String(key, value)
}

// TaskIDField tags entries with the task an operation works on.
func TaskIDField(taskID int64) Field {
	return zap.Int64("task_id", taskID)
}

// DefaultLogger returns the logger used outside task operations.
func DefaultLogger() Logger {
	defaultOnce.Do(func() {
		defaultLogger = newLogger("revtask").Sugar()
	})
	return defaultLogger
}

func newLogger(name string) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		NameKey:        "N",
		CallerKey:      "C",
		MessageKey:     "M",
		StacktraceKey:  "S",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	})

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level)
	return zap.New(core, zap.AddStacktrace(zap.ErrorLevel)).Named(name)
}

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

// Package validation provides the validation functions.
package validation

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// DateLayout is the only accepted layout of calendar dates.
const DateLayout = "2006-01-02"

// taskStatuses is the set of accepted task status literals.
var taskStatuses = map[string]bool{
	"pending":     true,
	"in_progress": true,
	"completed":   true,
}

var (
	// defaultValidator is the validation instance shared by the store. Field
	// names reported in violations come from the `json` tag.
	defaultValidator = validator.New()
	// defaultEn is the default translator instance for the 'en' locale.
	defaultEn = en.New()
	// uni is the UniversalTranslator instance set with
	// the fallback locale and locales it should support.
	uni = ut.New(defaultEn, defaultEn)

	// trans is the specified translator for the given locale,
	// or fallback if not found.
	trans, _ = uni.GetTranslator(defaultEn.Locale())
)

// IsDate reports whether str is a valid calendar date in DateLayout.
func IsDate(str string) bool {
	_, err := time.Parse(DateLayout, str)
	return err == nil
}

// IsTaskStatus reports whether str is one of the task status literals.
func IsTaskStatus(str string) bool {
	return taskStatuses[str]
}

// FieldLevel is the field level interface.
type FieldLevel = validator.FieldLevel

// Violation is a single bad field.
type Violation struct {
	Tag         string
	Field       string
	Err         error
	Description string
}

// Error returns the error message.
func (e Violation) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Err.Error()
}

// StructError collects every violation found while checking a request, so
// callers can report all bad fields at once.
type StructError struct {
	Violations []Violation
}

// Error returns the error message.
func (s *StructError) Error() string {
	sb := strings.Builder{}

	for _, v := range s.Violations {
		sb.WriteString(v.Field)
		sb.WriteString(": ")
		sb.WriteString(v.Error())
		sb.WriteString("\n")
	}

	return strings.TrimSpace(sb.String())
}

// Add appends a violation that was found outside of the validator, e.g. a
// referenced user that does not exist.
func (s *StructError) Add(field, tag, description string) {
	s.Violations = append(s.Violations, Violation{
		Tag:         tag,
		Field:       field,
		Err:         errors.New(description),
		Description: description,
	})
}

// Merge appends the violations of err if it is a StructError or a Violation,
// using field as the name for a bare Violation. Other errors are returned.
func (s *StructError) Merge(field string, err error) error {
	if err == nil {
		return nil
	}

	var structErr *StructError
	if errors.As(err, &structErr) {
		s.Violations = append(s.Violations, structErr.Violations...)
		return nil
	}

	var violation Violation
	if errors.As(err, &violation) {
		if violation.Field == "" {
			violation.Field = field
		}
		s.Violations = append(s.Violations, violation)
		return nil
	}

	return err
}

// Fields returns the names of the violated fields in order.
func (s *StructError) Fields() []string {
	fields := make([]string, 0, len(s.Violations))
	for _, v := range s.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

// ErrOrNil returns s as an error if it holds any violation, nil otherwise.
func (s *StructError) ErrOrNil() error {
	if len(s.Violations) == 0 {
		return nil
	}
	return s
}

// RegisterValidation is shortcut of defaultValidator.RegisterValidation
// that register custom validation with given tag, and it can be used in init.
func RegisterValidation(tag string, fn validator.Func) error {
	if err := defaultValidator.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("register validation: %w", err)
	}
	return nil
}

// RegisterTranslation is shortcut of defaultValidator.RegisterTranslation
// that registers translations against the provided tag with given msg.
func RegisterTranslation(tag, msg string) error {
	if err := defaultValidator.RegisterTranslation(
		tag,
		trans,
		func(ut ut.Translator) error {
			if err := ut.Add(tag, msg, true); err != nil {
				return fmt.Errorf("register translation: %w", err)
			}
			return nil
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	); err != nil {
		return fmt.Errorf("register translation: %w", err)
	}
	return nil
}

// ValidateStruct validates the struct
func ValidateStruct(s interface{}) error {
	if err := defaultValidator.Struct(s); err != nil {
		structError := &StructError{}
		for _, e := range err.(validator.ValidationErrors) {
			structError.Violations = append(structError.Violations, Violation{
				Tag:         e.Tag(),
				Field:       e.Field(),
				Err:         e,
				Description: e.Translate(trans),
			})
		}
		return structError
	}

	return nil
}

// jsonFieldName names struct fields after their json tag so that
// violations use the names callers send.
func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func init() {
	defaultValidator.RegisterTagNameFunc(jsonFieldName)

	if err := entranslations.RegisterDefaultTranslations(defaultValidator, trans); err != nil {
		fmt.Fprintf(os.Stderr, "validation register default translations: %v\n", err)
		os.Exit(1)
	}

	if err := RegisterValidation("due_date", func(level validator.FieldLevel) bool {
		return IsDate(level.Field().String())
	}); err != nil {
		fmt.Fprintf(os.Stderr, "validation due_date: %v\n", err)
		os.Exit(1)
	}
	if err := RegisterTranslation(
		"due_date",
		"{0} must be a valid date in 'YYYY-MM-DD' format",
	); err != nil {
		fmt.Fprintf(os.Stderr, "validation due_date: %v\n", err)
		os.Exit(1)
	}

	if err := RegisterValidation("task_status", func(level validator.FieldLevel) bool {
		return IsTaskStatus(level.Field().String())
	}); err != nil {
		fmt.Fprintf(os.Stderr, "validation task_status: %v\n", err)
		os.Exit(1)
	}
	if err := RegisterTranslation(
		"task_status",
		"{0} must be one of 'pending', 'in_progress', 'completed'",
	); err != nil {
		fmt.Fprintf(os.Stderr, "validation task_status: %v\n", err)
		os.Exit(1)
	}
}

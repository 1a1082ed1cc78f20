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

package types

import (
	"github.com/revtask/revtask/internal/validation"
)

// UserFields is a set of fields that use to add a user to the directory.
type UserFields struct {
	// ID is the id of the user. The directory is owned by an external
	// collaborator, so ids are given rather than allocated.
	ID *int64 `json:"id" validate:"required,gt=0"`

	// Username is the name of user.
	Username *string `json:"username" validate:"required,min=2,max=30,alphanum"`
}

// Validate validates the UserFields.
func (i *UserFields) Validate() error {
	return validation.ValidateStruct(i)
}

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

package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/internal/validation"
)

func TestUserFields(t *testing.T) {
	var structError *validation.StructError

	t.Run("username validation test", func(t *testing.T) {
		id := int64(10)
		validUsername := "alice"
		fields := &types.UserFields{
			ID:       &id,
			Username: &validUsername,
		}
		assert.NoError(t, fields.Validate())

		invalidUsername := "a"
		fields = &types.UserFields{
			ID:       &id,
			Username: &invalidUsername,
		}
		assert.ErrorAs(t, fields.Validate(), &structError)

		invalidUsername = "al ice"
		fields = &types.UserFields{
			ID:       &id,
			Username: &invalidUsername,
		}
		assert.ErrorAs(t, fields.Validate(), &structError)
	})

	t.Run("required fields test", func(t *testing.T) {
		fields := &types.UserFields{}
		err := fields.Validate()
		assert.ErrorAs(t, err, &structError)
		assert.Equal(t, []string{"id", "username"}, structError.Fields())

		zero := int64(0)
		username := "alice"
		fields = &types.UserFields{ID: &zero, Username: &username}
		assert.ErrorAs(t, fields.Validate(), &structError)
	})
}

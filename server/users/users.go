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

// Package users provides the user directory related business logic. Task
// creators and updaters reference users by id, and list filters by name.
package users

import (
	"context"
	"fmt"

	"github.com/revtask/revtask/api/types"
	pkgerrors "github.com/revtask/revtask/pkg/errors"
	"github.com/revtask/revtask/server/backend"
	"github.com/revtask/revtask/server/backend/database"
)

// ErrInvalidUserFields is returned with the violations of the given fields.
var ErrInvalidUserFields = pkgerrors.InvalidArgument("invalid user fields").WithCode("ErrInvalidUserFields")

// AddUser adds a user to the directory.
func AddUser(
	ctx context.Context,
	be *backend.Backend,
	fields *types.UserFields,
) (*types.User, error) {
	if err := fields.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidUserFields, err)
	}

	info, err := be.DB.CreateUserInfo(ctx, *fields.ID, *fields.Username)
	if err != nil {
		return nil, err
	}

	return info.ToUser(), nil
}

// GetUser returns a user by the given username.
func GetUser(
	ctx context.Context,
	be *backend.Backend,
	username string,
) (*types.User, error) {
	var user *types.User
	if err := be.DB.View(ctx, func(ctx context.Context, tx database.Tx) error {
		info, err := tx.FindUserInfoByName(ctx, username)
		if err != nil {
			return err
		}

		user = info.ToUser()
		return nil
	}); err != nil {
		return nil, err
	}

	return user, nil
}

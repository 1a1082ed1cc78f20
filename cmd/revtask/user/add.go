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

package user

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/cmd/revtask/config"
	"github.com/revtask/revtask/server/users"
)

var (
	userID   int64
	username string
)

func newAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "add [options]",
		Short:   "Add a user to the directory",
		Args:    cobra.NoArgs,
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := config.Open()
			if err != nil {
				return err
			}
			defer config.Close(r)

			ctx := context.Background()
			user, err := users.AddUser(ctx, r.Backend(), &types.UserFields{
				ID:       &userID,
				Username: &username,
			})
			if err != nil {
				return err
			}

			if printed, err := config.Print(cmd, user); printed {
				return err
			}
			cmd.Printf("User added: %s (%d)\n", user.Username, user.ID)
			return nil
		},
	}
}

func init() {
	cmd := newAddCommand()
	cmd.Flags().Int64Var(&userID, "id", 0, "(required) ID of the user")
	cmd.Flags().StringVar(&username, "username", "", "(required) Username of the user")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("username")
	SubCmd.AddCommand(cmd)
}

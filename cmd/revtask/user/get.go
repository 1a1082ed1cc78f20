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
	"errors"

	"github.com/spf13/cobra"

	"github.com/revtask/revtask/cmd/revtask/config"
	"github.com/revtask/revtask/server/users"
)

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [username]",
		Short: "Show a user of the directory",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("username is required")
			}
			return nil
		},
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := config.Open()
			if err != nil {
				return err
			}
			defer config.Close(r)

			ctx := context.Background()
			user, err := users.GetUser(ctx, r.Backend(), args[0])
			if err != nil {
				return err
			}

			if printed, err := config.Print(cmd, user); printed {
				return err
			}
			cmd.Printf("%s (%d)\n", user.Username, user.ID)
			return nil
		},
	}
}

func init() {
	SubCmd.AddCommand(newGetCommand())
}

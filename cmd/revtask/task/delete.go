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

package task

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/revtask/revtask/cmd/revtask/config"
	"github.com/revtask/revtask/server/tasks"
)

func newDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete [task id]",
		Short:   "Delete a task, keeping its history",
		Args:    taskIDArg,
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseTaskID(args[0])
			if err != nil {
				return err
			}

			r, err := config.Open()
			if err != nil {
				return err
			}
			defer config.Close(r)

			ctx := context.Background()
			if err := tasks.Delete(ctx, r.Backend(), taskID); err != nil {
				return err
			}

			cmd.Printf("Task deleted: %d\n", taskID)
			return nil
		},
	}
}

func init() {
	SubCmd.AddCommand(newDeleteCommand())
}

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
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/revtask/revtask/cmd/revtask/config"
	"github.com/revtask/revtask/server/tasks"
)

func newGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get [task id]",
		Short:   "Show the current view of a task",
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
			task, err := tasks.Get(ctx, r.Backend(), taskID)
			if err != nil {
				return err
			}

			if printed, err := config.Print(cmd, task); printed {
				return err
			}

			tw := newTableWriter()
			tw.AppendRows([]table.Row{
				{"TASK ID", strconv.FormatInt(task.ID, 10)},
				{"REVISION ID", task.RevisionID},
				{"TITLE", stringOf(task.Title)},
				{"DESCRIPTION", stringOf(task.Description)},
				{"DUE DATE", dateOf(task.DueDate)},
				{"STATUS", task.Status},
				{"TASK CREATED BY", userOf(task.TaskCreatedBy, nil)},
				{"REVISION CREATED BY", userOf(task.CreatedBy, nil)},
				{"UPDATED BY", userOf(task.UpdatedBy, nil)},
				{"CREATED AT", task.CreatedAt.Format(time.RFC3339)},
				{"UPDATED AT", task.UpdatedAt.Format(time.RFC3339)},
			})
			cmd.Printf("%s\n", tw.Render())

			return nil
		},
	}
}

func init() {
	SubCmd.AddCommand(newGetCommand())
}

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
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/revtask/revtask/cmd/revtask/config"
	"github.com/revtask/revtask/server/tasks"
)

func newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "history [task id]",
		Short:   "Show the revisions of a task, oldest first",
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
			revisions, err := tasks.History(ctx, r.Backend(), taskID)
			if err != nil {
				return err
			}

			if printed, err := config.Print(cmd, revisions); printed {
				return err
			}

			tw := newTableWriter()
			tw.AppendHeader(table.Row{
				"SEQ",
				"REVISION ID",
				"TITLE",
				"DUE DATE",
				"STATUS",
				"DELETED",
				"CREATED BY",
				"CREATED AT",
			})
			for _, revision := range revisions {
				tw.AppendRow(table.Row{
					revision.Seq,
					revision.ID,
					stringOf(revision.Title),
					dateOf(revision.DueDate),
					revision.Status,
					revision.IsDeleted,
					userOf(revision.CreatedBy, nil),
					revision.CreatedAt.Format(time.RFC3339),
				})
			}
			cmd.Printf("%s\n", tw.Render())

			return nil
		},
	}
}

func init() {
	SubCmd.AddCommand(newHistoryCommand())
}

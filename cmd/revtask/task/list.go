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
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/cmd/revtask/config"
	"github.com/revtask/revtask/server/tasks"
)

var (
	queryFields types.TaskQueryFields
	paging      types.Paging
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls [options]",
		Short:   "List live tasks",
		Args:    cobra.NoArgs,
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := config.Open()
			if err != nil {
				return err
			}
			defer config.Close(r)

			ctx := context.Background()
			page, err := tasks.List(ctx, r.Backend(), &queryFields, paging)
			if err != nil {
				return err
			}

			if printed, err := config.Print(cmd, page); printed {
				return err
			}

			tw := newTableWriter()
			tw.AppendHeader(table.Row{
				"ID",
				"TITLE",
				"DESCRIPTION",
				"DUE DATE",
				"STATUS",
				"CREATED BY",
				"UPDATED BY",
			})
			for _, task := range page.Items {
				tw.AppendRow(table.Row{
					task.ID,
					stringOf(task.Title),
					stringOf(task.Description),
					dateOf(task.DueDate),
					task.Status,
					userOf(task.CreatedBy, task.CreatedByUsername),
					userOf(task.UpdatedBy, task.UpdatedByUsername),
				})
			}
			tw.AppendFooter(table.Row{
				"",
				"",
				"",
				"",
				"",
				fmt.Sprintf("PAGE %d/%d", page.Page, page.Pages()),
				fmt.Sprintf("TOTAL %d", page.Total),
			})
			cmd.Printf("%s\n", tw.Render())

			return nil
		},
	}
}

func init() {
	cmd := newListCommand()
	cmd.Flags().StringVar(&queryFields.DueDate, "due-date", "", "Keep tasks due on the date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&queryFields.Status, "status", "", "Keep tasks in the status")
	cmd.Flags().StringVar(
		&queryFields.CreatedByUsername,
		"created-by",
		"",
		"Keep tasks whose current revision was written by the user",
	)
	cmd.Flags().StringVar(
		&queryFields.UpdatedByUsername,
		"updated-by",
		"",
		"Keep tasks last updated by the user",
	)
	cmd.Flags().IntVar(&paging.Page, "page", 0, "Page number, starting at 1")
	cmd.Flags().IntVar(&paging.PageSize, "page-size", 0, "Number of tasks per page")
	SubCmd.AddCommand(cmd)
}

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

// Package task provides the task commands of the CLI.
package task

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/revtask/revtask/api/types"
)

var (
	// SubCmd represents the task command
	SubCmd = &cobra.Command{
		Use:   "task",
		Short: "Manage tasks and their revision history",
	}

	errTaskIDRequired = errors.New("task id is required")
)

// taskIDArg checks that the only argument is a task id.
func taskIDArg(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errTaskIDRequired
	}
	if _, err := parseTaskID(args[0]); err != nil {
		return err
	}
	return nil
}

func parseTaskID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

// contentFlags are the flags of the commands that write a revision.
type contentFlags struct {
	title       string
	description string
	dueDate     string
	status      string
	createdBy   int64
}

func (f *contentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "Title of the task")
	cmd.Flags().StringVar(&f.description, "description", "", "Description of the task")
	cmd.Flags().StringVar(&f.dueDate, "due-date", "", "Due date of the task in YYYY-MM-DD format")
	cmd.Flags().StringVar(&f.status, "status", "", "One of 'pending', 'in_progress' or 'completed'")
	cmd.Flags().Int64Var(&f.createdBy, "created-by", 0, "ID of the user who writes the revision")
}

// fields returns the task fields of the flags the user set. Unset flags
// leave the field absent.
func (f *contentFlags) fields(cmd *cobra.Command) *types.TaskFields {
	fields := &types.TaskFields{}
	if cmd.Flags().Changed("title") {
		fields.Title = &f.title
	}
	if cmd.Flags().Changed("description") {
		fields.Description = &f.description
	}
	if cmd.Flags().Changed("due-date") {
		fields.DueDate = &f.dueDate
	}
	if cmd.Flags().Changed("status") {
		fields.Status = &f.status
	}
	if cmd.Flags().Changed("created-by") {
		fields.CreatedBy = &f.createdBy
	}
	return fields
}

func newTableWriter() table.Writer {
	tw := table.NewWriter()
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateFooter = false
	tw.Style().Options.SeparateHeader = false
	tw.Style().Options.SeparateRows = false
	return tw
}

func stringOf(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func dateOf(d *types.Date) string {
	if d == nil {
		return "-"
	}
	return d.String()
}

func userOf(id *int64, username *string) string {
	if id == nil {
		return "-"
	}
	if username == nil {
		return strconv.FormatInt(*id, 10)
	}
	return fmt.Sprintf("%s(%d)", *username, *id)
}

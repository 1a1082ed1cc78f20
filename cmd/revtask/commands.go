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

// Package main is the entry point of the Revtask CLI.
package main

import (
	"github.com/spf13/cobra"

	"github.com/revtask/revtask/cmd/revtask/config"
	"github.com/revtask/revtask/cmd/revtask/task"
	"github.com/revtask/revtask/cmd/revtask/user"
)

var rootCmd = &cobra.Command{
	Use:          "revtask",
	Short:        "Task tracker that keeps every revision of a task and can undo any change",
	SilenceUsage: true,
}

// Run executes CLI.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}

	return 0
}

func init() {
	rootCmd.AddCommand(task.SubCmd)
	rootCmd.AddCommand(user.SubCmd)
	config.AddFlags(rootCmd)
}

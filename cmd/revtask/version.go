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

package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/cmd/revtask/config"
	"github.com/revtask/revtask/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   "Print the version number of Revtask",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			var versionInfo types.VersionInfo
			versionInfo.ClientVersion = getRevtaskClientVersion()

			if printed, err := config.Print(cmd, &versionInfo); printed {
				return err
			}

			cmd.Printf("Revtask: %s\n", versionInfo.ClientVersion.RevtaskVersion)
			if versionInfo.ClientVersion.GitCommit != "" {
				cmd.Printf("Git Commit: %s\n", versionInfo.ClientVersion.GitCommit)
			}
			cmd.Printf("Go: %s\n", versionInfo.ClientVersion.GoVersion)
			cmd.Printf("Build Date: %s\n", versionInfo.ClientVersion.BuildDate)
			return nil
		},
	}
}

func getRevtaskClientVersion() *types.VersionDetail {
	return &types.VersionDetail{
		RevtaskVersion: version.Version,
		GitCommit:      version.GitCommit,
		GoVersion:      runtime.Version(),
		BuildDate:      version.BuildDate,
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
}

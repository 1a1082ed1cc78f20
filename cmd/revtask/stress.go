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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/revtask/revtask/api/types"
	"github.com/revtask/revtask/cmd/revtask/config"
	"github.com/revtask/revtask/server"
	"github.com/revtask/revtask/server/backend"
	"github.com/revtask/revtask/server/backend/database"
	"github.com/revtask/revtask/server/logging"
	"github.com/revtask/revtask/server/profiling"
	"github.com/revtask/revtask/server/tasks"
	"github.com/revtask/revtask/server/users"
)

var (
	gracefulTimeout = 10 * time.Second
)

var (
	stressWorkers  int
	stressRounds   int
	stressUserID   int64
	stressUsername string
	profilingPort  int
	enablePprof    bool
)

func newStressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stress [options]",
		Short: "Run concurrent task operations against the store",
		Long: "Run concurrent task operations against the store. With --profiling-port the " +
			"metrics stay available on /metrics until the process is interrupted.",
		PreRunE: config.Preload,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Load()
			if err != nil {
				return err
			}
			if profilingPort > 0 {
				conf.Profiling = &profiling.Config{
					Port:        profilingPort,
					EnablePprof: enablePprof,
				}
			}

			r, err := server.New(conf)
			if err != nil {
				return err
			}
			if err := r.Start(); err != nil {
				return err
			}

			started := time.Now()
			ops, err := runStress(cmd.Context(), r.Backend())
			if err != nil {
				_ = r.Shutdown(false)
				return err
			}
			cmd.Printf(
				"%d workers ran %d operations in %s\n",
				stressWorkers,
				ops,
				time.Since(started).Round(time.Millisecond),
			)

			if conf.Profiling == nil {
				return r.Shutdown(true)
			}

			cmd.Printf("metrics served on %s/metrics, interrupt to exit\n", conf.Profiling.Addr())
			if code := handleSignal(r); code != 0 {
				return fmt.Errorf("exit code: %d", code)
			}
			return nil
		},
	}
}

// runStress makes every worker walk tasks of its own through create,
// update, undo, delete and undo, then checks the task is readable again.
func runStress(ctx context.Context, be *backend.Backend) (int, error) {
	if _, err := users.AddUser(ctx, be, &types.UserFields{
		ID:       &stressUserID,
		Username: &stressUsername,
	}); err != nil && !errors.Is(err, database.ErrUserAlreadyExists) {
		return 0, err
	}

	const opsPerRound = 6
	group, ctx := errgroup.WithContext(ctx)
	for worker := 0; worker < stressWorkers; worker++ {
		group.Go(func() error {
			for round := 0; round < stressRounds; round++ {
				title := fmt.Sprintf("worker %d round %d", worker, round)
				status := string(types.StatusInProgress)
				fields := &types.TaskFields{Title: &title, CreatedBy: &stressUserID}

				taskID, err := tasks.Create(ctx, be, fields)
				if err != nil {
					return err
				}
				if err := tasks.Update(ctx, be, taskID, &types.TaskFields{
					Title:     &title,
					Status:    &status,
					CreatedBy: &stressUserID,
				}); err != nil {
					return err
				}
				if err := tasks.Undo(ctx, be, taskID); err != nil {
					return err
				}
				if err := tasks.Delete(ctx, be, taskID); err != nil {
					return err
				}
				if err := tasks.Undo(ctx, be, taskID); err != nil {
					return err
				}
				if _, err := tasks.Get(ctx, be, taskID); err != nil {
					return err
				}
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return 0, err
	}
	return stressWorkers * stressRounds * opsPerRound, nil
}

func handleSignal(r *server.Revtask) int {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	var sig os.Signal
	select {
	case s := <-sigCh:
		sig = s
	case <-r.ShutdownCh():
		return 0
	}

	graceful := false
	if sig == syscall.SIGINT || sig == syscall.SIGTERM {
		graceful = true
	}

	logging.DefaultLogger().Infof("caught signal: %s", sig.String())

	gracefulCh := make(chan struct{})
	go func() {
		if err := r.Shutdown(graceful); err != nil {
			return
		}
		close(gracefulCh)
	}()

	if graceful {
		select {
		case <-sigCh:
			return 1
		case <-time.After(gracefulTimeout):
			return 1
		case <-gracefulCh:
			return 0
		}
	}
	return 0
}

func init() {
	cmd := newStressCmd()
	cmd.Flags().IntVar(&stressWorkers, "workers", 8, "Number of concurrent workers")
	cmd.Flags().IntVar(&stressRounds, "rounds", 20, "Number of tasks each worker walks through")
	cmd.Flags().Int64Var(&stressUserID, "user-id", 1, "ID of the user the workers write as")
	cmd.Flags().StringVar(&stressUsername, "username", "stress", "Username of the user the workers write as")
	cmd.Flags().IntVar(&profilingPort, "profiling-port", 0, "Port of the profiling server, 0 to disable it")
	cmd.Flags().BoolVar(&enablePprof, "enable-pprof", false, "Enable runtime profiling data via HTTP server.")

	rootCmd.AddCommand(cmd)
}

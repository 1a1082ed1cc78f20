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

// Package prometheus provides the Prometheus metrics of task operations.
package prometheus

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/revtask/revtask/internal/version"
)

const (
	namespace      = "revtask"
	operationLabel = "operation"
	databaseLabel  = "database"
	codeLabel      = "code"
	branchLabel    = "branch"
)

// Metrics manages the metric information of the task store.
type Metrics struct {
	registry *prometheus.Registry

	serverVersion *prometheus.GaugeVec

	taskOperationsTotal   *prometheus.CounterVec
	taskOperationSeconds  *prometheus.HistogramVec
	taskUndoTotal         *prometheus.CounterVec
	taskListReturnedTotal prometheus.Counter
	taskRevisionsAppended prometheus.Counter
}

// NewMetrics creates a new instance of Metrics.
func NewMetrics() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	metrics := &Metrics{
		registry: reg,
		serverVersion: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "version",
			Help:      "Which version is running. 1 for 'server_version' label with current version.",
		}, []string{"server_version"}),
		taskOperationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "task",
			Name:      "operations_total",
			Help:      "Total number of task operations completed, regardless of success or failure.",
		}, []string{operationLabel, databaseLabel, codeLabel}),
		taskOperationSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "task",
			Name:      "operation_seconds",
			Help:      "The response time of task operations.",
		}, []string{operationLabel}),
		taskUndoTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "task",
			Name:      "undo_total",
			Help:      "The total count of applied undos by the kind of mutation reverted.",
		}, []string{branchLabel}),
		taskListReturnedTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "task",
			Name:      "list_returned_total",
			Help:      "The total count of task summaries returned by List.",
		}),
		taskRevisionsAppended: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "task",
			Name:      "revisions_appended_total",
			Help:      "The total count of revisions appended by Create and Update.",
		}),
	}

	metrics.serverVersion.With(prometheus.Labels{
		"server_version": version.Version,
	}).Set(1)

	return metrics, nil
}

// AddTaskOperation adds the number of completed task operations. code is
// empty for successful operations.
func (m *Metrics) AddTaskOperation(operation, database, code string) {
	if code == "" {
		code = "OK"
	}
	m.taskOperationsTotal.With(prometheus.Labels{
		operationLabel: operation,
		databaseLabel:  database,
		codeLabel:      code,
	}).Inc()
}

// ObserveTaskOperationSeconds adds the response time of a task operation.
func (m *Metrics) ObserveTaskOperationSeconds(operation string, seconds float64) {
	m.taskOperationSeconds.With(prometheus.Labels{
		operationLabel: operation,
	}).Observe(seconds)
}

// AddTaskUndo adds the number of applied undos of the given branch.
func (m *Metrics) AddTaskUndo(branch string) {
	m.taskUndoTotal.With(prometheus.Labels{
		branchLabel: branch,
	}).Inc()
}

// AddTaskListReturned adds the number of task summaries returned by List.
func (m *Metrics) AddTaskListReturned(count int) {
	m.taskListReturnedTotal.Add(float64(count))
}

// AddRevisionsAppended adds the number of appended revisions.
func (m *Metrics) AddRevisionsAppended(count int) {
	m.taskRevisionsAppended.Add(float64(count))
}

// Registry returns the registry of this metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

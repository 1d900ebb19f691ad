/*
 * task.go, part of golammps.
 *
 * Copyright 2024 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package lammps

import "fmt"

// Task processes one snapshot and returns the result, which can be the same
// snapshot, a new one, or nil, if the snapshot should not go further down a Pipeline.
type Task interface {
	Run(s *Snapshot) (*Snapshot, error)
}

// TaskFunc allows using a plain function as a Task.
type TaskFunc func(s *Snapshot) (*Snapshot, error)

func (F TaskFunc) Run(s *Snapshot) (*Snapshot, error) { return F(s) }

// Pipeline runs a sequence of tasks on each snapshot, in order, each task
// getting the output of the previous one.
type Pipeline struct {
	tasks []Task
}

// NewPipeline returns a pipeline with the given tasks.
func NewPipeline(tasks ...Task) *Pipeline {
	P := new(Pipeline)
	P.tasks = append(P.tasks, tasks...)
	return P
}

// Append adds tasks at the end of the pipeline.
func (P *Pipeline) Append(tasks ...Task) {
	P.tasks = append(P.tasks, tasks...)
}

func (P *Pipeline) Len() int { return len(P.tasks) }

// Run passes s through all the tasks. If a task returns a nil snapshot, the
// following tasks are not run and Run returns nil. The first error stops the pipeline.
func (P *Pipeline) Run(s *Snapshot) (*Snapshot, error) {
	var err error
	for i, t := range P.tasks {
		if s == nil {
			return nil, nil
		}
		s, err = t.Run(s)
		if err != nil {
			return nil, fmt.Errorf("task %d of pipeline: %w", i, err)
		}
	}
	return s, nil
}

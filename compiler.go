/*
Copyright 2025 The vkpipe Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package vkpipe

import "golang.org/x/sync/errgroup"

const compileQueueDepth = 64

// pendingBuild is the wait/poll surface every pipeline kind exposes
// through its completion channel.
type pendingBuild interface {
	done() <-chan struct{}
}

// compileJob is the slice of a pipeline object the scheduler touches: the
// build itself and the completion channel it closes on publish.
type compileJob interface {
	pendingBuild
	compile()
}

// pipelineCompiler runs queued builds on a small fixed worker pool. Once
// queued a job always runs to completion, there is no cancellation; waits
// are unbounded because rendering cannot proceed without the pipeline.
type pipelineCompiler struct {
	jobs  chan compileJob
	group errgroup.Group
}

func newPipelineCompiler(workers int32) *pipelineCompiler {
	c := &pipelineCompiler{
		jobs: make(chan compileJob, compileQueueDepth),
	}
	for i := int32(0); i < workers; i++ {
		c.group.Go(func() error {
			for job := range c.jobs {
				job.compile()
			}
			return nil
		})
	}
	return c
}

// queue hands scheduling ownership of the job to the worker pool; no other
// goroutine may call its compile() until it completes.
func (c *pipelineCompiler) queue(job compileJob) {
	c.jobs <- job
}

// waitFor blocks until the job's handle is published. Safe to call while
// workers are building other jobs or this one.
func (c *pipelineCompiler) waitFor(job pendingBuild) {
	<-job.done()
}

func (c *pipelineCompiler) checkCompiled(job pendingBuild) bool {
	select {
	case <-job.done():
		return true
	default:
		return false
	}
}

// shutdown stops intake and drains every outstanding build. Queued objects
// must not be destroyed before this returns.
func (c *pipelineCompiler) shutdown() {
	close(c.jobs)
	if err := c.group.Wait(); err != nil {
		abort("%s", err)
	}
}

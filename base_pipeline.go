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

import (
	"sync/atomic"
	"time"
)

// Builds slower than this get a warning line instead of a verbose one.
const buildTimeWarnThreshold = 50 * time.Millisecond

// pipelineDeps is the shared collaborator bundle every pipeline object
// needs to build and bind itself. Owned by the Manager; everything but the
// async flag is read-only after construction.
type pipelineDeps struct {
	backend      Backend
	compiler     *pipelineCompiler
	renderStates RenderStateBackend
	inputLayouts InputLayoutProvider
	passClasses  RenderPassClassResolver
	device       DeviceInfo
	cache        PipelineCacheHandle

	// consulted at pipeline construction time only, in-flight compiles are
	// not affected by toggling
	async atomic.Bool
}

// basePipeline carries the state machine every pipeline kind shares: a
// non-owning layout reference, the published handle and the completion
// channel. The handle store happens-before the channel close, so a waiter
// that sees the channel closed always reads a valid handle.
type basePipeline struct {
	noCopy   noCopy
	deps     *pipelineDeps
	id       ProgramID
	layout   *Layout
	handle   atomic.Uint64
	compiled chan struct{}
}

func (p *basePipeline) init(deps *pipelineDeps, id ProgramID, layout *Layout) {
	p.noCopy.init()
	p.deps = deps
	p.id = id
	p.layout = layout
	p.compiled = make(chan struct{})
}

// publish stores the handle and marks the pipeline compiled. Called exactly
// once per pipeline, from whichever goroutine ran compile().
func (p *basePipeline) publish(handle PipelineHandle) {
	p.handle.Store(uint64(handle))
	close(p.compiled)
}

func (p *basePipeline) done() <-chan struct{} {
	return p.compiled
}

func (p *basePipeline) ProgramID() ProgramID {
	return p.id
}

func (p *basePipeline) Layout() *Layout {
	return p.layout
}

// Handle returns the published hardware handle, zero while a compile is
// still pending.
func (p *basePipeline) Handle() PipelineHandle {
	p.noCopy.check()
	return PipelineHandle(p.handle.Load())
}

// CheckCompiled is the non-blocking completion poll.
func (p *basePipeline) CheckCompiled() bool {
	p.noCopy.check()
	return p.deps.compiler.checkCompiled(p)
}

// bind waits out a pending compile then records the hardware bind. The
// only blocking point exposed to callers.
func (p *basePipeline) bind(cb CommandBufferHandle, bindPoint BindPoint) {
	p.noCopy.check()
	if !p.CheckCompiled() {
		p.deps.compiler.waitFor(p)
	}
	p.deps.backend.CmdBindPipeline(cb, bindPoint, p.Handle())
}

// shutdown waits out a pending compile and destroys the handle. A pipeline
// must never be destroyed while its compile job is outstanding.
func (p *basePipeline) shutdown() {
	p.noCopy.check()
	p.deps.compiler.waitFor(p)
	if h := p.Handle(); h != 0 {
		p.deps.backend.DestroyPipeline(h)
	}
	p.handle.Store(0)
	p.noCopy.close()
}

func (p *basePipeline) logBuildTime(name string, d time.Duration) {
	if d > buildTimeWarnThreshold {
		instance.logger.WPrintf("Slow pipeline build %s %q took %s", p.id, name, d)
	} else {
		instance.logger.VPrintf("Built pipeline %s %q in %s", p.id, name, d)
	}
}

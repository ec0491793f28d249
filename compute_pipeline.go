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
	"time"

	"goarrg.com/debug"
)

// computeScratch holds everything the build call needs; created at
// construction, nilled at publish, never retained afterwards.
type computeScratch struct {
	module ShaderModuleHandle
	name   string
}

// ComputePipeline owns one compute PSO. The hardware shader module is
// transient, created at construction and destroyed right after the build
// attempt regardless of outcome.
type ComputePipeline struct {
	basePipeline
	scratch *computeScratch
}

func newComputePipeline(deps *pipelineDeps, id ProgramID, layout *Layout,
	blob ShaderModuleBlob, async bool,
) *ComputePipeline {
	module, err := deps.backend.CreateShaderModule(blob.Header.Name, blob.SPIRV)
	if err != nil || module == 0 {
		abort("vulkan: failed to create shader module for compute program %s %q: %v",
			id, blob.Header.Name, err)
	}

	p := &ComputePipeline{
		scratch: &computeScratch{
			module: module,
			name:   blob.Header.Name,
		},
	}
	p.init(deps, id, layout)

	if async {
		deps.compiler.queue(p)
	} else {
		p.compile()
	}
	return p
}

func (p *ComputePipeline) compile() {
	s := p.scratch
	start := time.Now()
	handle, err := p.deps.backend.CreateComputePipeline(s.name, ComputePipelineCreateDescription{
		Module: s.module,
		Layout: p.layout.Handle(),
	}, p.deps.cache)
	if err == nil && handle == 0 {
		err = debug.Errorf("Backend reported success with a null pipeline handle")
	}

	// destroyed unconditionally to bound module memory
	p.deps.backend.DestroyShaderModule(s.module)

	if err != nil {
		abort("vulkan: failed to compile compute program %s %q after %s: %s",
			p.id, s.name, time.Since(start), err)
	}

	p.logBuildTime(s.name, time.Since(start))
	p.scratch = nil
	p.publish(handle)
}

func (p *ComputePipeline) Bind(cb CommandBufferHandle) {
	p.bind(cb, BindPointCompute)
}

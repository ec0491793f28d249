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
	"strings"
	"time"

	"goarrg.com/debug"
)

// RaytraceProgramCreateInfo lists the long-lived modules of one raytrace
// program plus the shader group shape, forwarded opaquely to the backend.
type RaytraceProgramCreateInfo struct {
	Modules           []ShaderModule
	GroupCount        uint32
	MaxRecursionDepth uint32
}

func (info *RaytraceProgramCreateInfo) validate() {
	if len(info.Modules) == 0 {
		abort("RaytraceProgramCreateInfo must have at least one module")
	}
	if info.GroupCount == 0 {
		abort("RaytraceProgramCreateInfo must have at least one shader group")
	}
	for _, m := range info.Modules {
		if m.Handle == 0 {
			abort("RaytraceProgramCreateInfo module %q has a null handle", m.Header.Name)
		}
	}
}

func (info *RaytraceProgramCreateInfo) debugName() string {
	sb := strings.Builder{}
	for _, m := range info.Modules {
		sb.WriteString(m.Header.Name)
		sb.WriteRune('|')
	}
	return strings.TrimSuffix(sb.String(), "|")
}

type raytraceScratch struct {
	desc RaytracePipelineCreateDescription
	name string
}

// RaytracePipeline owns one raytrace PSO. Modules are long-lived and owned
// by the shader database, unlike the transient compute module.
type RaytracePipeline struct {
	basePipeline
	scratch *raytraceScratch
}

func newRaytracePipeline(deps *pipelineDeps, id ProgramID, layout *Layout,
	info RaytraceProgramCreateInfo, async bool,
) *RaytracePipeline {
	stages := make([]PipelineShaderStage, len(info.Modules))
	for i, m := range info.Modules {
		stages[i] = PipelineShaderStage{Stage: m.Header.Stage, Module: m.Handle}
	}

	p := &RaytracePipeline{
		scratch: &raytraceScratch{
			desc: RaytracePipelineCreateDescription{
				Stages:            stages,
				GroupCount:        info.GroupCount,
				MaxRecursionDepth: info.MaxRecursionDepth,
				Layout:            layout.Handle(),
			},
			name: info.debugName(),
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

func (p *RaytracePipeline) compile() {
	s := p.scratch
	start := time.Now()
	handle, err := p.deps.backend.CreateRaytracePipeline(s.name, s.desc, p.deps.cache)
	if err == nil && handle == 0 {
		err = debug.Errorf("Backend reported success with a null pipeline handle")
	}
	if err != nil {
		abort("vulkan: failed to compile raytrace program %s %q after %s: %s",
			p.id, s.name, time.Since(start), err)
	}

	p.logBuildTime(s.name, time.Since(start))
	p.scratch = nil
	p.publish(handle)
}

func (p *RaytracePipeline) Bind(cb CommandBufferHandle) {
	p.bind(cb, BindPointRaytrace)
}

// GroupHandles reads groupCount shader group handles starting at
// firstGroup into out, waiting out a pending compile first.
func (p *RaytracePipeline) GroupHandles(firstGroup, groupCount, size uint32, out []byte) error {
	p.noCopy.check()
	if !p.CheckCompiled() {
		p.deps.compiler.waitFor(p)
	}
	return p.deps.backend.RaytraceShaderGroupHandles(p.Handle(), firstGroup, groupCount, size, out)
}

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

import "github.com/crazycoderx2/DagorEngine/rhi/vkpipe/internal/container"

// Visitor is the single polymorphic entry point other subsystems use
// instead of knowing pipeline kinds; Manager.Visit routes by the id's
// kind discriminant.
type Visitor interface {
	VisitGraphics(*GraphicsProgram)
	VisitCompute(*ComputePipeline)
	VisitRaytrace(*RaytracePipeline)
}

// Manager routes program ids to the per-kind stores and owns everything
// they share: the backend, the collaborators, the pipeline cache and the
// compile worker pool. All mutating calls happen on the submission thread.
type Manager struct {
	noCopy noCopy
	deps   pipelineDeps

	graphics *pipelineStorage[*GraphicsProgram]
	compute  *pipelineStorage[*ComputePipeline]
	raytrace *pipelineStorage[*RaytracePipeline]

	// taken out but not yet destroyed, waiting for the frame that may
	// still reference them to retire
	retired container.Stack[pipelineObject]
}

func NewManager(config Config) *Manager {
	config.validate()
	instance.logger.IPrintf("Creating pipeline manager with config: %s", jsonString(&config))

	m := &Manager{
		graphics: newPipelineStorage[*GraphicsProgram](PipelineKindGraphics, config.Backend),
		compute:  newPipelineStorage[*ComputePipeline](PipelineKindCompute, config.Backend),
		raytrace: newPipelineStorage[*RaytracePipeline](PipelineKindRaytrace, config.Backend),
	}
	m.deps = pipelineDeps{
		backend:      config.Backend,
		compiler:     newPipelineCompiler(config.CompileWorkers),
		renderStates: config.RenderStates,
		inputLayouts: config.InputLayouts,
		passClasses:  config.PassClasses,
		device:       config.Device,
		cache:        config.Cache,
	}
	m.deps.async.Store(config.AsyncCompile)
	m.noCopy.init()
	return m
}

// SetAsyncCompile flips the global async compile switch. Only pipelines
// created afterwards are affected.
func (m *Manager) SetAsyncCompile(enabled bool) {
	m.noCopy.check()
	m.deps.async.Store(enabled)
}

func (m *Manager) AsyncCompileEnabled() bool {
	m.noCopy.check()
	return m.deps.async.Load()
}

// AddCompute creates, stores and compiles (inline or queued) the compute
// pipeline for id. id must be unoccupied.
func (m *Manager) AddCompute(id ProgramID, blob ShaderModuleBlob) *ComputePipeline {
	m.noCopy.check()
	return m.compute.add(id, func() *ComputePipeline {
		layout := m.compute.findOrAddLayout(layoutDescriptionFromHeader(blob.Header))
		return newComputePipeline(&m.deps, id, layout, blob, m.deps.async.Load())
	})
}

// AddGraphics creates and stores the graphics program for id. No PSO is
// built yet; variants compile on first Variant() use.
func (m *Manager) AddGraphics(id ProgramID, info GraphicsProgramCreateInfo) *GraphicsProgram {
	m.noCopy.check()
	info.Modules.validate()
	return m.graphics.add(id, func() *GraphicsProgram {
		layout := m.graphics.findOrAddLayout(layoutDescriptionFromModules(&info.Modules))
		return newGraphicsProgram(&m.deps, id, layout, info)
	})
}

func (m *Manager) AddRaytrace(id ProgramID, info RaytraceProgramCreateInfo) *RaytracePipeline {
	m.noCopy.check()
	info.validate()
	return m.raytrace.add(id, func() *RaytracePipeline {
		layout := m.raytrace.findOrAddLayout(layoutDescriptionFromHeader(info.Modules[0].Header))
		return newRaytracePipeline(&m.deps, id, layout, info, m.deps.async.Load())
	})
}

func (m *Manager) Compute(id ProgramID) *ComputePipeline {
	m.noCopy.check()
	return m.compute.get(id)
}

func (m *Manager) Graphics(id ProgramID) *GraphicsProgram {
	m.noCopy.check()
	return m.graphics.get(id)
}

func (m *Manager) Raytrace(id ProgramID) *RaytracePipeline {
	m.noCopy.check()
	return m.raytrace.get(id)
}

// Valid is the speculative existence check, safe for ids of any kind
// including ids never added.
func (m *Manager) Valid(id ProgramID) bool {
	m.noCopy.check()
	switch id.Kind() {
	case PipelineKindGraphics:
		return m.graphics.valid(id)
	case PipelineKindCompute:
		return m.compute.valid(id)
	case PipelineKindRaytrace:
		return m.raytrace.valid(id)
	}
	return false
}

// Visit invokes v with the live object behind id and returns true, or
// returns false without side effects when no kind claims the id or the
// slot is empty.
func (m *Manager) Visit(id ProgramID, v Visitor) bool {
	m.noCopy.check()
	switch id.Kind() {
	case PipelineKindGraphics:
		if !m.graphics.valid(id) {
			return false
		}
		v.VisitGraphics(m.graphics.get(id))
	case PipelineKindCompute:
		if !m.compute.valid(id) {
			return false
		}
		v.VisitCompute(m.compute.get(id))
	case PipelineKindRaytrace:
		if !m.raytrace.valid(id) {
			return false
		}
		v.VisitRaytrace(m.raytrace.get(id))

	default:
		return false
	}
	return true
}

// PrepareRemoval takes id's object out of its store and parks it on the
// retired stack; destruction is deferred to CollectRetired so in-flight
// frames keep a usable object. id's slot is immediately reusable.
func (m *Manager) PrepareRemoval(id ProgramID) {
	m.noCopy.check()
	switch id.Kind() {
	case PipelineKindGraphics:
		m.retired.Push(m.graphics.takeOut(id))
	case PipelineKindCompute:
		m.retired.Push(m.compute.takeOut(id))
	case PipelineKindRaytrace:
		m.retired.Push(m.raytrace.takeOut(id))

	default:
		abort("PrepareRemoval of invalid program %s", id)
	}
}

// CollectRetired destroys everything parked by PrepareRemoval, waiting
// out pending compiles. Call once the host knows no frame references the
// retired objects anymore.
func (m *Manager) CollectRetired() {
	m.noCopy.check()
	m.retired.Drain(func(p pipelineObject) {
		p.shutdown()
	})
}

// RaytraceShaderGroupHandles copies shader group handles of a compiled
// raytrace program into out.
func (m *Manager) RaytraceShaderGroupHandles(id ProgramID, firstGroup, groupCount, size uint32, out []byte) error {
	m.noCopy.check()
	return m.raytrace.get(id).GroupHandles(firstGroup, groupCount, size, out)
}

// UnloadAll tears down every stored program and layout, draining the
// retired stack first. The manager stays usable; ids can be re-added.
func (m *Manager) UnloadAll() {
	m.noCopy.check()
	m.CollectRetired()
	m.graphics.unload()
	m.compute.unload()
	m.raytrace.unload()
}

// Destroy is the final teardown: dumps the surviving graphics programs,
// unloads everything and stops the compile workers.
func (m *Manager) Destroy() {
	m.noCopy.check()
	m.graphics.enumerate(func(_ ProgramID, g *GraphicsProgram) {
		instance.logger.VPrintf("%s", prettyString(g))
	})
	m.UnloadAll()
	m.deps.compiler.shutdown()
	m.noCopy.close()
}

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
	"sync"
	"time"
)

type testBind struct {
	cb        CommandBufferHandle
	bindPoint BindPoint
	pipeline  PipelineHandle
}

// testBackend is a thread-safe in-memory device; creation calls hand out
// incrementing handles and record liveness so tests can assert teardown.
type testBackend struct {
	mu         sync.Mutex
	nextHandle uint64

	buildDelay time.Duration

	modules   map[ShaderModuleHandle]string
	layouts   map[PipelineLayoutHandle]LayoutDescription
	pipelines map[PipelineHandle]string

	graphicsDescs map[PipelineHandle]GraphicsPipelineCreateDescription

	destroyedModules   []ShaderModuleHandle
	destroyedPipelines []PipelineHandle

	binds []testBind
}

func newTestBackend() *testBackend {
	return &testBackend{
		modules:       map[ShaderModuleHandle]string{},
		layouts:       map[PipelineLayoutHandle]LayoutDescription{},
		pipelines:     map[PipelineHandle]string{},
		graphicsDescs: map[PipelineHandle]GraphicsPipelineCreateDescription{},
	}
}

func (b *testBackend) handle() uint64 {
	b.nextHandle++
	return b.nextHandle
}

func (b *testBackend) CreateShaderModule(name string, spirv []uint32) (ShaderModuleHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := ShaderModuleHandle(b.handle())
	b.modules[h] = name
	return h, nil
}

func (b *testBackend) DestroyShaderModule(module ShaderModuleHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.modules, module)
	b.destroyedModules = append(b.destroyedModules, module)
}

func (b *testBackend) CreatePipelineLayout(name string, desc LayoutDescription) (PipelineLayoutHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := PipelineLayoutHandle(b.handle())
	b.layouts[h] = desc
	return h, nil
}

func (b *testBackend) DestroyPipelineLayout(layout PipelineLayoutHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.layouts, layout)
}

func (b *testBackend) createPipeline(name string) PipelineHandle {
	if b.buildDelay > 0 {
		b.mu.Unlock()
		time.Sleep(b.buildDelay)
		b.mu.Lock()
	}
	h := PipelineHandle(b.handle())
	b.pipelines[h] = name
	return h
}

func (b *testBackend) CreateComputePipeline(name string, desc ComputePipelineCreateDescription, cache PipelineCacheHandle) (PipelineHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createPipeline(name), nil
}

func (b *testBackend) CreateGraphicsPipeline(name string, desc GraphicsPipelineCreateDescription, cache PipelineCacheHandle) (PipelineHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := b.createPipeline(name)
	b.graphicsDescs[h] = desc
	return h, nil
}

func (b *testBackend) CreateRaytracePipeline(name string, desc RaytracePipelineCreateDescription, cache PipelineCacheHandle) (PipelineHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createPipeline(name), nil
}

func (b *testBackend) DestroyPipeline(pipeline PipelineHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.pipelines, pipeline)
	b.destroyedPipelines = append(b.destroyedPipelines, pipeline)
}

func (b *testBackend) CmdBindPipeline(cb CommandBufferHandle, bindPoint BindPoint, pipeline PipelineHandle) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.binds = append(b.binds, testBind{cb: cb, bindPoint: bindPoint, pipeline: pipeline})
}

func (b *testBackend) RaytraceShaderGroupHandles(pipeline PipelineHandle, firstGroup, groupCount, size uint32, out []byte) error {
	for i := range out {
		out[i] = byte(pipeline)
	}
	return nil
}

func (b *testBackend) numLiveLayouts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.layouts)
}

func (b *testBackend) numLivePipelines() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pipelines)
}

func (b *testBackend) numLiveModules() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.modules)
}

func (b *testBackend) recordedBinds() []testBind {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]testBind, len(b.binds))
	copy(out, b.binds)
	return out
}

func (b *testBackend) graphicsDesc(h PipelineHandle) GraphicsPipelineCreateDescription {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.graphicsDescs[h]
}

// testRenderStates resolves ids from a plain map.
type testRenderStates map[StaticRenderStateID]StaticRenderState

func (s testRenderStates) GetStatic(id StaticRenderStateID) StaticRenderState {
	return s[id]
}

type testInputLayouts map[InputLayoutID]InputLayout

func (s testInputLayouts) Get(id InputLayoutID) InputLayout {
	return s[id]
}

// testPassResolver hands out one handle per distinct class.
type testPassResolver struct {
	mu      sync.Mutex
	next    uint64
	handles map[RenderPassClass]RenderPassHandle
}

func (r *testPassResolver) ResolvePass(class RenderPassClass) RenderPassHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handles == nil {
		r.handles = map[RenderPassClass]RenderPassHandle{}
	}
	if h, ok := r.handles[class]; ok {
		return h
	}
	r.next++
	h := RenderPassHandle(r.next)
	r.handles[class] = h
	return h
}

// testRenderPass is a native pass fake with compile-ref accounting.
type testRenderPass struct {
	handle     RenderPassHandle
	hasDepth   bool
	colorMask  uint32
	samples    SampleCountFlags
	compileRef int
}

func (p *testRenderPass) Handle() RenderPassHandle { return p.handle }

func (p *testRenderPass) HasDepthAtSubpass(subpass uint32) bool { return p.hasDepth }

func (p *testRenderPass) ColorWriteMaskAtSubpass(subpass uint32) uint32 { return p.colorMask }

func (p *testRenderPass) MSAASamplesAtSubpass(subpass uint32) SampleCountFlags { return p.samples }

func (p *testRenderPass) AddPipelineCompileRef() { p.compileRef++ }

func (p *testRenderPass) ReleasePipelineCompileRef() { p.compileRef-- }

func testComputeBlob(name string) ShaderModuleBlob {
	return ShaderModuleBlob{
		Header: ShaderModuleHeader{
			Stage:         ShaderStageCompute,
			RegisterIndex: 0,
			UserDataWords: 4,
			Name:          name,
		},
		SPIRV: []uint32{0x07230203},
	}
}

func testGraphicsModules(name string) GraphicsModuleSet {
	return GraphicsModuleSet{
		Vertex: &ShaderModule{
			Handle: 0xA1,
			Header: ShaderModuleHeader{Stage: ShaderStageVertex, Name: name + ".vs"},
		},
		Fragment: &ShaderModule{
			Handle: 0xA2,
			Header: ShaderModuleHeader{Stage: ShaderStageFragment, OutputMask: 0b1111, Name: name + ".fs"},
		},
	}
}

func newTestManager(config Config) (*Manager, *testBackend) {
	backend := newTestBackend()
	config.Backend = backend
	if config.RenderStates == nil {
		config.RenderStates = testRenderStates{}
	}
	if config.InputLayouts == nil {
		config.InputLayouts = testInputLayouts{}
	}
	if config.PassClasses == nil {
		config.PassClasses = &testPassResolver{}
	}
	if config.Device.NoAttachmentSampleCounts == 0 {
		config.Device.NoAttachmentSampleCounts = SampleCount1 | SampleCount4
	}
	return NewManager(config), backend
}

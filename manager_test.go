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
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazycoderx2/DagorEngine/rhi/vkpipe/internal/vk"
)

type recordingVisitor struct {
	graphics []*GraphicsProgram
	compute  []*ComputePipeline
	raytrace []*RaytracePipeline
}

func (v *recordingVisitor) VisitGraphics(g *GraphicsProgram) { v.graphics = append(v.graphics, g) }
func (v *recordingVisitor) VisitCompute(p *ComputePipeline)  { v.compute = append(v.compute, p) }
func (v *recordingVisitor) VisitRaytrace(p *RaytracePipeline) {
	v.raytrace = append(v.raytrace, p)
}

func TestAddComputeSync(t *testing.T) {
	m, backend := newTestManager(Config{})
	defer m.Destroy()

	id := ComputeProgramID(0)
	p := m.AddCompute(id, testComputeBlob("cs_blur"))

	assert.True(t, m.Valid(id), "slot present immediately after add")
	assert.True(t, p.CheckCompiled(), "synchronous compile completes inline")
	assert.NotZero(t, p.Handle())
	assert.Equal(t, 0, backend.numLiveModules(), "transient module destroyed after build")
	assert.Same(t, p, m.Compute(id))

	p.Bind(42)
	binds := backend.recordedBinds()
	require.Len(t, binds, 1)
	assert.Equal(t, testBind{cb: 42, bindPoint: BindPointCompute, pipeline: p.Handle()}, binds[0])
}

func TestAddComputeAsync(t *testing.T) {
	m, backend := newTestManager(Config{AsyncCompile: true, CompileWorkers: 2})
	defer m.Destroy()
	backend.buildDelay = time.Millisecond

	const numPipelines = 16
	pipelines := make([]*ComputePipeline, numPipelines)
	for i := range pipelines {
		pipelines[i] = m.AddCompute(ComputeProgramID(uint32(i)), testComputeBlob("cs_async"))
		assert.True(t, m.Valid(ComputeProgramID(uint32(i))))
	}

	// bind in arbitrary order, every bind must wait out its own build
	for _, i := range rand.Perm(numPipelines) {
		pipelines[i].Bind(CommandBufferHandle(i))
		assert.NotZero(t, pipelines[i].Handle())
		assert.True(t, pipelines[i].CheckCompiled())
	}

	for _, b := range backend.recordedBinds() {
		assert.NotZero(t, b.pipeline, "no bind may observe a null handle")
	}
	assert.Equal(t, 0, backend.numLiveModules())
}

func TestAddComputeAsyncCheckCompiled(t *testing.T) {
	m, backend := newTestManager(Config{AsyncCompile: true})
	defer m.Destroy()
	backend.buildDelay = 20 * time.Millisecond

	p := m.AddCompute(ComputeProgramID(0), testComputeBlob("cs_slow"))

	// may legitimately be false right after add; bind still never sees a
	// null handle
	p.Bind(1)
	assert.True(t, p.CheckCompiled())
	assert.NotZero(t, p.Handle())
}

func TestDoubleAddPanics(t *testing.T) {
	m, _ := newTestManager(Config{})
	defer m.Destroy()

	id := ComputeProgramID(5)
	m.AddCompute(id, testComputeBlob("cs"))
	require.PanicsWithValue(t, "Fatal Error", func() {
		m.AddCompute(id, testComputeBlob("cs"))
	})
}

func TestAsyncCompileToggle(t *testing.T) {
	m, _ := newTestManager(Config{})
	defer m.Destroy()
	assert.False(t, m.AsyncCompileEnabled())

	// sync pipeline created before the toggle
	p := m.AddCompute(ComputeProgramID(0), testComputeBlob("cs"))
	assert.True(t, p.CheckCompiled())

	m.SetAsyncCompile(true)
	assert.True(t, m.AsyncCompileEnabled())
	assert.True(t, p.CheckCompiled(), "toggle affects only subsequent creations")

	m.SetAsyncCompile(false)
	p = m.AddCompute(ComputeProgramID(1), testComputeBlob("cs"))
	assert.True(t, p.CheckCompiled())
}

func TestVisitRouting(t *testing.T) {
	m, _ := newTestManager(Config{})
	defer m.Destroy()

	cID := ComputeProgramID(0)
	m.AddCompute(cID, testComputeBlob("cs"))
	gID := GraphicsProgramID(0)
	m.AddGraphics(gID, GraphicsProgramCreateInfo{Modules: testGraphicsModules("opaque")})

	v := &recordingVisitor{}
	assert.True(t, m.Visit(cID, v))
	assert.True(t, m.Visit(gID, v))
	require.Len(t, v.compute, 1)
	require.Len(t, v.graphics, 1)
	assert.Same(t, m.Compute(cID), v.compute[0])
	assert.Same(t, m.Graphics(gID), v.graphics[0])

	// ids no kind claims or empty slots return false without side effects
	assert.False(t, m.Visit(ProgramID{}, v))
	assert.False(t, m.Visit(ComputeProgramID(99), v))
	assert.False(t, m.Visit(RaytraceProgramID(0), v))
	assert.Len(t, v.compute, 1)
	assert.Len(t, v.raytrace, 0)
}

func TestUnloadAll(t *testing.T) {
	m, backend := newTestManager(Config{})
	defer m.Destroy()

	cID := ComputeProgramID(1)
	m.AddCompute(cID, testComputeBlob("cs"))
	gID := GraphicsProgramID(2)
	m.AddGraphics(gID, GraphicsProgramCreateInfo{Modules: testGraphicsModules("opaque")})

	m.UnloadAll()

	assert.False(t, m.Valid(cID))
	assert.False(t, m.Valid(gID))
	assert.False(t, m.Visit(cID, &recordingVisitor{}))
	assert.False(t, m.Visit(gID, &recordingVisitor{}))
	assert.Equal(t, 0, backend.numLivePipelines())
	assert.Equal(t, 0, backend.numLiveLayouts())

	// the manager stays usable, ids can be re-added
	m.AddCompute(cID, testComputeBlob("cs"))
	assert.True(t, m.Valid(cID))
}

func TestPrepareRemoval(t *testing.T) {
	m, backend := newTestManager(Config{})
	defer m.Destroy()

	id := ComputeProgramID(0)
	p := m.AddCompute(id, testComputeBlob("cs"))
	handle := p.Handle()

	m.PrepareRemoval(id)
	assert.False(t, m.Valid(id))
	assert.Equal(t, 1, backend.numLivePipelines(), "destruction deferred to CollectRetired")

	// slot is immediately reusable
	m.AddCompute(id, testComputeBlob("cs2"))

	m.CollectRetired()
	assert.Equal(t, []PipelineHandle{handle}, backend.destroyedPipelines)

	require.PanicsWithValue(t, "Fatal Error", func() {
		m.PrepareRemoval(ComputeProgramID(99))
	})
}

func TestLayoutSharedAcrossPrograms(t *testing.T) {
	m, backend := newTestManager(Config{})
	defer m.Destroy()

	p0 := m.AddCompute(ComputeProgramID(0), testComputeBlob("cs_a"))
	p1 := m.AddCompute(ComputeProgramID(1), testComputeBlob("cs_b"))
	assert.Same(t, p0.Layout(), p1.Layout(), "identical binding signature shares one layout")
	assert.Equal(t, 1, backend.numLiveLayouts())

	blob := testComputeBlob("cs_c")
	blob.Header.RegisterIndex = 7
	p2 := m.AddCompute(ComputeProgramID(2), blob)
	assert.NotSame(t, p0.Layout(), p2.Layout())
	assert.Equal(t, 2, backend.numLiveLayouts())
}

func TestAddRaytrace(t *testing.T) {
	m, _ := newTestManager(Config{})
	defer m.Destroy()

	id := RaytraceProgramID(0)
	info := RaytraceProgramCreateInfo{
		Modules: []ShaderModule{
			{Handle: 0xB1, Header: ShaderModuleHeader{Stage: ShaderStageRaygen, Name: "rgen"}},
			{Handle: 0xB2, Header: ShaderModuleHeader{Stage: ShaderStageMiss, Name: "miss"}},
		},
		GroupCount: 2,
	}
	p := m.AddRaytrace(id, info)
	assert.True(t, p.CheckCompiled())

	p.Bind(7)

	out := make([]byte, 8)
	require.NoError(t, m.RaytraceShaderGroupHandles(id, 0, 2, 4, out))
	assert.Equal(t, byte(p.Handle()), out[0])
}

func testOpaqueState() StaticRenderState {
	return StaticRenderState{
		CullMode:         CullBack,
		DepthClipEnable:  true,
		DepthTestEnable:  true,
		DepthWriteEnable: true,
		DepthTestFunc:    CompareOpGreaterOrEqual,
		ColorWriteMask:   0xFFFF_FFFF,
	}
}

func testVariantDesc() GraphicsVariantDescription {
	return GraphicsVariantDescription{
		RenderState: 1,
		Class: RenderPassClass{
			ColorTargetMask: 0b1,
			DepthState:      DepthAttachmentReadWrite,
		},
		Topology:    TopologyTriangleList,
		InputLayout: 1,
		Strides:     [MaxVertexInputStreams]uint32{16},
	}
}

func newGraphicsTestManager(t *testing.T) (*Manager, *testBackend) {
	t.Helper()
	layout := InputLayout{}
	layout.Attributes[0] = VertexAttribute{Used: true, Location: 0, Stream: 0, Format: 100}
	layout.Streams[0] = VertexStream{Used: true}

	m, backend := newTestManager(Config{
		RenderStates: testRenderStates{1: testOpaqueState()},
		InputLayouts: testInputLayouts{1: layout},
	})
	return m, backend
}

func TestGraphicsVariantIdentity(t *testing.T) {
	m, backend := newGraphicsTestManager(t)
	defer m.Destroy()

	g := m.AddGraphics(GraphicsProgramID(0), GraphicsProgramCreateInfo{Modules: testGraphicsModules("opaque")})
	assert.Equal(t, 0, backend.numLivePipelines(), "no PSO is built at add time")

	desc := testVariantDesc()
	p := g.Variant(desc)
	assert.Same(t, p, g.Variant(desc), "identical variant description returns the same pipeline")
	assert.Equal(t, 1, g.NumVariants())
	assert.Equal(t, 1, backend.numLivePipelines())

	other := desc
	other.Wireframe = true
	assert.NotSame(t, p, g.Variant(other))
	assert.Equal(t, 2, g.NumVariants())
}

func TestGraphicsVariantDerivativeHint(t *testing.T) {
	m, backend := newGraphicsTestManager(t)
	defer m.Destroy()

	g := m.AddGraphics(GraphicsProgramID(0), GraphicsProgramCreateInfo{Modules: testGraphicsModules("opaque")})

	base := g.Variant(testVariantDesc())
	baseDesc := backend.graphicsDesc(base.Handle())
	assert.NotZero(t, baseDesc.Flags&vk.PIPELINE_CREATE_ALLOW_DERIVATIVES_BIT)
	assert.Zero(t, baseDesc.Flags&vk.PIPELINE_CREATE_DERIVATIVE_BIT)
	assert.Zero(t, baseDesc.BasePipeline)

	other := testVariantDesc()
	other.Topology = TopologyLineList
	derived := g.Variant(other)
	derivedDesc := backend.graphicsDesc(derived.Handle())
	assert.NotZero(t, derivedDesc.Flags&vk.PIPELINE_CREATE_DERIVATIVE_BIT,
		"later variants derive from the compiled first variant")
	assert.Equal(t, base.Handle(), derivedDesc.BasePipeline)
}

func TestGraphicsVariantDerivedState(t *testing.T) {
	m, backend := newGraphicsTestManager(t)
	defer m.Destroy()

	g := m.AddGraphics(GraphicsProgramID(0), GraphicsProgramCreateInfo{Modules: testGraphicsModules("opaque")})
	p := g.Variant(testVariantDesc())
	desc := backend.graphicsDesc(p.Handle())

	require.Len(t, desc.Stages, 2)
	assert.Equal(t, ShaderStageVertex, desc.Stages[0].Stage)
	assert.Equal(t, g.Layout().Handle(), desc.Layout)
	assert.NotZero(t, desc.RenderPass)
	assert.Equal(t, SampleCount1, desc.RasterizationSamples)
	assert.Zero(t, desc.PatchControlPoints)
	assert.True(t, desc.DepthStencil.DepthTestEnable)
	assert.True(t, desc.Raster.DepthBiasEnable)
	require.Len(t, desc.VertexAttributes, 1)
	require.Len(t, desc.VertexBindings, 1)
	assert.Equal(t, uint32(16), desc.VertexBindings[0].Stride)
	require.Len(t, desc.BlendAttachments, 1, "single color target pass emits a single blend entry")
	assert.Equal(t, uint32(0xF), desc.BlendAttachments[0].ColorWriteMask)

	// the stored mask and a fresh derivation agree
	state := testOpaqueState()
	assert.Equal(t, deriveDynamicStateMask(&state, true), p.DynamicStates())
	assert.Equal(t, p.DynamicStates().dynamicStates(), desc.DynamicStates)
}

func TestGraphicsNativePassCompileRef(t *testing.T) {
	m, backend := newGraphicsTestManager(t)
	defer m.Destroy()

	pass := &testRenderPass{
		handle:    0xC1,
		hasDepth:  true,
		colorMask: 0b1,
		samples:   SampleCount1,
	}

	g := m.AddGraphics(GraphicsProgramID(0), GraphicsProgramCreateInfo{Modules: testGraphicsModules("opaque")})
	desc := GraphicsVariantDescription{
		RenderState: 1,
		Pass:        pass,
		Topology:    TopologyTriangleList,
		InputLayout: 1,
	}
	p := g.Variant(desc)

	assert.Equal(t, 0, pass.compileRef, "compile ref released exactly once after the build")
	assert.Equal(t, RenderPassHandle(0xC1), backend.graphicsDesc(p.Handle()).RenderPass)
}

func TestGraphicsTessellation(t *testing.T) {
	m, backend := newGraphicsTestManager(t)
	defer m.Destroy()

	modules := testGraphicsModules("displace")
	modules.TessControl = &ShaderModule{
		Handle: 0xA3,
		Header: ShaderModuleHeader{Stage: ShaderStageTessControl, Name: "displace.tc"},
	}
	modules.TessEval = &ShaderModule{
		Handle: 0xA4,
		Header: ShaderModuleHeader{Stage: ShaderStageTessEval, Name: "displace.te"},
	}

	g := m.AddGraphics(GraphicsProgramID(0), GraphicsProgramCreateInfo{Modules: modules})
	assert.True(t, g.Layout().HasTessControl())

	desc := testVariantDesc()
	desc.Topology = TopologyPatchList
	p := g.Variant(desc)
	assert.Equal(t, uint32(tessControlPoints), backend.graphicsDesc(p.Handle()).PatchControlPoints)
}

func TestGraphicsAsyncVariant(t *testing.T) {
	m, backend := newGraphicsTestManager(t)
	defer m.Destroy()
	backend.buildDelay = time.Millisecond

	m.SetAsyncCompile(true)
	g := m.AddGraphics(GraphicsProgramID(0), GraphicsProgramCreateInfo{Modules: testGraphicsModules("opaque")})
	p := g.Variant(testVariantDesc())

	p.Bind(9)
	assert.True(t, p.CheckCompiled())
	assert.NotZero(t, p.Handle())

	binds := backend.recordedBinds()
	require.Len(t, binds, 1)
	assert.Equal(t, BindPointGraphics, binds[0].bindPoint)
	assert.Equal(t, p.Handle(), binds[0].pipeline)
}

func TestManagerConfigValidation(t *testing.T) {
	require.PanicsWithValue(t, "Fatal Error", func() {
		NewManager(Config{})
	})
}

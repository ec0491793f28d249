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
	"bytes"
	"fmt"
	"time"

	"goarrg.com/debug"

	"github.com/crazycoderx2/DagorEngine/rhi/vkpipe/internal/vk"
)

// GraphicsVariantDescription identifies one fixed-function variant of a
// graphics program. Either Pass (native path, with Subpass) or Class
// (pooled path) is set; a nil Pass selects the pooled path. Comparable,
// used as the variant map key.
type GraphicsVariantDescription struct {
	RenderState StaticRenderStateID

	Pass    RenderPass
	Subpass uint32
	Class   RenderPassClass

	Topology    PrimitiveTopology
	InputLayout InputLayoutID
	Strides     [MaxVertexInputStreams]uint32
	Wireframe   bool
}

func (d GraphicsVariantDescription) String() string {
	pass := d.Class.String()
	if d.Pass != nil {
		pass = fmt.Sprintf("%s:%d", toHex(d.Pass.Handle()), d.Subpass)
	}
	return fmt.Sprintf("[rs:%d rp:%s top:%d il:%d strides:%v wireframe:%t]",
		d.RenderState, pass, d.Topology, d.InputLayout, d.Strides, d.Wireframe)
}

// graphicsScratch holds everything the build call needs. pass is non-nil
// iff a compile ref was taken at construction; compile releases it exactly
// once on both the success and failure path.
type graphicsScratch struct {
	desc   GraphicsPipelineCreateDescription
	pass   RenderPass
	parent *GraphicsPipeline
	name   string
}

// GraphicsPipeline owns the PSO of one variant.
type GraphicsPipeline struct {
	basePipeline
	variant GraphicsVariantDescription
	dynMask DynamicStateMask
	scratch *graphicsScratch
}

func (p *GraphicsPipeline) compile() {
	s := p.scratch
	start := time.Now()

	desc := s.desc
	if s.parent != nil && s.parent.CheckCompiled() {
		// opportunistic derivative hint, skipped when the parent is still
		// in flight
		desc.Flags |= vk.PIPELINE_CREATE_DERIVATIVE_BIT
		desc.BasePipeline = s.parent.Handle()
	}

	handle, err := p.deps.backend.CreateGraphicsPipeline(s.name, desc, p.deps.cache)
	if err == nil && handle == 0 {
		err = debug.Errorf("Backend reported success with a null pipeline handle")
	}

	if s.pass != nil {
		s.pass.ReleasePipelineCompileRef()
	}

	if err != nil {
		abort("vulkan: failed to compile graphics program %s variant %q %s after %s: %s",
			p.id, s.name, p.variant, time.Since(start), err)
	}

	p.logBuildTime(s.name, time.Since(start))
	p.scratch = nil
	p.publish(handle)
}

func (p *GraphicsPipeline) Bind(cb CommandBufferHandle) {
	p.bind(cb, BindPointGraphics)
}

// DynamicStates reports which optional dynamic states apply to this
// variant, computed once at creation.
func (p *GraphicsPipeline) DynamicStates() DynamicStateMask {
	p.noCopy.check()
	return p.dynMask
}

func (p *GraphicsPipeline) Variant() GraphicsVariantDescription {
	p.noCopy.check()
	return p.variant
}

// GraphicsProgramCreateInfo is what callers hand to Manager.AddGraphics.
type GraphicsProgramCreateInfo struct {
	Modules GraphicsModuleSet
}

// GraphicsProgram is the stored per-program object: a shared module set
// and layout plus the PSO variants built from them. The first created
// variant becomes the derivative parent of every later one.
type GraphicsProgram struct {
	noCopy   noCopy
	deps     *pipelineDeps
	id       ProgramID
	modules  GraphicsModuleSet
	layout   *Layout
	name     string
	variants map[GraphicsVariantDescription]*GraphicsPipeline
	base     *GraphicsPipeline
}

func newGraphicsProgram(deps *pipelineDeps, id ProgramID, layout *Layout,
	info GraphicsProgramCreateInfo,
) *GraphicsProgram {
	g := &GraphicsProgram{
		deps:     deps,
		id:       id,
		modules:  info.Modules,
		layout:   layout,
		name:     info.Modules.debugName(),
		variants: map[GraphicsVariantDescription]*GraphicsPipeline{},
	}
	g.noCopy.init()
	return g
}

func (g *GraphicsProgram) ProgramID() ProgramID {
	return g.id
}

func (g *GraphicsProgram) Name() string {
	return g.name
}

func (g *GraphicsProgram) Layout() *Layout {
	return g.layout
}

func (g *GraphicsProgram) NumVariants() int {
	g.noCopy.check()
	return len(g.variants)
}

// Variant returns the pipeline for desc, creating and compiling it on
// first use. Submission thread only.
func (g *GraphicsProgram) Variant(desc GraphicsVariantDescription) *GraphicsPipeline {
	g.noCopy.check()
	if p, ok := g.variants[desc]; ok {
		return p
	}

	p := g.createVariant(desc)
	g.variants[desc] = p
	if g.base == nil {
		g.base = p
	}
	return p
}

func (g *GraphicsProgram) createVariant(desc GraphicsVariantDescription) *GraphicsPipeline {
	deps := g.deps
	state := deps.renderStates.GetStatic(desc.RenderState)

	var passHandle RenderPassHandle
	var depthState DepthAttachmentState
	var colorMask uint32
	var passSamples SampleCountFlags
	var colorSamples *[MaxSimultaneousRenderTargets]uint8

	if desc.Pass != nil {
		passHandle = desc.Pass.Handle()
		if desc.Pass.HasDepthAtSubpass(desc.Subpass) {
			depthState = DepthAttachmentReadWrite
		}
		colorMask = desc.Pass.ColorWriteMaskAtSubpass(desc.Subpass)
		passSamples = desc.Pass.MSAASamplesAtSubpass(desc.Subpass)
		// keep the pass alive until the build completes
		desc.Pass.AddPipelineCompileRef()
	} else {
		if deps.passClasses == nil {
			abort("vulkan: graphics program %s requested pooled pass %s but no RenderPassClassResolver is configured",
				g.id, desc.Class)
		}
		passHandle = deps.passClasses.ResolvePass(desc.Class)
		depthState = desc.Class.DepthState
		colorMask = desc.Class.ColorTargetMask
		passSamples = desc.Class.SampleCount()
		colorSamples = &desc.Class.ColorSamples
	}
	hasDepth := depthState != DepthAttachmentNone

	dynMask := deriveDynamicStateMask(&state, hasDepth)
	inputLayout := deps.inputLayouts.Get(desc.InputLayout)
	attributes, bindings := deriveVertexInput(&inputLayout, &desc.Strides)

	patchControlPoints := uint32(0)
	if g.layout.HasTessControl() {
		patchControlPoints = tessControlPoints
	}

	createDesc := GraphicsPipelineCreateDescription{
		Flags: vk.PIPELINE_CREATE_ALLOW_DERIVATIVES_BIT,

		Stages: deriveStages(&g.modules),

		VertexAttributes: attributes,
		VertexBindings:   bindings,

		Topology:           desc.Topology,
		PatchControlPoints: patchControlPoints,

		RasterizationSamples: deriveSampleCount(&state, passSamples, colorMask, hasDepth, &deps.device),
		AlphaToCoverage:      state.AlphaToCoverage,

		Raster:       deriveRaster(&state, desc.Wireframe, hasDepth, &deps.device),
		DepthStencil: deriveDepthStencil(&state, depthState),
		BlendAttachments: deriveBlendAttachments(&state, colorMask,
			uint32(g.layout.fragmentOutputMask()), colorSamples),

		DynamicStates: dynMask.dynamicStates(),

		Layout:     g.layout.Handle(),
		RenderPass: passHandle,
		Subpass:    desc.Subpass,
	}

	p := &GraphicsPipeline{
		variant: desc,
		dynMask: dynMask,
		scratch: &graphicsScratch{
			desc:   createDesc,
			pass:   desc.Pass,
			parent: g.base,
			name:   fmt.Sprintf("%s:v%d", g.name, len(g.variants)),
		},
	}
	p.init(deps, g.id, g.layout)

	if deps.async.Load() {
		deps.compiler.queue(p)
	} else {
		p.compile()
	}
	return p
}

// shutdown tears down every variant, waiting out pending compiles.
func (g *GraphicsProgram) shutdown() {
	g.noCopy.check()
	for _, p := range g.variants {
		p.shutdown()
	}
	g.variants = nil
	g.base = nil
	g.noCopy.close()
}

func (g *GraphicsProgram) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")
	buff.WriteString(fmt.Sprintf("\"Program\": %q,", g.id))
	buff.WriteString(fmt.Sprintf("\"Name\": %q,", g.name))
	buff.WriteString(fmt.Sprintf("\"Layout\": %q,", g.layout.Name()))
	buff.WriteString("\"Variants\": [")
	if len(g.variants) > 0 {
		_ = mapRunFuncStringSorted(g.variants, func(k GraphicsVariantDescription, p *GraphicsPipeline) error {
			buff.WriteString(fmt.Sprintf("{\"Variant\": %q, \"Handle\": %q, \"Compiled\": %t},",
				k, toHex(p.Handle()), p.CheckCompiled()))
			return nil
		})
		buff.Truncate(buff.Len() - 1)
	}
	buff.WriteString("]}")
	return buff.Bytes(), nil
}

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

import "github.com/crazycoderx2/DagorEngine/rhi/vkpipe/internal/vk"

type PrimitiveTopology uint32

const (
	TopologyPointList     PrimitiveTopology = vk.PRIMITIVE_TOPOLOGY_POINT_LIST
	TopologyLineList      PrimitiveTopology = vk.PRIMITIVE_TOPOLOGY_LINE_LIST
	TopologyLineStrip     PrimitiveTopology = vk.PRIMITIVE_TOPOLOGY_LINE_STRIP
	TopologyTriangleList  PrimitiveTopology = vk.PRIMITIVE_TOPOLOGY_TRIANGLE_LIST
	TopologyTriangleStrip PrimitiveTopology = vk.PRIMITIVE_TOPOLOGY_TRIANGLE_STRIP
	TopologyTriangleFan   PrimitiveTopology = vk.PRIMITIVE_TOPOLOGY_TRIANGLE_FAN
	TopologyPatchList     PrimitiveTopology = vk.PRIMITIVE_TOPOLOGY_PATCH_LIST
)

// patchControlPoints used whenever the layout carries a tess control stage.
const tessControlPoints = 4

type PipelineShaderStage struct {
	Stage  ShaderStage
	Module ShaderModuleHandle
}

type RasterState struct {
	PolygonMode      uint32
	CullMode         uint32
	FrontFace        uint32
	DepthClampEnable bool
	DepthBiasEnable  bool
}

type DepthStencilState struct {
	DepthTestEnable       bool
	DepthWriteEnable      bool
	DepthCompareOp        CompareOp
	DepthBoundsTestEnable bool

	StencilTestEnable  bool
	StencilCompareOp   CompareOp
	StencilFailOp      StencilOp
	StencilPassOp      StencilOp
	StencilDepthFailOp StencilOp
}

type BlendAttachmentState struct {
	BlendEnable bool

	SrcColorFactor BlendFactor
	DstColorFactor BlendFactor
	ColorOp        BlendOp

	SrcAlphaFactor BlendFactor
	DstAlphaFactor BlendFactor
	AlphaOp        BlendOp

	ColorWriteMask uint32
}

type ComputePipelineCreateDescription struct {
	Flags        uint32
	Module       ShaderModuleHandle
	Layout       PipelineLayoutHandle
	BasePipeline PipelineHandle
}

type GraphicsPipelineCreateDescription struct {
	Flags uint32

	Stages []PipelineShaderStage

	VertexAttributes []VertexAttributeDescription
	VertexBindings   []VertexBindingDescription

	Topology           PrimitiveTopology
	PatchControlPoints uint32

	RasterizationSamples SampleCountFlags
	AlphaToCoverage      bool

	Raster           RasterState
	DepthStencil     DepthStencilState
	BlendAttachments []BlendAttachmentState

	DynamicStates []uint32

	Layout       PipelineLayoutHandle
	RenderPass   RenderPassHandle
	Subpass      uint32
	BasePipeline PipelineHandle
}

type RaytracePipelineCreateDescription struct {
	Flags             uint32
	Stages            []PipelineShaderStage
	GroupCount        uint32
	MaxRecursionDepth uint32
	Layout            PipelineLayoutHandle
	BasePipeline      PipelineHandle
}

// DynamicStateMask records which optional dynamic states are meaningful for
// one variant. A bit is set only when the feature is enabled by the render
// state AND the pass shape can honor it.
type DynamicStateMask struct {
	HasDepthBias       bool
	HasDepthBoundsTest bool
	HasStencilTest     bool
	HasBlendConstants  bool
}

// deriveDynamicStateMask is the single source of truth for dynamic state
// applicability; the pipeline constructor and external queries both go
// through it.
func deriveDynamicStateMask(state *StaticRenderState, hasDepth bool) DynamicStateMask {
	mask := DynamicStateMask{}
	if hasDepth {
		// bias values are always dynamic when a depth attachment exists,
		// matching the always-on depthBiasEnable in the raster state
		mask.HasDepthBias = true
		mask.HasDepthBoundsTest = state.DepthBoundsEnable
		mask.HasStencilTest = state.StencilTestEnable
	}

	blendParams := 1
	if state.IndependentBlendEnable {
		blendParams = NumIndependentBlendParameters
	}
	for i := 0; i < blendParams; i++ {
		p := &state.Blend[i]
		if !p.Enable {
			continue
		}
		if p.SrcFactor.usesConstant() || p.DstFactor.usesConstant() {
			mask.HasBlendConstants = true
		}
		if p.SeparateAlphaEnable && (p.SrcAlphaFactor.usesConstant() || p.DstAlphaFactor.usesConstant()) {
			mask.HasBlendConstants = true
		}
	}
	return mask
}

func (m DynamicStateMask) dynamicStates() []uint32 {
	// viewport and scissor are always dynamic, the static viewport state in
	// the create description is a shared placeholder
	states := make([]uint32, 0, 6)
	states = append(states, vk.DYNAMIC_STATE_VIEWPORT, vk.DYNAMIC_STATE_SCISSOR)
	if m.HasDepthBias {
		states = append(states, vk.DYNAMIC_STATE_DEPTH_BIAS)
	}
	if m.HasDepthBoundsTest {
		states = append(states, vk.DYNAMIC_STATE_DEPTH_BOUNDS)
	}
	if m.HasStencilTest {
		states = append(states,
			vk.DYNAMIC_STATE_STENCIL_COMPARE_MASK,
			vk.DYNAMIC_STATE_STENCIL_WRITE_MASK,
			vk.DYNAMIC_STATE_STENCIL_REFERENCE,
		)
	}
	if m.HasBlendConstants {
		states = append(states, vk.DYNAMIC_STATE_BLEND_CONSTANTS)
	}
	return states
}

// checkSampleCount validates a forced sample count against the device. A
// forced count above one is only legal on passes with no color and no
// depth attachments; anything else is a content bug. A forced count of one
// is always single-sampled and never validated.
func checkSampleCount(forced uint32, colorMask uint32, hasDepth bool, device *DeviceInfo) SampleCountFlags {
	if forced <= 1 {
		return SampleCount1
	}
	flag := sampleCountFromInt(forced)
	if !device.NoAttachmentSampleCounts.HasBits(flag) {
		abort("vulkan: forced sample count %d not supported by device (supported: %s)",
			forced, device.NoAttachmentSampleCounts)
	}
	if colorMask != 0 || hasDepth {
		abort("vulkan: forced sample count %d used with attachments (colorMask: 0x%X hasDepth: %t)",
			forced, colorMask, hasDepth)
	}
	return flag
}

func deriveSampleCount(state *StaticRenderState, passSamples SampleCountFlags,
	colorMask uint32, hasDepth bool, device *DeviceInfo,
) SampleCountFlags {
	if state.ForcedSampleCount != 0 {
		return checkSampleCount(state.ForcedSampleCount, colorMask, hasDepth, device)
	}
	return passSamples
}

// deriveBlendAttachments walks the color target slots. passMask carries one
// presence bit per slot and shifts every slot; shaderMask shifts only on
// retained slots because resolve targets do not consume a shader output.
// colorSamples is nil on the native pass path, where resolve targets are
// part of the pass object itself and never appear as extra slots. Entries
// are emitted up to the highest slot the pass uses; a pass with no color
// targets gets none, keeping the backend's attachment count in sync with
// the subpass.
func deriveBlendAttachments(state *StaticRenderState, passMask uint32,
	shaderMask uint32, colorSamples *[MaxSimultaneousRenderTargets]uint8,
) []BlendAttachmentState {
	if passMask == 0 {
		return nil
	}
	out := make([]BlendAttachmentState, 0, MaxSimultaneousRenderTargets)
	attachmentCount := uint32(0)
	for i := 0; i < MaxSimultaneousRenderTargets && passMask != 0; i++ {
		if i > 0 && colorSamples != nil && colorSamples[i-1] > 1 {
			// resolve target of the previous multisampled slot, carries no
			// blend state of its own
			passMask >>= 1
			continue
		}

		params := &state.Blend[0]
		if state.IndependentBlendEnable && i < NumIndependentBlendParameters {
			params = &state.Blend[i]
		}

		att := BlendAttachmentState{
			BlendEnable:    params.Enable,
			SrcColorFactor: params.SrcFactor,
			DstColorFactor: params.DstFactor,
			ColorOp:        params.Op,
		}
		if params.SeparateAlphaEnable {
			att.SrcAlphaFactor = params.SrcAlphaFactor
			att.DstAlphaFactor = params.DstAlphaFactor
			att.AlphaOp = params.AlphaOp
		} else {
			att.SrcAlphaFactor = params.SrcFactor
			att.DstAlphaFactor = params.DstFactor
			att.AlphaOp = params.Op
		}

		if (shaderMask & passMask & 1) != 0 {
			att.ColorWriteMask = (state.ColorWriteMask >> (attachmentCount * 4)) & vk.COLOR_COMPONENT_RGBA_BIT
		} else {
			// either the shader does not write this slot or the pass has no
			// target here, writing would produce undefined framebuffer data
			att.ColorWriteMask = 0
		}

		out = append(out, att)
		attachmentCount++
		passMask >>= 1
		shaderMask >>= 1
	}
	return out
}

func deriveDepthStencil(state *StaticRenderState, depthState DepthAttachmentState) DepthStencilState {
	if depthState == DepthAttachmentNone {
		// pipeline depth state must match attachment presence
		return DepthStencilState{}
	}
	ds := DepthStencilState{
		DepthTestEnable:       state.DepthTestEnable,
		DepthWriteEnable:      state.DepthWriteEnable,
		DepthCompareOp:        state.DepthTestFunc,
		DepthBoundsTestEnable: state.DepthBoundsEnable,

		StencilTestEnable:  state.StencilTestEnable,
		StencilCompareOp:   state.StencilTestFunc,
		StencilFailOp:      state.StencilFailOp,
		StencilPassOp:      state.StencilPassOp,
		StencilDepthFailOp: state.StencilDepthFailOp,
	}
	if depthState == DepthAttachmentReadOnly {
		ds.DepthWriteEnable = false
	}
	return ds
}

func deriveRaster(state *StaticRenderState, wireframe bool, hasDepth bool, device *DeviceInfo) RasterState {
	polygonMode := uint32(vk.POLYGON_MODE_FILL)
	if wireframe {
		polygonMode = vk.POLYGON_MODE_LINE
	}
	rs := RasterState{
		PolygonMode: polygonMode,
		CullMode:    state.CullMode.toVk(),
		FrontFace:   vk.FRONT_FACE_CLOCKWISE,
	}
	if hasDepth {
		rs.DepthBiasEnable = true
		rs.DepthClampEnable = !state.DepthClipEnable && device.DepthClampAvailable
	}
	return rs
}

func deriveVertexInput(layout *InputLayout, strides *[MaxVertexInputStreams]uint32,
) ([]VertexAttributeDescription, []VertexBindingDescription) {
	attributes := make([]VertexAttributeDescription, 0, MaxVertexAttributes)
	for i := range layout.Attributes {
		if layout.Attributes[i].Used {
			attributes = append(attributes, layout.Attributes[i].toDescription())
		}
	}
	bindings := make([]VertexBindingDescription, 0, MaxVertexInputStreams)
	for i := range layout.Streams {
		if layout.Streams[i].Used {
			bindings = append(bindings, layout.Streams[i].toDescription(uint32(i), strides[i]))
		}
	}
	return attributes, bindings
}

func deriveStages(modules *GraphicsModuleSet) []PipelineShaderStage {
	stages := make([]PipelineShaderStage, 0, GraphicsStageCount)
	for _, m := range modules.slots() {
		if m == nil {
			continue
		}
		stages = append(stages, PipelineShaderStage{
			Stage:  m.Header.Stage,
			Module: m.Handle,
		})
	}
	return stages
}

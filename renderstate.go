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

type CullMode uint8

const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

func (c CullMode) String() string {
	switch c {
	case CullNone:
		return "None"
	case CullFront:
		return "Front"
	case CullBack:
		return "Back"

	default:
		abort("Unknown CullMode: %d", uint8(c))
		return ""
	}
}

func (c CullMode) toVk() uint32 {
	switch c {
	case CullNone:
		return vk.CULL_MODE_NONE
	case CullFront:
		return vk.CULL_MODE_FRONT_BIT
	case CullBack:
		return vk.CULL_MODE_BACK_BIT

	default:
		abort("Unknown CullMode: %d", uint8(c))
		return 0
	}
}

// Compare/stencil/blend values are stored pre-encoded as the hardware
// enum values from internal/vk; derivation passes them through untouched.
type (
	CompareOp   uint32
	StencilOp   uint32
	BlendFactor uint32
	BlendOp     uint32
)

const (
	CompareOpNever          CompareOp = vk.COMPARE_OP_NEVER
	CompareOpLess           CompareOp = vk.COMPARE_OP_LESS
	CompareOpEqual          CompareOp = vk.COMPARE_OP_EQUAL
	CompareOpLessOrEqual    CompareOp = vk.COMPARE_OP_LESS_OR_EQUAL
	CompareOpGreater        CompareOp = vk.COMPARE_OP_GREATER
	CompareOpNotEqual       CompareOp = vk.COMPARE_OP_NOT_EQUAL
	CompareOpGreaterOrEqual CompareOp = vk.COMPARE_OP_GREATER_OR_EQUAL
	CompareOpAlways         CompareOp = vk.COMPARE_OP_ALWAYS
)

const (
	StencilOpKeep    StencilOp = vk.STENCIL_OP_KEEP
	StencilOpZero    StencilOp = vk.STENCIL_OP_ZERO
	StencilOpReplace StencilOp = vk.STENCIL_OP_REPLACE
	StencilOpInvert  StencilOp = vk.STENCIL_OP_INVERT
)

const (
	BlendFactorZero                  BlendFactor = vk.BLEND_FACTOR_ZERO
	BlendFactorOne                   BlendFactor = vk.BLEND_FACTOR_ONE
	BlendFactorSrcColor              BlendFactor = vk.BLEND_FACTOR_SRC_COLOR
	BlendFactorOneMinusSrcColor      BlendFactor = vk.BLEND_FACTOR_ONE_MINUS_SRC_COLOR
	BlendFactorDstColor              BlendFactor = vk.BLEND_FACTOR_DST_COLOR
	BlendFactorOneMinusDstColor      BlendFactor = vk.BLEND_FACTOR_ONE_MINUS_DST_COLOR
	BlendFactorSrcAlpha              BlendFactor = vk.BLEND_FACTOR_SRC_ALPHA
	BlendFactorOneMinusSrcAlpha      BlendFactor = vk.BLEND_FACTOR_ONE_MINUS_SRC_ALPHA
	BlendFactorDstAlpha              BlendFactor = vk.BLEND_FACTOR_DST_ALPHA
	BlendFactorOneMinusDstAlpha      BlendFactor = vk.BLEND_FACTOR_ONE_MINUS_DST_ALPHA
	BlendFactorConstantColor         BlendFactor = vk.BLEND_FACTOR_CONSTANT_COLOR
	BlendFactorOneMinusConstantColor BlendFactor = vk.BLEND_FACTOR_ONE_MINUS_CONSTANT_COLOR
	BlendFactorConstantAlpha         BlendFactor = vk.BLEND_FACTOR_CONSTANT_ALPHA
	BlendFactorOneMinusConstantAlpha BlendFactor = vk.BLEND_FACTOR_ONE_MINUS_CONSTANT_ALPHA
	BlendFactorSrcAlphaSaturate      BlendFactor = vk.BLEND_FACTOR_SRC_ALPHA_SATURATE
)

// usesConstant reports whether the factor reads the blend-constants
// dynamic state.
func (f BlendFactor) usesConstant() bool {
	return f >= vk.BLEND_FACTOR_CONSTANT_COLOR && f <= vk.BLEND_FACTOR_ONE_MINUS_CONSTANT_ALPHA
}

const (
	BlendOpAdd             BlendOp = vk.BLEND_OP_ADD
	BlendOpSubtract        BlendOp = vk.BLEND_OP_SUBTRACT
	BlendOpReverseSubtract BlendOp = vk.BLEND_OP_REVERSE_SUBTRACT
	BlendOpMin             BlendOp = vk.BLEND_OP_MIN
	BlendOpMax             BlendOp = vk.BLEND_OP_MAX
)

// NumIndependentBlendParameters is how many per-target blend parameter
// sets a render state carries when independent blending is enabled.
const NumIndependentBlendParameters = 4

type BlendParameters struct {
	Enable              bool
	SeparateAlphaEnable bool

	SrcFactor BlendFactor
	DstFactor BlendFactor
	Op        BlendOp

	SrcAlphaFactor BlendFactor
	DstAlphaFactor BlendFactor
	AlphaOp        BlendOp
}

// StaticRenderState is the immutable snapshot of one render-state object,
// resolved by index from the render-state backend. Everything the
// fixed-function derivation needs and nothing more.
type StaticRenderState struct {
	CullMode        CullMode
	DepthClipEnable bool

	DepthTestEnable   bool
	DepthWriteEnable  bool
	DepthTestFunc     CompareOp
	DepthBoundsEnable bool

	StencilTestEnable  bool
	StencilTestFunc    CompareOp
	StencilFailOp      StencilOp
	StencilPassOp      StencilOp
	StencilDepthFailOp StencilOp

	AlphaToCoverage        bool
	IndependentBlendEnable bool
	Blend                  [NumIndependentBlendParameters]BlendParameters

	// 4 write-mask bits per color target, slot 0 in the low nibble.
	ColorWriteMask uint32

	// 0 means take the sample count from the render pass.
	ForcedSampleCount uint32
}

type StaticRenderStateID uint32

// RenderStateBackend resolves static state snapshots; owned by the render
// state system, injected here as a read-only collaborator.
type RenderStateBackend interface {
	GetStatic(id StaticRenderStateID) StaticRenderState
}

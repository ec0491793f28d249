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

// Package vk holds the subset of vulkan_core.h enum values that pipeline
// state derivation emits. Values must stay numerically identical to the
// header so a backend can forward them without translation.
package vk

const (
	SAMPLE_COUNT_1_BIT  = 0x00000001
	SAMPLE_COUNT_2_BIT  = 0x00000002
	SAMPLE_COUNT_4_BIT  = 0x00000004
	SAMPLE_COUNT_8_BIT  = 0x00000008
	SAMPLE_COUNT_16_BIT = 0x00000010
	SAMPLE_COUNT_32_BIT = 0x00000020
	SAMPLE_COUNT_64_BIT = 0x00000040
)

const (
	CULL_MODE_NONE      = 0
	CULL_MODE_FRONT_BIT = 0x00000001
	CULL_MODE_BACK_BIT  = 0x00000002
)

const (
	FRONT_FACE_COUNTER_CLOCKWISE = 0
	FRONT_FACE_CLOCKWISE         = 1
)

const (
	POLYGON_MODE_FILL = 0
	POLYGON_MODE_LINE = 1
)

const (
	COMPARE_OP_NEVER            = 0
	COMPARE_OP_LESS             = 1
	COMPARE_OP_EQUAL            = 2
	COMPARE_OP_LESS_OR_EQUAL    = 3
	COMPARE_OP_GREATER          = 4
	COMPARE_OP_NOT_EQUAL        = 5
	COMPARE_OP_GREATER_OR_EQUAL = 6
	COMPARE_OP_ALWAYS           = 7
)

const (
	STENCIL_OP_KEEP                = 0
	STENCIL_OP_ZERO                = 1
	STENCIL_OP_REPLACE             = 2
	STENCIL_OP_INCREMENT_AND_CLAMP = 3
	STENCIL_OP_DECREMENT_AND_CLAMP = 4
	STENCIL_OP_INVERT              = 5
	STENCIL_OP_INCREMENT_AND_WRAP  = 6
	STENCIL_OP_DECREMENT_AND_WRAP  = 7
)

const (
	BLEND_FACTOR_ZERO                     = 0
	BLEND_FACTOR_ONE                      = 1
	BLEND_FACTOR_SRC_COLOR                = 2
	BLEND_FACTOR_ONE_MINUS_SRC_COLOR      = 3
	BLEND_FACTOR_DST_COLOR                = 4
	BLEND_FACTOR_ONE_MINUS_DST_COLOR      = 5
	BLEND_FACTOR_SRC_ALPHA                = 6
	BLEND_FACTOR_ONE_MINUS_SRC_ALPHA      = 7
	BLEND_FACTOR_DST_ALPHA                = 8
	BLEND_FACTOR_ONE_MINUS_DST_ALPHA      = 9
	BLEND_FACTOR_CONSTANT_COLOR           = 10
	BLEND_FACTOR_ONE_MINUS_CONSTANT_COLOR = 11
	BLEND_FACTOR_CONSTANT_ALPHA           = 12
	BLEND_FACTOR_ONE_MINUS_CONSTANT_ALPHA = 13
	BLEND_FACTOR_SRC_ALPHA_SATURATE       = 14
	BLEND_FACTOR_SRC1_COLOR               = 15
	BLEND_FACTOR_ONE_MINUS_SRC1_COLOR     = 16
	BLEND_FACTOR_SRC1_ALPHA               = 17
	BLEND_FACTOR_ONE_MINUS_SRC1_ALPHA     = 18
)

const (
	BLEND_OP_ADD              = 0
	BLEND_OP_SUBTRACT         = 1
	BLEND_OP_REVERSE_SUBTRACT = 2
	BLEND_OP_MIN              = 3
	BLEND_OP_MAX              = 4
)

const (
	COLOR_COMPONENT_R_BIT    = 0x00000001
	COLOR_COMPONENT_G_BIT    = 0x00000002
	COLOR_COMPONENT_B_BIT    = 0x00000004
	COLOR_COMPONENT_A_BIT    = 0x00000008
	COLOR_COMPONENT_RGBA_BIT = 0x0000000F
)

const (
	DYNAMIC_STATE_VIEWPORT             = 0
	DYNAMIC_STATE_SCISSOR              = 1
	DYNAMIC_STATE_LINE_WIDTH           = 2
	DYNAMIC_STATE_DEPTH_BIAS           = 3
	DYNAMIC_STATE_BLEND_CONSTANTS      = 4
	DYNAMIC_STATE_DEPTH_BOUNDS         = 5
	DYNAMIC_STATE_STENCIL_COMPARE_MASK = 6
	DYNAMIC_STATE_STENCIL_WRITE_MASK   = 7
	DYNAMIC_STATE_STENCIL_REFERENCE    = 8
)

const (
	PRIMITIVE_TOPOLOGY_POINT_LIST                    = 0
	PRIMITIVE_TOPOLOGY_LINE_LIST                     = 1
	PRIMITIVE_TOPOLOGY_LINE_STRIP                    = 2
	PRIMITIVE_TOPOLOGY_TRIANGLE_LIST                 = 3
	PRIMITIVE_TOPOLOGY_TRIANGLE_STRIP                = 4
	PRIMITIVE_TOPOLOGY_TRIANGLE_FAN                  = 5
	PRIMITIVE_TOPOLOGY_LINE_LIST_WITH_ADJACENCY      = 6
	PRIMITIVE_TOPOLOGY_LINE_STRIP_WITH_ADJACENCY     = 7
	PRIMITIVE_TOPOLOGY_TRIANGLE_LIST_WITH_ADJACENCY  = 8
	PRIMITIVE_TOPOLOGY_TRIANGLE_STRIP_WITH_ADJACENCY = 9
	PRIMITIVE_TOPOLOGY_PATCH_LIST                    = 10
)

const (
	SHADER_STAGE_VERTEX_BIT                  = 0x00000001
	SHADER_STAGE_TESSELLATION_CONTROL_BIT    = 0x00000002
	SHADER_STAGE_TESSELLATION_EVALUATION_BIT = 0x00000004
	SHADER_STAGE_GEOMETRY_BIT                = 0x00000008
	SHADER_STAGE_FRAGMENT_BIT                = 0x00000010
	SHADER_STAGE_COMPUTE_BIT                 = 0x00000020
	SHADER_STAGE_RAYGEN_BIT                  = 0x00000100
	SHADER_STAGE_ANY_HIT_BIT                 = 0x00000200
	SHADER_STAGE_CLOSEST_HIT_BIT             = 0x00000400
	SHADER_STAGE_MISS_BIT                    = 0x00000800
	SHADER_STAGE_INTERSECTION_BIT            = 0x00001000
	SHADER_STAGE_CALLABLE_BIT                = 0x00002000
)

const (
	PIPELINE_CREATE_DISABLE_OPTIMIZATION_BIT = 0x00000001
	PIPELINE_CREATE_ALLOW_DERIVATIVES_BIT    = 0x00000002
	PIPELINE_CREATE_DERIVATIVE_BIT           = 0x00000004
)

const (
	PIPELINE_BIND_POINT_GRAPHICS    = 0
	PIPELINE_BIND_POINT_COMPUTE     = 1
	PIPELINE_BIND_POINT_RAY_TRACING = 1000165000
)

const (
	VERTEX_INPUT_RATE_VERTEX   = 0
	VERTEX_INPUT_RATE_INSTANCE = 1
)

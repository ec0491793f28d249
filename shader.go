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

	"github.com/crazycoderx2/DagorEngine/rhi/vkpipe/internal/vk"
)

type ShaderStage uint32

const (
	ShaderStageVertex      ShaderStage = vk.SHADER_STAGE_VERTEX_BIT
	ShaderStageFragment    ShaderStage = vk.SHADER_STAGE_FRAGMENT_BIT
	ShaderStageGeometry    ShaderStage = vk.SHADER_STAGE_GEOMETRY_BIT
	ShaderStageTessControl ShaderStage = vk.SHADER_STAGE_TESSELLATION_CONTROL_BIT
	ShaderStageTessEval    ShaderStage = vk.SHADER_STAGE_TESSELLATION_EVALUATION_BIT
	ShaderStageCompute     ShaderStage = vk.SHADER_STAGE_COMPUTE_BIT
	ShaderStageRaygen      ShaderStage = vk.SHADER_STAGE_RAYGEN_BIT
	ShaderStageAnyHit      ShaderStage = vk.SHADER_STAGE_ANY_HIT_BIT
	ShaderStageClosestHit  ShaderStage = vk.SHADER_STAGE_CLOSEST_HIT_BIT
	ShaderStageMiss        ShaderStage = vk.SHADER_STAGE_MISS_BIT
)

func (s ShaderStage) String() string {
	str := ""
	if hasBits(s, ShaderStageVertex) {
		str += "Vertex|"
	}
	if hasBits(s, ShaderStageFragment) {
		str += "Fragment|"
	}
	if hasBits(s, ShaderStageGeometry) {
		str += "Geometry|"
	}
	if hasBits(s, ShaderStageTessControl) {
		str += "TessControl|"
	}
	if hasBits(s, ShaderStageTessEval) {
		str += "TessEval|"
	}
	if hasBits(s, ShaderStageCompute) {
		str += "Compute|"
	}
	if hasBits(s, ShaderStageRaygen) {
		str += "Raygen|"
	}
	if hasBits(s, ShaderStageAnyHit) {
		str += "AnyHit|"
	}
	if hasBits(s, ShaderStageClosestHit) {
		str += "ClosestHit|"
	}
	if hasBits(s, ShaderStageMiss) {
		str += "Miss|"
	}
	return strings.TrimSuffix(str, "|")
}

// Fixed per-architecture graphics stage order; module set slots, layout
// description slots and emitted stage lists all use it.
const GraphicsStageCount = 5

const (
	graphicsStageVertex = iota
	graphicsStageFragment
	graphicsStageGeometry
	graphicsStageTessControl
	graphicsStageTessEval
)

var graphicsStageOrder = [GraphicsStageCount]ShaderStage{
	ShaderStageVertex,
	ShaderStageFragment,
	ShaderStageGeometry,
	ShaderStageTessControl,
	ShaderStageTessEval,
}

// ShaderModuleHeader is the reflection metadata the shader module provider
// supplies with each module.
type ShaderModuleHeader struct {
	Stage         ShaderStage
	RegisterIndex uint32
	OutputMask    uint8
	UserDataWords uint32
	Name          string
}

// ShaderModuleBlob carries raw bytecode for stages whose hardware module is
// transient, created right before the build and destroyed right after.
type ShaderModuleBlob struct {
	Header ShaderModuleHeader
	SPIRV  []uint32
}

// ShaderModule is a long-lived module owned by the shader program database.
type ShaderModule struct {
	Handle ShaderModuleHandle
	Header ShaderModuleHeader
}

// GraphicsModuleSet lists the modules of one graphics program. Vertex and
// Fragment are mandatory, the rest optional.
type GraphicsModuleSet struct {
	Vertex      *ShaderModule
	Fragment    *ShaderModule
	Geometry    *ShaderModule
	TessControl *ShaderModule
	TessEval    *ShaderModule
}

func (s *GraphicsModuleSet) slots() [GraphicsStageCount]*ShaderModule {
	return [GraphicsStageCount]*ShaderModule{
		graphicsStageVertex:      s.Vertex,
		graphicsStageFragment:    s.Fragment,
		graphicsStageGeometry:    s.Geometry,
		graphicsStageTessControl: s.TessControl,
		graphicsStageTessEval:    s.TessEval,
	}
}

func (s *GraphicsModuleSet) validate() {
	if s.Vertex == nil || s.Fragment == nil {
		abort("GraphicsModuleSet must have vertex and fragment modules")
	}
	for i, m := range s.slots() {
		if m == nil {
			continue
		}
		if m.Header.Stage != graphicsStageOrder[i] {
			abort("GraphicsModuleSet slot %s holds module %q of stage %s",
				graphicsStageOrder[i], m.Header.Name, m.Header.Stage)
		}
		if m.Handle == 0 {
			abort("GraphicsModuleSet module %q has a null handle", m.Header.Name)
		}
	}
}

func (s *GraphicsModuleSet) debugName() string {
	sb := strings.Builder{}
	for _, m := range s.slots() {
		if m != nil {
			sb.WriteString(m.Header.Name)
			sb.WriteRune('|')
		}
	}
	return strings.TrimSuffix(sb.String(), "|")
}

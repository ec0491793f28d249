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

// Opaque device object handles. A zero handle is the null handle.
type (
	PipelineHandle       uint64
	PipelineLayoutHandle uint64
	ShaderModuleHandle   uint64
	RenderPassHandle     uint64
	PipelineCacheHandle  uint64
	CommandBufferHandle  uint64
)

type BindPoint uint32

const (
	BindPointGraphics BindPoint = vk.PIPELINE_BIND_POINT_GRAPHICS
	BindPointCompute  BindPoint = vk.PIPELINE_BIND_POINT_COMPUTE
	BindPointRaytrace BindPoint = vk.PIPELINE_BIND_POINT_RAY_TRACING
)

func (b BindPoint) String() string {
	switch b {
	case BindPointGraphics:
		return "graphics"
	case BindPointCompute:
		return "compute"
	case BindPointRaytrace:
		return "raytrace"

	default:
		abort("Unknown BindPoint: %d", uint32(b))
		return ""
	}
}

// Backend is the device driver surface this package builds pipelines
// through. Creation calls take a debug name and return the created handle;
// a nil error together with a null handle must be treated by callers as a
// failed build.
//
// The pipeline cache handle passed to creation calls is shared read-only
// between concurrent builds; the backend must guarantee concurrent builds
// against one cache handle are safe, or serialize them internally.
type Backend interface {
	CreateShaderModule(name string, spirv []uint32) (ShaderModuleHandle, error)
	DestroyShaderModule(module ShaderModuleHandle)

	CreatePipelineLayout(name string, desc LayoutDescription) (PipelineLayoutHandle, error)
	DestroyPipelineLayout(layout PipelineLayoutHandle)

	CreateComputePipeline(name string, desc ComputePipelineCreateDescription, cache PipelineCacheHandle) (PipelineHandle, error)
	CreateGraphicsPipeline(name string, desc GraphicsPipelineCreateDescription, cache PipelineCacheHandle) (PipelineHandle, error)
	CreateRaytracePipeline(name string, desc RaytracePipelineCreateDescription, cache PipelineCacheHandle) (PipelineHandle, error)
	DestroyPipeline(pipeline PipelineHandle)

	CmdBindPipeline(cb CommandBufferHandle, bindPoint BindPoint, pipeline PipelineHandle)

	// RaytraceShaderGroupHandles reads group_count handles starting at
	// first_group from a compiled raytrace pipeline into out.
	RaytraceShaderGroupHandles(pipeline PipelineHandle, firstGroup, groupCount, size uint32, out []byte) error
}

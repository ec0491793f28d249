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

type SampleCountFlags uint32

const (
	SampleCount1  SampleCountFlags = vk.SAMPLE_COUNT_1_BIT
	SampleCount2  SampleCountFlags = vk.SAMPLE_COUNT_2_BIT
	SampleCount4  SampleCountFlags = vk.SAMPLE_COUNT_4_BIT
	SampleCount8  SampleCountFlags = vk.SAMPLE_COUNT_8_BIT
	SampleCount16 SampleCountFlags = vk.SAMPLE_COUNT_16_BIT
	SampleCount32 SampleCountFlags = vk.SAMPLE_COUNT_32_BIT
	SampleCount64 SampleCountFlags = vk.SAMPLE_COUNT_64_BIT
)

func (s SampleCountFlags) HasBits(want SampleCountFlags) bool {
	return (s & want) == want
}

func (s SampleCountFlags) String() string {
	str := ""
	if s.HasBits(SampleCount1) {
		str += "1|"
	}
	if s.HasBits(SampleCount2) {
		str += "2|"
	}
	if s.HasBits(SampleCount4) {
		str += "4|"
	}
	if s.HasBits(SampleCount8) {
		str += "8|"
	}
	if s.HasBits(SampleCount16) {
		str += "16|"
	}
	if s.HasBits(SampleCount32) {
		str += "32|"
	}
	if s.HasBits(SampleCount64) {
		str += "64|"
	}
	return strings.TrimSuffix(str, "|")
}

// sampleCountFromInt maps a plain count to its flag bit.
func sampleCountFromInt(count uint32) SampleCountFlags {
	switch count {
	case 0, 1:
		return SampleCount1
	case 2:
		return SampleCount2
	case 4:
		return SampleCount4
	case 8:
		return SampleCount8
	case 16:
		return SampleCount16
	case 32:
		return SampleCount32
	case 64:
		return SampleCount64

	default:
		abort("Invalid sample count: %d", count)
		return SampleCount1
	}
}

// MaxSimultaneousRenderTargets is the architecture's color target slot
// count; render pass color masks and state write masks are sized by it.
const MaxSimultaneousRenderTargets = 8

type DepthAttachmentState uint8

const (
	DepthAttachmentNone DepthAttachmentState = iota
	DepthAttachmentReadWrite
	DepthAttachmentReadOnly
)

func (d DepthAttachmentState) String() string {
	switch d {
	case DepthAttachmentNone:
		return "NoDepth"
	case DepthAttachmentReadWrite:
		return "RWDepth"
	case DepthAttachmentReadOnly:
		return "RODepth"

	default:
		abort("Unknown DepthAttachmentState: %d", uint8(d))
		return ""
	}
}

// RenderPassClass identifies the attachment shape of a pooled render pass:
// which color slots exist, their sample counts and the depth attachment
// mode. Slots whose predecessor has ColorSamples > 1 are resolve targets.
type RenderPassClass struct {
	ColorTargetMask uint32
	ColorSamples    [MaxSimultaneousRenderTargets]uint8
	DepthState      DepthAttachmentState
}

func (c RenderPassClass) SampleCount() SampleCountFlags {
	return sampleCountFromInt(uint32(max(c.ColorSamples[0], 1)))
}

func (c RenderPassClass) String() string {
	return genID(uint32(c.ColorTargetMask),
		uint32(c.ColorSamples[0]), uint32(c.ColorSamples[1]), uint32(c.ColorSamples[2]), uint32(c.ColorSamples[3]),
		uint32(c.ColorSamples[4]), uint32(c.ColorSamples[5]), uint32(c.ColorSamples[6]), uint32(c.ColorSamples[7]),
		c.DepthState)
}

// RenderPass is a concrete render pass object (the native path). The
// compile-ref pair keeps the pass alive while a pipeline build that
// references its handle is outstanding.
type RenderPass interface {
	Handle() RenderPassHandle
	HasDepthAtSubpass(subpass uint32) bool
	ColorWriteMaskAtSubpass(subpass uint32) uint32
	MSAASamplesAtSubpass(subpass uint32) SampleCountFlags
	AddPipelineCompileRef()
	ReleasePipelineCompileRef()
}

// RenderPassClassResolver maps an abstract pass class to a pooled pass
// handle (the non-native path).
type RenderPassClassResolver interface {
	ResolvePass(class RenderPassClass) RenderPassHandle
}

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

const (
	MaxVertexInputStreams = 4
	MaxVertexAttributes   = 16
)

// VertexAttribute describes one attribute slot of an input layout.
// Format is the hardware format value, passed through untouched.
type VertexAttribute struct {
	Used     bool
	Location uint32
	Stream   uint32
	Offset   uint32
	Format   uint32
}

type VertexStream struct {
	Used        bool
	PerInstance bool
}

// InputLayout is the resolved vertex layout; only elements flagged Used
// make it into the derived pipeline description.
type InputLayout struct {
	Attributes [MaxVertexAttributes]VertexAttribute
	Streams    [MaxVertexInputStreams]VertexStream
}

type InputLayoutID uint32

// InputLayoutProvider is the shader program database's input layout table.
type InputLayoutProvider interface {
	Get(id InputLayoutID) InputLayout
}

// Derived, densely packed forms emitted into the create description.

type VertexAttributeDescription struct {
	Location uint32
	Binding  uint32
	Format   uint32
	Offset   uint32
}

type VertexBindingDescription struct {
	Binding   uint32
	Stride    uint32
	InputRate uint32
}

func (a VertexAttribute) toDescription() VertexAttributeDescription {
	return VertexAttributeDescription{
		Location: a.Location,
		Binding:  a.Stream,
		Format:   a.Format,
		Offset:   a.Offset,
	}
}

func (s VertexStream) toDescription(binding, stride uint32) VertexBindingDescription {
	rate := uint32(vk.VERTEX_INPUT_RATE_VERTEX)
	if s.PerInstance {
		rate = vk.VERTEX_INPUT_RATE_INSTANCE
	}
	return VertexBindingDescription{
		Binding:   binding,
		Stride:    stride,
		InputRate: rate,
	}
}

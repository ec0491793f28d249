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

import "fmt"

type PipelineKind uint8

const (
	PipelineKindInvalid PipelineKind = iota
	PipelineKindGraphics
	PipelineKindCompute
	PipelineKindRaytrace
)

func (k PipelineKind) String() string {
	switch k {
	case PipelineKindInvalid:
		return "invalid"
	case PipelineKindGraphics:
		return "gfx"
	case PipelineKindCompute:
		return "compute"
	case PipelineKindRaytrace:
		return "raytrace"

	default:
		abort("Unknown PipelineKind: %d", uint8(k))
		return ""
	}
}

// ProgramID identifies a shader combination of exactly one pipeline kind.
// The kind discriminant keeps the graphics/compute/raytrace ID spaces
// disjoint; the index is dense and maps directly to storage slots.
type ProgramID struct {
	kind  PipelineKind
	index uint32
}

func GraphicsProgramID(index uint32) ProgramID {
	return ProgramID{kind: PipelineKindGraphics, index: index}
}

func ComputeProgramID(index uint32) ProgramID {
	return ProgramID{kind: PipelineKindCompute, index: index}
}

func RaytraceProgramID(index uint32) ProgramID {
	return ProgramID{kind: PipelineKindRaytrace, index: index}
}

func (p ProgramID) Kind() PipelineKind {
	return p.kind
}

func (p ProgramID) Index() uint32 {
	return p.index
}

func (p ProgramID) Valid() bool {
	switch p.kind {
	case PipelineKindGraphics, PipelineKindCompute, PipelineKindRaytrace:
		return true
	}
	return false
}

func (p ProgramID) String() string {
	return fmt.Sprintf("[%s:%d]", p.kind, p.index)
}

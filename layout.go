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

import "strings"

// StageBindings is one stage's slice of a layout signature.
type StageBindings struct {
	Present       bool
	RegisterIndex uint32
	OutputMask    uint8
	UserDataWords uint32
}

// LayoutDescription is the shader binding signature of a program. It is a
// comparable value; two descriptions describe the same layout iff they are
// ==. Compute and raytrace programs populate slot 0 only.
type LayoutDescription struct {
	Stages [GraphicsStageCount]StageBindings
}

func (d *LayoutDescription) hasTessControl() bool {
	return d.Stages[graphicsStageTessControl].Present
}

func (d *LayoutDescription) fragmentOutputMask() uint8 {
	return d.Stages[graphicsStageFragment].OutputMask
}

func (d *LayoutDescription) name() string {
	sb := strings.Builder{}
	for _, s := range d.Stages {
		if s.Present {
			sb.WriteString(genID(s.RegisterIndex, s.OutputMask, s.UserDataWords))
		} else {
			sb.WriteString("[null]")
		}
	}
	return sb.String()
}

// layoutDescriptionFromHeader builds the single-stage description used by
// compute and raytrace programs.
func layoutDescriptionFromHeader(header ShaderModuleHeader) LayoutDescription {
	d := LayoutDescription{}
	d.Stages[0] = StageBindings{
		Present:       true,
		RegisterIndex: header.RegisterIndex,
		OutputMask:    header.OutputMask,
		UserDataWords: header.UserDataWords,
	}
	return d
}

func layoutDescriptionFromModules(modules *GraphicsModuleSet) LayoutDescription {
	d := LayoutDescription{}
	for i, m := range modules.slots() {
		if m == nil {
			continue
		}
		d.Stages[i] = StageBindings{
			Present:       true,
			RegisterIndex: m.Header.RegisterIndex,
			OutputMask:    m.Header.OutputMask,
			UserDataWords: m.Header.UserDataWords,
		}
	}
	return d
}

// Layout owns one hardware pipeline layout shared by every pipeline with a
// matching binding signature. Immutable once created; destroyed only at
// store teardown, never per pipeline.
type Layout struct {
	desc   LayoutDescription
	handle PipelineLayoutHandle
	name   string
}

func newLayout(b Backend, desc LayoutDescription) *Layout {
	name := desc.name()
	handle, err := b.CreatePipelineLayout(name, desc)
	if err != nil || handle == 0 {
		abort("vulkan: failed to create pipeline layout %s: %v", name, err)
	}
	return &Layout{desc: desc, handle: handle, name: name}
}

func (l *Layout) matches(desc LayoutDescription) bool {
	return l.desc == desc
}

func (l *Layout) Handle() PipelineLayoutHandle {
	return l.handle
}

func (l *Layout) Name() string {
	return l.name
}

func (l *Layout) HasTessControl() bool {
	return l.desc.hasTessControl()
}

func (l *Layout) fragmentOutputMask() uint8 {
	return l.desc.fragmentOutputMask()
}

func (l *Layout) shutdown(b Backend) {
	b.DestroyPipelineLayout(l.handle)
	l.handle = 0
}

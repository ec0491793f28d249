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
)

// DeviceInfo is the slice of device properties pipeline derivation needs.
type DeviceInfo struct {
	// Supported sample counts for passes without attachments
	// (framebufferNoAttachmentsSampleCounts).
	NoAttachmentSampleCounts SampleCountFlags

	// Depth clamping hardware support; without it depth clamp is always
	// disabled regardless of the render state.
	DepthClampAvailable bool
}

type Config struct {
	Backend      Backend
	RenderStates RenderStateBackend
	InputLayouts InputLayoutProvider
	PassClasses  RenderPassClassResolver
	Device       DeviceInfo

	// Shared hardware pipeline cache used by every build; may be null.
	Cache PipelineCacheHandle

	CompileWorkers int32
	AsyncCompile   bool
}

func (c *Config) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"NoAttachmentSampleCounts\": %q,", c.Device.NoAttachmentSampleCounts.String()))
	buff.WriteString(fmt.Sprintf("\"DepthClampAvailable\": %t,", c.Device.DepthClampAvailable))
	buff.WriteString(fmt.Sprintf("\"Cache\": %q,", toHex(c.Cache)))
	buff.WriteString(fmt.Sprintf("\"CompileWorkers\": %d,", c.CompileWorkers))
	buff.WriteString(fmt.Sprintf("\"AsyncCompile\": %t", c.AsyncCompile))

	buff.WriteString("}")
	return buff.Bytes(), nil
}

func (c *Config) validate() {
	if c.Backend == nil {
		abort("Config.Backend must not be nil")
	}
	if c.RenderStates == nil {
		abort("Config.RenderStates must not be nil")
	}
	if c.InputLayouts == nil {
		abort("Config.InputLayouts must not be nil")
	}
	if c.CompileWorkers < 0 {
		abort("Config.CompileWorkers must be >= 0")
	}
	if c.CompileWorkers == 0 {
		c.CompileWorkers = 1
	}
	if c.Device.NoAttachmentSampleCounts == 0 {
		c.Device.NoAttachmentSampleCounts = SampleCount1
	}
}

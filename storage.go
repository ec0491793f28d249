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

// pipelineObject is what storage and the retirement stack need from a
// stored object: teardown that waits out any pending compile first.
type pipelineObject interface {
	shutdown()
}

// pipelineStorage is the per-kind indexed store: a dedup array of layouts
// and a sparse pipeline array indexed by the program's dense index. All
// mutation happens on the submission thread.
type pipelineStorage[T interface {
	comparable
	pipelineObject
}] struct {
	kind      PipelineKind
	backend   Backend
	layouts   []*Layout
	pipelines []T
}

func newPipelineStorage[T interface {
	comparable
	pipelineObject
}](kind PipelineKind, backend Backend) *pipelineStorage[T] {
	return &pipelineStorage[T]{kind: kind, backend: backend}
}

func (s *pipelineStorage[T]) checkID(id ProgramID) {
	if id.Kind() != s.kind {
		abort("Program %s used with the %s store", id, s.kind)
	}
}

// findOrAddLayout returns the layout matching desc, creating it on first
// use. Linear scan; layouts are few and live for the store's lifetime, so
// the returned pointer is stable.
func (s *pipelineStorage[T]) findOrAddLayout(desc LayoutDescription) *Layout {
	for _, l := range s.layouts {
		if l.matches(desc) {
			return l
		}
	}
	l := newLayout(s.backend, desc)
	s.layouts = append(s.layouts, l)
	return l
}

func (s *pipelineStorage[T]) ensureSpaceForIndex(index uint32) {
	if n := int(index) + 1; n > len(s.pipelines) {
		s.pipelines = growSlice(s.pipelines, n)[:n]
	}
}

// add constructs id's object in place via ctor. Re-adding a live program
// id is a caller bug, checked before ctor runs.
func (s *pipelineStorage[T]) add(id ProgramID, ctor func() T) T {
	s.checkID(id)
	s.ensureSpaceForIndex(id.Index())

	var zero T
	if s.pipelines[id.Index()] != zero {
		abort("Double add of program %s", id)
	}
	p := ctor()
	s.pipelines[id.Index()] = p
	return p
}

// get requires the slot be populated; use valid() first for ids that may
// not exist yet.
func (s *pipelineStorage[T]) get(id ProgramID) T {
	s.checkID(id)

	var zero T
	if int(id.Index()) >= len(s.pipelines) || s.pipelines[id.Index()] == zero {
		abort("Program %s does not exist", id)
	}
	return s.pipelines[id.Index()]
}

// valid is the only query safe to call speculatively.
func (s *pipelineStorage[T]) valid(id ProgramID) bool {
	var zero T
	return id.Kind() == s.kind &&
		int(id.Index()) < len(s.pipelines) &&
		s.pipelines[id.Index()] != zero
}

// takeOut removes and returns ownership of id's object, leaving the slot
// empty. Indices of other entries are unaffected.
func (s *pipelineStorage[T]) takeOut(id ProgramID) T {
	p := s.get(id)
	var zero T
	s.pipelines[id.Index()] = zero
	return p
}

// enumerate visits populated slots in index order.
func (s *pipelineStorage[T]) enumerate(f func(ProgramID, T)) {
	var zero T
	for i, p := range s.pipelines {
		if p != zero {
			f(ProgramID{kind: s.kind, index: uint32(i)}, p)
		}
	}
}

// unload tears down every pipeline, waiting out pending compiles, then
// every layout. Pipelines reference layouts so the order is fixed.
func (s *pipelineStorage[T]) unload() {
	var zero T
	for i, p := range s.pipelines {
		if p != zero {
			p.shutdown()
			s.pipelines[i] = zero
		}
	}
	s.pipelines = nil

	for _, l := range s.layouts {
		l.shutdown(s.backend)
	}
	s.layouts = nil
}

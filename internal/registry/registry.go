/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package registry holds the shapes on the canvas: one ordered sequence of
// images and one of texts. It owns no rendering logic.
package registry

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"gocanvas/internal/domain"
)

// IDFunc yields fresh shape ids.
type IDFunc func() string

// maxIDAttempts bounds re-draws when an IDFunc repeats itself.
const maxIDAttempts = 64

// Registry is the in-memory shape store. It is not safe for concurrent use;
// the editor controller owns it and mutates it from UI callbacks only.
type Registry struct {
	images []domain.Image
	texts  []domain.Text
	newID  IDFunc
}

// Option configures a Registry.
type Option func(*Registry)

// WithIDFunc replaces the default uuid-based id source.
func WithIDFunc(fn IDFunc) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

func New(opts ...Option) *Registry {
	r := &Registry{newID: uuid.NewString}
	for _, o := range opts {
		o(r)
	}
	return r
}

// AddText appends a text shape with default fields and returns its id.
func (r *Registry) AddText() string {
	id := r.freshID(r.idsOf(domain.KindText))
	r.texts = append(r.texts, domain.NewText(id))
	return id
}

// AddImage appends an image shape referencing src. An empty src fails with
// domain.ErrInvalidInput and leaves the registry unchanged.
func (r *Registry) AddImage(src domain.SourceRef) (string, error) {
	if src == "" {
		return "", fmt.Errorf("add image: no source: %w", domain.ErrInvalidInput)
	}
	id := r.freshID(r.idsOf(domain.KindImage))
	r.images = append(r.images, domain.NewImage(id, src))
	return id, nil
}

// Remove deletes the record matching ref. Removing a missing record is a no-op;
// the bool reports whether anything was removed.
func (r *Registry) Remove(ref domain.Ref) (bool, error) {
	switch ref.Kind {
	case domain.KindImage:
		n := len(r.images)
		r.images = slices.DeleteFunc(r.images, func(s domain.Image) bool { return s.ID == ref.ID })
		return len(r.images) != n, nil
	case domain.KindText:
		n := len(r.texts)
		r.texts = slices.DeleteFunc(r.texts, func(s domain.Text) bool { return s.ID == ref.ID })
		return len(r.texts) != n, nil
	default:
		return false, fmt.Errorf("remove %s: %w", ref, domain.ErrUnknownShapeKind)
	}
}

// UpdateGeometry replaces the whole record whose id matches s. Transform
// results from the surface always carry a complete record.
func (r *Registry) UpdateGeometry(s domain.Shape) (bool, error) {
	switch v := s.(type) {
	case domain.Image:
		if i := r.imageIndex(v.ID); i >= 0 {
			r.images[i] = v
			return true, nil
		}
		return false, nil
	case domain.Text:
		if i := r.textIndex(v.ID); i >= 0 {
			r.texts[i] = v
			return true, nil
		}
		return false, nil
	default:
		return false, fmt.Errorf("update geometry %T: %w", s, domain.ErrUnknownShapeKind)
	}
}

// Patch merges the set fields of p into the record with the given id. The
// sequence is chosen by the patch's own kind tag.
func (r *Registry) Patch(id string, p domain.Patch) (bool, error) {
	switch v := p.(type) {
	case domain.ImagePatch:
		if i := r.imageIndex(id); i >= 0 {
			r.images[i] = v.Apply(r.images[i])
			return true, nil
		}
		return false, nil
	case domain.TextPatch:
		if i := r.textIndex(id); i >= 0 {
			r.texts[i] = v.Apply(r.texts[i])
			return true, nil
		}
		return false, nil
	default:
		return false, fmt.Errorf("patch %s: %w", id, domain.ErrUnknownShapeKind)
	}
}

// Lookup returns a copy of the live record for ref.
func (r *Registry) Lookup(ref domain.Ref) (domain.Shape, bool) {
	switch ref.Kind {
	case domain.KindImage:
		if i := r.imageIndex(ref.ID); i >= 0 {
			return r.images[i], true
		}
	case domain.KindText:
		if i := r.textIndex(ref.ID); i >= 0 {
			return r.texts[i], true
		}
	}
	return nil, false
}

// Images returns a copy of the image sequence in insertion order.
func (r *Registry) Images() []domain.Image { return slices.Clone(r.images) }

// Texts returns a copy of the text sequence in insertion order.
func (r *Registry) Texts() []domain.Text { return slices.Clone(r.texts) }

// Shapes returns all shapes in render order: images first, then texts.
func (r *Registry) Shapes() []domain.Shape {
	out := make([]domain.Shape, 0, r.Len())
	for _, s := range r.images {
		out = append(out, s)
	}
	for _, s := range r.texts {
		out = append(out, s)
	}
	return out
}

// Len returns the total number of shapes.
func (r *Registry) Len() int { return len(r.images) + len(r.texts) }

// idsOf lists the ids currently used in one sequence.
func (r *Registry) idsOf(k domain.Kind) map[string]struct{} {
	ids := make(map[string]struct{})
	switch k {
	case domain.KindImage:
		for _, s := range r.images {
			ids[s.ID] = struct{}{}
		}
	case domain.KindText:
		for _, s := range r.texts {
			ids[s.ID] = struct{}{}
		}
	}
	return ids
}

// freshID draws ids until one is unused in the target sequence. With uuids the
// loop runs once; injected sources in tests may repeat.
func (r *Registry) freshID(used map[string]struct{}) string {
	var id string
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id = r.newID()
		if _, taken := used[id]; !taken && id != "" {
			return id
		}
	}
	// Source keeps repeating; fall back to a uuid so the invariant holds.
	for {
		id = uuid.NewString()
		if _, taken := used[id]; !taken {
			return id
		}
	}
}

func (r *Registry) imageIndex(id string) int {
	return slices.IndexFunc(r.images, func(s domain.Image) bool { return s.ID == id })
}

func (r *Registry) textIndex(id string) int {
	return slices.IndexFunc(r.texts, func(s domain.Text) bool { return s.ID == id })
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package selection tracks the at-most-one shape marked active on the canvas.
package selection

import "gocanvas/internal/domain"

// Tracker holds a value copy of the selected shape. The copy is taken at
// selection time and is never refreshed; readers that need current fields
// re-look the record up by Ref.
type Tracker struct {
	cur domain.Shape
}

// Select stores a copy of s as the current selection.
func (t *Tracker) Select(s domain.Shape) {
	if s == nil {
		t.cur = nil
		return
	}
	// Shapes are value types; re-wrapping through WithGeom detaches the copy
	// from whatever interface value the caller holds.
	t.cur = s.WithGeom(s.Geom())
}

// Clear empties the selection and reports whether something was selected.
func (t *Tracker) Clear() bool {
	had := t.cur != nil
	t.cur = nil
	return had
}

// Current returns the snapshot taken at selection time.
func (t *Tracker) Current() (domain.Shape, bool) { return t.cur, t.cur != nil }

// Ref returns the kind and id of the selection.
func (t *Tracker) Ref() (domain.Ref, bool) {
	if t.cur == nil {
		return domain.Ref{}, false
	}
	return t.cur.Ref(), true
}

// IsSelected reports whether ref names the current selection.
func (t *Tracker) IsSelected(ref domain.Ref) bool {
	cur, ok := t.Ref()
	return ok && cur == ref
}

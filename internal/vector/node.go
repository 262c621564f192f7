/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"

	"gocanvas/internal/domain"
)

// Box is a shape's local rectangle (0,0,W,H) placed on the canvas by Xf.
// Scale and rotation are applied about the local origin, the shape's
// top-left corner, matching how shapes store their position.
type Box struct {
	Size Size
	Xf   Affine2D
}

// Corner indexes in Corners order.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// FromGeometry builds the box for a shape of natural size sz.
// Transform order is T(x,y)·R(rotation)·S(scaleX,scaleY).
func FromGeometry(g domain.Geometry, sz Size) Box {
	xf := Translate(g.X, g.Y).Mul(Rotate(Deg2Rad(g.Rotation))).Mul(Scale(g.ScaleX, g.ScaleY))
	return Box{Size: sz, Xf: xf}
}

// Local returns the untransformed rect.
func (b Box) Local() Rect { return Rect{W: b.Size.W, H: b.Size.H} }

// Corners returns the four transformed corners clockwise from top-left.
func (b Box) Corners() [4]Pt {
	w, h := b.Size.W, b.Size.H
	return [4]Pt{
		b.Xf.Apply(Pt{0, 0}),
		b.Xf.Apply(Pt{w, 0}),
		b.Xf.Apply(Pt{w, h}),
		b.Xf.Apply(Pt{0, h}),
	}
}

// Center returns the transformed centre point.
func (b Box) Center() Pt { return b.Xf.Apply(Pt{b.Size.W / 2, b.Size.H / 2}) }

// Bounds is the axis-aligned box around the transformed corners.
func (b Box) Bounds() Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range b.Corners() {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// Hit reports whether canvas point p falls inside the transformed box.
// Degenerate boxes (zero scale) never hit.
func (b Box) Hit(p Pt) bool {
	inv, ok := Invert(b.Xf)
	if !ok {
		return false
	}
	q := inv.Apply(p)
	// mirrored scales keep the local rect positive, only the transform flips
	return b.Local().Contains(q)
}

// ToLocal maps a canvas point into the box's local frame.
func (b Box) ToLocal(p Pt) (Pt, bool) {
	inv, ok := Invert(b.Xf)
	if !ok {
		return Pt{}, false
	}
	return inv.Apply(p), true
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package surface is the toolkit-independent interaction model of the
// editor canvas: hit testing, transform handles and drag gestures. It
// reports what the user did through Callbacks and never mutates shapes
// it does not own.
package surface

import (
	"log/slog"
	"math"

	"gocanvas/internal/domain"
	applog "gocanvas/internal/log"
	"gocanvas/internal/vector"
)

// Measurer reports the natural (unscaled) size of a shape.
type Measurer interface {
	Size(s domain.Shape) vector.Size
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(s domain.Shape) vector.Size

func (f MeasurerFunc) Size(s domain.Shape) vector.Size { return f(s) }

// Callbacks are invoked synchronously from the pointer methods. Nil
// callbacks are skipped.
type Callbacks struct {
	OnSelect             func(ref domain.Ref)
	OnTransformChange    func(s domain.Shape)
	OnBackgroundInteract func()
}

// Item is one entry of the rendered scene, in draw order.
type Item struct {
	Shape    domain.Shape
	Selected bool
}

// Options size the handle overlay in canvas units.
type Options struct {
	HandleSize   float64
	RotateOffset float64
	// MinScale keeps corner drags from collapsing a shape to nothing.
	MinScale float64
}

func DefaultOptions() Options { return Options{HandleSize: 10, RotateOffset: 30, MinScale: 0.01} }

// dragMode is the gesture armed by PointerDown.
type dragMode int

const (
	dragNone dragMode = iota
	dragMove
	dragScale
	dragRotate
)

func (m dragMode) String() string {
	switch m {
	case dragMove:
		return "move"
	case dragScale:
		return "scale"
	case dragRotate:
		return "rotate"
	}
	return "none"
}

type gesture struct {
	mode   dragMode
	corner int // dragged corner for dragScale
	start  vector.Pt
	shape  domain.Shape
	box    vector.Box
}

// Surface holds the current scene and any gesture in progress.
type Surface struct {
	m    Measurer
	cb   Callbacks
	opts Options
	log  *slog.Logger

	items []Item
	g     gesture
}

func New(m Measurer, cb Callbacks, opts Options) *Surface {
	d := DefaultOptions()
	if opts.HandleSize <= 0 {
		opts.HandleSize = d.HandleSize
	}
	if opts.RotateOffset <= 0 {
		opts.RotateOffset = d.RotateOffset
	}
	if opts.MinScale <= 0 {
		opts.MinScale = d.MinScale
	}
	return &Surface{m: m, cb: cb, opts: opts, log: applog.WithComponent("surface")}
}

// SetScene replaces the rendered scene. A gesture in progress keeps its
// starting snapshot.
func (s *Surface) SetScene(items []Item) {
	s.items = append(s.items[:0], items...)
}

// Scene returns the current scene.
func (s *Surface) Scene() []Item { return append([]Item(nil), s.items...) }

// Box returns the placed box of a shape.
func (s *Surface) Box(sh domain.Shape) vector.Box {
	return vector.FromGeometry(sh.Geom(), s.m.Size(sh))
}

// HitTest returns the top-most shape under p.
func (s *Surface) HitTest(p vector.Pt) (domain.Ref, bool) {
	for i := len(s.items) - 1; i >= 0; i-- { // top-most first
		sh := s.items[i].Shape
		if s.Box(sh).Hit(p) {
			return sh.Ref(), true
		}
	}
	return domain.Ref{}, false
}

func (s *Surface) selected() (domain.Shape, bool) {
	for _, it := range s.items {
		if it.Selected {
			return it.Shape, true
		}
	}
	return nil, false
}

// Handles describes the transform overlay of the selected shape.
type Handles struct {
	Outline [4]vector.Pt // rotated box corners, clockwise from top-left
	Corners [4]vector.Pt // scale handle centres
	Rotate  vector.Pt    // rotation knob centre
	Stem    vector.Pt    // top-centre where the knob's stem starts
	Size    float64
}

// Handles returns the overlay for the selected shape; ok is false when
// nothing is selected.
func (s *Surface) Handles() (h Handles, ok bool) {
	sh, ok := s.selected()
	if !ok {
		return Handles{}, false
	}
	return s.handlesFor(s.Box(sh)), true
}

func (s *Surface) handlesFor(b vector.Box) Handles {
	c := b.Corners()
	top := vector.Pt{X: (c[vector.TopLeft].X + c[vector.TopRight].X) / 2, Y: (c[vector.TopLeft].Y + c[vector.TopRight].Y) / 2}
	// knob sits beyond the top edge, pointing away from the centre
	up := top.Sub(b.Center())
	if n := math.Hypot(up.X, up.Y); n > 1e-9 {
		up = vector.Pt{X: up.X / n, Y: up.Y / n}
	} else {
		up = vector.Pt{X: 0, Y: -1}
	}
	return Handles{
		Outline: c,
		Corners: c,
		Stem:    top,
		Rotate:  vector.Pt{X: top.X + up.X*s.opts.RotateOffset, Y: top.Y + up.Y*s.opts.RotateOffset},
		Size:    s.opts.HandleSize,
	}
}

// handleAt returns the gesture for a handle under p.
func (s *Surface) handleAt(p vector.Pt, h Handles) (dragMode, int) {
	r := h.Size
	if d := p.Sub(h.Rotate); math.Hypot(d.X, d.Y) <= r {
		return dragRotate, 0
	}
	half := h.Size / 2
	for i, c := range h.Corners {
		if math.Abs(p.X-c.X) <= half && math.Abs(p.Y-c.Y) <= half {
			return dragScale, i
		}
	}
	return dragNone, 0
}

// PointerDown starts an interaction at canvas point p. Handles of the
// selected shape win over shapes; shapes win over the background.
func (s *Surface) PointerDown(p vector.Pt) {
	s.g = gesture{}
	if sh, ok := s.selected(); ok {
		box := s.Box(sh)
		if mode, corner := s.handleAt(p, s.handlesFor(box)); mode != dragNone {
			s.g = gesture{mode: mode, corner: corner, start: p, shape: sh, box: box}
			applog.WithShape(s.log, sh.Ref()).Debug("gesture start", slog.String("mode", mode.String()))
			return
		}
	}
	for i := len(s.items) - 1; i >= 0; i-- {
		sh := s.items[i].Shape
		box := s.Box(sh)
		if !box.Hit(p) {
			continue
		}
		s.g = gesture{mode: dragMove, start: p, shape: sh, box: box}
		if s.cb.OnSelect != nil {
			s.cb.OnSelect(sh.Ref())
		}
		return
	}
	if s.cb.OnBackgroundInteract != nil {
		s.cb.OnBackgroundInteract()
	}
}

// PointerDrag continues the armed gesture with the pointer at p and
// reports the full updated record.
func (s *Surface) PointerDrag(p vector.Pt) {
	if s.g.mode == dragNone {
		return
	}
	var g domain.Geometry
	switch s.g.mode {
	case dragMove:
		g = s.moved(p)
	case dragScale:
		g = s.scaled(p)
	case dragRotate:
		g = s.rotated(p)
	}
	updated := s.g.shape.WithGeom(g)
	for i := range s.items {
		if s.items[i].Shape.Ref() == updated.Ref() {
			s.items[i].Shape = updated
		}
	}
	if s.cb.OnTransformChange != nil {
		s.cb.OnTransformChange(updated)
	}
}

// PointerUp ends the gesture.
func (s *Surface) PointerUp() { s.g = gesture{} }

// Dragging reports whether a gesture is in progress.
func (s *Surface) Dragging() bool { return s.g.mode != dragNone }

func (s *Surface) moved(p vector.Pt) domain.Geometry {
	g := s.g.shape.Geom()
	d := p.Sub(s.g.start)
	g.X += d.X
	g.Y += d.Y
	return g
}

// localCorner is the unscaled local position of corner i.
func localCorner(i int, sz vector.Size) vector.Pt {
	switch i {
	case vector.TopRight:
		return vector.Pt{X: sz.W}
	case vector.BottomRight:
		return vector.Pt{X: sz.W, Y: sz.H}
	case vector.BottomLeft:
		return vector.Pt{Y: sz.H}
	}
	return vector.Pt{}
}

// scaled keeps the corner opposite the dragged one fixed and derives new
// scale factors from the pointer, measured in the shape's rotated frame.
func (s *Surface) scaled(p vector.Pt) domain.Geometry {
	g := s.g.shape.Geom()
	sz := s.g.box.Size
	opp := (s.g.corner + 2) % 4
	anchor := s.g.box.Corners()[opp]
	rot := vector.Rotate(vector.Deg2Rad(g.Rotation))
	unrot := vector.Rotate(-vector.Deg2Rad(g.Rotation))

	// carry the pointer's offset within the handle so the corner does not jump
	target := s.g.box.Corners()[s.g.corner].Add(p.Sub(s.g.start))
	v := unrot.ApplyVec(target.Sub(anchor))
	c, o := localCorner(s.g.corner, sz), localCorner(opp, sz)
	if dx := c.X - o.X; dx != 0 {
		g.ScaleX = s.clampScale(v.X / dx)
	}
	if dy := c.Y - o.Y; dy != 0 {
		g.ScaleY = s.clampScale(v.Y / dy)
	}
	origin := anchor.Sub(rot.ApplyVec(vector.Pt{X: o.X * g.ScaleX, Y: o.Y * g.ScaleY}))
	g.X, g.Y = origin.X, origin.Y
	return g
}

func (s *Surface) clampScale(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return s.opts.MinScale
	}
	if math.Abs(v) < s.opts.MinScale {
		if v < 0 {
			return -s.opts.MinScale
		}
		return s.opts.MinScale
	}
	return v
}

// rotated turns the shape about its centre by the angle the pointer swept.
func (s *Surface) rotated(p vector.Pt) domain.Geometry {
	g := s.g.shape.Geom()
	c := s.g.box.Center()
	a0 := math.Atan2(s.g.start.Y-c.Y, s.g.start.X-c.X)
	a1 := math.Atan2(p.Y-c.Y, p.X-c.X)
	g.Rotation = normalizeDeg(g.Rotation + vector.Rad2Deg(a1-a0))

	sz := s.g.box.Size
	half := vector.Pt{X: sz.W * g.ScaleX / 2, Y: sz.H * g.ScaleY / 2}
	origin := c.Sub(vector.Rotate(vector.Deg2Rad(g.Rotation)).ApplyVec(half))
	g.X, g.Y = origin.X, origin.Y
	return g
}

// normalizeDeg maps an angle into (-180, 180].
func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d > 180 {
		d -= 360
	} else if d <= -180 {
		d += 360
	}
	return d
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"math"
	"testing"

	"gocanvas/internal/domain"
	"gocanvas/internal/vector"
)

// fixedSize measures every image 100x50 and every text 40x20.
var fixedSize = MeasurerFunc(func(s domain.Shape) vector.Size {
	if s.Ref().Kind == domain.KindImage {
		return vector.Size{W: 100, H: 50}
	}
	return vector.Size{W: 40, H: 20}
})

type recorder struct {
	selected   []domain.Ref
	changes    []domain.Shape
	background int
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnSelect:             func(ref domain.Ref) { r.selected = append(r.selected, ref) },
		OnTransformChange:    func(s domain.Shape) { r.changes = append(r.changes, s) },
		OnBackgroundInteract: func() { r.background++ },
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func img(id string, x, y float64) domain.Image {
	return domain.Image{ID: id, Source: "file:///a.png", Geometry: domain.DefaultGeometry(x, y)}
}

func newSurface(t *testing.T, items ...Item) (*Surface, *recorder) {
	t.Helper()
	r := &recorder{}
	s := New(fixedSize, r.callbacks(), Options{})
	s.SetScene(items)
	return s, r
}

func TestHitTestTopMostFirst(t *testing.T) {
	a, b := img("a", 100, 100), img("b", 150, 120)
	s, _ := newSurface(t, Item{Shape: a}, Item{Shape: b})
	ref, ok := s.HitTest(vector.Pt{X: 160, Y: 130}) // overlap
	if !ok || ref.ID != "b" {
		t.Fatalf("expected later shape on top, got %v %v", ref, ok)
	}
	ref, ok = s.HitTest(vector.Pt{X: 110, Y: 110})
	if !ok || ref.ID != "a" {
		t.Fatalf("expected a, got %v %v", ref, ok)
	}
	if _, ok := s.HitTest(vector.Pt{X: 5, Y: 5}); ok {
		t.Fatalf("expected miss")
	}
}

func TestPointerDownSelectsOrReportsBackground(t *testing.T) {
	s, r := newSurface(t, Item{Shape: img("a", 100, 100)})
	s.PointerDown(vector.Pt{X: 120, Y: 120})
	if len(r.selected) != 1 || r.selected[0] != (domain.Ref{Kind: domain.KindImage, ID: "a"}) {
		t.Fatalf("expected selection of a, got %v", r.selected)
	}
	s.PointerUp()
	s.PointerDown(vector.Pt{X: 10, Y: 10})
	if r.background != 1 {
		t.Fatalf("expected background interaction, got %d", r.background)
	}
	s.PointerDrag(vector.Pt{X: 20, Y: 20})
	if len(r.changes) != 0 {
		t.Fatalf("background drag must not transform anything")
	}
}

func TestDragMovesShape(t *testing.T) {
	s, r := newSurface(t, Item{Shape: img("a", 100, 100)})
	s.PointerDown(vector.Pt{X: 110, Y: 110})
	s.PointerDrag(vector.Pt{X: 130, Y: 105})
	s.PointerDrag(vector.Pt{X: 160, Y: 140})
	s.PointerUp()
	if len(r.changes) != 2 {
		t.Fatalf("expected two transform reports, got %d", len(r.changes))
	}
	got := r.changes[1].(domain.Image)
	if got.X != 150 || got.Y != 130 || got.ScaleX != 1 || got.Source != "file:///a.png" {
		t.Fatalf("unexpected moved record: %+v", got)
	}
	if s.Dragging() {
		t.Fatalf("gesture should end on PointerUp")
	}
}

func TestCornerScaleAnchorsOppositeCorner(t *testing.T) {
	s, r := newSurface(t, Item{Shape: img("a", 100, 100), Selected: true})
	// bottom-right handle at (200,150)
	s.PointerDown(vector.Pt{X: 200, Y: 150})
	s.PointerDrag(vector.Pt{X: 300, Y: 250})
	got := r.changes[0].(domain.Image)
	if !near(got.ScaleX, 2) || !near(got.ScaleY, 3) || !near(got.X, 100) || !near(got.Y, 100) {
		t.Fatalf("bottom-right scale: %+v", got.Geometry)
	}

	s.PointerUp()
	s.SetScene([]Item{{Shape: img("a", 100, 100), Selected: true}})
	// top-left handle, anchor bottom-right (200,150)
	s.PointerDown(vector.Pt{X: 101, Y: 101})
	s.PointerDrag(vector.Pt{X: 51, Y: 51})
	got = r.changes[1].(domain.Image)
	if !near(got.ScaleX, 1.5) || !near(got.ScaleY, 2) || !near(got.X, 50) || !near(got.Y, 50) {
		t.Fatalf("top-left scale: %+v", got.Geometry)
	}
	if len(r.selected) != 0 {
		t.Fatalf("handle drags must not reselect")
	}
}

func TestCornerScaleOnRotatedShape(t *testing.T) {
	sh := img("a", 100, 100)
	sh.Rotation = 90
	s, r := newSurface(t, Item{Shape: sh, Selected: true})
	// rotated 90°: bottom-right corner sits at (50,200)
	h, ok := s.Handles()
	if !ok || !near(h.Corners[vector.BottomRight].X, 50) || !near(h.Corners[vector.BottomRight].Y, 200) {
		t.Fatalf("unexpected handles: %+v", h.Corners)
	}
	s.PointerDown(vector.Pt{X: 50, Y: 200})
	s.PointerDrag(vector.Pt{X: 50, Y: 300}) // along the local x axis
	got := r.changes[0].(domain.Image)
	if !near(got.ScaleX, 2) || !near(got.ScaleY, 1) || !near(got.X, 100) || !near(got.Y, 100) || got.Rotation != 90 {
		t.Fatalf("rotated scale: %+v", got.Geometry)
	}
}

func TestScaleClampsAtMinimum(t *testing.T) {
	s, r := newSurface(t, Item{Shape: img("a", 0, 0), Selected: true})
	s.PointerDown(vector.Pt{X: 100, Y: 50})
	s.PointerDrag(vector.Pt{X: 0, Y: 0})
	got := r.changes[0].(domain.Image)
	if got.ScaleX != 0.01 || got.ScaleY != 0.01 {
		t.Fatalf("expected clamp to min scale, got %+v", got.Geometry)
	}
}

func TestRotateAboutCentre(t *testing.T) {
	s, r := newSurface(t, Item{Shape: img("a", 100, 100), Selected: true})
	h, _ := s.Handles()
	if !near(h.Rotate.X, 150) || !near(h.Rotate.Y, 70) {
		t.Fatalf("rotation knob should sit above the top edge: %+v", h.Rotate)
	}
	s.PointerDown(h.Rotate)
	s.PointerDrag(vector.Pt{X: 250, Y: 125}) // quarter turn clockwise about (150,125)
	got := r.changes[0].(domain.Image)
	if !near(got.Rotation, 90) || !near(got.X, 175) || !near(got.Y, 75) {
		t.Fatalf("rotation: %+v", got.Geometry)
	}
	c := vector.FromGeometry(got.Geometry, vector.Size{W: 100, H: 50}).Center()
	if !near(c.X, 150) || !near(c.Y, 125) {
		t.Fatalf("centre moved: %+v", c)
	}
}

func TestNormalizeDeg(t *testing.T) {
	for in, want := range map[float64]float64{0: 0, 190: -170, -190: 170, 540: 180, -180: 180} {
		if got := normalizeDeg(in); !near(got, want) {
			t.Fatalf("normalizeDeg(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestTextShapesKeepProperties(t *testing.T) {
	txt := domain.NewText("t")
	s, r := newSurface(t, Item{Shape: txt})
	s.PointerDown(vector.Pt{X: 310, Y: 310})
	s.PointerDrag(vector.Pt{X: 320, Y: 310})
	got := r.changes[0].(domain.Text)
	if got.X != 310 || got.Text != txt.Text || got.Fill != txt.Fill || got.FontSize != txt.FontSize {
		t.Fatalf("unexpected text record: %+v", got)
	}
	if _, ok := s.Handles(); ok {
		t.Fatalf("no handles without selection")
	}
}

func TestShapeMeasurer(t *testing.T) {
	m := NewShapeMeasurer(nil, nil)
	txt := domain.NewText("t")
	txt.Text = "ab\ncd"
	txt.FontSize = 26
	if sz := m.Size(txt); sz.H != 52 || sz.W != 28 { // basicfont: 2 glyphs × 7px × 2
		t.Fatalf("text size = %+v", sz)
	}
	if sz := m.Size(img("i", 0, 0)); sz != PlaceholderSize {
		t.Fatalf("undecodable image should use placeholder, got %+v", sz)
	}
}

//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"gocanvas/internal/editor"
	"gocanvas/internal/render"
	"gocanvas/internal/surface"
	"gocanvas/internal/vector"
)

// EditorCanvas renders the controller's scene and turns mouse input into
// surface gestures. Canvas units equal widget units; there is no zoom.
type EditorCanvas struct {
	widget.BaseWidget
	ctrl      *editor.Controller
	surf      *surface.Surface
	renderer  *render.Renderer
	preferred fyne.Size
}

var (
	_ desktop.Mouseable = (*EditorCanvas)(nil)
	_ fyne.Draggable    = (*EditorCanvas)(nil)
)

func NewEditorCanvas(ctrl *editor.Controller, m surface.Measurer, r *render.Renderer, opts surface.Options, preferred fyne.Size) *EditorCanvas {
	c := &EditorCanvas{
		ctrl:      ctrl,
		surf:      surface.New(m, ctrl.SurfaceCallbacks(), opts),
		renderer:  r,
		preferred: preferred,
	}
	c.surf.SetScene(ctrl.Scene())
	c.ExtendBaseWidget(c)
	return c
}

// Sync pulls the controller's scene and redraws.
func (c *EditorCanvas) Sync() {
	c.surf.SetScene(c.ctrl.Scene())
	c.Refresh()
}

func (c *EditorCanvas) PreferredSize() fyne.Size { return c.preferred }

func toCanvas(p fyne.Position) vector.Pt { return vector.Pt{X: float64(p.X), Y: float64(p.Y)} }

func toScreen(p vector.Pt) fyne.Position { return fyne.NewPos(float32(p.X), float32(p.Y)) }

// MouseDown starts a gesture. Only the primary button interacts.
func (c *EditorCanvas) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	c.surf.SetScene(c.ctrl.Scene())
	c.surf.PointerDown(toCanvas(e.Position))
}

func (c *EditorCanvas) MouseUp(*desktop.MouseEvent) { c.surf.PointerUp() }

func (c *EditorCanvas) Dragged(e *fyne.DragEvent) {
	if !c.surf.Dragging() {
		return
	}
	c.surf.PointerDrag(toCanvas(e.Position))
}

func (c *EditorCanvas) DragEnd() { c.surf.PointerUp() }

// CreateRenderer builds the raster plus the handle overlay.
func (c *EditorCanvas) CreateRenderer() fyne.WidgetRenderer {
	r := &editorCanvasRenderer{c: c}
	r.raster = canvas.NewRaster(r.draw)
	r.objects = append(r.objects, r.raster)
	for i := range r.outline {
		r.outline[i] = canvas.NewLine(vector.SelectionStroke.Color)
		r.outline[i].StrokeWidth = float32(vector.SelectionStroke.Width)
		r.objects = append(r.objects, r.outline[i])
	}
	r.stem = canvas.NewLine(vector.SelectionStroke.Color)
	r.stem.StrokeWidth = float32(vector.SelectionStroke.Width)
	r.objects = append(r.objects, r.stem)
	for i := range r.handles {
		h := canvas.NewRectangle(vector.HandleFill.Color)
		h.StrokeColor = vector.HandleStroke.Color
		h.StrokeWidth = float32(vector.HandleStroke.Width)
		r.handles[i] = h
		r.objects = append(r.objects, h)
	}
	r.rot = canvas.NewCircle(vector.HandleFill.Color)
	r.rot.StrokeColor = vector.HandleStroke.Color
	r.rot.StrokeWidth = float32(vector.HandleStroke.Width)
	r.objects = append(r.objects, r.rot)
	r.Layout(c.Size())
	return r
}

type editorCanvasRenderer struct {
	c       *EditorCanvas
	raster  *canvas.Raster
	outline [4]*canvas.Line
	stem    *canvas.Line
	handles [4]*canvas.Rectangle
	rot     *canvas.Circle
	objects []fyne.CanvasObject
}

func (r *editorCanvasRenderer) Destroy()                     {}
func (r *editorCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *editorCanvasRenderer) MinSize() fyne.Size           { return fyne.NewSize(200, 150) }
func (r *editorCanvasRenderer) Refresh() {
	r.Layout(r.c.Size())
	r.raster.Refresh()
	canvas.Refresh(r.c)
}

// draw is the raster generator; w,h are device pixels.
func (r *editorCanvasRenderer) draw(w, h int) image.Image {
	size := r.c.Size()
	if w <= 0 || h <= 0 || size.Width <= 0 || size.Height <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	view := vector.Scale(float64(w)/float64(size.Width), float64(h)/float64(size.Height))
	return r.c.renderer.Image(w, h, r.c.ctrl.Scene(), view)
}

func (r *editorCanvasRenderer) Layout(size fyne.Size) {
	r.raster.Resize(size)
	r.raster.Move(fyne.NewPos(0, 0))

	hs, ok := r.c.surf.Handles()
	if !ok {
		r.setOverlayVisible(false)
		return
	}
	r.setOverlayVisible(true)
	for i := range r.outline {
		ln := r.outline[i]
		ln.Position1 = toScreen(hs.Outline[i])
		ln.Position2 = toScreen(hs.Outline[(i+1)%4])
		ln.Refresh()
	}
	r.stem.Position1 = toScreen(hs.Stem)
	r.stem.Position2 = toScreen(hs.Rotate)
	r.stem.Refresh()

	sz := float32(hs.Size)
	for i, h := range r.handles {
		p := toScreen(hs.Corners[i])
		h.Resize(fyne.NewSize(sz, sz))
		h.Move(fyne.NewPos(p.X-sz/2, p.Y-sz/2))
		h.Refresh()
	}
	p := toScreen(hs.Rotate)
	r.rot.Resize(fyne.NewSize(sz, sz))
	r.rot.Move(fyne.NewPos(p.X-sz/2, p.Y-sz/2))
	r.rot.Refresh()
}

func (r *editorCanvasRenderer) setOverlayVisible(v bool) {
	for _, o := range r.objects[1:] {
		if v {
			o.Show()
		} else {
			o.Hide()
		}
	}
}

// canvasBackground is drawn behind the scene.
var canvasBackground = color.NRGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff}

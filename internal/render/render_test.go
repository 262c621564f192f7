/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	xdraw "golang.org/x/image/draw"

	"gocanvas/internal/domain"
	"gocanvas/internal/imagesrc"
	"gocanvas/internal/surface"
	"gocanvas/internal/vector"
)

// redSquare writes a 10x10 opaque red PNG and returns its source ref.
func redSquare(t *testing.T) domain.SourceRef {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 200, 255
	}
	p := filepath.Join(t.TempDir(), "red.png")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	_ = f.Close()
	ref, err := imagesrc.SourceFor(&imagesrc.File{Path: p})
	if err != nil {
		t.Fatalf("SourceFor: %v", err)
	}
	return ref
}

func newRenderer() *Renderer {
	r := New(nil, nil)
	r.Interp = xdraw.NearestNeighbor
	return r
}

func rgba(img *image.RGBA, x, y int) color.RGBA { return img.RGBAAt(x, y) }

func TestDrawImagePlacedAndScaled(t *testing.T) {
	src := redSquare(t)
	s := domain.NewImage("a", src)
	s.X, s.Y, s.ScaleX = 20, 30, 2
	out := newRenderer().Image(64, 64, []surface.Item{{Shape: s}}, vector.Identity)

	if got := rgba(out, 25, 35); got.R != 200 || got.G != 0 {
		t.Fatalf("inside pixel = %v", got)
	}
	if got := rgba(out, 38, 35); got.R != 200 {
		t.Fatalf("scaled width should reach x=38, got %v", got)
	}
	if got := rgba(out, 41, 35); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("outside pixel should be background, got %v", got)
	}
}

func TestDrawImageRotated(t *testing.T) {
	src := redSquare(t)
	s := domain.NewImage("a", src)
	s.X, s.Y, s.Rotation = 30, 10, 90
	out := newRenderer().Image(64, 64, []surface.Item{{Shape: s}}, vector.Identity)
	// 90° turns the square to occupy x∈[20,30], y∈[10,20]
	if got := rgba(out, 25, 15); got.R != 200 || got.G != 0 {
		t.Fatalf("rotated pixel = %v", got)
	}
	if got := rgba(out, 35, 15); got.G != 255 {
		t.Fatalf("unrotated area should be empty, got %v", got)
	}
}

func TestDrawAppliesFilters(t *testing.T) {
	src := redSquare(t)
	s := domain.NewImage("a", src)
	s.Brightness = 1
	r := newRenderer()
	out := r.Image(16, 16, []surface.Item{{Shape: s}}, vector.Identity)
	if got := rgba(out, 5, 5); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("full brightness should wash out to white, got %v", got)
	}
	s.Brightness = 0
	out = r.Image(16, 16, []surface.Item{{Shape: s}}, vector.Identity)
	if got := rgba(out, 5, 5); got.R != 200 || got.G != 0 {
		t.Fatalf("filter cache must follow new settings, got %v", got)
	}
}

func TestDrawTextInk(t *testing.T) {
	txt := domain.NewText("t")
	txt.X, txt.Y, txt.Fill, txt.Text = 0, 0, "#ff0000", "MMMM"
	out := newRenderer().Image(100, 40, []surface.Item{{Shape: txt}}, vector.Identity)
	red := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 100; x++ {
			if c := rgba(out, x, y); c.R > 200 && c.G < 80 {
				red++
			}
		}
	}
	if red == 0 {
		t.Fatalf("expected red text pixels")
	}
}

func TestUnrenderableImageIsSkipped(t *testing.T) {
	s := domain.NewImage("a", "file:///does/not/exist.png")
	r := newRenderer()
	out := r.Image(8, 8, []surface.Item{{Shape: s}}, vector.Identity)
	if got := rgba(out, 1, 1); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("expected plain background, got %v", got)
	}
	if !r.failed[s.Source] {
		t.Fatalf("failure should be remembered")
	}
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package render composites a scene of image and text shapes into a raster,
// applying each shape's full transform including rotation.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"log/slog"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"gocanvas/internal/domain"
	"gocanvas/internal/imagefx"
	"gocanvas/internal/imagesrc"
	applog "gocanvas/internal/log"
	"gocanvas/internal/surface"
	"gocanvas/internal/textlayout"
	"gocanvas/internal/vector"
)

// Renderer draws scenes. It caches the filtered variant of each image so
// unchanged brightness/contrast settings are not recomputed per frame.
type Renderer struct {
	Images     *imagesrc.Cache
	Text       *textlayout.Measurer
	Background color.Color
	// Interp defaults to bilinear.
	Interp xdraw.Interpolator

	filtered map[domain.SourceRef]filteredImage
	failed   map[domain.SourceRef]bool
	log      *slog.Logger
}

type filteredImage struct {
	brightness, contrast float64
	img                  image.Image
}

func New(images *imagesrc.Cache, text *textlayout.Measurer) *Renderer {
	if images == nil {
		images = imagesrc.NewCache(nil)
	}
	if text == nil {
		text = textlayout.NewMeasurer(nil)
	}
	return &Renderer{
		Images:     images,
		Text:       text,
		Background: color.White,
		Interp:     xdraw.BiLinear,
		filtered:   map[domain.SourceRef]filteredImage{},
		failed:     map[domain.SourceRef]bool{},
		log:        applog.WithComponent("render"),
	}
}

// Draw paints items in order onto dst. view maps canvas units to dst pixels.
// Images that fail to decode are skipped and logged once.
func (r *Renderer) Draw(dst draw.Image, items []surface.Item, view vector.Affine2D) {
	if r.Background != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(r.Background), image.Point{}, draw.Src)
	}
	for _, it := range items {
		switch s := it.Shape.(type) {
		case domain.Image:
			r.drawImage(dst, s, view)
		case domain.Text:
			r.drawText(dst, s, view)
		}
	}
}

// Image renders the whole scene into a new w×h RGBA.
func (r *Renderer) Image(w, h int, items []surface.Item, view vector.Affine2D) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	r.Draw(dst, items, view)
	return dst
}

func (r *Renderer) drawImage(dst draw.Image, s domain.Image, view vector.Affine2D) {
	src, ok := r.filteredImage(s)
	if !ok {
		return
	}
	natural, err := r.Images.Size(s.Source)
	if err != nil || natural.X == 0 || natural.Y == 0 {
		return
	}
	b := src.Bounds()
	// prepared images may be downscaled; stretch back to natural size first
	pre := vector.Scale(float64(natural.X)/float64(b.Dx()), float64(natural.Y)/float64(b.Dy()))
	box := vector.FromGeometry(s.Geometry, vector.Size{W: float64(natural.X), H: float64(natural.Y)})
	r.transform(dst, view.Mul(box.Xf).Mul(pre), src)
}

func (r *Renderer) filteredImage(s domain.Image) (image.Image, bool) {
	if f, ok := r.filtered[s.Source]; ok && f.brightness == s.Brightness && f.contrast == s.Contrast {
		return f.img, true
	}
	src, err := r.Images.Get(s.Source)
	if err != nil {
		if !r.failed[s.Source] {
			r.failed[s.Source] = true
			applog.WithShape(r.log, s.Ref()).Warn("image not renderable", slog.Any("err", err))
		}
		return nil, false
	}
	img := imagefx.Apply(src, s.Brightness, s.Contrast)
	r.filtered[s.Source] = filteredImage{brightness: s.Brightness, contrast: s.Contrast, img: img}
	return img, true
}

func (r *Renderer) drawText(dst draw.Image, s domain.Text, view vector.Affine2D) {
	fill, err := domain.ParseHexColor(s.Fill)
	if err != nil {
		fill = color.NRGBA{A: 255}
	}
	src, k := r.Text.Rasterize(s.Text, s.FontSize, fill)
	if src.Bounds().Empty() {
		return
	}
	box := vector.FromGeometry(s.Geometry, vector.Size{})
	r.transform(dst, view.Mul(box.Xf).Mul(vector.Scale(k, k)), src)
}

func (r *Renderer) transform(dst draw.Image, m vector.Affine2D, src image.Image) {
	if _, ok := vector.Invert(m); !ok {
		return
	}
	interp := r.Interp
	if interp == nil {
		interp = xdraw.BiLinear
	}
	s2d := f64.Aff3{m.A, m.C, m.E, m.B, m.D, m.F}
	interp.Transform(dst, s2d, src, src.Bounds(), xdraw.Over, nil)
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Text measurement for canvas text shapes. Shapes are single-run text with
// explicit newlines; lines never wrap, and each line is one font size tall.

import (
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name
	SizePx float64
	Weight int // 100..900
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face.
// Scale converts face pixels to requested pixels for fixed-size faces;
// zero means the face already matches the request.
type Metrics struct {
	Ascent, Descent, LineGap float64
	Scale                    float64
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// basicNative is the pixel height of basicfont.Face7x13.
const basicNative = 13

// BasicProvider uses x/image/basicfont Face7x13 scaled to the requested size.
// It needs no font data, so tests and headless runs stay deterministic.
type BasicProvider struct{}

func (BasicProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := faceMetrics(f)
	if spec.SizePx > 0 {
		m.Scale = spec.SizePx / basicNative
	}
	return f, m
}

// GoFontProvider renders with the embedded Go Regular typeface.
type GoFontProvider struct {
	DPI float64 // default 72 if zero
}

var (
	goRegularOnce sync.Once
	goRegular     *opentype.Font
	goRegularErr  error
)

func (p GoFontProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	goRegularOnce.Do(func() { goRegular, goRegularErr = opentype.Parse(goregular.TTF) })
	if goRegularErr == nil {
		if face, m, ok := otFace(goRegular, spec, p.DPI); ok {
			return face, m
		}
	}
	return BasicProvider{}.Resolve(spec)
}

func otFace(f *opentype.Font, spec FontSpec, dpi float64) (font.Face, Metrics, bool) {
	if spec.SizePx <= 0 {
		spec.SizePx = 12
	}
	if dpi <= 0 {
		dpi = 72
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: spec.SizePx, DPI: dpi, Hinting: font.HintingNone})
	if err != nil {
		return nil, Metrics{}, false
	}
	return face, faceMetrics(face), true
}

func faceMetrics(f font.Face) Metrics {
	m := f.Metrics()
	return Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

func advance(d *font.Drawer, s string) float64 {
	return float64(d.MeasureString(s)) / 64 // fixed.Int26_6 to px
}

// Measurer sizes text shapes. Faces are cached per size; opentype faces are
// not safe for concurrent use, so all access goes through mu.
type Measurer struct {
	Provider Provider
	Family   string

	mu    sync.Mutex
	faces map[float64]resolved
}

type resolved struct {
	face font.Face
	met  Metrics
}

// NewMeasurer returns a Measurer over provider; nil selects BasicProvider.
func NewMeasurer(provider Provider) *Measurer {
	if provider == nil {
		provider = BasicProvider{}
	}
	return &Measurer{Provider: provider, faces: map[float64]resolved{}}
}

func (m *Measurer) face(fontSize float64) resolved {
	r, ok := m.faces[fontSize]
	if ok {
		return r
	}
	if m.faces == nil {
		m.faces = map[float64]resolved{}
	}
	if m.Provider == nil {
		m.Provider = BasicProvider{}
	}
	face, met := m.Provider.Resolve(FontSpec{Family: m.Family, SizePx: fontSize, Weight: 400})
	if met.Scale == 0 {
		met.Scale = 1
	}
	r = resolved{face: face, met: met}
	m.faces[fontSize] = r
	return r
}

// Measure returns the natural width and height of text at fontSize pixels.
// Width is the widest line; height is one fontSize per line.
func (m *Measurer) Measure(text string, fontSize float64) (w, h float64) {
	if fontSize <= 0 {
		return 0, 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.face(fontSize)
	d := &font.Drawer{Face: r.face}
	lines := strings.Split(text, "\n")
	for _, ln := range lines {
		w = max(w, advance(d, ln)*r.met.Scale)
	}
	return w, float64(len(lines)) * fontSize
}

// Rasterize draws text in face pixels. The returned scale maps raster
// pixels to requested pixels, so raster size times scale equals Measure.
// Each line is vertically centred in its fontSize-tall slot.
func (m *Measurer) Rasterize(text string, fontSize float64, fill color.Color) (img *image.NRGBA, scale float64) {
	if fontSize <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0)), 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.face(fontSize)
	k := r.met.Scale
	d := &font.Drawer{Face: r.face, Src: image.NewUniform(fill)}
	lines := strings.Split(text, "\n")
	var w float64
	for _, ln := range lines {
		w = max(w, advance(d, ln))
	}
	slot := fontSize / k
	img = image.NewNRGBA(image.Rect(0, 0, int(math.Ceil(w)), int(math.Ceil(slot*float64(len(lines))))))
	d.Dst = img
	for i, ln := range lines {
		baseline := slot*float64(i) + (slot+r.met.Ascent-r.met.Descent)/2
		d.Dot = fixed.Point26_6{X: 0, Y: fixed.Int26_6(math.Round(baseline * 64))}
		d.DrawString(ln)
	}
	return img, k
}

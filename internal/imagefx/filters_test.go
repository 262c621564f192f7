/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package imagefx

import (
	"image"
	"image/color"
	"testing"
)

func solid(c color.NRGBA, w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestBrightenClamps(t *testing.T) {
	src := solid(color.NRGBA{R: 10, G: 128, B: 250, A: 200}, 2, 2)
	got := Brighten(src, 0.1).NRGBAAt(1, 1) // +25.5
	want := color.NRGBA{R: 36, G: 154, B: 255, A: 200}
	if got != want {
		t.Fatalf("Brighten = %v, want %v", got, want)
	}
	if got := Brighten(src, -1).NRGBAAt(0, 0); got != (color.NRGBA{A: 200}) {
		t.Fatalf("full darken = %v", got)
	}
	if src.NRGBAAt(0, 0).R != 10 {
		t.Fatalf("source must not be modified")
	}
}

func TestContrast(t *testing.T) {
	src := solid(color.NRGBA{R: 64, G: 128, B: 192, A: 255}, 1, 1)
	if got := Contrast(src, -100).NRGBAAt(0, 0); got != (color.NRGBA{R: 128, G: 128, B: 128, A: 255}) {
		t.Fatalf("contrast -100 should flatten to grey, got %v", got)
	}
	got := Contrast(src, 100).NRGBAAt(0, 0) // adjust = 4
	if got.R != 0 || got.B != 255 || got.G < 126 || got.G > 130 {
		t.Fatalf("contrast 100 = %v", got)
	}
}

func TestApplyIdentityAndOrder(t *testing.T) {
	src := solid(color.NRGBA{R: 100, G: 100, B: 100, A: 255}, 1, 1)
	if out := Apply(src, 0, 0); out != image.Image(src) {
		t.Fatalf("zero filters should return the input")
	}
	// brighten first: 100+51=151, then contrast 0→ noop
	out := Apply(src, 0.2, 0).(*image.NRGBA)
	if out.NRGBAAt(0, 0).R != 151 {
		t.Fatalf("brighten only = %v", out.NRGBAAt(0, 0))
	}
	// brighten to 255 then flatten: contrast sees the brightened value
	out = Apply(src, 1, -100).(*image.NRGBA)
	if out.NRGBAAt(0, 0).R != 128 {
		t.Fatalf("brighten then contrast = %v", out.NRGBAAt(0, 0))
	}
}

func TestFit(t *testing.T) {
	big := solid(color.NRGBA{R: 1, A: 255}, 400, 100)
	out := Fit(big, 200)
	if b := out.Bounds(); b.Dx() != 200 || b.Dy() != 50 {
		t.Fatalf("Fit bounds = %v", b)
	}
	small := solid(color.NRGBA{A: 255}, 10, 10)
	if Fit(small, 200) != image.Image(small) {
		t.Fatalf("small images should pass through")
	}
	if Fit(big, 0) != image.Image(big) {
		t.Fatalf("maxSide 0 disables fitting")
	}
}

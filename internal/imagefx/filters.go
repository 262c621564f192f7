/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package imagefx implements the per-image brightness and contrast filters
// and preview downscaling.
package imagefx

import (
	"image"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Brighten shifts every colour channel by brightness*255. brightness is
// expected in [-1, 1]; results are clamped to [0, 255]. Alpha is untouched.
func Brighten(img image.Image, brightness float64) *image.NRGBA {
	dst := toNRGBA(img)
	if brightness == 0 {
		return dst
	}
	d := brightness * 255
	mapRGB(dst, func(v uint8) uint8 { return clamp(float64(v) + d) })
	return dst
}

// Contrast stretches channels around mid-grey by ((c+100)/100)^2. c is
// expected in [-100, 100]; -100 yields flat grey.
func Contrast(img image.Image, contrast float64) *image.NRGBA {
	dst := toNRGBA(img)
	if contrast == 0 {
		return dst
	}
	adjust := math.Pow((contrast+100)/100, 2)
	var lut [256]uint8
	for i := range lut {
		v := float64(i) / 255
		lut[i] = clamp(((v-0.5)*adjust + 0.5) * 255)
	}
	mapRGB(dst, func(v uint8) uint8 { return lut[v] })
	return dst
}

// Apply runs Brighten then Contrast. Zero values leave img unchanged and
// return it as is.
func Apply(img image.Image, brightness, contrast float64) image.Image {
	if img == nil || (brightness == 0 && contrast == 0) {
		return img
	}
	out := Brighten(img, brightness)
	if contrast != 0 {
		out = Contrast(out, contrast)
	}
	return out
}

// Fit scales img down so neither side exceeds maxSide, keeping aspect
// ratio. Smaller images and maxSide <= 0 return img unchanged.
func Fit(img image.Image, maxSide int) image.Image {
	if img == nil || maxSide <= 0 {
		return img
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxSide && h <= maxSide {
		return img
	}
	k := float64(maxSide) / float64(max(w, h))
	nw := max(1, int(math.Round(float64(w)*k)))
	nh := max(1, int(math.Round(float64(h)*k)))
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// toNRGBA returns a fresh NRGBA copy rebased at the origin.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func mapRGB(img *image.NRGBA, f func(uint8) uint8) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		img.Pix[i] = f(img.Pix[i])
		img.Pix[i+1] = f(img.Pix[i+1])
		img.Pix[i+2] = f(img.Pix[i+2])
	}
}

func clamp(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(v))
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package surface

import (
	"gocanvas/internal/domain"
	"gocanvas/internal/imagesrc"
	"gocanvas/internal/textlayout"
	"gocanvas/internal/vector"
)

// PlaceholderSize is used for images that cannot be decoded, so they stay
// selectable.
var PlaceholderSize = vector.Size{W: 100, H: 100}

// ShapeMeasurer sizes texts from font metrics and images from their
// natural pixel size.
type ShapeMeasurer struct {
	Text   *textlayout.Measurer
	Images *imagesrc.Cache
}

func NewShapeMeasurer(text *textlayout.Measurer, images *imagesrc.Cache) ShapeMeasurer {
	if text == nil {
		text = textlayout.NewMeasurer(nil)
	}
	if images == nil {
		images = imagesrc.NewCache(nil)
	}
	return ShapeMeasurer{Text: text, Images: images}
}

func (m ShapeMeasurer) Size(s domain.Shape) vector.Size {
	switch v := s.(type) {
	case domain.Text:
		w, h := m.Text.Measure(v.Text, v.FontSize)
		return vector.Size{W: w, H: h}
	case domain.Image:
		p, err := m.Images.Size(v.Source)
		if err != nil {
			return PlaceholderSize
		}
		return vector.Size{W: float64(p.X), H: float64(p.Y)}
	}
	return vector.Size{}
}

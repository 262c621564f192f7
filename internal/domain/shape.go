/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the shape model edited on the canvas. A canvas holds two
// kinds of shapes, images and texts, kept in separate ordered sequences by the
// registry. Shapes are plain values: handing one to another component always
// hands over a copy, so no two components share a mutable record.

import "fmt"

// Kind discriminates the two shape variants.
type Kind string

const (
	KindImage Kind = "image"
	KindText  Kind = "text"
)

// Valid reports whether k is one of the recognised shape kinds.
func (k Kind) Valid() bool { return k == KindImage || k == KindText }

// Ref identifies a shape by kind and id. Ids are unique within a kind's sequence.
type Ref struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	ID   string `json:"id" yaml:"id"`
}

func (r Ref) String() string { return fmt.Sprintf("%s/%s", r.Kind, r.ID) }

// Geometry is the transform owned by the rendering surface. Rotation is in degrees
// around the shape origin; scale is applied before rotation.
type Geometry struct {
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	ScaleX   float64 `json:"scaleX" yaml:"scaleX"`
	ScaleY   float64 `json:"scaleY" yaml:"scaleY"`
	Rotation float64 `json:"rotation" yaml:"rotation"`
}

// DefaultGeometry places a shape at (x,y) unscaled and unrotated.
func DefaultGeometry(x, y float64) Geometry {
	return Geometry{X: x, Y: y, ScaleX: 1, ScaleY: 1}
}

// SourceRef is a loadable reference to image data, e.g. a file:// URI.
type SourceRef string

// Shape is a sealed sum type over Image and Text.
type Shape interface {
	Ref() Ref
	Geom() Geometry
	// WithGeom returns a copy of the shape carrying g.
	WithGeom(g Geometry) Shape
	isShape()
}

// Image is an uploaded picture on the canvas.
type Image struct {
	ID         string    `json:"id" yaml:"id"`
	Source     SourceRef `json:"source" yaml:"source"`
	Brightness float64   `json:"brightness" yaml:"brightness"`
	Contrast   float64   `json:"contrast" yaml:"contrast"`
	Geometry   `yaml:",inline"`
}

func (i Image) Ref() Ref                  { return Ref{Kind: KindImage, ID: i.ID} }
func (i Image) Geom() Geometry            { return i.Geometry }
func (i Image) WithGeom(g Geometry) Shape { i.Geometry = g; return i }
func (Image) isShape()                    {}

// Text is a single text label.
type Text struct {
	ID       string  `json:"id" yaml:"id"`
	Fill     string  `json:"fill" yaml:"fill"`
	FontSize float64 `json:"fontSize" yaml:"fontSize"`
	Text     string  `json:"text" yaml:"text"`
	Geometry `yaml:",inline"`
}

func (t Text) Ref() Ref                  { return Ref{Kind: KindText, ID: t.ID} }
func (t Text) Geom() Geometry            { return t.Geometry }
func (t Text) WithGeom(g Geometry) Shape { t.Geometry = g; return t }
func (Text) isShape()                    {}

// Defaults applied at creation.
const (
	DefaultTextFill     = "#000000"
	DefaultTextFontSize = 18
	DefaultTextContent  = "Click me."
	DefaultTextX        = 300
	DefaultTextY        = 300
)

// Editable ranges exposed by the property panel.
const (
	BrightnessMin = -1.0
	BrightnessMax = 1.0
	ContrastMin   = -100.0
	ContrastMax   = 100.0
	FontSizeMin   = 1.0
	FontSizeMax   = 400.0
)

// NewText returns a text shape with all defaults applied.
func NewText(id string) Text {
	return Text{
		ID:       id,
		Fill:     DefaultTextFill,
		FontSize: DefaultTextFontSize,
		Text:     DefaultTextContent,
		Geometry: DefaultGeometry(DefaultTextX, DefaultTextY),
	}
}

// NewImage returns an image shape referencing src with neutral filters.
func NewImage(id string, src SourceRef) Image {
	return Image{ID: id, Source: src, Geometry: DefaultGeometry(0, 0)}
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

// Patch is a partial attribute update for one shape kind. Only non-nil fields
// are merged; everything else on the target record is left untouched.
type Patch interface {
	Kind() Kind
	isPatch()
}

// ImagePatch carries changed image properties.
type ImagePatch struct {
	Brightness *float64 `json:"brightness,omitempty"`
	Contrast   *float64 `json:"contrast,omitempty"`
}

func (ImagePatch) Kind() Kind { return KindImage }
func (ImagePatch) isPatch()   {}

// Apply merges p into img.
func (p ImagePatch) Apply(img Image) Image {
	if p.Brightness != nil {
		img.Brightness = *p.Brightness
	}
	if p.Contrast != nil {
		img.Contrast = *p.Contrast
	}
	return img
}

// TextPatch carries changed text properties.
type TextPatch struct {
	Fill     *string  `json:"fill,omitempty"`
	FontSize *float64 `json:"fontSize,omitempty"`
	Text     *string  `json:"text,omitempty"`
}

func (TextPatch) Kind() Kind { return KindText }
func (TextPatch) isPatch()   {}

// Apply merges p into t.
func (p TextPatch) Apply(t Text) Text {
	if p.Fill != nil {
		t.Fill = *p.Fill
	}
	if p.FontSize != nil {
		t.FontSize = *p.FontSize
	}
	if p.Text != nil {
		t.Text = *p.Text
	}
	return t
}

// Empty reports whether the patch changes nothing.
func (p ImagePatch) Empty() bool { return p.Brightness == nil && p.Contrast == nil }

// Empty reports whether the patch changes nothing.
func (p TextPatch) Empty() bool { return p.Fill == nil && p.FontSize == nil && p.Text == nil }

// Float64 and String build patch fields inline: TextPatch{FontSize: domain.Float64(24)}.
func Float64(v float64) *float64 { return &v }
func String(v string) *string    { return &v }

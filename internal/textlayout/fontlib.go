/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// FontLibrary stores loaded OpenType fonts mapped by family/weight/italic.
// It does not support named instances or variations.

type FontLibrary struct {
	fonts map[fontKey]*opentype.Font
}

type fontKey struct {
	family string
	weight int
	italic bool
}

func NewFontLibrary() *FontLibrary { return &FontLibrary{fonts: make(map[fontKey]*opentype.Font)} }

// LoadTTF loads a font file into the library under the given family/weight/italic.
func (fl *FontLibrary) LoadTTF(family string, weight int, italic bool, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	if err := fl.Add(family, weight, italic, data); err != nil {
		return fmt.Errorf("parse font %s: %w", path, err)
	}
	return nil
}

// Add parses raw TTF/OTF data into the library.
func (fl *FontLibrary) Add(family string, weight int, italic bool, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return err
	}
	if fl.fonts == nil {
		fl.fonts = make(map[fontKey]*opentype.Font)
	}
	fl.fonts[fontKey{family: family, weight: weight, italic: italic}] = f
	return nil
}

// Len reports how many faces are loaded.
func (fl *FontLibrary) Len() int {
	if fl == nil {
		return 0
	}
	return len(fl.fonts)
}

func (fl *FontLibrary) find(spec FontSpec) *opentype.Font {
	if fl == nil || fl.fonts == nil {
		return nil
	}
	// Exact match first
	if f, ok := fl.fonts[fontKey{family: spec.Family, weight: spec.Weight, italic: spec.Italic}]; ok {
		return f
	}
	// same family (any when unspecified), closest weight
	var best *opentype.Font
	bestDist := 1 << 30
	for k, f := range fl.fonts {
		if spec.Family != "" && k.family != spec.Family {
			continue
		}
		d := k.weight - spec.Weight
		if d < 0 {
			d = -d
		}
		if k.italic != spec.Italic {
			d += 1000
		}
		if d < bestDist {
			best, bestDist = f, d
		}
	}
	return best
}

// OTProvider resolves FontSpec using a FontLibrary and falls back to another
// Provider, GoFontProvider when unset.
type OTProvider struct {
	Lib      *FontLibrary
	DPI      float64 // default 72 if zero
	Fallback Provider
}

func (p OTProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	if f := p.Lib.find(spec); f != nil {
		if face, m, ok := otFace(f, spec, p.DPI); ok {
			return face, m
		}
	}
	fb := p.Fallback
	if fb == nil {
		fb = GoFontProvider{DPI: p.DPI}
	}
	return fb.Resolve(spec)
}

// ProviderForFile returns an OTProvider preferring the font at path. An
// empty path selects the embedded Go font.
func ProviderForFile(path string) (Provider, error) {
	if path == "" {
		return GoFontProvider{}, nil
	}
	lib := NewFontLibrary()
	if err := lib.LoadTTF(UserFamily, 400, false, path); err != nil {
		return GoFontProvider{}, err
	}
	return OTProvider{Lib: lib}, nil
}

// UserFamily is the family name a configured font file is registered under.
const UserFamily = "user"

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package replay drives an editor controller from a JSON command script,
// headless. Shapes are addressed by kind and insertion index because ids
// are generated at run time.
package replay

import (
	"fmt"

	"gocanvas/internal/domain"
)

// Op names a script command.
type Op string

const (
	OpAddText    Op = "addText"
	OpAddImage   Op = "addImage"
	OpSelect     Op = "select"
	OpBackground Op = "background"
	OpPatch      Op = "patch"
	OpTransform  Op = "transform"
	OpDelete     Op = "delete"
	// OpClick and OpDrag go through the rendering surface's hit testing.
	OpClick Op = "click"
	OpDrag  Op = "drag"
)

// Command is one script step. Optional fields are pointers; absent means
// "not part of this command".
type Command struct {
	Op    Op          `json:"op"`
	File  *string     `json:"file,omitempty"`
	Kind  domain.Kind `json:"kind,omitempty"`
	Index *int        `json:"index,omitempty"`

	Brightness *float64 `json:"brightness,omitempty"`
	Contrast   *float64 `json:"contrast,omitempty"`
	Fill       *string  `json:"fill,omitempty"`
	FontSize   *float64 `json:"fontSize,omitempty"`
	Text       *string  `json:"text,omitempty"`

	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	ScaleX   *float64 `json:"scaleX,omitempty"`
	ScaleY   *float64 `json:"scaleY,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`

	At   []float64 `json:"at,omitempty"`
	From []float64 `json:"from,omitempty"`
	To   []float64 `json:"to,omitempty"`
}

// Script is a parsed command list.
type Script struct {
	Version  int       `json:"version,omitempty"`
	Commands []Command `json:"commands"`
}

// Error is a problem with one command (or the whole script when Step < 0).
type Error struct {
	Step int
	Op   Op
	Err  error
}

func (e Error) Error() string {
	if e.Step < 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("step %d (%s): %v", e.Step+1, e.Op, e.Err)
}

func (e Error) Unwrap() error { return e.Err }

// Result is the editor state after a run.
type Result struct {
	Images   []domain.Image `yaml:"images"`
	Texts    []domain.Text  `yaml:"texts"`
	Selected *domain.Ref    `yaml:"selected,omitempty"`
}

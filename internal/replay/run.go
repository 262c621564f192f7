/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package replay

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"gocanvas/internal/domain"
	"gocanvas/internal/editor"
	"gocanvas/internal/imagesrc"
	applog "gocanvas/internal/log"
	"gocanvas/internal/surface"
	"gocanvas/internal/vector"
)

// ErrNoSuchShape is returned when a command addresses a missing index.
var ErrNoSuchShape = errors.New("no such shape")

// Options configure a run.
type Options struct {
	// BaseDir resolves relative addImage paths, usually the script's directory.
	BaseDir string
	// Measurer sizes shapes for click and drag; defaults to a ShapeMeasurer.
	Measurer surface.Measurer
	Surface  surface.Options
}

// Run applies every command to ctrl in order. Failing commands are
// reported and skipped; they never abort the run.
func Run(ctrl *editor.Controller, s Script, opts Options) (Result, []Error) {
	if opts.Measurer == nil {
		opts.Measurer = surface.NewShapeMeasurer(nil, nil)
	}
	r := &runner{
		ctrl: ctrl,
		surf: surface.New(opts.Measurer, ctrl.SurfaceCallbacks(), opts.Surface),
		opts: opts,
		log:  applog.WithComponent("replay"),
	}
	var errs []Error
	for i, cmd := range s.Commands {
		if err := r.apply(cmd); err != nil {
			r.log.Warn("command failed", slog.Int("step", i+1), slog.String("op", string(cmd.Op)), slog.Any("err", err))
			errs = append(errs, Error{Step: i, Op: cmd.Op, Err: err})
		}
	}
	return ResultOf(ctrl), errs
}

// ResultOf snapshots the controller's registry and selection.
func ResultOf(ctrl *editor.Controller) Result {
	res := Result{Images: ctrl.Images(), Texts: ctrl.Texts()}
	if s, ok := ctrl.Selection(); ok {
		ref := s.Ref()
		res.Selected = &ref
	}
	return res
}

type runner struct {
	ctrl *editor.Controller
	surf *surface.Surface
	opts Options
	log  *slog.Logger
}

func (r *runner) apply(cmd Command) error {
	switch cmd.Op {
	case OpAddText:
		r.ctrl.AddText()
	case OpAddImage:
		var f *imagesrc.File
		if cmd.File != nil {
			p := *cmd.File
			if !filepath.IsAbs(p) && r.opts.BaseDir != "" {
				p = filepath.Join(r.opts.BaseDir, p)
			}
			f = &imagesrc.File{Path: p}
		}
		// a missing file is a cancelled pick, not a script error
		if _, err := r.ctrl.AddImage(f); err != nil && !editor.IsInvalidInput(err) {
			return err
		}
	case OpSelect:
		s, err := r.shapeAt(cmd.Kind, cmd.Index)
		if err != nil {
			return err
		}
		r.ctrl.OnSelect(s.Ref())
	case OpBackground:
		r.ctrl.OnBackgroundInteract()
	case OpPatch:
		p, err := patchOf(cmd)
		if err != nil {
			return err
		}
		if _, err := r.ctrl.ControlChange(p); err != nil {
			return err
		}
	case OpTransform:
		s, err := r.shapeAt(cmd.Kind, cmd.Index)
		if err != nil {
			return err
		}
		r.ctrl.OnTransformChange(s.WithGeom(geometryOf(cmd, s.Geom())))
	case OpDelete:
		r.ctrl.DeleteSelected()
	case OpClick:
		at, err := point(cmd.At)
		if err != nil {
			return err
		}
		r.surf.SetScene(r.ctrl.Scene())
		r.surf.PointerDown(at)
		r.surf.PointerUp()
	case OpDrag:
		from, err := point(cmd.From)
		if err != nil {
			return err
		}
		to, err := point(cmd.To)
		if err != nil {
			return err
		}
		r.surf.SetScene(r.ctrl.Scene())
		r.surf.PointerDown(from)
		r.surf.PointerDrag(to)
		r.surf.PointerUp()
	default:
		return fmt.Errorf("unknown op %q", cmd.Op)
	}
	return nil
}

func (r *runner) shapeAt(kind domain.Kind, index *int) (domain.Shape, error) {
	i := -1
	if index != nil {
		i = *index
	}
	switch kind {
	case domain.KindImage:
		imgs := r.ctrl.Images()
		if i >= 0 && i < len(imgs) {
			return imgs[i], nil
		}
	case domain.KindText:
		txts := r.ctrl.Texts()
		if i >= 0 && i < len(txts) {
			return txts[i], nil
		}
	default:
		return nil, fmt.Errorf("%q: %w", kind, domain.ErrUnknownShapeKind)
	}
	return nil, fmt.Errorf("%s #%d: %w", kind, i, ErrNoSuchShape)
}

func patchOf(cmd Command) (domain.Patch, error) {
	switch cmd.Kind {
	case domain.KindImage:
		return domain.ImagePatch{Brightness: cmd.Brightness, Contrast: cmd.Contrast}, nil
	case domain.KindText:
		if cmd.Fill != nil {
			if _, err := domain.ParseHexColor(*cmd.Fill); err != nil {
				return nil, err
			}
		}
		return domain.TextPatch{Fill: cmd.Fill, FontSize: cmd.FontSize, Text: cmd.Text}, nil
	}
	return nil, fmt.Errorf("patch %q: %w", cmd.Kind, domain.ErrUnknownShapeKind)
}

func geometryOf(cmd Command, g domain.Geometry) domain.Geometry {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&g.X, cmd.X)
	set(&g.Y, cmd.Y)
	set(&g.ScaleX, cmd.ScaleX)
	set(&g.ScaleY, cmd.ScaleY)
	set(&g.Rotation, cmd.Rotation)
	return g
}

func point(v []float64) (vector.Pt, error) {
	if len(v) != 2 {
		return vector.Pt{}, fmt.Errorf("point needs 2 numbers, got %d: %w", len(v), domain.ErrInvalidInput)
	}
	return vector.Pt{X: v[0], Y: v[1]}, nil
}

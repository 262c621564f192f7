/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package editor is the composition root of the canvas core. A Controller
// owns the shape registry and the selection, routes toolbar and panel
// commands into registry mutations, and receives the rendering surface's
// callbacks. It is not safe for concurrent use; every call is expected on
// the UI event goroutine.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"gocanvas/internal/domain"
	"gocanvas/internal/imagesrc"
	applog "gocanvas/internal/log"
	"gocanvas/internal/registry"
	"gocanvas/internal/selection"
	"gocanvas/internal/surface"
)

// EventSink receives anonymous usage events. *telemetry.Client satisfies it.
type EventSink interface {
	Event(name string, props map[string]any)
}

type Option func(*Controller)

// WithIDFunc overrides the registry's id source.
func WithIDFunc(fn registry.IDFunc) Option {
	return func(c *Controller) { c.regOpts = append(c.regOpts, registry.WithIDFunc(fn)) }
}

// WithEventSink reports shape_added and shape_deleted events to s.
func WithEventSink(s EventSink) Option {
	return func(c *Controller) { c.events = s }
}

type Controller struct {
	reg     *registry.Registry
	regOpts []registry.Option
	sel     selection.Tracker
	events  EventSink
	subs    map[int]func()
	nextSub int
	log     *slog.Logger
}

func New(opts ...Option) *Controller {
	c := &Controller{subs: map[int]func(){}, log: applog.WithComponent("editor")}
	for _, o := range opts {
		o(c)
	}
	c.reg = registry.New(c.regOpts...)
	return c
}

// AddCommand is the toolbar's parameterised add. File is only read for images.
type AddCommand struct {
	Kind domain.Kind
	File *imagesrc.File
}

// Add routes an add command by kind. Any add clears the selection, including
// a cancelled image pick. An unknown kind is logged and changes nothing.
func (c *Controller) Add(cmd AddCommand) (domain.Ref, error) {
	switch cmd.Kind {
	case domain.KindText:
		return c.AddText(), nil
	case domain.KindImage:
		return c.AddImage(cmd.File)
	default:
		err := fmt.Errorf("add %q: %w", cmd.Kind, domain.ErrUnknownShapeKind)
		applog.WithOperation(c.log, "add").Error("unknown shape kind ignored", slog.String("kind", string(cmd.Kind)))
		return domain.Ref{}, err
	}
}

// AddText appends a default text shape. The new shape is not selected.
func (c *Controller) AddText() domain.Ref {
	ref := domain.Ref{Kind: domain.KindText, ID: c.reg.AddText()}
	c.sel.Clear()
	applog.WithShape(applog.WithOperation(c.log, "add"), ref).Info("shape added")
	c.emit("shape_added", map[string]any{"kind": string(ref.Kind)})
	c.notify()
	return ref
}

// AddImage appends an image for the picked file. A nil file (cancelled
// pick) adds nothing and returns an error wrapping domain.ErrInvalidInput.
func (c *Controller) AddImage(f *imagesrc.File) (domain.Ref, error) {
	l := applog.WithOperation(c.log, "add")
	defer c.notify()
	c.sel.Clear()
	src, err := imagesrc.SourceFor(f)
	if err != nil {
		l.Debug("image add dropped", slog.Any("err", err))
		return domain.Ref{}, err
	}
	id, err := c.reg.AddImage(src)
	if err != nil {
		return domain.Ref{}, err
	}
	ref := domain.Ref{Kind: domain.KindImage, ID: id}
	applog.WithShape(l, ref).Info("shape added", slog.String("source", string(src)))
	c.emit("shape_added", map[string]any{"kind": string(ref.Kind)})
	return ref, nil
}

// DeleteSelected removes the selected shape and clears the selection. It
// reports whether a record was removed; without a selection it is a no-op.
func (c *Controller) DeleteSelected() bool {
	l := applog.WithOperation(c.log, "delete")
	ref, ok := c.sel.Ref()
	if !ok {
		l.Debug("delete without selection ignored")
		return false
	}
	removed, err := c.reg.Remove(ref)
	c.sel.Clear()
	defer c.notify()
	if err != nil {
		applog.WithShape(l, ref).Error("delete failed", slog.Any("err", err))
		return false
	}
	applog.WithShape(l, ref).Info("shape deleted", slog.Bool("removed", removed))
	if removed {
		c.emit("shape_deleted", map[string]any{"kind": string(ref.Kind)})
	}
	return removed
}

// ControlChange merges a panel edit into the selected record. Only the
// fields set on p change. The selection snapshot is left as it was; readers
// use Panel for live values.
func (c *Controller) ControlChange(p domain.Patch) (bool, error) {
	l := applog.WithOperation(c.log, "patch")
	if p == nil {
		err := fmt.Errorf("nil patch: %w", domain.ErrUnknownShapeKind)
		l.Error("patch ignored", slog.Any("err", err))
		return false, err
	}
	ref, ok := c.sel.Ref()
	if !ok {
		l.Debug("patch without selection ignored", slog.String("kind", string(p.Kind())))
		return false, nil
	}
	if p.Kind() != ref.Kind {
		err := fmt.Errorf("%s patch for selected %s: %w", p.Kind(), ref, domain.ErrInvalidInput)
		applog.WithShape(l, ref).Warn("patch ignored", slog.Any("err", err))
		return false, err
	}
	changed, err := c.reg.Patch(ref.ID, p)
	if err != nil {
		applog.WithShape(l, ref).Error("patch ignored", slog.Any("err", err))
		return false, err
	}
	if changed {
		c.notify()
	}
	return changed, nil
}

// OnSelect selects the live record for ref. Unknown refs are ignored.
func (c *Controller) OnSelect(ref domain.Ref) bool {
	l := applog.WithShape(applog.WithOperation(c.log, "select"), ref)
	if !ref.Kind.Valid() {
		l.Error("select ignored", slog.Any("err", domain.ErrUnknownShapeKind))
		return false
	}
	s, ok := c.reg.Lookup(ref)
	if !ok {
		l.Warn("select of missing shape ignored")
		return false
	}
	c.sel.Select(s)
	l.Debug("shape selected")
	c.notify()
	return true
}

// OnTransformChange stores the full record reported by the surface after a
// drag, scale or rotate.
func (c *Controller) OnTransformChange(s domain.Shape) bool {
	l := applog.WithOperation(c.log, "transform")
	if s == nil {
		l.Error("transform ignored", slog.Any("err", domain.ErrUnknownShapeKind))
		return false
	}
	ok, err := c.reg.UpdateGeometry(s)
	if err != nil {
		applog.WithShape(l, s.Ref()).Error("transform ignored", slog.Any("err", err))
		return false
	}
	if ok {
		c.notify()
	}
	return ok
}

// OnBackgroundInteract clears the selection.
func (c *Controller) OnBackgroundInteract() {
	if c.sel.Clear() {
		c.log.Debug("selection cleared")
		c.notify()
	}
}

// SurfaceCallbacks wires a rendering surface to this controller.
func (c *Controller) SurfaceCallbacks() surface.Callbacks {
	return surface.Callbacks{
		OnSelect:             func(ref domain.Ref) { c.OnSelect(ref) },
		OnTransformChange:    func(s domain.Shape) { c.OnTransformChange(s) },
		OnBackgroundInteract: c.OnBackgroundInteract,
	}
}

// ToolbarState is what the toolbar renders from.
type ToolbarState struct {
	ShapeSelected bool
}

func (c *Controller) Toolbar() ToolbarState {
	_, ok := c.sel.Current()
	return ToolbarState{ShapeSelected: ok}
}

// Panel returns the live registry record behind the selection, never the
// snapshot taken at selection time.
func (c *Controller) Panel() (domain.Shape, bool) {
	ref, ok := c.sel.Ref()
	if !ok {
		return nil, false
	}
	return c.reg.Lookup(ref)
}

// Selection returns the snapshot taken when the shape was selected.
func (c *Controller) Selection() (domain.Shape, bool) { return c.sel.Current() }

// Scene returns every shape in render order with its selected flag.
func (c *Controller) Scene() []surface.Item {
	shapes := c.reg.Shapes()
	items := make([]surface.Item, len(shapes))
	for i, s := range shapes {
		items[i] = surface.Item{Shape: s, Selected: c.sel.IsSelected(s.Ref())}
	}
	return items
}

func (c *Controller) Images() []domain.Image { return c.reg.Images() }
func (c *Controller) Texts() []domain.Text   { return c.reg.Texts() }

// Subscribe registers fn to run after every state change. The returned
// func unregisters it.
func (c *Controller) Subscribe(fn func()) (cancel func()) {
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() { delete(c.subs, id) }
}

func (c *Controller) notify() {
	for i := 0; i < c.nextSub; i++ {
		if fn, ok := c.subs[i]; ok {
			fn()
		}
	}
}

func (c *Controller) emit(name string, props map[string]any) {
	if c.events != nil {
		c.events.Event(name, props)
	}
}

// Summary is a one-line state description for crash reports.
func (c *Controller) Summary() string {
	sel := "none"
	if ref, ok := c.sel.Ref(); ok {
		sel = ref.String()
	}
	return fmt.Sprintf("images=%d texts=%d selected=%s", len(c.reg.Images()), len(c.reg.Texts()), sel)
}

// IsInvalidInput reports whether err came from a dropped command.
func IsInvalidInput(err error) bool { return errors.Is(err, domain.ErrInvalidInput) }

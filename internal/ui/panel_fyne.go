//go:build fyne

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package ui

import (
	"fmt"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"gocanvas/internal/domain"
	"gocanvas/internal/editor"
	"gocanvas/internal/imagesrc"
	applog "gocanvas/internal/log"
)

// imageExtensions filters the picker. Files are not validated beyond that.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// Toolbar holds the add and delete commands.
type Toolbar struct {
	AddText  *widget.Button
	AddImage *widget.Button
	Delete   *widget.Button

	ctrl *editor.Controller
	w    fyne.Window
	log  *slog.Logger
}

func NewToolbar(ctrl *editor.Controller, w fyne.Window) *Toolbar {
	t := &Toolbar{ctrl: ctrl, w: w, log: applog.WithComponent("toolbar")}
	t.AddText = widget.NewButton("Add Text", func() {
		_, _ = ctrl.Add(editor.AddCommand{Kind: domain.KindText})
	})
	t.AddImage = widget.NewButton("Add Image…", t.pickImage)
	t.Delete = widget.NewButton("Delete", func() { ctrl.DeleteSelected() })
	t.Sync()
	return t
}

func (t *Toolbar) Object() fyne.CanvasObject {
	return container.NewHBox(t.AddText, t.AddImage, widget.NewSeparator(), t.Delete)
}

// Sync enables Delete only while a shape is selected.
func (t *Toolbar) Sync() {
	if t.ctrl.Toolbar().ShapeSelected {
		t.Delete.Enable()
	} else {
		t.Delete.Disable()
	}
}

func (t *Toolbar) pickImage() {
	fd := dialog.NewFileOpen(t.addPicked, t.w)
	fd.SetFilter(fstorage.NewExtensionFileFilter(imageExtensions))
	fd.Show()
}

// addPicked is the file dialog callback; rc is nil when the pick was cancelled.
func (t *Toolbar) addPicked(rc fyne.URIReadCloser, err error) {
	if err != nil {
		t.log.Error("file dialog failed", slog.Any("err", err))
		dialog.ShowError(err, t.w)
		return
	}
	var f *imagesrc.File
	if rc != nil {
		f = &imagesrc.File{Path: rc.URI().Path()}
		_ = rc.Close()
	}
	if _, err := t.ctrl.Add(editor.AddCommand{Kind: domain.KindImage, File: f}); err != nil && !editor.IsInvalidInput(err) {
		dialog.ShowError(err, t.w)
	}
}

// ControlsPanel edits the selected shape's properties. It is rebuilt only
// when the selection changes so in-flight slider drags are not reset.
type ControlsPanel struct {
	ctrl  *editor.Controller
	w     fyne.Window
	box   *fyne.Container
	shown *domain.Ref
}

func NewControlsPanel(ctrl *editor.Controller, w fyne.Window) *ControlsPanel {
	p := &ControlsPanel{ctrl: ctrl, w: w, box: container.NewVBox()}
	p.Sync()
	return p
}

func (p *ControlsPanel) Object() fyne.CanvasObject { return p.box }

// Sync rebuilds the controls from the live record when the selection changed.
func (p *ControlsPanel) Sync() {
	s, ok := p.ctrl.Panel()
	if !ok {
		if p.shown != nil || len(p.box.Objects) == 0 {
			p.shown = nil
			p.box.Objects = []fyne.CanvasObject{widget.NewLabel("Select a shape to edit its properties.")}
			p.box.Refresh()
		}
		return
	}
	ref := s.Ref()
	if p.shown != nil && *p.shown == ref {
		return
	}
	p.shown = &ref
	switch v := s.(type) {
	case domain.Image:
		p.box.Objects = p.imageControls(v)
	case domain.Text:
		p.box.Objects = p.textControls(v)
	}
	p.box.Refresh()
}

func (p *ControlsPanel) imageControls(img domain.Image) []fyne.CanvasObject {
	bLabel := widget.NewLabel("")
	cLabel := widget.NewLabel("")
	setB := func(v float64) { bLabel.SetText(fmt.Sprintf("Brightness: %.2f", v)) }
	setC := func(v float64) { cLabel.SetText(fmt.Sprintf("Contrast: %.0f", v)) }

	bright := widget.NewSlider(domain.BrightnessMin, domain.BrightnessMax)
	bright.Step = 0.01
	bright.Value = img.Brightness
	setB(img.Brightness)
	bright.OnChanged = func(v float64) {
		setB(v)
		_, _ = p.ctrl.ControlChange(domain.ImagePatch{Brightness: domain.Float64(v)})
	}

	contrast := widget.NewSlider(domain.ContrastMin, domain.ContrastMax)
	contrast.Step = 1
	contrast.Value = img.Contrast
	setC(img.Contrast)
	contrast.OnChanged = func(v float64) {
		setC(v)
		_, _ = p.ctrl.ControlChange(domain.ImagePatch{Contrast: domain.Float64(v)})
	}
	return []fyne.CanvasObject{widget.NewLabel("Image"), bLabel, bright, cLabel, contrast}
}

func (p *ControlsPanel) textControls(t domain.Text) []fyne.CanvasObject {
	content := widget.NewMultiLineEntry()
	content.SetText(t.Text)
	content.OnChanged = func(s string) {
		_, _ = p.ctrl.ControlChange(domain.TextPatch{Text: domain.String(s)})
	}

	sizeLabel := widget.NewLabel("")
	setSize := func(v float64) { sizeLabel.SetText(fmt.Sprintf("Font size: %.0f", v)) }
	size := widget.NewSlider(domain.FontSizeMin, domain.FontSizeMax)
	size.Step = 1
	size.Value = t.FontSize
	setSize(t.FontSize)
	size.OnChanged = func(v float64) {
		setSize(v)
		_, _ = p.ctrl.ControlChange(domain.TextPatch{FontSize: domain.Float64(v)})
	}

	fill := widget.NewEntry()
	fill.SetText(t.Fill)
	fill.Validator = func(s string) error {
		_, err := domain.ParseHexColor(s)
		return err
	}
	fill.OnChanged = func(s string) {
		if _, err := domain.ParseHexColor(s); err != nil {
			return
		}
		_, _ = p.ctrl.ControlChange(domain.TextPatch{Fill: domain.String(s)})
	}
	pick := widget.NewButton("Pick…", func() {
		cur, err := domain.ParseHexColor(fill.Text)
		picker := dialog.NewColorPicker("Fill", "Choose the text colour", func(c color.Color) {
			fill.SetText(domain.FormatHexColor(c))
		}, p.w)
		picker.Advanced = true
		if err == nil {
			picker.SetColor(cur)
		}
		picker.Show()
	})

	return []fyne.CanvasObject{
		widget.NewLabel("Text"), content,
		sizeLabel, size,
		widget.NewLabel("Fill"), container.NewBorder(nil, nil, nil, pick, fill),
	}
}

// statusText summarises the scene for the status bar.
func statusText(ctrl *editor.Controller) string {
	msg := fmt.Sprintf("Images: %d  Texts: %d", len(ctrl.Images()), len(ctrl.Texts()))
	if s, ok := ctrl.Selection(); ok {
		msg += "  Selected: " + s.Ref().String()
	}
	return msg
}

//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"gocanvas/internal/config"
	"gocanvas/internal/crash"
	"gocanvas/internal/editor"
	"gocanvas/internal/imagefx"
	"gocanvas/internal/imagesrc"
	applog "gocanvas/internal/log"
	"gocanvas/internal/render"
	"gocanvas/internal/surface"
	"gocanvas/internal/telemetry"
	"gocanvas/internal/textlayout"
	"gocanvas/internal/version"
)

// Run starts the desktop editor and blocks until the window is closed.
func Run(cfg config.AppConfig) error {
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))

	tc := telemetry.New(cfg.TelemetryConfig())
	telemetry.SetDefault(tc)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		tc.Flush(ctx)
	}()

	ctrl := editor.New(editor.WithEventSink(tc))
	defer crash.Recover(ctrl)

	fyneApp := app.NewWithID("gocanvas")
	if v, ok := themeVariant(cfg.General.Theme); ok {
		fyneApp.Settings().SetTheme(variantTheme{Theme: theme.DefaultTheme(), variant: v})
	}
	w := fyneApp.NewWindow("GoCanvas")

	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", cfg.Canvas.Width+320)
	winH := prefs.IntWithFallback("window.height", cfg.Canvas.Height+80)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))
	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	text := textlayout.NewMeasurer(fontProvider(cfg.Canvas.FontFile, l))
	images := imagesrc.NewCache(func(img image.Image) image.Image {
		return imagefx.Fit(img, cfg.Canvas.MaxPreviewPixels)
	})
	renderer := render.New(images, text)
	renderer.Background = canvasBackground

	opts := surface.DefaultOptions()
	if cfg.Canvas.HandleSize > 0 {
		opts.HandleSize = cfg.Canvas.HandleSize
	}
	if cfg.Canvas.RotateHandleOffset > 0 {
		opts.RotateOffset = cfg.Canvas.RotateHandleOffset
	}
	ec := NewEditorCanvas(ctrl, surface.NewShapeMeasurer(text, images), renderer, opts,
		fyne.NewSize(float32(cfg.Canvas.Width), float32(cfg.Canvas.Height)))

	toolbar := NewToolbar(ctrl, w)
	panel := NewControlsPanel(ctrl, w)
	status := widget.NewLabel("")
	syncStatus := func() {
		status.SetText(statusText(ctrl))
	}
	syncStatus()

	cancel := ctrl.Subscribe(func() {
		ec.Sync()
		toolbar.Sync()
		panel.Sync()
		syncStatus()
	})
	defer cancel()

	side := container.NewVScroll(container.NewPadded(panel.Object()))
	side.SetMinSize(fyne.NewSize(280, 0))
	w.SetContent(container.NewBorder(
		toolbar.Object(),
		status,
		nil,
		side,
		container.NewScroll(ec),
	))

	tc.Event("app_started", map[string]any{"version": version.Version})
	w.ShowAndRun()
	l.Info("UI closed")
	return nil
}

// fontProvider prefers a configured TTF and falls back to the bundled Go font.
func fontProvider(path string, l *slog.Logger) textlayout.Provider {
	if path == "" {
		return textlayout.GoFontProvider{}
	}
	p, err := textlayout.ProviderForFile(path)
	if err != nil {
		l.Warn("font file unusable, using built-in font", slog.String("path", path), slog.Any("err", err))
		return textlayout.GoFontProvider{}
	}
	return p
}

func themeVariant(name string) (fyne.ThemeVariant, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return theme.VariantLight, true
	case "dark":
		return theme.VariantDark, true
	}
	return 0, false
}

// variantTheme pins the default theme to one variant regardless of the OS setting.
type variantTheme struct {
	fyne.Theme
	variant fyne.ThemeVariant
}

func (t variantTheme) Color(n fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	return t.Theme.Color(n, t.variant)
}

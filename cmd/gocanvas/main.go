/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"gocanvas/internal/config"
	"gocanvas/internal/crash"
	"gocanvas/internal/editor"
	"gocanvas/internal/imagesrc"
	applog "gocanvas/internal/log"
	"gocanvas/internal/replay"
	"gocanvas/internal/surface"
	"gocanvas/internal/telemetry"
	"gocanvas/internal/textlayout"
	"gocanvas/internal/ui"
	"gocanvas/internal/version"
)

func usage(w io.Writer) {
	fmt.Fprintln(w, "GoCanvas: image and text canvas editor")
	fmt.Fprintf(w, "Version: %s\n", version.String())
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  gocanvas version|-v|--version     Show version")
	fmt.Fprintln(w, "  gocanvas ui                       Launch desktop editor (build with -tags fyne)")
	fmt.Fprintln(w, "  gocanvas replay <script.json>     Apply an editing script headlessly and print the scene as YAML")
	fmt.Fprintln(w, "  gocanvas config                   Print the effective configuration")
}

func main() {
	cfg, cfgErr := config.Load()
	applog.Init(cfg.LogOptions())
	l := applog.WithComponent("cli")
	if cfgErr != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", cfgErr))
	}
	defer crash.Recover(nil)

	code := run(os.Args[1:], cfg, os.Stdout, os.Stderr)
	if code != 0 {
		os.Exit(code)
	}
}

// run dispatches a subcommand and returns the process exit code.
func run(args []string, cfg config.AppConfig, stdout, stderr io.Writer) int {
	l := applog.WithComponent("cli")
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) == 0 {
		usage(stdout)
		return 0
	}
	switch args[0] {
	case "version", "--version", "-v":
		fmt.Fprintln(stdout, version.String())
		return 0
	case "config":
		if err := yaml.NewEncoder(stdout).Encode(cfg); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		return 0
	case "replay":
		if len(args) < 2 {
			fmt.Fprintln(stderr, "replay requires <script.json>")
			usage(stderr)
			return 2
		}
		return replayScript(args[1], cfg, stdout, stderr)
	case "ui":
		if err := ui.Run(cfg); err != nil {
			fmt.Fprintln(stderr, "Error:", err)
			return 1
		}
		return 0
	case "help", "--help", "-h":
		usage(stdout)
		return 0
	}
	fmt.Fprintf(stderr, "unknown command %q\n", args[0])
	usage(stderr)
	return 2
}

func replayScript(path string, cfg config.AppConfig, stdout, stderr io.Writer) int {
	l := applog.WithOperation(applog.WithComponent("cli"), "replay")
	abs, _ := filepath.Abs(path)
	l.Info("replay script", slog.String("path", abs))

	s, errs := replay.ParseFile(abs)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(stderr, "Error:", e.Error())
		}
		return 1
	}

	tc := telemetry.New(cfg.TelemetryConfig())
	telemetry.SetDefault(tc)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		tc.Flush(ctx)
	}()

	var provider textlayout.Provider = textlayout.GoFontProvider{}
	if cfg.Canvas.FontFile != "" {
		p, err := textlayout.ProviderForFile(cfg.Canvas.FontFile)
		if err != nil {
			l.Warn("font file unusable, using built-in font", slog.Any("err", err))
		} else {
			provider = p
		}
	}
	opts := replay.Options{
		BaseDir:  filepath.Dir(abs),
		Measurer: surface.NewShapeMeasurer(textlayout.NewMeasurer(provider), imagesrc.NewCache(nil)),
		Surface:  surface.DefaultOptions(),
	}
	if cfg.Canvas.HandleSize > 0 {
		opts.Surface.HandleSize = cfg.Canvas.HandleSize
	}
	if cfg.Canvas.RotateHandleOffset > 0 {
		opts.Surface.RotateOffset = cfg.Canvas.RotateHandleOffset
	}

	res, runErrs := replay.Run(editor.New(editor.WithEventSink(tc)), s, opts)
	if err := yaml.NewEncoder(stdout).Encode(res); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	for _, e := range runErrs {
		fmt.Fprintln(stderr, "Error:", e.Error())
	}
	if len(runErrs) > 0 {
		return 1
	}
	return 0
}

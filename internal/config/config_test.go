/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points the config path at a temp file and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, p)
	for _, k := range []string{EnvTelemetryOptIn, EnvTheme, EnvCanvasWidth, EnvCanvasHeight, EnvFontFile, EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile} {
		t.Setenv(k, "")
	}
	return p
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestSaveThenLoad(t *testing.T) {
	isolate(t)
	want := Defaults()
	want.General.TelemetryOptIn = true
	want.Canvas.Width = 640
	want.Canvas.FontFile = "/fonts/x.ttf"
	want.Logging.Level = "debug"
	if err := Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got != want {
		t.Fatalf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoadMalformedFileReportsError(t *testing.T) {
	p := isolate(t)
	if err := os.WriteFile(p, []byte("canvas: [unterminated"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load()
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected parse error, got %v", err)
	}
	if cfg.Canvas.Width != Defaults().Canvas.Width {
		t.Fatalf("defaults should survive a parse error: %+v", cfg.Canvas)
	}
}

func TestMergeKeepsDefaultsForZeroValues(t *testing.T) {
	dst := Defaults()
	src := AppConfig{Canvas: CanvasConfig{Height: 1000}, Logging: LoggingConfig{Format: " JSON ", Source: true}}
	mergeInto(&dst, &src)
	if dst.Canvas.Height != 1000 || dst.Canvas.Width != 1280 || dst.Canvas.HandleSize != 10 {
		t.Fatalf("canvas merge wrong: %+v", dst.Canvas)
	}
	if dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.Level != "info" {
		t.Fatalf("logging merge wrong: %+v", dst.Logging)
	}
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv(EnvTelemetryOptIn, "on")
	t.Setenv(EnvCanvasWidth, "1920")
	t.Setenv(EnvCanvasHeight, "not-a-number")
	t.Setenv(EnvLogLevel, "ERROR")
	t.Setenv(EnvLogFile, "/tmp/gcv.log")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn || cfg.Canvas.Width != 1920 || cfg.Canvas.Height != 800 {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.File != "/tmp/gcv.log" {
		t.Fatalf("logging overrides not applied: %+v", cfg.Logging)
	}
	if name, ok := EnvOverrideFor("canvas.width"); !ok || name != EnvCanvasWidth {
		t.Fatalf("EnvOverrideFor(canvas.width) = %q, %v", name, ok)
	}
	if _, ok := EnvOverrideFor("general.theme"); ok {
		t.Fatalf("theme is not overridden")
	}
}

func TestDerivedOptions(t *testing.T) {
	isolate(t)
	cfg := Defaults()
	cfg.General.TelemetryOptIn = true
	cfg.Logging = LoggingConfig{Level: "warn", Format: "json", Source: true, File: "x.log"}
	lo := cfg.LogOptions()
	if lo.Level != "warn" || lo.Format != "json" || !lo.AddSource || lo.File != "x.log" {
		t.Fatalf("LogOptions = %+v", lo)
	}
	if !cfg.TelemetryConfig().OptIn {
		t.Fatalf("TelemetryConfig should carry opt-in")
	}
}

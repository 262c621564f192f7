/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package imagesrc turns picked files into image source references and
// decodes those references for display.
package imagesrc

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"gocanvas/internal/domain"
)

// ErrUnsupportedScheme is returned by Load for references it cannot open.
var ErrUnsupportedScheme = errors.New("unsupported image source scheme")

// File is a user-picked file. A nil *File means the pick was cancelled.
type File struct {
	Path string
}

// SourceFor derives a displayable reference for f. The file is not opened
// and its format is not checked; that is left to whoever renders it.
func SourceFor(f *File) (domain.SourceRef, error) {
	if f == nil || strings.TrimSpace(f.Path) == "" {
		return "", fmt.Errorf("no file selected: %w", domain.ErrInvalidInput)
	}
	abs, err := filepath.Abs(f.Path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", f.Path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if !strings.HasPrefix(u.Path, "/") {
		// windows drive paths
		u.Path = "/" + u.Path
	}
	return domain.SourceRef(u.String()), nil
}

// PathOf returns the local file path behind a file:// reference.
func PathOf(ref domain.SourceRef) (string, error) {
	u, err := url.Parse(string(ref))
	if err != nil {
		return "", fmt.Errorf("parse source %q: %w", ref, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	p := u.Path
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return filepath.FromSlash(p), nil
}

// Load opens and decodes the image behind ref.
func Load(ref domain.SourceRef) (image.Image, string, error) {
	p, err := PathOf(ref)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = f.Close() }()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", p, err)
	}
	return img, format, nil
}

// Cache keeps decoded images for the session, keyed by source reference.
// Entries are never evicted; deleting a shape does not release its image.
type Cache struct {
	// Prepare, when set, post-processes a freshly decoded image (e.g. downscaling).
	Prepare func(image.Image) image.Image

	mu      sync.Mutex
	entries map[domain.SourceRef]entry
	load    func(domain.SourceRef) (image.Image, string, error)
}

type entry struct {
	img  image.Image
	size image.Point // before Prepare
}

func NewCache(prepare func(image.Image) image.Image) *Cache {
	return &Cache{Prepare: prepare, entries: map[domain.SourceRef]entry{}, load: Load}
}

// Get returns the prepared image for ref, decoding it on first use. Failed
// decodes are not cached so a later call can retry.
func (c *Cache) Get(ref domain.SourceRef) (image.Image, error) {
	e, err := c.entry(ref)
	return e.img, err
}

// Size returns the natural pixel size of the image behind ref, unaffected
// by Prepare.
func (c *Cache) Size(ref domain.SourceRef) (image.Point, error) {
	e, err := c.entry(ref)
	return e.size, err
}

func (c *Cache) entry(ref domain.SourceRef) (entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[ref]; ok {
		return e, nil
	}
	load := c.load
	if load == nil {
		load = Load
	}
	img, _, err := load(ref)
	if err != nil {
		return entry{}, err
	}
	e := entry{img: img, size: img.Bounds().Size()}
	if c.Prepare != nil {
		e.img = c.Prepare(img)
	}
	if c.entries == nil {
		c.entries = map[domain.SourceRef]entry{}
	}
	c.entries[ref] = e
	return e, nil
}

// Len reports how many decoded images are held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

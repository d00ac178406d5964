/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"strings"
	"time"

	"goshapestudio/internal/shape"
	"goshapestudio/internal/storage"
)

// BundleOptions controls shareable bundle export. The SVG and PNG options
// apply to the respective archive entries.
//
//nolint:revive // clarity
type BundleOptions struct {
	SVG SVGOptions
	PNG PNGOptions
}

// ExportBundle packages a document as a zip archive containing a text
// manifest, the shapes.json document and SVG/PNG renderings of the page.
func ExportBundle(dh *storage.DocumentHandle, outPath string, opt BundleOptions) error {
	if dh == nil {
		return fmt.Errorf("document handle is nil")
	}
	outPath, err := resolveOutPath(dh, outPath)
	if err != nil {
		return err
	}
	// Enforce .zip extension
	if !strings.HasSuffix(strings.ToLower(outPath), ".zip") {
		outPath = outPath + ".zip"
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create bundle: %w", err)
	}
	zw := zip.NewWriter(f)

	fail := func(err error) error {
		_ = zw.Close()
		_ = f.Close()
		return err
	}

	manifest := buildBundleManifest(dh.Doc)
	if err := addZipFile(zw, "manifest.txt", []byte(manifest)); err != nil {
		return fail(fmt.Errorf("zip add manifest: %w", err))
	}

	docBytes, err := json.MarshalIndent(dh.Doc, "", "  ")
	if err != nil {
		return fail(fmt.Errorf("marshal document: %w", err))
	}
	if err := addZipFile(zw, "shapes.json", docBytes); err != nil {
		return fail(fmt.Errorf("zip add shapes.json: %w", err))
	}

	svgBytes, err := renderSVG(dh.Doc, opt.SVG)
	if err != nil {
		return fail(fmt.Errorf("render svg: %w", err))
	}
	if err := addZipFile(zw, "page.svg", svgBytes); err != nil {
		return fail(fmt.Errorf("zip add page.svg: %w", err))
	}

	img, err := renderPNG(dh.Doc, opt.PNG)
	if err != nil {
		return fail(fmt.Errorf("render png: %w", err))
	}
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return fail(fmt.Errorf("encode png: %w", err))
	}
	if err := addZipFile(zw, "page.png", pngBuf.Bytes()); err != nil {
		return fail(fmt.Errorf("zip add page.png: %w", err))
	}

	if err := zw.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("close zip: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close bundle: %w", err)
	}
	return nil
}

func addZipFile(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func buildBundleManifest(doc storage.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Go Shape Studio bundle\n")
	fmt.Fprintf(&b, "Name: %s\n", doc.Name)
	fmt.Fprintf(&b, "Created: %s\n", doc.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Modified: %s\n", doc.ModifiedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Shapes: %d\n", shape.CountShapes(doc.Root.Root))
	return b.String()
}

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

func TestInitDocumentCreatesStructureAndManifest(t *testing.T) {
	root := t.TempDir()
	doc := NewDocument("Test Document")

	dh, err := InitDocument(root, doc)
	if err != nil {
		t.Fatalf("InitDocument error: %v", err)
	}
	if dh == nil {
		t.Fatalf("InitDocument returned nil handle")
	}

	// Check manifest exists
	if dh.ManifestPath == "" {
		t.Fatalf("ManifestPath not set")
	}
	// Load manifest and compare
	b, err := os.ReadFile(dh.ManifestPath)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var got Document
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	if got.Name != doc.Name {
		t.Fatalf("manifest name mismatch: got %q want %q", got.Name, doc.Name)
	}
	if _, ok := got.Root.Root.(*shape.Empty); !ok {
		t.Fatalf("expected empty root in fresh document, got %T", got.Root.Root)
	}

	// Standard subdirs should exist
	wantDirs := []string{"styles", "exports", BackupsDirName}
	for _, d := range wantDirs {
		p := filepath.Join(root, d)
		if fi, err := os.Stat(p); err != nil || !fi.IsDir() {
			t.Fatalf("expected directory %s to exist", p)
		}
	}
}

func TestSaveCreatesTimestampedBackup(t *testing.T) {
	root := t.TempDir()
	dh, err := InitDocument(root, NewDocument("Backup Test"))
	if err != nil {
		t.Fatalf("InitDocument error: %v", err)
	}

	// Change something and save again to force a backup
	dh.Doc.Root.Root = &shape.Group{Children: []shape.Shape{
		&shape.LineSegment{Points: [2]geom.Vec2{{X: 0, Y: 0}, {X: 10, Y: 0}}},
	}}
	if err := Save(dh); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// Expect at least one .bak file under backups
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups dir: %v", err)
	}
	var bakCount int
	for _, e := range ents {
		name := e.Name()
		if strings.HasPrefix(name, ManifestFileName+".") && strings.HasSuffix(name, ".bak") {
			bakCount++
		}
	}
	if bakCount == 0 {
		t.Fatalf("expected at least one backup file, found 0")
	}
}

func TestOpenFallsBackToLatestBackupOnCorruption(t *testing.T) {
	root := t.TempDir()
	doc := NewDocument("Open From Backup")
	dh, err := InitDocument(root, doc)
	if err != nil {
		t.Fatalf("InitDocument error: %v", err)
	}

	// Force a backup to exist by saving
	dh.Doc.Root.Root = &shape.Group{Children: []shape.Shape{
		&shape.Circle{Center: geom.Vec2{X: 5, Y: 5}, Radius: 3},
	}}
	if err := Save(dh); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	// Corrupt the manifest
	if err := os.WriteFile(dh.ManifestPath, []byte("{ this is not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}

	// Now opening should succeed via latest backup
	opened, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if opened.Doc.Name != doc.Name {
		t.Fatalf("opened document name mismatch: got %q want %q", opened.Doc.Name, doc.Name)
	}
}

func TestOpenRoundTripsShapeTree(t *testing.T) {
	root := t.TempDir()
	doc := NewDocument("Round Trip")
	doc.Root.Root = &shape.Group{Children: []shape.Shape{
		&shape.Path{Points: []geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}, Closed: true},
		&shape.CubicBezier{Points: [4]geom.Vec2{{X: 0, Y: 0}, {X: 1, Y: 2}, {X: 3, Y: 2}, {X: 4, Y: 0}}},
	}}
	if _, err := InitDocument(root, doc); err != nil {
		t.Fatalf("InitDocument error: %v", err)
	}
	opened, err := Open(root)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	g, ok := opened.Doc.Root.Root.(*shape.Group)
	if !ok || len(g.Children) != 2 {
		t.Fatalf("round trip lost tree structure: %#v", opened.Doc.Root.Root)
	}
	p, ok := g.Children[0].(*shape.Path)
	if !ok || len(p.Points) != 3 || !p.Closed {
		t.Fatalf("round trip lost path: %#v", g.Children[0])
	}
}

func TestAutosaveCrashSnapshotWritesFile(t *testing.T) {
	root := t.TempDir()
	doc := NewDocument("Crash Snapshot")
	dh, err := InitDocument(root, doc)
	if err != nil {
		t.Fatalf("InitDocument error: %v", err)
	}

	path, err := AutosaveCrashSnapshot(dh)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot file does not exist: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var got Document
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if got.Name != doc.Name {
		t.Fatalf("snapshot content mismatch: got %q want %q", got.Name, doc.Name)
	}
}

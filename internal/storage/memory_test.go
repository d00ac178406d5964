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
	"testing"

	"goshapestudio/internal/editor"
	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

var _ editor.Store = (*MemoryStore)(nil)

func TestMemoryStoreRoundTrip(t *testing.T) {
	root := t.TempDir()
	store := NewMemoryStore(root)

	// Missing id loads as nil blob
	blob, err := store.LoadEditorState("ed1")
	if err != nil {
		t.Fatalf("LoadEditorState: %v", err)
	}
	if blob != nil {
		t.Fatalf("expected nil for missing state, got %d bytes", len(blob))
	}

	if err := store.SaveEditorState("ed1", []byte(`{"a":1}`)); err != nil {
		t.Fatalf("SaveEditorState: %v", err)
	}
	blob, err = store.LoadEditorState("ed1")
	if err != nil || string(blob) != `{"a":1}` {
		t.Fatalf("LoadEditorState got %q err %v", string(blob), err)
	}

	// Overwrite replaces
	if err := store.SaveEditorState("ed1", []byte(`{"a":2}`)); err != nil {
		t.Fatalf("SaveEditorState overwrite: %v", err)
	}
	blob, _ = store.LoadEditorState("ed1")
	if string(blob) != `{"a":2}` {
		t.Fatalf("expected overwrite, got %q", string(blob))
	}
}

func TestMemoryStorePersistsEditorState(t *testing.T) {
	root := t.TempDir()
	store := NewMemoryStore(root)

	st := editor.NewState()
	st.Transform = geom.Transform{Translation: geom.Vec2{X: 3, Y: -4}, Scale: 2}
	st.Selection.Add(shape.PointRef{Shape: 0, Point: 1})
	if err := editor.SaveState(store, "canvas", st); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	// A second store over the same document root sees the same state.
	restored, err := editor.LoadState(NewMemoryStore(root), "canvas")
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if restored.Transform.Scale != 2 || restored.Transform.Translation.X != 3 {
		t.Fatalf("transform not restored: %#v", restored.Transform)
	}
	if !restored.Selection.Contains(shape.PointRef{Shape: 0, Point: 1}) {
		t.Fatalf("selection not restored: %#v", restored.Selection)
	}
}

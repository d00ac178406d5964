/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package editor

import (
	"encoding/json"

	"goshapestudio/internal/action"
	"goshapestudio/internal/constraint"
	"goshapestudio/internal/geom"
	"goshapestudio/internal/shape"
)

// Store persists editor state blobs keyed by an editor instance id. The
// editor treats the blob as opaque; implementations range from an
// in-process map to a database table.
type Store interface {
	// LoadEditorState returns the blob stored under id, or nil when
	// nothing is stored.
	LoadEditorState(id string) ([]byte, error)
	// SaveEditorState stores the blob under id, replacing any previous
	// one.
	SaveEditorState(id string, data []byte) error
}

// LoadState restores the state saved under id, or returns a fresh state
// when the store holds nothing for it.
func LoadState(store Store, id string) (*State, error) {
	data, err := store.LoadEditorState(id)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return NewState(), nil
	}
	st := NewState()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, err
	}
	return st, nil
}

// SaveState persists st under id. Active gestures and caches are not
// part of the blob.
func SaveState(store Store, id string, st *State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return store.SaveEditorState(id, data)
}

type stateWire struct {
	Transform   geom.Transform  `json:"transform"`
	Selection   shape.Selection `json:"selection"`
	Constraints constraint.Set  `json:"constraints"`
	History     []entryWire     `json:"history,omitempty"`
	ManualX     *float32        `json:"manual_snap_x,omitempty"`
	ManualY     *float32        `json:"manual_snap_y,omitempty"`
}

type entryWire struct {
	Name    string          `json:"name"`
	Inverse json.RawMessage `json:"inverse"`
}

func (s *State) MarshalJSON() ([]byte, error) {
	w := stateWire{
		Transform:   s.Transform,
		Selection:   s.Selection,
		Constraints: s.Constraints,
		ManualX:     s.Snap.ManualX,
		ManualY:     s.Snap.ManualY,
	}
	for _, entry := range s.History.entries {
		data, err := action.MarshalAction(entry.Inverse)
		if err != nil {
			return nil, err
		}
		w.History = append(w.History, entryWire{Name: entry.Name, Inverse: data})
	}
	return json.Marshal(w)
}

func (s *State) UnmarshalJSON(data []byte) error {
	var w stateWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.Transform.Scale == 0 {
		w.Transform = geom.Identity()
	}
	entries := make([]HistoryEntry, 0, len(w.History))
	for _, e := range w.History {
		inv, err := action.UnmarshalAction(e.Inverse)
		if err != nil {
			return err
		}
		entries = append(entries, HistoryEntry{Inverse: inv, Name: e.Name})
	}
	*s = State{
		Transform:   w.Transform,
		Selection:   w.Selection,
		Constraints: w.Constraints,
		History:     History{entries: entries},
	}
	s.Snap.ManualX = w.ManualX
	s.Snap.ManualY = w.ManualY
	return nil
}

// MemStore keeps editor state in process memory, for hosts that do not
// persist across runs and for tests.
type MemStore struct {
	states map[string][]byte
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{states: map[string][]byte{}}
}

func (m *MemStore) LoadEditorState(id string) ([]byte, error) {
	return m.states[id], nil
}

func (m *MemStore) SaveEditorState(id string, data []byte) error {
	m.states[id] = append([]byte(nil), data...)
	return nil
}

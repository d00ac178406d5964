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
	"database/sql"
	"errors"
	"time"
)

// MemoryStore implements editor.Store over the document's editor_memory
// table, so view transform, selection, constraints and undo history
// survive across runs. One row per editor instance id.
type MemoryStore struct {
	docRoot string
}

// NewMemoryStore returns a store persisting into the index of the
// document rooted at docRoot.
func NewMemoryStore(docRoot string) *MemoryStore {
	return &MemoryStore{docRoot: docRoot}
}

// LoadEditorState returns the state blob saved under id, or nil when
// nothing is stored yet.
func (m *MemoryStore) LoadEditorState(id string) ([]byte, error) {
	if m == nil || m.docRoot == "" {
		return nil, errors.New("memory store has no document root")
	}
	db, err := InitOrOpenIndex(m.docRoot)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	var blob []byte
	err = db.QueryRow(`SELECT state_blob FROM editor_memory WHERE editor_id=?`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

// SaveEditorState stores the blob under id, replacing any previous one.
func (m *MemoryStore) SaveEditorState(id string, data []byte) error {
	if m == nil || m.docRoot == "" {
		return errors.New("memory store has no document root")
	}
	db, err := InitOrOpenIndex(m.docRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = db.Exec(`INSERT INTO editor_memory(editor_id, state_blob, updated_at) VALUES(?,?,?)
		ON CONFLICT(editor_id) DO UPDATE SET state_blob=excluded.state_blob, updated_at=excluded.updated_at`,
		id, data, now)
	return err
}

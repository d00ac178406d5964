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
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT INTO snapshots(label, ts, doc_blob) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectSnapshotSQL = `SELECT label, ts, doc_blob FROM snapshots WHERE id = ?`

// language=SQL
// dialect=SQLite
const selectLatestSnapshotSQL = `SELECT id, label, ts, doc_blob FROM snapshots ORDER BY ts DESC, id DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listSnapshotsSQL = `SELECT id, label, ts FROM snapshots WHERE label LIKE ? ORDER BY ts DESC, id DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneOldSnapshotsSQL = `DELETE FROM snapshots WHERE id NOT IN (
	SELECT id FROM snapshots ORDER BY ts DESC, id DESC LIMIT ?
)`

// SnapshotInfo describes one stored snapshot without its payload.
type SnapshotInfo struct {
	ID    int64
	Label string
	TS    time.Time
}

// SaveSnapshot persists the handle's current document under a label and
// returns the new snapshot's id. It opens the document's index database
// if needed and inserts the record.
func SaveSnapshot(ctx context.Context, dh *DocumentHandle, label string, ts time.Time) (int64, error) {
	if dh == nil {
		return 0, errors.New("nil DocumentHandle")
	}
	blob, err := json.Marshal(dh.Doc)
	if err != nil {
		return 0, fmt.Errorf("marshal document: %w", err)
	}
	// Open or init index DB
	db, err := InitOrOpenIndex(dh.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, insertSnapshotSQL, label, ts.UTC().Format(time.RFC3339Nano), blob)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// LoadSnapshot decodes the snapshot with the given id back into a Document.
func LoadSnapshot(ctx context.Context, dh *DocumentHandle, id int64) (*Document, error) {
	if dh == nil {
		return nil, errors.New("nil DocumentHandle")
	}
	db, err := InitOrOpenIndex(dh.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	var label, tsStr string
	var blob []byte
	err = db.QueryRowContext(ctx, selectSnapshotSQL, id).Scan(&label, &tsStr, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d Document
	if err := json.Unmarshal(blob, &d); err != nil {
		return nil, fmt.Errorf("decode snapshot %d: %w", id, err)
	}
	return &d, nil
}

// GetLatestSnapshot returns the most recent snapshot document, or nil if none exist.
func GetLatestSnapshot(ctx context.Context, dh *DocumentHandle) (*Document, time.Time, error) {
	if dh == nil {
		return nil, time.Time{}, errors.New("nil DocumentHandle")
	}
	db, err := InitOrOpenIndex(dh.Root)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer func() { _ = db.Close() }()
	var id int64
	var label, tsStr string
	var blob []byte
	err = db.QueryRowContext(ctx, selectLatestSnapshotSQL).Scan(&id, &label, &tsStr, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	var d Document
	if err := json.Unmarshal(blob, &d); err != nil {
		return nil, time.Time{}, fmt.Errorf("decode latest snapshot: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, tsStr)
	if err != nil {
		return &d, time.Time{}, nil // return document even if ts parse fails
	}
	return &d, ts, nil
}

// ListSnapshots returns up to limit most recent snapshots whose label
// contains labelQuery (empty matches all), newest first.
func ListSnapshots(ctx context.Context, dh *DocumentHandle, labelQuery string, limit int) ([]SnapshotInfo, error) {
	if dh == nil {
		return nil, errors.New("nil DocumentHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := InitOrOpenIndex(dh.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listSnapshotsSQL, "%"+labelQuery+"%", limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []SnapshotInfo
	for rows.Next() {
		var info SnapshotInfo
		var tsStr string
		if err := rows.Scan(&info.ID, &info.Label, &tsStr); err != nil {
			return nil, err
		}
		info.TS, _ = time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, info)
	}
	return out, rows.Err()
}

// PruneOldSnapshots keeps at most keepLast snapshots and deletes older ones.
func PruneOldSnapshots(ctx context.Context, dh *DocumentHandle, keepLast int) (int64, error) {
	if dh == nil {
		return 0, errors.New("nil DocumentHandle")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := InitOrOpenIndex(dh.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	// Delete snapshots not in the newest keepLast set
	res, err := db.ExecContext(ctx, pruneOldSnapshotsSQL, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// AutosaveCrashSnapshot writes the current in-memory document to a
// timestamped autosave file under the backups dir and records a
// best-effort "crash-autosave" snapshot in the index. It returns the
// autosave file path; the file write is the part that must not fail.
func AutosaveCrashSnapshot(dh *DocumentHandle) (string, error) {
	if dh == nil {
		return "", errors.New("nil DocumentHandle")
	}
	bdir := filepath.Join(dh.Root, BackupsDirName)
	if err := os.MkdirAll(bdir, 0o755); err != nil {
		return "", fmt.Errorf("ensure backups dir: %w", err)
	}
	data, err := json.MarshalIndent(dh.Doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(bdir, fmt.Sprintf("crash-autosave-%s.json", stamp))
	if err := writeFileSync(path, append(data, '\n')); err != nil {
		return "", fmt.Errorf("write autosave: %w", err)
	}
	// Index record is best-effort; the file already holds the data.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, _ = SaveSnapshot(ctx, dh, "crash-autosave", time.Now())
	return path, nil
}

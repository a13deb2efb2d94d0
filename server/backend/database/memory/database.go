/*
 * Copyright 2026 The Tactix Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package memory implements the database interface with an in-memory
// database backed by a best-effort JSON file, used when no MongoDB
// connection URI is configured.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hashicorp/go-memdb"

	"github.com/tactix-team/tactix/server/backend/database"
	"github.com/tactix-team/tactix/server/logging"
)

// fileState is the on-disk shape of the store.
type fileState struct {
	Presets    []*database.PresetInfo    `json:"presets"`
	Recordings []*database.RecordingInfo `json:"recordings"`
}

// DB is an in-memory database with a JSON file behind it. The file is
// loaded once at startup and rewritten after every mutation; a file write
// failure degrades to a warning, never an error for the caller.
type DB struct {
	db     *memdb.MemDB
	path   string
	logger logging.Logger

	mu sync.Mutex
}

// New returns a new file-backed in-memory database. An empty path disables
// the file entirely. A missing or unreadable file starts the store empty.
func New(path string) (*DB, error) {
	memDB, err := memdb.NewMemDB(schema)
	if err != nil {
		return nil, fmt.Errorf("new memdb: %w", err)
	}

	d := &DB{
		db:     memDB,
		path:   path,
		logger: logging.New("memdb"),
	}

	if err := d.loadFile(); err != nil {
		d.logger.Warnf("load %s: %s", path, err)
	}

	return d, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return nil
}

// LoadAllPresets returns all stored presets ordered by ID.
func (d *DB) LoadAllPresets(_ context.Context) ([]*database.PresetInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tblPresets, "id")
	if err != nil {
		return nil, fmt.Errorf("fetch presets: %w", err)
	}

	var infos []*database.PresetInfo
	for raw := it.Next(); raw != nil; raw = it.Next() {
		infos = append(infos, raw.(*database.PresetInfo).DeepCopy())
	}
	return infos, nil
}

// LoadAllRecordings returns all stored recordings ordered by ID.
func (d *DB) LoadAllRecordings(_ context.Context) ([]*database.RecordingInfo, error) {
	txn := d.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tblRecordings, "id")
	if err != nil {
		return nil, fmt.Errorf("fetch recordings: %w", err)
	}

	var infos []*database.RecordingInfo
	for raw := it.Next(); raw != nil; raw = it.Next() {
		infos = append(infos, raw.(*database.RecordingInfo).DeepCopy())
	}
	return infos, nil
}

// InsertPreset stores a new preset.
func (d *DB) InsertPreset(ctx context.Context, info *database.PresetInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	txn := d.db.Txn(true)
	if err := txn.Insert(tblPresets, info.DeepCopy()); err != nil {
		txn.Abort()
		return fmt.Errorf("insert preset: %w", err)
	}
	txn.Commit()

	d.saveFile(ctx)
	return nil
}

// InsertRecording stores a new recording.
func (d *DB) InsertRecording(ctx context.Context, info *database.RecordingInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	txn := d.db.Txn(true)
	if err := txn.Insert(tblRecordings, info.DeepCopy()); err != nil {
		txn.Abort()
		return fmt.Errorf("insert recording: %w", err)
	}
	txn.Commit()

	d.saveFile(ctx)
	return nil
}

// UpdatePreset renames the preset with the given ID.
func (d *DB) UpdatePreset(ctx context.Context, id int, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	txn := d.db.Txn(true)
	raw, err := txn.First(tblPresets, "id", id)
	if err != nil {
		txn.Abort()
		return fmt.Errorf("find preset %d: %w", id, err)
	}
	if raw == nil {
		txn.Abort()
		return fmt.Errorf("%d: %w", id, database.ErrPresetNotFound)
	}

	renamed := raw.(*database.PresetInfo).DeepCopy()
	renamed.Name = name
	if err := txn.Insert(tblPresets, renamed); err != nil {
		txn.Abort()
		return fmt.Errorf("update preset %d: %w", id, err)
	}
	txn.Commit()

	d.saveFile(ctx)
	return nil
}

// UpdateRecording renames the recording with the given ID.
func (d *DB) UpdateRecording(ctx context.Context, id int, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	txn := d.db.Txn(true)
	raw, err := txn.First(tblRecordings, "id", id)
	if err != nil {
		txn.Abort()
		return fmt.Errorf("find recording %d: %w", id, err)
	}
	if raw == nil {
		txn.Abort()
		return fmt.Errorf("%d: %w", id, database.ErrRecordingNotFound)
	}

	renamed := raw.(*database.RecordingInfo).DeepCopy()
	renamed.Name = name
	if err := txn.Insert(tblRecordings, renamed); err != nil {
		txn.Abort()
		return fmt.Errorf("update recording %d: %w", id, err)
	}
	txn.Commit()

	d.saveFile(ctx)
	return nil
}

// DeletePreset deletes the preset with the given ID.
func (d *DB) DeletePreset(ctx context.Context, id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	txn := d.db.Txn(true)
	raw, err := txn.First(tblPresets, "id", id)
	if err != nil {
		txn.Abort()
		return fmt.Errorf("find preset %d: %w", id, err)
	}
	if raw == nil {
		txn.Abort()
		return fmt.Errorf("%d: %w", id, database.ErrPresetNotFound)
	}

	if err := txn.Delete(tblPresets, raw); err != nil {
		txn.Abort()
		return fmt.Errorf("delete preset %d: %w", id, err)
	}
	txn.Commit()

	d.saveFile(ctx)
	return nil
}

// DeleteRecording deletes the recording with the given ID.
func (d *DB) DeleteRecording(ctx context.Context, id int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	txn := d.db.Txn(true)
	raw, err := txn.First(tblRecordings, "id", id)
	if err != nil {
		txn.Abort()
		return fmt.Errorf("find recording %d: %w", id, err)
	}
	if raw == nil {
		txn.Abort()
		return fmt.Errorf("%d: %w", id, database.ErrRecordingNotFound)
	}

	if err := txn.Delete(tblRecordings, raw); err != nil {
		txn.Abort()
		return fmt.Errorf("delete recording %d: %w", id, err)
	}
	txn.Commit()

	d.saveFile(ctx)
	return nil
}

// loadFile hydrates the store from the backing file. Called once from New,
// before the store is shared.
func (d *DB) loadFile() error {
	if d.path == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Clean(d.path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read state file: %w", err)
	}

	var state fileState
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("unmarshal state file: %w", err)
	}

	txn := d.db.Txn(true)
	for _, preset := range state.Presets {
		if err := txn.Insert(tblPresets, preset); err != nil {
			txn.Abort()
			return fmt.Errorf("insert preset %d: %w", preset.ID, err)
		}
	}
	for _, recording := range state.Recordings {
		if err := txn.Insert(tblRecordings, recording); err != nil {
			txn.Abort()
			return fmt.Errorf("insert recording %d: %w", recording.ID, err)
		}
	}
	txn.Commit()
	return nil
}

// saveFile rewrites the backing file from the live tables. Failures are
// logged, not returned: the in-memory state is already committed. The
// warnings go to the caller's context logger so they carry the
// originating operation.
func (d *DB) saveFile(ctx context.Context) {
	if d.path == "" {
		return
	}

	logger := logging.From(ctx)
	state := fileState{}

	txn := d.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(tblPresets, "id")
	if err != nil {
		logger.Warnf("save %s: fetch presets: %s", d.path, err)
		return
	}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		state.Presets = append(state.Presets, raw.(*database.PresetInfo))
	}

	it, err = txn.Get(tblRecordings, "id")
	if err != nil {
		logger.Warnf("save %s: fetch recordings: %s", d.path, err)
		return
	}
	for raw := it.Next(); raw != nil; raw = it.Next() {
		state.Recordings = append(state.Recordings, raw.(*database.RecordingInfo))
	}

	sort.Slice(state.Presets, func(i, j int) bool {
		return state.Presets[i].ID < state.Presets[j].ID
	})
	sort.Slice(state.Recordings, func(i, j int) bool {
		return state.Recordings[i].ID < state.Recordings[j].ID
	})

	data, err := json.Marshal(state)
	if err != nil {
		logger.Warnf("save %s: marshal: %s", d.path, err)
		return
	}

	tmp := d.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		logger.Warnf("save %s: %s", d.path, err)
		return
	}
	if err := os.Rename(tmp, d.path); err != nil {
		logger.Warnf("save %s: %s", d.path, err)
	}
}

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

// Package database provides the persistence gateway for stored presets and
// recordings. Every operation is best-effort from the caller's point of
// view: a failure is logged by the caller and never rolls back in-memory
// state or an already-sent broadcast.
package database

import (
	"context"
	"errors"
)

var (
	// ErrPresetNotFound is returned when the preset could not be found.
	ErrPresetNotFound = errors.New("preset not found")

	// ErrRecordingNotFound is returned when the recording could not be found.
	ErrRecordingNotFound = errors.New("recording not found")
)

// Database reads and saves stored presets and recordings, keyed by the
// integer IDs the caller assigns.
type Database interface {
	// Close closes all resources of this database.
	Close() error

	// LoadAllPresets returns all stored presets.
	LoadAllPresets(ctx context.Context) ([]*PresetInfo, error)

	// LoadAllRecordings returns all stored recordings.
	LoadAllRecordings(ctx context.Context) ([]*RecordingInfo, error)

	// InsertPreset stores a new preset.
	InsertPreset(ctx context.Context, info *PresetInfo) error

	// InsertRecording stores a new recording.
	InsertRecording(ctx context.Context, info *RecordingInfo) error

	// UpdatePreset renames the preset with the given ID.
	UpdatePreset(ctx context.Context, id int, name string) error

	// UpdateRecording renames the recording with the given ID.
	UpdateRecording(ctx context.Context, id int, name string) error

	// DeletePreset deletes the preset with the given ID.
	DeletePreset(ctx context.Context, id int) error

	// DeleteRecording deletes the recording with the given ID.
	DeleteRecording(ctx context.Context, id int) error
}

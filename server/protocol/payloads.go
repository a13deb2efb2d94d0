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

package protocol

import (
	"time"

	"github.com/tactix-team/tactix/server/board"
	"github.com/tactix-team/tactix/server/sessions"
)

// Join is the payload of the "join" event.
type Join struct {
	Username string `json:"username" validate:"required,username"`
}

// Init hydrates a late joiner with the server's current truth.
type Init struct {
	Self       *sessions.User   `json:"self"`
	Users      []*sessions.User `json:"users"`
	Snapshot   *board.Snapshot  `json:"snapshot"`
	Recordings []RecordingMeta  `json:"recordings"`
	Presets    []PresetMeta     `json:"presets"`
	Recording  bool             `json:"recording"`
	Replaying  bool             `json:"replaying"`
}

// UserEvent carries a roster membership change.
type UserEvent struct {
	User *sessions.User `json:"user"`
}

// Users carries the full roster.
type Users struct {
	Users []*sessions.User `json:"users"`
}

// DrawMove is an ephemeral in-progress drawing sample. It never touches
// the board; it exists only so spectators see the pen move.
type DrawMove struct {
	ID       string      `json:"id"`
	Point    board.Point `json:"point"`
	Color    string      `json:"color"`
	Width    float64     `json:"width"`
	Tool     board.Tool  `json:"tool"`
	AuthorID string      `json:"authorId,omitempty"`
}

// StrokeDone carries a completed stroke.
type StrokeDone struct {
	Stroke *board.Stroke `json:"stroke"`
}

// StrokeRemove removes strokes by ID.
type StrokeRemove struct {
	IDs []string `json:"ids"`
}

// ArrowDone carries a completed arrow. On the way in, ID is the client's
// temporary ID; on the way out, the arrow carries the canonical server ID.
type ArrowDone struct {
	Arrow *board.Arrow `json:"arrow"`
}

// ArrowConfirmed commits an optimistic arrow creation back to its origin,
// pairing the client's temporary ID with the canonical arrow.
type ArrowConfirmed struct {
	TempID string       `json:"tempId"`
	Arrow  *board.Arrow `json:"arrow"`
}

// ArrowRemove removes arrows by ID.
type ArrowRemove struct {
	IDs []string `json:"ids"`
}

// TokenAdd carries a token placement. On the way in, ID is empty; on the
// way out, the token carries the canonical server ID.
type TokenAdd struct {
	Token *board.Token `json:"token"`
}

// TokenMove moves a token.
type TokenMove struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// TokenRelabel relabels a token.
type TokenRelabel struct {
	ID    string `json:"id"`
	Label string `json:"label" validate:"max=4"`
}

// TokenRemove removes a token.
type TokenRemove struct {
	ID string `json:"id"`
}

// CursorMove is an ephemeral cursor position of one connection.
type CursorMove struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Username string  `json:"username,omitempty"`
	Color    string  `json:"color,omitempty"`
}

// CursorRemove tells clients to drop a disconnected user's cursor.
type CursorRemove struct {
	ID string `json:"id"`
}

// BoardSnapshot carries a full snapshot hydration, used by replay-init,
// replay-restore and preset-loaded.
type BoardSnapshot struct {
	Snapshot *board.Snapshot `json:"snapshot"`
}

// RecordingMeta describes a stored recording without its timeline.
type RecordingMeta struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	CreatedAt     time.Time `json:"createdAt"`
	DurationMilli int64     `json:"durationMs"`
	EventCount    int       `json:"eventCount"`
}

// RecordingsList carries the stored recordings.
type RecordingsList struct {
	Recordings []RecordingMeta `json:"recordings"`
}

// PresetMeta describes a stored preset without its snapshot.
type PresetMeta struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// PresetsList carries the stored presets.
type PresetsList struct {
	Presets []PresetMeta `json:"presets"`
}

// Rename renames a stored recording or preset.
type Rename struct {
	ID   int    `json:"id"`
	Name string `json:"name" validate:"required,boardname"`
}

// Delete deletes a stored recording or preset.
type Delete struct {
	ID int `json:"id"`
}

// ReplayStart requests a replay of a stored recording.
type ReplayStart struct {
	RecordingID int `json:"recordingId"`
}

// ReplayStarted announces a replay to all connections.
type ReplayStarted struct {
	RecordingID   int   `json:"recordingId"`
	DurationMilli int64 `json:"durationMs"`
}

// SavePreset stores the current board as a named preset.
type SavePreset struct {
	Name string `json:"name" validate:"required,boardname"`
}

// LoadPreset restores a stored preset onto the live board.
type LoadPreset struct {
	PresetID int `json:"presetId"`
}

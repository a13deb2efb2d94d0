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

// Package protocol defines the wire messages exchanged with clients. Every
// event is one JSON object per WebSocket text message, a name paired with a
// typed payload. Replayed events reuse the same catalog so they flow
// through the identical client-side handlers as live ones.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Client-to-server event names.
const (
	EventJoin           = "join"
	EventDrawMove       = "draw-move"
	EventStrokeDone     = "stroke-done"
	EventStrokeRemove   = "stroke-remove"
	EventArrowDone      = "arrow-done"
	EventArrowRemove    = "arrow-remove"
	EventTokenAdd       = "token-add"
	EventTokenMove      = "token-move"
	EventTokenRelabel   = "token-relabel"
	EventTokenRemove    = "token-remove"
	EventClearBoard     = "clear-board"
	EventClearDrawings  = "clear-drawings"
	EventCursorMove     = "cursor-move"
	EventRecordingStart = "recording-start"
	EventRecordingStop  = "recording-stop"
	EventGetRecordings  = "get-recordings"
	EventRenameRecord   = "rename-recording"
	EventDeleteRecord   = "delete-recording"
	EventReplayStart    = "replay-start"
	EventReplayStop     = "replay-stop"
	EventSavePreset     = "save-preset"
	EventLoadPreset     = "load-preset"
	EventRenamePreset   = "rename-preset"
	EventDeletePreset   = "delete-preset"
	EventGetPresets     = "get-presets"
)

// Server-to-client event names. Mutating events share names with their
// client-to-server counterparts so recordings replay through the same
// handlers.
const (
	EventInit             = "init"
	EventUserJoined       = "user-joined"
	EventUserLeft         = "user-left"
	EventUsers            = "users"
	EventArrowConfirmed   = "arrow-confirmed"
	EventBoardCleared     = "board-cleared"
	EventTokensCleared    = "tokens-cleared"
	EventDrawingsCleared  = "drawings-cleared"
	EventCursorRemove     = "cursor-remove"
	EventRecordingStarted = "recording-started"
	EventRecordingSaved   = "recording-saved"
	EventRecordingsList   = "recordings-list"
	EventReplayStarted    = "replay-started"
	EventReplayInit       = "replay-init"
	EventReplayRestore    = "replay-restore"
	EventReplayDone       = "replay-done"
	EventReplayStopped    = "replay-stopped"
	EventPresetSaved      = "preset-saved"
	EventPresetLoaded     = "preset-loaded"
	EventPresetsList      = "presets-list"
)

// Message is the wire envelope: an event name and its payload.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage creates a message with the given event name and payload. A nil
// payload produces a payload-less message.
func NewMessage(event string, payload interface{}) (Message, error) {
	msg := Message{Event: event}
	if payload == nil {
		return msg, nil
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("marshal %s payload: %w", event, err)
	}

	msg.Payload = encoded
	return msg, nil
}

// Unmarshal decodes the message's payload into the given value.
func (m Message) Unmarshal(into interface{}) error {
	if len(m.Payload) == 0 {
		return fmt.Errorf("%s: empty payload", m.Event)
	}

	if err := json.Unmarshal(m.Payload, into); err != nil {
		return fmt.Errorf("unmarshal %s payload: %w", m.Event, err)
	}
	return nil
}

// Encode renders the message as one wire-ready JSON object.
func (m Message) Encode() ([]byte, error) {
	encoded, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal %s message: %w", m.Event, err)
	}
	return encoded, nil
}

// Decode parses a wire message.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return Message{}, fmt.Errorf("unmarshal message: %w", err)
	}
	if msg.Event == "" {
		return Message{}, fmt.Errorf("message without event name")
	}
	return msg, nil
}

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

// Package recorder captures a timestamped timeline of mutating events
// together with a base snapshot of the board, for later replay.
package recorder

import (
	"encoding/json"
	"time"

	"github.com/tactix-team/tactix/server/board"
)

// Entry is one recorded event: an offset relative to the recording start,
// an event name and its original payload. Entries are appended in arrival
// order, so offsets are non-decreasing.
type Entry struct {
	OffsetMilli int64           `json:"offsetMs" bson:"offset_ms"`
	Event       string          `json:"event" bson:"event"`
	Payload     json.RawMessage `json:"payload" bson:"payload"`
}

// Recording is an assembled recording: the base snapshot and the timeline.
type Recording struct {
	Snapshot      *board.Snapshot
	Timeline      []Entry
	DurationMilli int64
}

// EventCount returns the number of recorded entries.
func (r *Recording) EventCount() int {
	return len(r.Timeline)
}

// Recorder records the event timeline while armed. It holds no lock of its
// own: the connection handler serializes every Start/Record/Stop turn.
type Recorder struct {
	recording bool
	startedAt time.Time
	snapshot  *board.Snapshot
	timeline  []Entry
}

// New creates an idle Recorder.
func New() *Recorder {
	return &Recorder{}
}

// Recording returns whether the recorder is armed.
func (r *Recorder) Recording() bool {
	return r.recording
}

// Start arms the recorder with the given base snapshot, stamping the
// recording-start instant and resetting the timeline. Starting an armed
// recorder is a no-op and returns false.
func (r *Recorder) Start(snapshot *board.Snapshot) bool {
	if r.recording {
		return false
	}

	r.recording = true
	r.startedAt = time.Now()
	r.snapshot = snapshot.DeepCopy()
	r.timeline = nil
	return true
}

// Record appends an event at its offset from the recording start. It is a
// no-op when the recorder is idle.
func (r *Recorder) Record(event string, payload json.RawMessage) {
	if !r.recording {
		return
	}

	// RawMessage aliases the read buffer; keep our own copy.
	stored := make(json.RawMessage, len(payload))
	copy(stored, payload)

	r.timeline = append(r.timeline, Entry{
		OffsetMilli: time.Since(r.startedAt).Milliseconds(),
		Event:       event,
		Payload:     stored,
	})
}

// Stop disarms the recorder and returns the assembled recording. The
// duration is the last entry's offset, or zero for an empty timeline.
// Stopping an idle recorder is a no-op and returns nil.
func (r *Recorder) Stop() *Recording {
	if !r.recording {
		return nil
	}

	var duration int64
	if len(r.timeline) > 0 {
		duration = r.timeline[len(r.timeline)-1].OffsetMilli
	}

	recording := &Recording{
		Snapshot:      r.snapshot,
		Timeline:      r.timeline,
		DurationMilli: duration,
	}

	r.recording = false
	r.snapshot = nil
	r.timeline = nil
	return recording
}

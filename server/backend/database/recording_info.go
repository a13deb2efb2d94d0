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

package database

import (
	"time"

	"github.com/tactix-team/tactix/server/board"
	"github.com/tactix-team/tactix/server/recorder"
)

// RecordingInfo is a stored recording: a base snapshot plus the timestamped
// event timeline. It is immutable after creation except for rename.
type RecordingInfo struct {
	ID            int              `json:"id" bson:"id"`
	Name          string           `json:"name" bson:"name"`
	CreatedAt     time.Time        `json:"createdAt" bson:"created_at"`
	DurationMilli int64            `json:"durationMs" bson:"duration_ms"`
	EventCount    int              `json:"eventCount" bson:"event_count"`
	Snapshot      *board.Snapshot  `json:"snapshot" bson:"snapshot"`
	Timeline      []recorder.Entry `json:"timeline" bson:"timeline"`
}

// DeepCopy returns an independent copy of this RecordingInfo.
func (i *RecordingInfo) DeepCopy() *RecordingInfo {
	if i == nil {
		return nil
	}

	clone := *i
	clone.Snapshot = i.Snapshot.DeepCopy()
	clone.Timeline = make([]recorder.Entry, len(i.Timeline))
	for idx, entry := range i.Timeline {
		payload := make([]byte, len(entry.Payload))
		copy(payload, entry.Payload)
		clone.Timeline[idx] = recorder.Entry{
			OffsetMilli: entry.OffsetMilli,
			Event:       entry.Event,
			Payload:     payload,
		}
	}
	return &clone
}

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
)

// PresetInfo is a stored full-board snapshot with a user-given name. It is
// immutable after creation except for rename.
type PresetInfo struct {
	ID        int             `json:"id" bson:"id"`
	Name      string          `json:"name" bson:"name"`
	CreatedAt time.Time       `json:"createdAt" bson:"created_at"`
	Snapshot  *board.Snapshot `json:"snapshot" bson:"snapshot"`
}

// DeepCopy returns an independent copy of this PresetInfo.
func (i *PresetInfo) DeepCopy() *PresetInfo {
	if i == nil {
		return nil
	}

	clone := *i
	clone.Snapshot = i.Snapshot.DeepCopy()
	return &clone
}

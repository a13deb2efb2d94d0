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

package rpc

import (
	"context"
	"fmt"
	"time"

	"github.com/tactix-team/tactix/internal/validation"
	"github.com/tactix-team/tactix/server/backend/database"
	"github.com/tactix-team/tactix/server/protocol"
)

func (h *Handler) handleRecordingStart() {
	// Recording and replaying exclude each other in both directions.
	if h.replayer.Replaying() {
		h.drop(protocol.EventRecordingStart, "replay in progress")
		return
	}
	if !h.recorder.Start(h.board.Snapshot()) {
		h.drop(protocol.EventRecordingStart, "already recording")
		return
	}

	h.broadcast(protocol.EventRecordingStarted, nil)
	h.logger.Info("recording started")
}

func (h *Handler) handleRecordingStop() {
	rec := h.recorder.Stop()
	if rec == nil {
		h.drop(protocol.EventRecordingStop, "not recording")
		return
	}

	info := &database.RecordingInfo{
		ID:            h.nextRecordingID,
		Name:          fmt.Sprintf("Recording %d", h.nextRecordingID),
		CreatedAt:     time.Now(),
		DurationMilli: rec.DurationMilli,
		EventCount:    rec.EventCount(),
		Snapshot:      rec.Snapshot,
		Timeline:      rec.Timeline,
	}
	h.nextRecordingID++
	h.recordings = append(h.recordings, info)

	h.be.Metrics.AddRecordingSaved()
	h.broadcast(protocol.EventRecordingSaved, h.recordingsList())
	h.logger.Infof(
		"recording %d saved: %d events, %dms",
		info.ID,
		info.EventCount,
		info.DurationMilli,
	)

	stored := info.DeepCopy()
	h.persist("insert-recording", func(ctx context.Context) error {
		return h.be.DB.InsertRecording(ctx, stored)
	})
}

func (h *Handler) handleRenameRecording(msg protocol.Message) {
	var payload protocol.Rename
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}
	if err := validation.ValidateStruct(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	info := h.findRecording(payload.ID)
	if info == nil {
		h.drop(msg.Event, fmt.Sprintf("unknown recording %d", payload.ID))
		return
	}

	info.Name = payload.Name
	h.broadcast(protocol.EventRecordingsList, h.recordingsList())

	h.persist("update-recording", func(ctx context.Context) error {
		return h.be.DB.UpdateRecording(ctx, payload.ID, payload.Name)
	})
}

func (h *Handler) handleDeleteRecording(msg protocol.Message) {
	var payload protocol.Delete
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	removed := false
	for i, info := range h.recordings {
		if info.ID == payload.ID {
			h.recordings = append(h.recordings[:i], h.recordings[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		h.drop(msg.Event, fmt.Sprintf("unknown recording %d", payload.ID))
		return
	}

	h.broadcast(protocol.EventRecordingsList, h.recordingsList())

	h.persist("delete-recording", func(ctx context.Context) error {
		return h.be.DB.DeleteRecording(ctx, payload.ID)
	})
}

func (h *Handler) handleReplayStart(msg protocol.Message) {
	var payload protocol.ReplayStart
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	if h.recorder.Recording() {
		h.drop(msg.Event, "recording in progress")
		return
	}

	info := h.findRecording(payload.RecordingID)
	if info == nil {
		h.drop(msg.Event, fmt.Sprintf("unknown recording %d", payload.RecordingID))
		return
	}

	// The engine replays a copy: deleting or renaming the stored
	// recording mid-replay cannot disturb the run.
	if !h.replayer.Start(info.DeepCopy()) {
		h.drop(msg.Event, "replay in progress")
		return
	}
	h.be.Metrics.AddReplayStarted()
}

func (h *Handler) handleSavePreset(msg protocol.Message) {
	var payload protocol.SavePreset
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}
	if err := validation.ValidateStruct(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	info := &database.PresetInfo{
		ID:        h.nextPresetID,
		Name:      payload.Name,
		CreatedAt: time.Now(),
		Snapshot:  h.board.Snapshot(),
	}
	h.nextPresetID++
	h.presets = append(h.presets, info)

	h.broadcast(protocol.EventPresetSaved, h.presetsList())
	h.logger.Infof("preset %d saved as %q", info.ID, info.Name)

	stored := info.DeepCopy()
	h.persist("insert-preset", func(ctx context.Context) error {
		return h.be.DB.InsertPreset(ctx, stored)
	})
}

func (h *Handler) handleLoadPreset(msg protocol.Message) {
	var payload protocol.LoadPreset
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	info := h.findPreset(payload.PresetID)
	if info == nil {
		h.drop(msg.Event, fmt.Sprintf("unknown preset %d", payload.PresetID))
		return
	}

	h.board.Restore(info.Snapshot)

	out := protocol.BoardSnapshot{Snapshot: h.board.Snapshot()}
	h.broadcast(protocol.EventPresetLoaded, out)
	h.record(protocol.EventPresetLoaded, out)
}

func (h *Handler) handleRenamePreset(msg protocol.Message) {
	var payload protocol.Rename
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}
	if err := validation.ValidateStruct(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	info := h.findPreset(payload.ID)
	if info == nil {
		h.drop(msg.Event, fmt.Sprintf("unknown preset %d", payload.ID))
		return
	}

	info.Name = payload.Name
	h.broadcast(protocol.EventPresetsList, h.presetsList())

	h.persist("update-preset", func(ctx context.Context) error {
		return h.be.DB.UpdatePreset(ctx, payload.ID, payload.Name)
	})
}

func (h *Handler) handleDeletePreset(msg protocol.Message) {
	var payload protocol.Delete
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	removed := false
	for i, info := range h.presets {
		if info.ID == payload.ID {
			h.presets = append(h.presets[:i], h.presets[i+1:]...)
			removed = true
			break
		}
	}
	if !removed {
		h.drop(msg.Event, fmt.Sprintf("unknown preset %d", payload.ID))
		return
	}

	h.broadcast(protocol.EventPresetsList, h.presetsList())

	h.persist("delete-preset", func(ctx context.Context) error {
		return h.be.DB.DeletePreset(ctx, payload.ID)
	})
}

func (h *Handler) findRecording(id int) *database.RecordingInfo {
	for _, info := range h.recordings {
		if info.ID == id {
			return info
		}
	}
	return nil
}

func (h *Handler) findPreset(id int) *database.PresetInfo {
	for _, info := range h.presets {
		if info.ID == id {
			return info
		}
	}
	return nil
}

func (h *Handler) recordingsList() protocol.RecordingsList {
	list := protocol.RecordingsList{
		Recordings: make([]protocol.RecordingMeta, 0, len(h.recordings)),
	}
	for _, info := range h.recordings {
		list.Recordings = append(list.Recordings, protocol.RecordingMeta{
			ID:            info.ID,
			Name:          info.Name,
			CreatedAt:     info.CreatedAt,
			DurationMilli: info.DurationMilli,
			EventCount:    info.EventCount,
		})
	}
	return list
}

func (h *Handler) presetsList() protocol.PresetsList {
	list := protocol.PresetsList{
		Presets: make([]protocol.PresetMeta, 0, len(h.presets)),
	}
	for _, info := range h.presets {
		list.Presets = append(list.Presets, protocol.PresetMeta{
			ID:        info.ID,
			Name:      info.Name,
			CreatedAt: info.CreatedAt,
		})
	}
	return list
}

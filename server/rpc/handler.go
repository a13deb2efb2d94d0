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
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tactix-team/tactix/internal/validation"
	"github.com/tactix-team/tactix/server/backend"
	"github.com/tactix-team/tactix/server/backend/database"
	"github.com/tactix-team/tactix/server/board"
	"github.com/tactix-team/tactix/server/broadcast"
	"github.com/tactix-team/tactix/server/identity"
	"github.com/tactix-team/tactix/server/logging"
	"github.com/tactix-team/tactix/server/protocol"
	"github.com/tactix-team/tactix/server/recorder"
	"github.com/tactix-team/tactix/server/replay"
	"github.com/tactix-team/tactix/server/sessions"
)

// persistTimeout bounds one fire-and-forget persistence call.
const persistTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler processes every inbound event. All shared state behind it is
// guarded by a single turn lock: one event (or one replay timer callback)
// executes to completion before the next begins, so the leaves need no
// locks of their own.
type Handler struct {
	mu sync.Mutex

	board    *board.Board
	alloc    *identity.Allocator
	registry *sessions.Registry
	recorder *recorder.Recorder
	replayer *replay.Engine
	hub      *broadcast.Hub
	be       *backend.Backend

	// In-memory library of stored presets and recordings. This is the
	// truth clients see; the persistence gateway trails it best-effort.
	presets         []*database.PresetInfo
	recordings      []*database.RecordingInfo
	nextPresetID    int
	nextRecordingID int

	logger logging.Logger
}

// NewHandler creates a Handler wired to the given backend.
func NewHandler(be *backend.Backend) *Handler {
	h := &Handler{
		board:           board.New(),
		alloc:           identity.NewAllocator(),
		registry:        sessions.NewRegistry(),
		recorder:        recorder.New(),
		hub:             broadcast.NewHub(),
		be:              be,
		nextPresetID:    1,
		nextRecordingID: 1,
		logger:          logging.New("handler"),
	}
	h.replayer = replay.NewEngine(&h.mu, h.board, h.hub)
	return h
}

// Load hydrates the in-memory library from the persistence gateway.
func (h *Handler) Load(ctx context.Context) error {
	presets, err := h.be.DB.LoadAllPresets(ctx)
	if err != nil {
		return err
	}

	recordings, err := h.be.DB.LoadAllRecordings(ctx)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.presets = presets
	h.recordings = recordings
	for _, preset := range presets {
		if preset.ID >= h.nextPresetID {
			h.nextPresetID = preset.ID + 1
		}
	}
	for _, recording := range recordings {
		if recording.ID >= h.nextRecordingID {
			h.nextRecordingID = recording.ID + 1
		}
	}

	h.logger.Infof(
		"loaded %d presets, %d recordings",
		len(presets),
		len(recordings),
	)
	return nil
}

// ServeWS upgrades the request to a WebSocket connection and runs its read
// loop until the client goes away. A reconnecting client arrives here as a
// fresh connection and re-registers via a fresh join.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sock, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnf("upgrade: %s", err)
		return
	}

	conn := broadcast.NewConn(sock)
	h.hub.Add(conn)
	h.be.Metrics.SetConnections(h.hub.Len())
	h.logger.Infof("connected: %s", conn.ID())

	defer func() {
		h.handleDisconnect(conn)
	}()

	for {
		data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		msg, err := protocol.Decode(data)
		if err != nil {
			h.logger.Debugf("%s: %s", conn.ID(), err)
			continue
		}

		h.dispatch(conn, msg)
	}
}

// dispatch processes one inbound event as one atomic turn.
func (h *Handler) dispatch(conn *broadcast.Conn, msg protocol.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.be.Metrics.AddEventHandled(msg.Event)
	if logging.Enabled(zap.DebugLevel) {
		h.logger.Debugf("%s: %s", conn.ID(), msg.Event)
	}

	switch msg.Event {
	case protocol.EventJoin:
		h.handleJoin(conn, msg)
	case protocol.EventDrawMove:
		h.handleDrawMove(conn, msg)
	case protocol.EventStrokeDone:
		h.handleStrokeDone(conn, msg)
	case protocol.EventStrokeRemove:
		h.handleStrokeRemove(conn, msg)
	case protocol.EventArrowDone:
		h.handleArrowDone(conn, msg)
	case protocol.EventArrowRemove:
		h.handleArrowRemove(conn, msg)
	case protocol.EventTokenAdd:
		h.handleTokenAdd(conn, msg)
	case protocol.EventTokenMove:
		h.handleTokenMove(conn, msg)
	case protocol.EventTokenRelabel:
		h.handleTokenRelabel(conn, msg)
	case protocol.EventTokenRemove:
		h.handleTokenRemove(conn, msg)
	case protocol.EventClearBoard:
		h.handleClearBoard()
	case protocol.EventClearDrawings:
		h.handleClearDrawings()
	case protocol.EventCursorMove:
		h.handleCursorMove(conn, msg)
	case protocol.EventRecordingStart:
		h.handleRecordingStart()
	case protocol.EventRecordingStop:
		h.handleRecordingStop()
	case protocol.EventGetRecordings:
		h.sendTo(conn.ID(), protocol.EventRecordingsList, h.recordingsList())
	case protocol.EventRenameRecord:
		h.handleRenameRecording(msg)
	case protocol.EventDeleteRecord:
		h.handleDeleteRecording(msg)
	case protocol.EventReplayStart:
		h.handleReplayStart(msg)
	case protocol.EventReplayStop:
		h.replayer.Stop()
	case protocol.EventSavePreset:
		h.handleSavePreset(msg)
	case protocol.EventLoadPreset:
		h.handleLoadPreset(msg)
	case protocol.EventRenamePreset:
		h.handleRenamePreset(msg)
	case protocol.EventDeletePreset:
		h.handleDeletePreset(msg)
	case protocol.EventGetPresets:
		h.sendTo(conn.ID(), protocol.EventPresetsList, h.presetsList())
	default:
		h.drop(msg.Event, "unknown event")
	}
}

func (h *Handler) handleJoin(conn *broadcast.Conn, msg protocol.Message) {
	var payload protocol.Join
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	if err := validation.ValidateStruct(&payload); err != nil {
		h.logger.Debugf("join %s: %s", conn.ID(), err)
		payload.Username = "guest"
	}

	// A repeated join on the same connection keeps its color; only a
	// fresh connection draws from the palette.
	var color string
	if existing, ok := h.registry.Get(conn.ID()); ok {
		color = existing.Color
	} else {
		color = h.alloc.NextColor()
	}
	user := h.registry.Join(conn.ID(), payload.Username, color)

	h.sendTo(conn.ID(), protocol.EventInit, protocol.Init{
		Self:       user,
		Users:      h.registry.List(),
		Snapshot:   h.board.Snapshot(),
		Recordings: h.recordingsList().Recordings,
		Presets:    h.presetsList().Presets,
		Recording:  h.recorder.Recording(),
		Replaying:  h.replayer.Replaying(),
	})

	h.broadcastOthers(conn.ID(), protocol.EventUserJoined, protocol.UserEvent{User: user})
	h.broadcastOthers(conn.ID(), protocol.EventUsers, protocol.Users{Users: h.registry.List()})

	h.logger.Infof("joined: %s as %q", conn.ID(), user.Username)
}

func (h *Handler) handleDisconnect(conn *broadcast.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.hub.Remove(conn.ID())
	h.be.Metrics.SetConnections(h.hub.Len())

	user, ok := h.registry.Leave(conn.ID())
	if !ok {
		return
	}

	h.broadcast(protocol.EventCursorRemove, protocol.CursorRemove{ID: conn.ID()})
	h.broadcast(protocol.EventUserLeft, protocol.UserEvent{User: user})
	h.broadcast(protocol.EventUsers, protocol.Users{Users: h.registry.List()})

	h.logger.Infof("left: %s (%q)", conn.ID(), user.Username)
}

// record forwards an outbound mutating event to the recorder when armed.
func (h *Handler) record(event string, payload interface{}) {
	if !h.recorder.Recording() {
		return
	}

	msg, err := protocol.NewMessage(event, payload)
	if err != nil {
		h.logger.Warnf("record %s: %s", event, err)
		return
	}
	h.recorder.Record(event, msg.Payload)
}

// drop logs and counts an event that referenced a stale entity or carried
// a malformed payload. Dropping is silent towards clients.
func (h *Handler) drop(event, reason string) {
	h.be.Metrics.AddEventDropped(event)
	h.logger.Debugf("drop %s: %s", event, reason)
}

// persist runs one best-effort persistence call off the handler's turn.
// Failures degrade to a warning; the in-memory state and the broadcasts
// already sent stand. The context carries an op-scoped logger so the
// gateway's own warnings land under the originating operation.
func (h *Handler) persist(op string, fn func(ctx context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		ctx = logging.With(ctx, logging.New("persist", logging.NewField("op", op)))

		if err := fn(ctx); err != nil {
			h.be.Metrics.AddStoreError(op)
			h.logger.Warnf("persist %s: %s", op, err)
		}
	}()
}

func (h *Handler) broadcast(event string, payload interface{}) {
	msg, err := protocol.NewMessage(event, payload)
	if err != nil {
		h.logger.Warnf("broadcast %s: %s", event, err)
		return
	}
	h.hub.Broadcast(msg)
}

func (h *Handler) broadcastOthers(origin, event string, payload interface{}) {
	msg, err := protocol.NewMessage(event, payload)
	if err != nil {
		h.logger.Warnf("broadcast %s: %s", event, err)
		return
	}
	h.hub.BroadcastOthers(origin, msg)
}

func (h *Handler) sendTo(connID, event string, payload interface{}) {
	msg, err := protocol.NewMessage(event, payload)
	if err != nil {
		h.logger.Warnf("send %s: %s", event, err)
		return
	}
	h.hub.SendTo(connID, msg)
}

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
	"github.com/tactix-team/tactix/internal/validation"
	"github.com/tactix-team/tactix/server/broadcast"
	"github.com/tactix-team/tactix/server/protocol"
)

func (h *Handler) handleDrawMove(conn *broadcast.Conn, msg protocol.Message) {
	var payload protocol.DrawMove
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	payload.AuthorID = conn.ID()
	h.broadcastOthers(conn.ID(), protocol.EventDrawMove, payload)
}

func (h *Handler) handleStrokeDone(conn *broadcast.Conn, msg protocol.Message) {
	var payload protocol.StrokeDone
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}
	if payload.Stroke == nil || len(payload.Stroke.Points) < 2 {
		h.drop(msg.Event, "stroke with fewer than two points")
		return
	}

	stroke := payload.Stroke
	if stroke.ID == "" {
		stroke.ID = h.alloc.NextStrokeID()
	}
	stroke.AuthorID = conn.ID()

	h.board.AddStroke(stroke)

	out := protocol.StrokeDone{Stroke: stroke}
	h.broadcastOthers(conn.ID(), protocol.EventStrokeDone, out)
	h.record(protocol.EventStrokeDone, out)
}

func (h *Handler) handleStrokeRemove(conn *broadcast.Conn, msg protocol.Message) {
	var payload protocol.StrokeRemove
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	removed := h.board.RemoveStrokes(payload.IDs)
	if len(removed) == 0 {
		h.drop(msg.Event, "no matching strokes")
		return
	}

	// The origin gets the confirmation too: an own-lines-only erase is
	// computed optimistically on the client.
	out := protocol.StrokeRemove{IDs: removed}
	h.broadcast(protocol.EventStrokeRemove, out)
	h.record(protocol.EventStrokeRemove, out)
}

func (h *Handler) handleArrowDone(conn *broadcast.Conn, msg protocol.Message) {
	var payload protocol.ArrowDone
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}
	if payload.Arrow == nil {
		h.drop(msg.Event, "missing arrow")
		return
	}

	arrow := payload.Arrow
	tempID := arrow.ID
	arrow.ID = h.alloc.NextArrowID()
	arrow.AuthorID = conn.ID()

	h.board.AddArrow(arrow)

	// Two-phase optimistic creation: spectators get the canonical arrow,
	// the origin gets a commit pairing its temporary ID to the canonical
	// one so its local copy (and any undo-stack reference) is rewritten
	// instead of duplicated.
	out := protocol.ArrowDone{Arrow: arrow}
	h.broadcastOthers(conn.ID(), protocol.EventArrowDone, out)
	h.sendTo(conn.ID(), protocol.EventArrowConfirmed, protocol.ArrowConfirmed{
		TempID: tempID,
		Arrow:  arrow,
	})
	h.record(protocol.EventArrowDone, out)
}

func (h *Handler) handleArrowRemove(conn *broadcast.Conn, msg protocol.Message) {
	var payload protocol.ArrowRemove
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	removed := h.board.RemoveArrows(payload.IDs)
	if len(removed) == 0 {
		h.drop(msg.Event, "no matching arrows")
		return
	}

	out := protocol.ArrowRemove{IDs: removed}
	h.broadcast(protocol.EventArrowRemove, out)
	h.record(protocol.EventArrowRemove, out)
}

func (h *Handler) handleTokenAdd(conn *broadcast.Conn, msg protocol.Message) {
	var payload protocol.TokenAdd
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}
	if payload.Token == nil {
		h.drop(msg.Event, "missing token")
		return
	}

	token := payload.Token
	token.ID = h.alloc.NextTokenID()
	token.AuthorID = conn.ID()

	h.board.AddToken(token)

	// The origin needs the canonical ID too, so everyone gets this one.
	out := protocol.TokenAdd{Token: token}
	h.broadcast(protocol.EventTokenAdd, out)
	h.record(protocol.EventTokenAdd, out)
}

func (h *Handler) handleTokenMove(conn *broadcast.Conn, msg protocol.Message) {
	var payload protocol.TokenMove
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	if !h.board.MoveToken(payload.ID, payload.X, payload.Y) {
		h.drop(msg.Event, "unknown token "+payload.ID)
		return
	}

	h.broadcastOthers(conn.ID(), protocol.EventTokenMove, payload)
	h.record(protocol.EventTokenMove, payload)
}

func (h *Handler) handleTokenRelabel(conn *broadcast.Conn, msg protocol.Message) {
	var payload protocol.TokenRelabel
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}
	if err := validation.ValidateStruct(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	if !h.board.RelabelToken(payload.ID, payload.Label) {
		h.drop(msg.Event, "unknown token "+payload.ID)
		return
	}

	h.broadcastOthers(conn.ID(), protocol.EventTokenRelabel, payload)
	h.record(protocol.EventTokenRelabel, payload)
}

func (h *Handler) handleTokenRemove(conn *broadcast.Conn, msg protocol.Message) {
	var payload protocol.TokenRemove
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	if !h.board.RemoveToken(payload.ID) {
		h.drop(msg.Event, "unknown token "+payload.ID)
		return
	}

	h.broadcast(protocol.EventTokenRemove, payload)
	h.record(protocol.EventTokenRemove, payload)
}

func (h *Handler) handleClearBoard() {
	h.board.ClearAll()

	// Clients keep tokens in a separate structure; the distinct signal
	// tells them to purge it as well.
	h.broadcast(protocol.EventBoardCleared, nil)
	h.broadcast(protocol.EventTokensCleared, nil)
	h.record(protocol.EventBoardCleared, nil)
	h.record(protocol.EventTokensCleared, nil)
}

func (h *Handler) handleClearDrawings() {
	h.board.ClearDrawings()

	h.broadcast(protocol.EventDrawingsCleared, nil)
	h.record(protocol.EventDrawingsCleared, nil)
}

func (h *Handler) handleCursorMove(conn *broadcast.Conn, msg protocol.Message) {
	var payload protocol.CursorMove
	if err := msg.Unmarshal(&payload); err != nil {
		h.drop(msg.Event, err.Error())
		return
	}

	payload.ID = conn.ID()
	if user, ok := h.registry.Get(conn.ID()); ok {
		payload.Username = user.Username
		payload.Color = user.Color
	}

	h.broadcastOthers(conn.ID(), protocol.EventCursorMove, payload)
}

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

// Package broadcast relays events to the connected clients: to everyone,
// to everyone but the originator, or privately back to the originator.
package broadcast

import (
	"sync"

	"github.com/tactix-team/tactix/server/logging"
	"github.com/tactix-team/tactix/server/protocol"
)

// Hub tracks the live connections. It keeps its own lock because write
// pumps are genuinely concurrent with the handler's event turns.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]*Conn
	logger logging.Logger
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{
		conns:  make(map[string]*Conn),
		logger: logging.New("broadcast"),
	}
}

// Add registers a connection and starts its write pump.
func (h *Hub) Add(conn *Conn) {
	h.mu.Lock()
	h.conns[conn.ID()] = conn
	h.mu.Unlock()

	go conn.WritePump()
}

// Remove unregisters and closes a connection.
func (h *Hub) Remove(id string) {
	h.mu.Lock()
	conn, ok := h.conns[id]
	delete(h.conns, id)
	h.mu.Unlock()

	if ok {
		conn.Close()
	}
}

// Len returns the number of live connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Broadcast sends the message to every connection, including the one the
// triggering event came from.
func (h *Hub) Broadcast(msg protocol.Message) {
	h.publish(msg, "")
}

// BroadcastOthers sends the message to every connection except origin.
func (h *Hub) BroadcastOthers(origin string, msg protocol.Message) {
	h.publish(msg, origin)
}

// SendTo delivers the message privately to one connection. Sending to an
// unknown connection is a no-op.
func (h *Hub) SendTo(id string, msg protocol.Message) {
	data, err := msg.Encode()
	if err != nil {
		h.logger.Warnf("encode %s: %s", msg.Event, err)
		return
	}

	h.mu.RLock()
	conn, ok := h.conns[id]
	h.mu.RUnlock()

	if !ok {
		return
	}

	if !conn.Publish(data) {
		h.logger.Infof("publish %s to %s timeout or closed", msg.Event, id)
	}
}

func (h *Hub) publish(msg protocol.Message, skip string) {
	data, err := msg.Encode()
	if err != nil {
		h.logger.Warnf("encode %s: %s", msg.Event, err)
		return
	}

	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.conns))
	for id, conn := range h.conns {
		if id == skip {
			continue
		}
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		if !conn.Publish(data) {
			h.logger.Infof("publish %s to %s timeout or closed", msg.Event, conn.ID())
		}
	}
}

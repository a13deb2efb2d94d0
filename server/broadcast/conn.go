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

package broadcast

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/xid"
)

const (
	// publishTimeout is the timeout for handing an outbound message to a
	// connection's send buffer.
	publishTimeout = 100 * time.Millisecond

	// sendBufferSize is the size of the per-connection send buffer.
	sendBufferSize = 256

	// writeWait is the deadline for one WebSocket write.
	writeWait = 10 * time.Second

	// pingPeriod is the interval of keepalive pings.
	pingPeriod = 30 * time.Second
)

// Conn is one client connection with a buffered outbound queue. Writes to
// the socket happen on a single write pump goroutine; the handler never
// blocks on a slow consumer.
type Conn struct {
	id   string
	sock *websocket.Conn

	mu     sync.Mutex
	closed bool
	sendCh chan []byte
}

// NewConn wraps an upgraded WebSocket connection.
func NewConn(sock *websocket.Conn) *Conn {
	return &Conn{
		id:     xid.New().String(),
		sock:   sock,
		sendCh: make(chan []byte, sendBufferSize),
	}
}

// ID returns the connection-scoped identifier. It doubles as the user ID
// of the session bound to this connection.
func (c *Conn) ID() string {
	return c.id
}

// Publish queues the given encoded message for delivery. It returns false
// if the connection is closed or its buffer stayed full past the publish
// timeout.
func (c *Conn) Publish(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.sendCh <- data:
		return true
	case <-time.After(publishTimeout):
		return false
	}
}

// Close closes the outbound queue and the underlying socket.
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	_ = c.sock.Close()
}

// WritePump drains the send buffer to the socket until the connection
// closes. It must run on its own goroutine, one per connection.
func (c *Conn) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data, ok := <-c.sendCh:
			if !ok {
				_ = c.sock.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait),
				)
				return
			}

			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.TextMessage, data); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.sock.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.sock.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}

// ReadMessage reads one message from the socket.
func (c *Conn) ReadMessage() ([]byte, error) {
	_, data, err := c.sock.ReadMessage()
	if err != nil {
		return nil, err
	}
	return data, nil
}

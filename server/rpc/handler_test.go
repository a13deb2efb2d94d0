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

package rpc_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactix-team/tactix/server/backend"
	"github.com/tactix-team/tactix/server/board"
	"github.com/tactix-team/tactix/server/profiling/prometheus"
	"github.com/tactix-team/tactix/server/protocol"
	"github.com/tactix-team/tactix/server/rpc"
)

const readWait = 3 * time.Second

// client is one connected test participant.
type client struct {
	t    *testing.T
	sock *websocket.Conn
}

func newTestServer(t *testing.T) *httptest.Server {
	metrics, err := prometheus.NewMetrics()
	require.NoError(t, err)

	be, err := backend.New(&backend.Config{}, nil, metrics)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, be.Shutdown())
	})

	handler := rpc.NewHandler(be)
	server := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *client {
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	sock, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sock.Close()
	})

	return &client{t: t, sock: sock}
}

func (c *client) send(event string, payload interface{}) {
	msg, err := protocol.NewMessage(event, payload)
	require.NoError(c.t, err)
	encoded, err := msg.Encode()
	require.NoError(c.t, err)
	require.NoError(c.t, c.sock.WriteMessage(websocket.TextMessage, encoded))
}

// waitFor reads until a message with the given event name arrives.
func (c *client) waitFor(event string) protocol.Message {
	require.NoError(c.t, c.sock.SetReadDeadline(time.Now().Add(readWait)))
	for {
		_, data, err := c.sock.ReadMessage()
		require.NoError(c.t, err, "waiting for %s", event)

		msg, err := protocol.Decode(data)
		require.NoError(c.t, err)
		if msg.Event == event {
			return msg
		}
	}
}

// join connects a user and consumes its init message.
func (c *client) join(username string) protocol.Init {
	c.send(protocol.EventJoin, protocol.Join{Username: username})

	var init protocol.Init
	msg := c.waitFor(protocol.EventInit)
	require.NoError(c.t, msg.Unmarshal(&init))
	return init
}

func TestHandler(t *testing.T) {
	t.Run("join hydrates and announces test", func(t *testing.T) {
		server := newTestServer(t)

		c1 := dial(t, server)
		init := c1.join("alice")
		assert.Equal(t, "alice", init.Self.Username)
		assert.NotEmpty(t, init.Self.Color)
		assert.Len(t, init.Users, 1)
		assert.False(t, init.Recording)
		assert.False(t, init.Replaying)

		c2 := dial(t, server)
		init2 := c2.join("bob")
		assert.Len(t, init2.Users, 2)

		var joined protocol.UserEvent
		msg := c1.waitFor(protocol.EventUserJoined)
		assert.NoError(t, msg.Unmarshal(&joined))
		assert.Equal(t, "bob", joined.User.Username)
	})

	t.Run("invalid username falls back to guest test", func(t *testing.T) {
		server := newTestServer(t)

		c1 := dial(t, server)
		init := c1.join("bad!!name")
		assert.Equal(t, "guest", init.Self.Username)
	})

	t.Run("rejoin keeps the assigned color test", func(t *testing.T) {
		server := newTestServer(t)

		c1 := dial(t, server)
		first := c1.join("alice")
		second := c1.join("coach")

		assert.Equal(t, first.Self.Color, second.Self.Color)
		assert.Equal(t, "coach", second.Self.Username)
		assert.Len(t, second.Users, 1)
	})

	t.Run("token add assigns canonical ID and reaches everyone test", func(t *testing.T) {
		server := newTestServer(t)

		c1 := dial(t, server)
		c1.join("alice")
		c2 := dial(t, server)
		c2.join("bob")
		c1.waitFor(protocol.EventUserJoined)

		c1.send(protocol.EventTokenAdd, protocol.TokenAdd{
			Token: &board.Token{X: 30, Y: 40, Color: "#e6194b", Shape: board.ShapeMarker},
		})

		var added protocol.TokenAdd
		msg := c2.waitFor(protocol.EventTokenAdd)
		assert.NoError(t, msg.Unmarshal(&added))
		assert.NotEmpty(t, added.Token.ID)
		assert.Equal(t, 30.0, added.Token.X)

		// the creator receives the same canonical broadcast
		msg = c1.waitFor(protocol.EventTokenAdd)
		assert.NoError(t, msg.Unmarshal(&added))
		assert.NotEmpty(t, added.Token.ID)
	})

	t.Run("competing token moves converge to last processed test", func(t *testing.T) {
		server := newTestServer(t)

		c1 := dial(t, server)
		c1.join("alice")
		c2 := dial(t, server)
		c2.join("bob")
		c1.waitFor(protocol.EventUserJoined)

		c1.send(protocol.EventTokenAdd, protocol.TokenAdd{
			Token: &board.Token{X: 0, Y: 0},
		})
		var added protocol.TokenAdd
		msg := c1.waitFor(protocol.EventTokenAdd)
		require.NoError(t, msg.Unmarshal(&added))
		id := added.Token.ID

		// two moves for the same token; the one processed second wins
		var moved protocol.TokenMove
		c1.send(protocol.EventTokenMove, protocol.TokenMove{ID: id, X: 10, Y: 10})
		msg = c2.waitFor(protocol.EventTokenMove)
		require.NoError(t, msg.Unmarshal(&moved))
		assert.Equal(t, 10.0, moved.X)

		c2.send(protocol.EventTokenMove, protocol.TokenMove{ID: id, X: 20, Y: 20})
		msg = c1.waitFor(protocol.EventTokenMove)
		require.NoError(t, msg.Unmarshal(&moved))
		assert.Equal(t, 20.0, moved.X)

		// everyone converges on the final position, including a fresh
		// joiner hydrating from the snapshot
		c3 := dial(t, server)
		init := c3.join("carol")
		token, ok := init.Snapshot.Tokens[id]
		require.True(t, ok)
		assert.Equal(t, 20.0, token.X)
		assert.Equal(t, 20.0, token.Y)
	})

	t.Run("late joiner sees existing board test", func(t *testing.T) {
		server := newTestServer(t)

		c1 := dial(t, server)
		c1.join("alice")
		c1.send(protocol.EventTokenAdd, protocol.TokenAdd{
			Token: &board.Token{X: 5, Y: 5},
		})
		c1.waitFor(protocol.EventTokenAdd)

		c2 := dial(t, server)
		init := c2.join("bob")
		assert.Len(t, init.Snapshot.Tokens, 1)
	})

	t.Run("arrow origin gets confirmation others get canonical test", func(t *testing.T) {
		server := newTestServer(t)

		c1 := dial(t, server)
		c1.join("alice")
		c2 := dial(t, server)
		c2.join("bob")
		c1.waitFor(protocol.EventUserJoined)

		c1.send(protocol.EventArrowDone, protocol.ArrowDone{
			Arrow: &board.Arrow{ID: "temp-7", X1: 0, Y1: 0, X2: 9, Y2: 9},
		})

		var confirmed protocol.ArrowConfirmed
		msg := c1.waitFor(protocol.EventArrowConfirmed)
		assert.NoError(t, msg.Unmarshal(&confirmed))
		assert.Equal(t, "temp-7", confirmed.TempID)
		assert.NotEqual(t, "temp-7", confirmed.Arrow.ID)

		var done protocol.ArrowDone
		msg = c2.waitFor(protocol.EventArrowDone)
		assert.NoError(t, msg.Unmarshal(&done))
		assert.Equal(t, confirmed.Arrow.ID, done.Arrow.ID)
	})

	t.Run("draw move reaches spectators only test", func(t *testing.T) {
		server := newTestServer(t)

		c1 := dial(t, server)
		c1.join("alice")
		c2 := dial(t, server)
		c2.join("bob")
		c1.waitFor(protocol.EventUserJoined)

		c1.send(protocol.EventDrawMove, protocol.DrawMove{
			ID:    "stroke-live",
			Point: board.Point{X: 1, Y: 1},
		})
		// a follow-up mutation proves the draw-move already went through
		c1.send(protocol.EventClearBoard, nil)

		msg := c2.waitFor(protocol.EventDrawMove)
		assert.Equal(t, protocol.EventDrawMove, msg.Event)

		// the author sees the board-cleared but never its own draw-move
		msg = c1.waitFor(protocol.EventBoardCleared)
		assert.Equal(t, protocol.EventBoardCleared, msg.Event)
	})

	t.Run("clear board clears tokens too test", func(t *testing.T) {
		server := newTestServer(t)

		c1 := dial(t, server)
		c1.join("alice")
		c1.send(protocol.EventTokenAdd, protocol.TokenAdd{Token: &board.Token{X: 1, Y: 1}})
		c1.waitFor(protocol.EventTokenAdd)

		c1.send(protocol.EventClearBoard, nil)
		c1.waitFor(protocol.EventBoardCleared)
		c1.waitFor(protocol.EventTokensCleared)

		c2 := dial(t, server)
		init := c2.join("bob")
		assert.Empty(t, init.Snapshot.Tokens)
	})

	t.Run("save and load preset test", func(t *testing.T) {
		server := newTestServer(t)

		c1 := dial(t, server)
		c1.join("alice")
		c1.send(protocol.EventTokenAdd, protocol.TokenAdd{Token: &board.Token{X: 1, Y: 1}})
		c1.waitFor(protocol.EventTokenAdd)

		c1.send(protocol.EventSavePreset, protocol.SavePreset{Name: "4-4-2"})

		var saved protocol.PresetsList
		msg := c1.waitFor(protocol.EventPresetSaved)
		assert.NoError(t, msg.Unmarshal(&saved))
		assert.Len(t, saved.Presets, 1)
		assert.Equal(t, "4-4-2", saved.Presets[0].Name)

		c1.send(protocol.EventClearBoard, nil)
		c1.waitFor(protocol.EventBoardCleared)

		c1.send(protocol.EventLoadPreset, protocol.LoadPreset{PresetID: saved.Presets[0].ID})

		var loaded protocol.BoardSnapshot
		msg = c1.waitFor(protocol.EventPresetLoaded)
		assert.NoError(t, msg.Unmarshal(&loaded))
		assert.Len(t, loaded.Snapshot.Tokens, 1)
	})

	t.Run("recording lifecycle test", func(t *testing.T) {
		server := newTestServer(t)

		c1 := dial(t, server)
		c1.join("alice")

		c1.send(protocol.EventRecordingStart, nil)
		c1.waitFor(protocol.EventRecordingStarted)

		c1.send(protocol.EventTokenAdd, protocol.TokenAdd{Token: &board.Token{X: 1, Y: 1}})
		c1.waitFor(protocol.EventTokenAdd)

		c1.send(protocol.EventRecordingStop, nil)

		var saved protocol.RecordingsList
		msg := c1.waitFor(protocol.EventRecordingSaved)
		assert.NoError(t, msg.Unmarshal(&saved))
		assert.Len(t, saved.Recordings, 1)
		assert.Equal(t, "Recording 1", saved.Recordings[0].Name)
		assert.Equal(t, 1, saved.Recordings[0].EventCount)

		// rename and fetch
		c1.send(protocol.EventRenameRecord, protocol.Rename{
			ID:   saved.Recordings[0].ID,
			Name: "Opening drill",
		})
		msg = c1.waitFor(protocol.EventRecordingsList)
		var list protocol.RecordingsList
		assert.NoError(t, msg.Unmarshal(&list))
		assert.Equal(t, "Opening drill", list.Recordings[0].Name)
	})

	t.Run("replay lifecycle test", func(t *testing.T) {
		server := newTestServer(t)

		c1 := dial(t, server)
		c1.join("alice")

		c1.send(protocol.EventRecordingStart, nil)
		c1.waitFor(protocol.EventRecordingStarted)
		c1.send(protocol.EventTokenAdd, protocol.TokenAdd{Token: &board.Token{X: 1, Y: 1}})
		c1.waitFor(protocol.EventTokenAdd)
		c1.send(protocol.EventRecordingStop, nil)

		var saved protocol.RecordingsList
		msg := c1.waitFor(protocol.EventRecordingSaved)
		assert.NoError(t, msg.Unmarshal(&saved))

		c1.send(protocol.EventReplayStart, protocol.ReplayStart{
			RecordingID: saved.Recordings[0].ID,
		})

		var started protocol.ReplayStarted
		msg = c1.waitFor(protocol.EventReplayStarted)
		assert.NoError(t, msg.Unmarshal(&started))
		assert.Equal(t, saved.Recordings[0].ID, started.RecordingID)

		c1.send(protocol.EventReplayStop, nil)
		c1.waitFor(protocol.EventReplayStopped)
		c1.waitFor(protocol.EventReplayRestore)
		c1.waitFor(protocol.EventReplayDone)
	})

	t.Run("user left announcement test", func(t *testing.T) {
		server := newTestServer(t)

		c1 := dial(t, server)
		c1.join("alice")
		c2 := dial(t, server)
		c2.join("bob")
		c1.waitFor(protocol.EventUserJoined)

		require.NoError(t, c2.sock.Close())

		var left protocol.UserEvent
		msg := c1.waitFor(protocol.EventUserLeft)
		assert.NoError(t, msg.Unmarshal(&left))
		assert.Equal(t, "bob", left.User.Username)

		var users protocol.Users
		msg = c1.waitFor(protocol.EventUsers)
		assert.NoError(t, msg.Unmarshal(&users))
		assert.Len(t, users.Users, 1)
	})
}

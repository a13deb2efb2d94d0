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

package replay_test

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tactix-team/tactix/server/backend/database"
	"github.com/tactix-team/tactix/server/board"
	"github.com/tactix-team/tactix/server/protocol"
	"github.com/tactix-team/tactix/server/recorder"
	"github.com/tactix-team/tactix/server/replay"
)

// fakeHub collects broadcast messages and their arrival times under its
// own lock so timer callbacks and test assertions can interleave safely.
type fakeHub struct {
	mu       sync.Mutex
	messages []protocol.Message
	times    []time.Time
}

func (h *fakeHub) Broadcast(msg protocol.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = append(h.messages, msg)
	h.times = append(h.times, time.Now())
}

func (h *fakeHub) events() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var events []string
	for _, msg := range h.messages {
		events = append(events, msg.Event)
	}
	return events
}

func (h *fakeHub) recorded() ([]protocol.Message, []time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	msgs := make([]protocol.Message, len(h.messages))
	copy(msgs, h.messages)
	times := make([]time.Time, len(h.times))
	copy(times, h.times)
	return msgs, times
}

func newRecording(entries ...recorder.Entry) *database.RecordingInfo {
	var duration int64
	if len(entries) > 0 {
		duration = entries[len(entries)-1].OffsetMilli
	}

	snapshot := board.New().Snapshot()
	snapshot.Tokens["token1"] = &board.Token{ID: "token1", X: 5, Y: 5}

	return &database.RecordingInfo{
		ID:            1,
		Name:          "Recording 1",
		DurationMilli: duration,
		EventCount:    len(entries),
		Snapshot:      snapshot,
		Timeline:      entries,
	}
}

func TestEngine(t *testing.T) {
	t.Run("start restores recording snapshot and announces test", func(t *testing.T) {
		var mu sync.Mutex
		b := board.New()
		b.AddToken(&board.Token{ID: "live", X: 1, Y: 1})
		hub := &fakeHub{}
		engine := replay.NewEngine(&mu, b, hub)

		mu.Lock()
		started := engine.Start(newRecording())
		assert.True(t, started)
		assert.True(t, engine.Replaying())

		// the board now holds the recording's base snapshot
		_, ok := b.Token("token1")
		assert.True(t, ok)
		_, ok = b.Token("live")
		assert.False(t, ok)
		mu.Unlock()

		events := hub.events()
		assert.Equal(t, protocol.EventReplayStarted, events[0])
		assert.Equal(t, protocol.EventBoardCleared, events[1])

		mu.Lock()
		engine.Stop()
		mu.Unlock()
	})

	t.Run("second start is rejected while replaying test", func(t *testing.T) {
		var mu sync.Mutex
		engine := replay.NewEngine(&mu, board.New(), &fakeHub{})

		mu.Lock()
		assert.True(t, engine.Start(newRecording()))
		assert.False(t, engine.Start(newRecording()))
		engine.Stop()
		mu.Unlock()
	})

	t.Run("stop restores pre-replay board test", func(t *testing.T) {
		var mu sync.Mutex
		b := board.New()
		b.AddToken(&board.Token{ID: "live", X: 1, Y: 1})
		hub := &fakeHub{}
		engine := replay.NewEngine(&mu, b, hub)

		mu.Lock()
		engine.Start(newRecording())
		stopped := engine.Stop()
		assert.True(t, stopped)
		assert.False(t, engine.Replaying())

		_, ok := b.Token("live")
		assert.True(t, ok)
		_, ok = b.Token("token1")
		assert.False(t, ok)
		mu.Unlock()

		events := hub.events()
		assert.Contains(t, events, protocol.EventReplayStopped)
		assert.Contains(t, events, protocol.EventReplayRestore)
		assert.Equal(t, protocol.EventReplayDone, events[len(events)-1])

		// stopping an idle engine is a no-op
		mu.Lock()
		assert.False(t, engine.Stop())
		mu.Unlock()
	})

	t.Run("timeline entries are re-broadcast verbatim test", func(t *testing.T) {
		var mu sync.Mutex
		hub := &fakeHub{}
		engine := replay.NewEngine(&mu, board.New(), hub)

		rec := newRecording(
			recorder.Entry{
				OffsetMilli: 0,
				Event:       protocol.EventTokenMove,
				Payload:     json.RawMessage(`{"id":"token1","x":9,"y":9}`),
			},
		)

		mu.Lock()
		engine.Start(rec)
		mu.Unlock()

		// lead-in is 1s; wait until the entry has fired
		assert.Eventually(t, func() bool {
			for _, event := range hub.events() {
				if event == protocol.EventTokenMove {
					return true
				}
			}
			return false
		}, 3*time.Second, 10*time.Millisecond)

		hub.mu.Lock()
		var moved *protocol.Message
		for i := range hub.messages {
			if hub.messages[i].Event == protocol.EventTokenMove {
				moved = &hub.messages[i]
			}
		}
		hub.mu.Unlock()
		assert.NotNil(t, moved)
		assert.JSONEq(t, `{"id":"token1","x":9,"y":9}`, string(moved.Payload))

		// the replay runs to completion on its own
		assert.Eventually(t, func() bool {
			events := hub.events()
			return len(events) > 0 && events[len(events)-1] == protocol.EventReplayDone
		}, 5*time.Second, 10*time.Millisecond)

		mu.Lock()
		assert.False(t, engine.Replaying())
		mu.Unlock()
	})

	t.Run("same-offset entries replay in recorded order test", func(t *testing.T) {
		var mu sync.Mutex
		hub := &fakeHub{}
		engine := replay.NewEngine(&mu, board.New(), hub)

		var entries []recorder.Entry
		for i := 0; i < 40; i++ {
			payload, err := json.Marshal(map[string]interface{}{
				"id": "token1", "x": i, "y": 0,
			})
			require.NoError(t, err)
			entries = append(entries, recorder.Entry{
				OffsetMilli: 0,
				Event:       protocol.EventTokenMove,
				Payload:     payload,
			})
		}

		mu.Lock()
		engine.Start(newRecording(entries...))
		mu.Unlock()

		assert.Eventually(t, func() bool {
			events := hub.events()
			return len(events) > 0 && events[len(events)-1] == protocol.EventReplayDone
		}, 5*time.Second, 10*time.Millisecond)

		msgs, _ := hub.recorded()
		var xs []int
		for _, msg := range msgs {
			if msg.Event != protocol.EventTokenMove {
				continue
			}
			var move struct {
				X int `json:"x"`
			}
			require.NoError(t, json.Unmarshal(msg.Payload, &move))
			xs = append(xs, move.X)
		}

		require.Len(t, xs, 40)
		assert.IsIncreasing(t, xs)
	})

	t.Run("entries keep offset order and relative spacing test", func(t *testing.T) {
		var mu sync.Mutex
		hub := &fakeHub{}
		engine := replay.NewEngine(&mu, board.New(), hub)

		rec := newRecording(
			recorder.Entry{
				OffsetMilli: 0,
				Event:       protocol.EventTokenMove,
				Payload:     json.RawMessage(`{"id":"token1","x":1,"y":0}`),
			},
			recorder.Entry{
				OffsetMilli: 500,
				Event:       protocol.EventTokenMove,
				Payload:     json.RawMessage(`{"id":"token1","x":2,"y":0}`),
			},
		)

		mu.Lock()
		engine.Start(rec)
		mu.Unlock()

		assert.Eventually(t, func() bool {
			events := hub.events()
			return len(events) > 0 && events[len(events)-1] == protocol.EventReplayDone
		}, 6*time.Second, 10*time.Millisecond)

		msgs, times := hub.recorded()
		var moveTimes []time.Time
		var xs []int
		for i, msg := range msgs {
			if msg.Event != protocol.EventTokenMove {
				continue
			}
			var move struct {
				X int `json:"x"`
			}
			require.NoError(t, json.Unmarshal(msg.Payload, &move))
			xs = append(xs, move.X)
			moveTimes = append(moveTimes, times[i])
		}

		require.Equal(t, []int{1, 2}, xs)
		gap := moveTimes[1].Sub(moveTimes[0])
		assert.InDelta(t, 500, gap.Milliseconds(), 300)
	})

	t.Run("stop cancels pending timers test", func(t *testing.T) {
		var mu sync.Mutex
		hub := &fakeHub{}
		engine := replay.NewEngine(&mu, board.New(), hub)

		rec := newRecording(
			recorder.Entry{
				OffsetMilli: 60_000,
				Event:       protocol.EventTokenMove,
				Payload:     json.RawMessage(`{"id":"token1","x":9,"y":9}`),
			},
		)

		mu.Lock()
		engine.Start(rec)
		engine.Stop()
		mu.Unlock()

		time.Sleep(100 * time.Millisecond)
		assert.NotContains(t, hub.events(), protocol.EventTokenMove)
	})
}

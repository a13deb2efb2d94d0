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

// Package replay re-executes a stored recording against a temporarily
// restored board, re-broadcasting every timeline entry at its original
// relative offset, then restores the board to its pre-replay state.
package replay

import (
	"sync"
	"time"

	"github.com/tactix-team/tactix/server/backend/database"
	"github.com/tactix-team/tactix/server/board"
	"github.com/tactix-team/tactix/server/logging"
	"github.com/tactix-team/tactix/server/protocol"
)

const (
	// hydrateDelay is the pause between the board-clear broadcast and the
	// snapshot hydration, giving clients time to visually clear first.
	hydrateDelay = 300 * time.Millisecond

	// leadIn is the fixed delay added to every timeline offset so the
	// audience sees the starting frame before the first event fires.
	leadIn = 1 * time.Second

	// trailing is the pause after the last entry before the replay ends.
	trailing = 1 * time.Second
)

// Broadcaster delivers a message to every connection.
type Broadcaster interface {
	Broadcast(msg protocol.Message)
}

// step is one scheduled action of a replay, due at a fixed offset from
// the replay epoch.
type step struct {
	at time.Duration
	fn func()
}

// Engine is the replay state machine. At most one replay is in flight
// process-wide.
//
// Start and Stop must be called while holding the handler's turn lock;
// the timer callback acquires that same lock itself, so each batch of
// re-emissions executes as an atomic, non-preempted turn against the
// shared state. A single walker delivers the steps in index order, so
// entries sharing an offset fire in the order they were recorded.
type Engine struct {
	locker sync.Locker
	board  *board.Board
	hub    Broadcaster
	logger logging.Logger

	replaying bool
	gen       int
	preReplay *board.Snapshot
	steps     []step
	next      int
	epoch     time.Time
	timer     *time.Timer
}

// NewEngine creates an idle Engine. locker is the handler's turn lock.
func NewEngine(locker sync.Locker, b *board.Board, hub Broadcaster) *Engine {
	return &Engine{
		locker: locker,
		board:  b,
		hub:    hub,
		logger: logging.New("replay"),
	}
}

// Replaying returns whether a replay is in flight.
func (e *Engine) Replaying() bool {
	return e.replaying
}

// Start begins replaying the given recording. Starting while a replay is
// already in flight is a no-op and returns false.
func (e *Engine) Start(rec *database.RecordingInfo) bool {
	if e.replaying {
		return false
	}

	e.replaying = true
	e.gen++
	gen := e.gen

	// The live board is parked, not lost: the end-of-replay procedure
	// restores exactly this snapshot.
	e.preReplay = e.board.Snapshot()
	e.board.Restore(rec.Snapshot)

	e.broadcast(protocol.EventReplayStarted, protocol.ReplayStarted{
		RecordingID:   rec.ID,
		DurationMilli: rec.DurationMilli,
	})
	e.broadcast(protocol.EventBoardCleared, nil)

	base := rec.Snapshot.DeepCopy()
	e.steps = append(e.steps, step{at: hydrateDelay, fn: func() {
		e.broadcast(protocol.EventReplayInit, protocol.BoardSnapshot{Snapshot: base})
	}})

	for _, entry := range rec.Timeline {
		entry := entry
		e.steps = append(e.steps, step{
			at: leadIn + time.Duration(entry.OffsetMilli)*time.Millisecond,
			fn: func() {
				e.hub.Broadcast(protocol.Message{Event: entry.Event, Payload: entry.Payload})
			},
		})
	}

	total := leadIn + time.Duration(rec.DurationMilli)*time.Millisecond + trailing
	e.steps = append(e.steps, step{at: total, fn: e.finish})

	e.next = 0
	e.epoch = time.Now()
	e.arm(gen)

	e.logger.Infof(
		"replay %d started: %d events, %dms",
		rec.ID,
		len(rec.Timeline),
		rec.DurationMilli,
	)
	return true
}

// Stop cancels an in-flight replay: the pending timer is stopped, the
// remaining steps are discarded, and the end-of-replay procedure runs
// immediately. Stopping an idle engine is a no-op and returns false.
func (e *Engine) Stop() bool {
	if !e.replaying {
		return false
	}

	e.broadcast(protocol.EventReplayStopped, nil)
	e.finish()
	return true
}

// finish runs the end-of-replay procedure: restore the pre-replay board,
// re-hydrate every client, signal completion, go idle. The caller holds
// the turn lock.
func (e *Engine) finish() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.steps = nil
	e.next = 0

	// Bump the generation so a timer already blocked on the turn lock
	// no-ops instead of firing into the restored state.
	e.gen++

	e.board.Restore(e.preReplay)
	restored := e.preReplay
	e.preReplay = nil
	e.replaying = false

	e.broadcast(protocol.EventBoardCleared, nil)
	e.broadcast(protocol.EventReplayRestore, protocol.BoardSnapshot{Snapshot: restored})
	e.broadcast(protocol.EventReplayDone, nil)

	e.logger.Info("replay finished")
}

// arm schedules the timer for the next pending step. The callback runs
// as its own turn: it takes the turn lock and checks that the replay
// that scheduled it is still the live one. The caller holds the turn
// lock.
func (e *Engine) arm(gen int) {
	if e.next >= len(e.steps) {
		return
	}

	d := e.steps[e.next].at - time.Since(e.epoch)
	if d < 0 {
		d = 0
	}
	e.timer = time.AfterFunc(d, func() {
		e.locker.Lock()
		defer e.locker.Unlock()

		if !e.replaying || e.gen != gen {
			return
		}
		e.run(gen)
	})
}

// run delivers every step whose offset has elapsed, strictly in index
// order, then re-arms the timer for the next one. The final step is
// finish, which empties the step list.
func (e *Engine) run(gen int) {
	elapsed := time.Since(e.epoch)
	for e.next < len(e.steps) && e.steps[e.next].at <= elapsed {
		fn := e.steps[e.next].fn
		e.next++
		fn()
	}

	if e.replaying && e.gen == gen {
		e.arm(gen)
	}
}

func (e *Engine) broadcast(event string, payload interface{}) {
	msg, err := protocol.NewMessage(event, payload)
	if err != nil {
		e.logger.Warnf("broadcast %s: %s", event, err)
		return
	}
	e.hub.Broadcast(msg)
}

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

package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tactix-team/tactix/server/board"
)

func newStroke(id string) *board.Stroke {
	return &board.Stroke{
		ID:     id,
		Points: []board.Point{{X: 0, Y: 0}, {X: 10, Y: 10}},
		Color:  "#ff0000",
		Width:  3,
		Tool:   board.ToolDraw,
	}
}

func newArrow(id string) *board.Arrow {
	return &board.Arrow{
		ID: id,
		X1: 0, Y1: 0, X2: 50, Y2: 50,
		Color: "#00ff00",
		Width: 3,
		Style: board.StyleSolid,
	}
}

func newToken(id string) *board.Token {
	return &board.Token{
		ID:    id,
		X:     25,
		Y:     25,
		Color: "#0000ff",
		Label: "10",
		Shape: board.ShapeMarker,
	}
}

func TestBoard(t *testing.T) {
	t.Run("stroke add and remove test", func(t *testing.T) {
		b := board.New()
		b.AddStroke(newStroke("stroke1"))
		b.AddStroke(newStroke("stroke2"))
		b.AddStroke(newStroke("stroke3"))
		assert.Len(t, b.Strokes(), 3)

		removed := b.RemoveStrokes([]string{"stroke2", "absent"})
		assert.Equal(t, []string{"stroke2"}, removed)
		assert.Len(t, b.Strokes(), 2)
		assert.Equal(t, "stroke1", b.Strokes()[0].ID)
		assert.Equal(t, "stroke3", b.Strokes()[1].ID)

		removed = b.RemoveStrokes([]string{"absent"})
		assert.Empty(t, removed)
		assert.Len(t, b.Strokes(), 2)
	})

	t.Run("arrow add and remove test", func(t *testing.T) {
		b := board.New()
		b.AddArrow(newArrow("arrow1"))
		b.AddArrow(newArrow("arrow2"))
		assert.Len(t, b.Arrows(), 2)

		removed := b.RemoveArrows([]string{"arrow1"})
		assert.Equal(t, []string{"arrow1"}, removed)
		assert.Len(t, b.Arrows(), 1)
		assert.Equal(t, "arrow2", b.Arrows()[0].ID)
	})

	t.Run("token lifecycle test", func(t *testing.T) {
		b := board.New()
		b.AddToken(newToken("token1"))
		assert.Equal(t, 1, b.TokenCount())

		assert.True(t, b.MoveToken("token1", 70, 80))
		token, ok := b.Token("token1")
		assert.True(t, ok)
		assert.Equal(t, 70.0, token.X)
		assert.Equal(t, 80.0, token.Y)

		assert.True(t, b.RelabelToken("token1", "GK"))
		token, _ = b.Token("token1")
		assert.Equal(t, "GK", token.Label)

		assert.True(t, b.RemoveToken("token1"))
		assert.Equal(t, 0, b.TokenCount())

		// operations on absent tokens are no-ops
		assert.False(t, b.MoveToken("token1", 0, 0))
		assert.False(t, b.RelabelToken("token1", "x"))
		assert.False(t, b.RemoveToken("token1"))
	})

	t.Run("stored values do not alias caller structs test", func(t *testing.T) {
		b := board.New()
		stroke := newStroke("stroke1")
		b.AddStroke(stroke)
		stroke.Points[0].X = 999
		assert.Equal(t, 0.0, b.Strokes()[0].Points[0].X)

		token := newToken("token1")
		b.AddToken(token)
		token.X = 999
		stored, _ := b.Token("token1")
		assert.Equal(t, 25.0, stored.X)
	})

	t.Run("clear all and clear drawings test", func(t *testing.T) {
		b := board.New()
		b.AddStroke(newStroke("stroke1"))
		b.AddArrow(newArrow("arrow1"))
		b.AddToken(newToken("token1"))

		b.ClearDrawings()
		assert.Empty(t, b.Strokes())
		assert.Empty(t, b.Arrows())
		assert.Equal(t, 1, b.TokenCount())

		b.AddStroke(newStroke("stroke2"))
		b.ClearAll()
		assert.Empty(t, b.Strokes())
		assert.Empty(t, b.Arrows())
		assert.Equal(t, 0, b.TokenCount())
	})

	t.Run("snapshot and restore round trip test", func(t *testing.T) {
		b := board.New()
		b.AddStroke(newStroke("stroke1"))
		b.AddArrow(newArrow("arrow1"))
		b.AddToken(newToken("token1"))

		snapshot := b.Snapshot()

		b.ClearAll()
		b.AddToken(newToken("token2"))

		b.Restore(snapshot)
		assert.Len(t, b.Strokes(), 1)
		assert.Len(t, b.Arrows(), 1)
		assert.Equal(t, 1, b.TokenCount())
		_, ok := b.Token("token1")
		assert.True(t, ok)
		_, ok = b.Token("token2")
		assert.False(t, ok)
	})

	t.Run("snapshot stays frozen after board mutation test", func(t *testing.T) {
		b := board.New()
		b.AddToken(newToken("token1"))

		snapshot := b.Snapshot()
		b.MoveToken("token1", 999, 999)

		assert.Equal(t, 25.0, snapshot.Tokens["token1"].X)
	})

	t.Run("restore nil snapshot clears the board test", func(t *testing.T) {
		b := board.New()
		b.AddStroke(newStroke("stroke1"))
		b.Restore(nil)
		assert.Empty(t, b.Strokes())
		assert.Equal(t, 0, b.TokenCount())
	})

	t.Run("snapshot deep copy test", func(t *testing.T) {
		b := board.New()
		b.AddStroke(newStroke("stroke1"))
		b.AddToken(newToken("token1"))

		snapshot := b.Snapshot()
		clone := snapshot.DeepCopy()
		clone.Strokes[0].Color = "#000000"
		clone.Tokens["token1"].Label = "xx"

		assert.Equal(t, "#ff0000", snapshot.Strokes[0].Color)
		assert.Equal(t, "10", snapshot.Tokens["token1"].Label)

		var nilSnapshot *board.Snapshot
		assert.Nil(t, nilSnapshot.DeepCopy())
	})
}

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

// Package board provides the authoritative in-memory state of the shared
// tactics board: strokes, arrows and tokens.
package board

// Snapshot is a deep, independent copy of the board at one instant.
// Mutations of the live board never alias a snapshot's storage, so a
// snapshot handed to a broadcast payload or a stored recording stays
// frozen.
type Snapshot struct {
	Strokes []*Stroke         `json:"strokes" bson:"strokes"`
	Arrows  []*Arrow          `json:"arrows" bson:"arrows"`
	Tokens  map[string]*Token `json:"tokens" bson:"tokens"`
}

// DeepCopy returns an independent copy of the snapshot.
func (s *Snapshot) DeepCopy() *Snapshot {
	if s == nil {
		return nil
	}

	clone := &Snapshot{
		Strokes: make([]*Stroke, 0, len(s.Strokes)),
		Arrows:  make([]*Arrow, 0, len(s.Arrows)),
		Tokens:  make(map[string]*Token, len(s.Tokens)),
	}
	for _, stroke := range s.Strokes {
		clone.Strokes = append(clone.Strokes, stroke.DeepCopy())
	}
	for _, arrow := range s.Arrows {
		clone.Arrows = append(clone.Arrows, arrow.DeepCopy())
	}
	for id, token := range s.Tokens {
		clone.Tokens[id] = token.DeepCopy()
	}
	return clone
}

// Board is the authoritative mutable document shared by all connections.
// It holds no lock of its own: the connection handler serializes every
// mutating turn, including replay timer callbacks.
type Board struct {
	strokes []*Stroke
	arrows  []*Arrow
	tokens  map[string]*Token
}

// New creates an empty board.
func New() *Board {
	return &Board{
		tokens: make(map[string]*Token),
	}
}

// AddStroke appends a stroke to the board. The stored value is a copy, so
// the caller's struct can be reused for broadcasting without aliasing.
func (b *Board) AddStroke(stroke *Stroke) {
	b.strokes = append(b.strokes, stroke.DeepCopy())
}

// RemoveStrokes removes the strokes with the given IDs. Absent IDs are
// ignored. It returns the IDs that were actually removed.
func (b *Board) RemoveStrokes(ids []string) []string {
	toRemove := make(map[string]bool, len(ids))
	for _, id := range ids {
		toRemove[id] = true
	}

	var removed []string
	kept := b.strokes[:0]
	for _, stroke := range b.strokes {
		if toRemove[stroke.ID] {
			removed = append(removed, stroke.ID)
			continue
		}
		kept = append(kept, stroke)
	}
	for i := len(kept); i < len(b.strokes); i++ {
		b.strokes[i] = nil
	}
	b.strokes = kept
	return removed
}

// AddArrow appends an arrow to the board.
func (b *Board) AddArrow(arrow *Arrow) {
	b.arrows = append(b.arrows, arrow.DeepCopy())
}

// RemoveArrows removes the arrows with the given IDs. Absent IDs are
// ignored. It returns the IDs that were actually removed.
func (b *Board) RemoveArrows(ids []string) []string {
	toRemove := make(map[string]bool, len(ids))
	for _, id := range ids {
		toRemove[id] = true
	}

	var removed []string
	kept := b.arrows[:0]
	for _, arrow := range b.arrows {
		if toRemove[arrow.ID] {
			removed = append(removed, arrow.ID)
			continue
		}
		kept = append(kept, arrow)
	}
	for i := len(kept); i < len(b.arrows); i++ {
		b.arrows[i] = nil
	}
	b.arrows = kept
	return removed
}

// AddToken places a token on the board.
func (b *Board) AddToken(token *Token) {
	b.tokens[token.ID] = token.DeepCopy()
}

// MoveToken updates a token's position. Moving an absent token is a no-op
// and returns false.
func (b *Board) MoveToken(id string, x, y float64) bool {
	token, ok := b.tokens[id]
	if !ok {
		return false
	}

	token.X = x
	token.Y = y
	return true
}

// RelabelToken updates a token's label. Relabeling an absent token is a
// no-op and returns false.
func (b *Board) RelabelToken(id, label string) bool {
	token, ok := b.tokens[id]
	if !ok {
		return false
	}

	token.Label = label
	return true
}

// RemoveToken removes a token. Removing an absent token is a no-op and
// returns false.
func (b *Board) RemoveToken(id string) bool {
	if _, ok := b.tokens[id]; !ok {
		return false
	}

	delete(b.tokens, id)
	return true
}

// ClearAll wipes strokes, arrows and tokens.
func (b *Board) ClearAll() {
	b.strokes = nil
	b.arrows = nil
	b.tokens = make(map[string]*Token)
}

// ClearDrawings wipes strokes and arrows but keeps tokens, supporting the
// "clear my scribbles but keep the setup" intent.
func (b *Board) ClearDrawings() {
	b.strokes = nil
	b.arrows = nil
}

// Snapshot returns a deep copy of the current board state.
func (b *Board) Snapshot() *Snapshot {
	snapshot := &Snapshot{
		Strokes: make([]*Stroke, 0, len(b.strokes)),
		Arrows:  make([]*Arrow, 0, len(b.arrows)),
		Tokens:  make(map[string]*Token, len(b.tokens)),
	}
	for _, stroke := range b.strokes {
		snapshot.Strokes = append(snapshot.Strokes, stroke.DeepCopy())
	}
	for _, arrow := range b.arrows {
		snapshot.Arrows = append(snapshot.Arrows, arrow.DeepCopy())
	}
	for id, token := range b.tokens {
		snapshot.Tokens[id] = token.DeepCopy()
	}
	return snapshot
}

// Restore replaces the board's contents with a deep copy of the given
// snapshot. A nil snapshot clears the board.
func (b *Board) Restore(snapshot *Snapshot) {
	b.ClearAll()
	if snapshot == nil {
		return
	}

	for _, stroke := range snapshot.Strokes {
		b.strokes = append(b.strokes, stroke.DeepCopy())
	}
	for _, arrow := range snapshot.Arrows {
		b.arrows = append(b.arrows, arrow.DeepCopy())
	}
	for id, token := range snapshot.Tokens {
		b.tokens[id] = token.DeepCopy()
	}
}

// Strokes returns the live stroke list in insertion order.
func (b *Board) Strokes() []*Stroke {
	return b.strokes
}

// Arrows returns the live arrow list in insertion order.
func (b *Board) Arrows() []*Arrow {
	return b.arrows
}

// Token returns the live token with the given ID.
func (b *Board) Token(id string) (*Token, bool) {
	token, ok := b.tokens[id]
	return token, ok
}

// TokenCount returns the number of tokens on the board.
func (b *Board) TokenCount() int {
	return len(b.tokens)
}

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

// Package identity issues collision-free entity IDs and per-session colors.
package identity

import (
	"strconv"
	"sync/atomic"
)

// defaultPalette is cycled through by connection order. Reuse after the
// palette wraps is acceptable.
var defaultPalette = []string{
	"#e6194b",
	"#3cb44b",
	"#ffe119",
	"#4363d8",
	"#f58231",
	"#911eb4",
	"#46f0f0",
	"#f032e6",
	"#bcf60c",
	"#fabebe",
}

// counter issues monotonically increasing IDs with a fixed prefix.
type counter struct {
	prefix string
	next   int64
}

func (c *counter) nextID() string {
	return c.prefix + strconv.FormatInt(atomic.AddInt64(&c.next, 1), 10)
}

// Allocator issues entity IDs with an independent monotonic counter per
// entity class and assigns session colors round-robin.
type Allocator struct {
	strokes   counter
	arrows    counter
	tokens    counter
	colorNext int64
	palette   []string
}

// NewAllocator creates an Allocator with the default palette.
func NewAllocator() *Allocator {
	return &Allocator{
		strokes: counter{prefix: "stroke"},
		arrows:  counter{prefix: "arrow"},
		tokens:  counter{prefix: "token"},
		palette: defaultPalette,
	}
}

// NextStrokeID returns a fresh server-side stroke ID. Strokes created by
// clients may carry client-supplied IDs instead; this is used when the
// server itself needs one.
func (a *Allocator) NextStrokeID() string {
	return a.strokes.nextID()
}

// NextArrowID returns a fresh arrow ID. Arrow IDs are always
// server-assigned so that concurrent creators can never collide.
func (a *Allocator) NextArrowID() string {
	return a.arrows.nextID()
}

// NextTokenID returns a fresh token ID. Token IDs are always
// server-assigned.
func (a *Allocator) NextTokenID() string {
	return a.tokens.nextID()
}

// NextColor returns the next palette color by connection order.
func (a *Allocator) NextColor() string {
	n := atomic.AddInt64(&a.colorNext, 1) - 1
	return a.palette[int(n)%len(a.palette)]
}

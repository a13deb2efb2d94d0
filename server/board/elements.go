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

package board

// Tool is the drawing tool a stroke was made with.
type Tool string

const (
	// ToolDraw is the freehand pen.
	ToolDraw Tool = "draw"

	// ToolErase is the eraser, rendered by clients as background-colored paint.
	ToolErase Tool = "erase"
)

// ArrowStyle is the line style of an arrow.
type ArrowStyle string

const (
	// StyleSolid is a solid arrow line.
	StyleSolid ArrowStyle = "solid"

	// StyleDashed is a dashed arrow line.
	StyleDashed ArrowStyle = "dashed"
)

// TokenShape is the rendered shape of a token.
type TokenShape string

const (
	// ShapeMarker is a round player marker.
	ShapeMarker TokenShape = "marker"

	// ShapeBall is the ball token.
	ShapeBall TokenShape = "ball"
)

// Point is a position in the board's logical coordinate space.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Stroke is a completed freehand gesture. It is immutable once added to the
// board except for full removal. A retained stroke has at least two points.
type Stroke struct {
	ID       string  `json:"id" bson:"id"`
	Points   []Point `json:"points" bson:"points"`
	Color    string  `json:"color" bson:"color"`
	Width    float64 `json:"width" bson:"width"`
	Tool     Tool    `json:"tool" bson:"tool"`
	AuthorID string  `json:"authorId" bson:"author_id"`
}

// DeepCopy returns an independent copy of the stroke.
func (s *Stroke) DeepCopy() *Stroke {
	if s == nil {
		return nil
	}

	clone := *s
	clone.Points = make([]Point, len(s.Points))
	copy(clone.Points, s.Points)
	return &clone
}

// Arrow is a straight arrow between two points. Its ID is always
// server-assigned; a client's temporary ID never survives confirmation.
type Arrow struct {
	ID       string     `json:"id" bson:"id"`
	X1       float64    `json:"x1" bson:"x1"`
	Y1       float64    `json:"y1" bson:"y1"`
	X2       float64    `json:"x2" bson:"x2"`
	Y2       float64    `json:"y2" bson:"y2"`
	Color    string     `json:"color" bson:"color"`
	Width    float64    `json:"width" bson:"width"`
	Style    ArrowStyle `json:"style" bson:"style"`
	AuthorID string     `json:"authorId" bson:"author_id"`
}

// DeepCopy returns an independent copy of the arrow.
func (a *Arrow) DeepCopy() *Arrow {
	if a == nil {
		return nil
	}

	clone := *a
	return &clone
}

// Token is a positioned, labeled piece on the pitch. Position and label are
// mutable in place; the ID is immutable and server-assigned at creation.
type Token struct {
	ID       string     `json:"id" bson:"id"`
	X        float64    `json:"x" bson:"x"`
	Y        float64    `json:"y" bson:"y"`
	Color    string     `json:"color" bson:"color"`
	Label    string     `json:"label" bson:"label"`
	Shape    TokenShape `json:"shape" bson:"shape"`
	AuthorID string     `json:"authorId" bson:"author_id"`
}

// DeepCopy returns an independent copy of the token.
func (t *Token) DeepCopy() *Token {
	if t == nil {
		return nil
	}

	clone := *t
	return &clone
}

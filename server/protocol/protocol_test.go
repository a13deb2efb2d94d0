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

package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tactix-team/tactix/server/protocol"
)

func TestMessage(t *testing.T) {
	t.Run("encode and decode round trip test", func(t *testing.T) {
		msg, err := protocol.NewMessage(protocol.EventTokenMove, protocol.TokenMove{
			ID: "token1",
			X:  12,
			Y:  34,
		})
		assert.NoError(t, err)

		encoded, err := msg.Encode()
		assert.NoError(t, err)

		decoded, err := protocol.Decode(encoded)
		assert.NoError(t, err)
		assert.Equal(t, protocol.EventTokenMove, decoded.Event)

		var payload protocol.TokenMove
		assert.NoError(t, decoded.Unmarshal(&payload))
		assert.Equal(t, "token1", payload.ID)
		assert.Equal(t, 12.0, payload.X)
		assert.Equal(t, 34.0, payload.Y)
	})

	t.Run("payload-less message test", func(t *testing.T) {
		msg, err := protocol.NewMessage(protocol.EventBoardCleared, nil)
		assert.NoError(t, err)
		assert.Empty(t, msg.Payload)

		encoded, err := msg.Encode()
		assert.NoError(t, err)
		assert.Equal(t, `{"event":"board-cleared"}`, string(encoded))

		var payload protocol.TokenMove
		assert.Error(t, msg.Unmarshal(&payload))
	})

	t.Run("decode rejects malformed messages test", func(t *testing.T) {
		_, err := protocol.Decode([]byte(`not json`))
		assert.Error(t, err)

		_, err = protocol.Decode([]byte(`{"payload":{}}`))
		assert.Error(t, err)
	})

	t.Run("unknown payload fields are ignored test", func(t *testing.T) {
		decoded, err := protocol.Decode([]byte(
			`{"event":"token-relabel","payload":{"id":"token1","label":"GK","extra":true}}`,
		))
		assert.NoError(t, err)

		var payload protocol.TokenRelabel
		assert.NoError(t, decoded.Unmarshal(&payload))
		assert.Equal(t, "GK", payload.Label)
	})
}

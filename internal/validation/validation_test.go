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

package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tactix-team/tactix/internal/validation"
)

func TestValidation(t *testing.T) {
	t.Run("username test", func(t *testing.T) {
		for _, name := range []string{"alice", "coach-1", "a b.c_d~e", "X"} {
			assert.NoError(t, validation.ValidateValue(name, "username"), name)
		}
		for _, name := range []string{"", strings.Repeat("a", 25), "bad!name", "né"} {
			assert.Error(t, validation.ValidateValue(name, "username"), name)
		}
	})

	t.Run("boardname test", func(t *testing.T) {
		for _, name := range []string{"4-4-2", "Counter press (v2)", "練習"} {
			assert.NoError(t, validation.ValidateValue(name, "boardname"), name)
		}
		for _, name := range []string{"", strings.Repeat("a", 65), "line\nbreak"} {
			assert.Error(t, validation.ValidateValue(name, "boardname"), name)
		}
	})

	t.Run("struct tags test", func(t *testing.T) {
		type join struct {
			Username string `validate:"required,username"`
		}

		assert.NoError(t, validation.ValidateStruct(&join{Username: "alice"}))
		assert.Error(t, validation.ValidateStruct(&join{}))
		assert.Error(t, validation.ValidateStruct(&join{Username: "bad!name"}))
	})
}

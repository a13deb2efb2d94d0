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

// Package validation provides validation of user-supplied values such as
// usernames and preset or recording names.
package validation

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	usernameRegexString  = `^[a-zA-Z0-9\-._~ ]{1,24}$`
	boardnameRegexString = `^[^\x00-\x1f]{1,64}$`
)

var (
	usernameRegex  = regexp.MustCompile(usernameRegexString)
	boardnameRegex = regexp.MustCompile(boardnameRegexString)
)

// defaultValidator validates fields provided by users, such as usernames
// and the names of stored presets and recordings.
var defaultValidator = validator.New()

// FieldLevel is the field level interface.
type FieldLevel = validator.FieldLevel

func init() {
	registerValidation("username", func(level FieldLevel) bool {
		return usernameRegex.MatchString(level.Field().String())
	})
	registerValidation("boardname", func(level FieldLevel) bool {
		return boardnameRegex.MatchString(level.Field().String())
	})
}

func registerValidation(tag string, fn validator.Func) {
	if err := defaultValidator.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %s: %s", tag, err))
	}
}

// ValidateStruct validates the `validate` tags of the given struct.
func ValidateStruct(v interface{}) error {
	if err := defaultValidator.Struct(v); err != nil {
		return fmt.Errorf("validate struct: %w", err)
	}
	return nil
}

// ValidateValue validates the value with the given tag.
func ValidateValue(v interface{}, tag string) error {
	if err := defaultValidator.Var(v, tag); err != nil {
		return fmt.Errorf("validate value: %w", err)
	}
	return nil
}

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

package backend

// Config is the configuration for creating a Backend instance.
type Config struct {
	// StateFile is the path of the JSON file behind the fallback store.
	// Used only when no MongoDB connection URI is configured; empty
	// disables the file and keeps the fallback store purely in memory.
	StateFile string `yaml:"StateFile"`
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	return nil
}

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

// Package sessions maps transport connections to user identities.
package sessions

// User is a connected participant. Users live only as long as their
// connection and are never persisted.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Color    string `json:"color"`
}

// Registry tracks the users of the connected sessions. It holds no lock of
// its own: the connection handler serializes every join/leave/list turn, so
// a reader can never observe a half-applied membership change.
type Registry struct {
	users map[string]*User
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		users: make(map[string]*User),
	}
}

// Join registers a user for the given connection. A prior entry for the
// same connection is overwritten in place, so a transport-level reconnect
// never produces a duplicate roster entry.
func (r *Registry) Join(connID, username, color string) *User {
	user := &User{
		ID:       connID,
		Username: username,
		Color:    color,
	}

	if _, ok := r.users[connID]; !ok {
		r.order = append(r.order, connID)
	}
	r.users[connID] = user
	return user
}

// Leave removes the user of the given connection and returns it. Leaving
// an unknown connection returns false.
func (r *Registry) Leave(connID string) (*User, bool) {
	user, ok := r.users[connID]
	if !ok {
		return nil, false
	}

	delete(r.users, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return user, true
}

// Get returns the user of the given connection.
func (r *Registry) Get(connID string) (*User, bool) {
	user, ok := r.users[connID]
	return user, ok
}

// List returns the current roster in join order.
func (r *Registry) List() []*User {
	users := make([]*User, 0, len(r.order))
	for _, id := range r.order {
		users = append(users, r.users[id])
	}
	return users
}

// Len returns the number of registered users.
func (r *Registry) Len() int {
	return len(r.users)
}

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

// Package mongo implements the database interface using MongoDB.
package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/tactix-team/tactix/server/backend/database"
)

const (
	colPresets    = "presets"
	colRecordings = "recordings"
)

// Client is a client that connects to MongoDB and reads or saves stored
// presets and recordings.
type Client struct {
	config *Config
	client *mongo.Client
}

// Dial creates an instance of Client and dials the given MongoDB.
func Dial(conf *Config) (*Client, error) {
	connTimeout, err := conf.ParseConnectionTimeout()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), connTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.ConnectionURI))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	pingTimeout, err := conf.ParsePingTimeout()
	if err != nil {
		return nil, err
	}

	ctxPing, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Client{
		config: conf,
		client: client,
	}, nil
}

// Close all resources of this client.
func (c *Client) Close() error {
	if err := c.client.Disconnect(context.Background()); err != nil {
		return fmt.Errorf("close mongo client: %w", err)
	}
	return nil
}

// LoadAllPresets returns all stored presets ordered by ID.
func (c *Client) LoadAllPresets(ctx context.Context) ([]*database.PresetInfo, error) {
	cursor, err := c.collection(colPresets).Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.M{"id": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("find presets: %w", err)
	}

	var infos []*database.PresetInfo
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("fetch presets: %w", err)
	}
	return infos, nil
}

// LoadAllRecordings returns all stored recordings ordered by ID.
func (c *Client) LoadAllRecordings(ctx context.Context) ([]*database.RecordingInfo, error) {
	cursor, err := c.collection(colRecordings).Find(
		ctx,
		bson.M{},
		options.Find().SetSort(bson.M{"id": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("find recordings: %w", err)
	}

	var infos []*database.RecordingInfo
	if err := cursor.All(ctx, &infos); err != nil {
		return nil, fmt.Errorf("fetch recordings: %w", err)
	}
	return infos, nil
}

// InsertPreset stores a new preset under its assigned ID.
func (c *Client) InsertPreset(ctx context.Context, info *database.PresetInfo) error {
	if _, err := c.collection(colPresets).InsertOne(ctx, info); err != nil {
		return fmt.Errorf("insert preset %d: %w", info.ID, err)
	}
	return nil
}

// InsertRecording stores a new recording under its assigned ID.
func (c *Client) InsertRecording(ctx context.Context, info *database.RecordingInfo) error {
	if _, err := c.collection(colRecordings).InsertOne(ctx, info); err != nil {
		return fmt.Errorf("insert recording %d: %w", info.ID, err)
	}
	return nil
}

// UpdatePreset renames the preset with the given ID.
func (c *Client) UpdatePreset(ctx context.Context, id int, name string) error {
	result, err := c.collection(colPresets).UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"name": name}},
	)
	if err != nil {
		return fmt.Errorf("update preset %d: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%d: %w", id, database.ErrPresetNotFound)
	}
	return nil
}

// UpdateRecording renames the recording with the given ID.
func (c *Client) UpdateRecording(ctx context.Context, id int, name string) error {
	result, err := c.collection(colRecordings).UpdateOne(
		ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"name": name}},
	)
	if err != nil {
		return fmt.Errorf("update recording %d: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("%d: %w", id, database.ErrRecordingNotFound)
	}
	return nil
}

// DeletePreset deletes the preset with the given ID.
func (c *Client) DeletePreset(ctx context.Context, id int) error {
	result, err := c.collection(colPresets).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete preset %d: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%d: %w", id, database.ErrPresetNotFound)
	}
	return nil
}

// DeleteRecording deletes the recording with the given ID.
func (c *Client) DeleteRecording(ctx context.Context, id int) error {
	result, err := c.collection(colRecordings).DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete recording %d: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%d: %w", id, database.ErrRecordingNotFound)
	}
	return nil
}

func (c *Client) collection(name string) *mongo.Collection {
	return c.client.Database(c.config.TactixDatabase).Collection(name)
}

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

// Package backend wires up the storage behind the server. The presence of
// a MongoDB connection URI selects the durable store; its absence falls
// back to the file-backed in-memory store.
package backend

import (
	"github.com/tactix-team/tactix/server/backend/database"
	memdb "github.com/tactix-team/tactix/server/backend/database/memory"
	"github.com/tactix-team/tactix/server/backend/database/mongo"
	"github.com/tactix-team/tactix/server/logging"
	"github.com/tactix-team/tactix/server/profiling/prometheus"
)

// Backend manages the server's storage and metrics.
type Backend struct {
	Config *Config

	// DB is the persistence gateway for presets and recordings.
	DB database.Database

	// Metrics is used to expose metrics.
	Metrics *prometheus.Metrics
}

// New creates a new instance of Backend.
func New(
	conf *Config,
	mongoConf *mongo.Config,
	metrics *prometheus.Metrics,
) (*Backend, error) {
	var db database.Database
	var err error
	if mongoConf != nil {
		db, err = mongo.Dial(mongoConf)
		if err != nil {
			return nil, err
		}
		logging.DefaultLogger().Infof(
			"backend: connected to mongo %s",
			mongoConf.ConnectionURI,
		)
	} else {
		db, err = memdb.New(conf.StateFile)
		if err != nil {
			return nil, err
		}
		logging.DefaultLogger().Infof(
			"backend: using file-backed store %q",
			conf.StateFile,
		)
	}

	return &Backend{
		Config:  conf,
		DB:      db,
		Metrics: metrics,
	}, nil
}

// Shutdown closes all resources of this backend.
func (b *Backend) Shutdown() error {
	return b.DB.Close()
}

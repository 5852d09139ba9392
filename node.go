// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package spritz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blinklabs-io/spritz/api"
	"github.com/blinklabs-io/spritz/database"
	"github.com/blinklabs-io/spritz/event"
	"github.com/blinklabs-io/spritz/ledger"
)

type Node struct {
	eventBus     *event.EventBus
	db           *database.Database
	ledger       *ledger.Ledger
	api          *api.Api
	workerCancel context.CancelFunc
	config       Config
	done         chan struct{}
	shutdownOnce sync.Once
}

func New(cfg Config) (*Node, error) {
	eventBus := event.NewEventBus(cfg.promRegistry, cfg.logger)
	n := &Node{
		config:   cfg,
		eventBus: eventBus,
		done:     make(chan struct{}),
	}
	if err := n.configValidate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return n, nil
}

func (n *Node) Run(ctx context.Context) error {
	// Load database
	db, err := database.New(database.Config{
		DataDir:          n.config.dataDir,
		SnapshotDir:      n.config.snapshotDir,
		SnapshotInterval: n.config.snapshotInterval,
		Logger:           n.config.logger,
		PromRegistry:     n.config.promRegistry,
	})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	n.db = db
	// Load ledger engine
	l, err := ledger.New(
		ledger.Config{
			BlockCapacity:  n.config.blockCapacity,
			FaucetAmount:   n.config.faucetAmount,
			FaucetCooldown: n.config.faucetCooldown,
			ActiveWindow:   n.config.statsWindow,
		},
		n.db,
		n.eventBus,
		n.config.logger,
		n.config.promRegistry,
	)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	n.ledger = l
	// Start stats worker
	workerCtx, workerCancel := context.WithCancel(ctx)
	n.workerCancel = workerCancel
	go n.ledger.RunStatsWorker(workerCtx, n.config.statsInterval)
	// Start API listener
	n.api = api.New(
		api.Config{
			ListenAddress: n.config.apiListenAddress,
		},
		n.ledger,
		n.config.logger,
	)
	if err := n.api.Start(ctx); err != nil {
		return fmt.Errorf("failed to start API listener: %w", err)
	}

	// Wait for shutdown signal
	select {
	case <-ctx.Done():
	case <-n.done:
	}
	return nil
}

func (n *Node) Stop() error {
	var err error
	n.shutdownOnce.Do(func() {
		err = n.shutdown()
	})
	return err
}

func (n *Node) shutdown() error {
	// Create shutdown context with timeout (default 30s if not configured)
	shutdownTimeout := 30 * time.Second
	if n.config.shutdownTimeout > 0 {
		shutdownTimeout = n.config.shutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var err error

	n.config.logger.Debug("starting graceful shutdown")

	// Stop accepting new requests
	if n.api != nil {
		if stopErr := n.api.Stop(ctx); stopErr != nil {
			err = errors.Join(err, fmt.Errorf("api shutdown: %w", stopErr))
		}
	}

	// Stop background workers
	if n.workerCancel != nil {
		n.workerCancel()
	}
	if n.eventBus != nil {
		n.eventBus.Stop()
	}

	// Flush state and close database
	if n.db != nil {
		if closeErr := n.db.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("database close: %w", closeErr))
		}
	}

	n.config.logger.Debug("graceful shutdown complete")
	close(n.done)
	return err
}

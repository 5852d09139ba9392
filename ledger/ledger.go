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

package ledger

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/blinklabs-io/spritz/database"
	"github.com/blinklabs-io/spritz/database/models"
	"github.com/blinklabs-io/spritz/event"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultBlockCapacity  = 10
	DefaultFaucetAmount   = 100.0
	DefaultFaucetCooldown = 24 * time.Hour
	DefaultActiveWindow   = time.Hour
)

// Config holds the tunables for the ledger engine
type Config struct {
	// BlockCapacity is the number of transactions per display block
	BlockCapacity uint
	// FaucetAmount is the balance granted per faucet claim
	FaucetAmount float64
	// FaucetCooldown is the minimum time between faucet claims per device
	FaucetCooldown time.Duration
	// ActiveWindow is the trailing window used to classify devices as active
	ActiveWindow time.Duration
	// Now overrides the clock, used for testing
	Now func() time.Time
}

func (c *Config) applyDefaults() {
	if c.BlockCapacity == 0 {
		c.BlockCapacity = DefaultBlockCapacity
	}
	if c.FaucetAmount == 0 {
		c.FaucetAmount = DefaultFaucetAmount
	}
	if c.FaucetCooldown == 0 {
		c.FaucetCooldown = DefaultFaucetCooldown
	}
	if c.ActiveWindow == 0 {
		c.ActiveWindow = DefaultActiveWindow
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Ledger is the engine that keeps device balances, mining sessions, faucet
// cooldowns, and the transaction/block log mutually consistent. All mutating
// operations are serialized through a single write lock and each runs inside
// one store transaction, so concurrent requests never observe a partial
// mutation and no two operations can both read the same pre-mutation balance.
type Ledger struct {
	config  Config
	db      *database.Database
	events  *event.EventBus
	logger  *slog.Logger
	metrics *ledgerMetrics
	// mu serializes every mutating operation against the store
	mu sync.Mutex
}

// New creates a ledger engine over the given store and initializes the
// genesis block on first run.
func New(
	cfg Config,
	db *database.Database,
	eventBus *event.EventBus,
	logger *slog.Logger,
	promRegistry prometheus.Registerer,
) (*Ledger, error) {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	l := &Ledger{
		config: cfg,
		db:     db,
		events: eventBus,
		logger: logger.With("component", "ledger"),
	}
	if promRegistry != nil {
		l.metrics = registerLedgerMetrics(promRegistry)
	}
	if err := l.bootstrap(); err != nil {
		return nil, fmt.Errorf("ledger bootstrap: %w", err)
	}
	return l, nil
}

func (l *Ledger) nowMs() int64 {
	return l.config.Now().UnixMilli()
}

// bootstrap creates the genesis block and its single genesis transaction on
// an empty store, and seeds the static stats. Idempotent across restarts.
func (l *Ledger) bootstrap() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	nowMs := l.nowMs()
	txn := l.db.Transaction(true)
	return txn.Do(func(txn *database.Txn) error {
		tx := txn.Tx()
		latest, err := l.db.GetLatestBlock(tx)
		if err != nil {
			return err
		}
		if latest == nil {
			genesis := &models.Block{
				Number:       0,
				Hash:         blockHash(0, models.GenesisPreviousHash, nowMs),
				PreviousHash: models.GenesisPreviousHash,
				TxCount:      1,
				Timestamp:    nowMs,
			}
			if err := l.db.CreateBlock(genesis, tx); err != nil {
				return err
			}
			genesisTx := &models.Transaction{
				TxID:        newTxId(),
				Type:        models.TxTypeGenesis,
				FromDevice:  models.SentinelGenesis,
				ToDevice:    models.SentinelSystem,
				Amount:      0,
				Timestamp:   nowMs,
				BlockNumber: 0,
			}
			if err := l.db.CreateTransaction(genesisTx, tx); err != nil {
				return err
			}
			l.logger.Info(
				"created genesis block",
				"hash", genesis.Hash,
			)
		}
		// founder_percentage is a static display value seeded once
		return l.db.SeedStat(
			models.StatFounderPercentage,
			"5.71",
			nowMs,
			tx,
		)
	})
}

// publishTransaction emits a transaction event after a successful commit
func (l *Ledger) publishTransaction(tx *models.Transaction) {
	if l.events == nil {
		return
	}
	l.events.PublishAsync(
		event.TransactionEventType,
		event.NewEvent(
			event.TransactionEventType,
			event.TransactionEvent{
				TxID:        tx.TxID,
				Type:        string(tx.Type),
				FromDevice:  tx.FromDevice,
				ToDevice:    tx.ToDevice,
				Amount:      tx.Amount,
				BlockNumber: tx.BlockNumber,
				Timestamp:   tx.Timestamp,
			},
		),
	)
}

func (l *Ledger) observeOp(op string, err error) {
	if l.metrics == nil {
		return
	}
	l.metrics.operationsTotal.WithLabelValues(op).Inc()
	if err != nil {
		l.metrics.operationErrors.WithLabelValues(op).Inc()
	}
}

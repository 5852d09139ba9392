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
	"context"
	"strconv"
	"time"

	"github.com/blinklabs-io/spritz/database"
	"github.com/blinklabs-io/spritz/database/models"
	"github.com/blinklabs-io/spritz/event"
)

// NetworkStats is the aggregate snapshot exposed to callers. It is a pure
// function of the store contents at recomputation time and feeds back into
// nothing; in particular TotalHashRate is a display metric, not a real
// measurement.
type NetworkStats struct {
	TotalBlocks       int64
	TotalUsers        int64
	ActiveUsers       int64
	TotalTransactions int64
	TotalHashRate     float64
	FounderPercentage float64
	LastUpdated       int64
}

// RecomputeStats recalculates all derived counters from the store and
// overwrites the previous snapshot. Safe to call at any time and from
// multiple goroutines; reads and writes run in a single store transaction so
// the counters never mix pre- and post-state of an in-flight mutation.
func (l *Ledger) RecomputeStats() (*NetworkStats, error) {
	nowMs := l.nowMs()
	activeSinceMs := nowMs - l.config.ActiveWindow.Milliseconds()
	var ret NetworkStats
	txn := l.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		tx := txn.Tx()
		totalUsers, err := l.db.CountDevices(tx)
		if err != nil {
			return err
		}
		activeUsers, err := l.db.CountActiveDevices(activeSinceMs, tx)
		if err != nil {
			return err
		}
		totalTxs, err := l.db.CountTransactions(tx)
		if err != nil {
			return err
		}
		totalBlocks, err := l.db.CountBlocks(tx)
		if err != nil {
			return err
		}
		hashRate, err := l.db.SumActiveMiningRates(activeSinceMs, tx)
		if err != nil {
			return err
		}
		ret = NetworkStats{
			TotalBlocks:       totalBlocks,
			TotalUsers:        totalUsers,
			ActiveUsers:       activeUsers,
			TotalTransactions: totalTxs,
			TotalHashRate:     roundTokens(hashRate),
			LastUpdated:       nowMs,
		}
		for key, value := range map[string]string{
			models.StatTotalBlocks:       strconv.FormatInt(totalBlocks, 10),
			models.StatTotalUsers:        strconv.FormatInt(totalUsers, 10),
			models.StatActiveUsers:       strconv.FormatInt(activeUsers, 10),
			models.StatTotalTransactions: strconv.FormatInt(totalTxs, 10),
			models.StatTotalHashRate: strconv.FormatFloat(
				ret.TotalHashRate, 'f', -1, 64,
			),
		} {
			if err := l.db.SetStat(key, value, nowMs, tx); err != nil {
				return err
			}
		}
		return nil
	})
	l.observeOp("stats_recompute", err)
	if err != nil {
		return nil, err
	}
	ret.FounderPercentage = l.founderPercentage()
	return &ret, nil
}

// GetStats returns the last committed aggregate snapshot
func (l *Ledger) GetStats() (*NetworkStats, error) {
	rows, err := l.db.GetStats(nil)
	if err != nil {
		return nil, err
	}
	var ret NetworkStats
	for _, row := range rows {
		if row.UpdatedAt > ret.LastUpdated {
			ret.LastUpdated = row.UpdatedAt
		}
		switch row.Key {
		case models.StatTotalBlocks:
			ret.TotalBlocks, _ = strconv.ParseInt(row.Value, 10, 64)
		case models.StatTotalUsers:
			ret.TotalUsers, _ = strconv.ParseInt(row.Value, 10, 64)
		case models.StatActiveUsers:
			ret.ActiveUsers, _ = strconv.ParseInt(row.Value, 10, 64)
		case models.StatTotalTransactions:
			ret.TotalTransactions, _ = strconv.ParseInt(row.Value, 10, 64)
		case models.StatTotalHashRate:
			ret.TotalHashRate, _ = strconv.ParseFloat(row.Value, 64)
		case models.StatFounderPercentage:
			ret.FounderPercentage, _ = strconv.ParseFloat(row.Value, 64)
		}
	}
	return &ret, nil
}

func (l *Ledger) founderPercentage() float64 {
	rows, err := l.db.GetStats(nil)
	if err != nil {
		return 0
	}
	for _, row := range rows {
		if row.Key == models.StatFounderPercentage {
			v, _ := strconv.ParseFloat(row.Value, 64)
			return v
		}
	}
	return 0
}

// RunStatsWorker keeps the aggregate snapshot fresh until ctx is cancelled.
// It recomputes on a fixed interval and additionally after every committed
// transaction, delivered through the event bus. The worker communicates with
// the engine only through the store, so it can run alongside mutations.
func (l *Ledger) RunStatsWorker(
	ctx context.Context,
	interval time.Duration,
) {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	var subId event.EventSubscriberId
	if l.events != nil {
		subId = l.events.SubscribeFunc(
			event.TransactionEventType,
			func(_ event.Event) {
				if _, err := l.RecomputeStats(); err != nil {
					l.logger.Error(
						"stats recompute after transaction failed",
						"error", err,
					)
				}
			},
		)
	}
	// Initial snapshot so stats are available before the first tick
	if _, err := l.RecomputeStats(); err != nil {
		l.logger.Error("initial stats recompute failed", "error", err)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if l.events != nil {
				l.events.Unsubscribe(event.TransactionEventType, subId)
			}
			return
		case <-ticker.C:
			if _, err := l.RecomputeStats(); err != nil {
				l.logger.Error("periodic stats recompute failed", "error", err)
			}
		}
	}
}

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
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/blinklabs-io/spritz/database/models"
	"gorm.io/gorm"
)

// blockHash computes the display hash for a block. The hash chain is never
// verified anywhere; sha256 is used only because it is stable and cheap.
func blockHash(number uint64, previousHash string, timestampMs int64) string {
	sum := sha256.Sum256(
		fmt.Appendf(nil, "%d|%s|%d", number, previousHash, timestampMs),
	)
	return hex.EncodeToString(sum[:])
}

// appendTransaction assigns the given transaction to the open block and
// writes it to the log, rolling over to a new block when the open block is at
// capacity. Must be called inside a ledger operation's store transaction,
// under the write lock, so block numbers stay contiguous and reflect commit
// order.
func (l *Ledger) appendTransaction(
	tx *gorm.DB,
	record *models.Transaction,
	nowMs int64,
) error {
	open, err := l.db.GetLatestBlock(tx)
	if err != nil {
		return err
	}
	if open == nil {
		return errors.New("no open block: ledger not bootstrapped")
	}
	if open.TxCount >= uint(l.config.BlockCapacity) {
		// Close the current block implicitly and open a new one chained to
		// its hash
		next := &models.Block{
			Number:       open.Number + 1,
			PreviousHash: open.Hash,
			Timestamp:    nowMs,
		}
		next.Hash = blockHash(next.Number, next.PreviousHash, nowMs)
		if err := l.db.CreateBlock(next, tx); err != nil {
			return err
		}
		open = next
	}
	record.BlockNumber = open.Number
	if err := l.db.CreateTransaction(record, tx); err != nil {
		return err
	}
	if err := l.db.IncrementBlockTxCount(open.Number, tx); err != nil {
		return err
	}
	if l.metrics != nil {
		l.metrics.blockHeight.Set(float64(open.Number))
	}
	return nil
}

// ListBlocks returns up to limit blocks, newest first
func (l *Ledger) ListBlocks(limit int) ([]models.Block, error) {
	return l.db.GetBlocks(clampLimit(limit), nil)
}

// ListTransactions returns up to limit transactions, newest first
func (l *Ledger) ListTransactions(limit int) ([]models.Transaction, error) {
	return l.db.GetTransactions(clampLimit(limit), nil)
}

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}

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

package database

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/spritz/database/models"
	"gorm.io/gorm"
)

// GetLatestBlock returns the block with the highest number (the open block),
// or nil if no blocks exist yet
func (d *Database) GetLatestBlock(txn *gorm.DB) (*models.Block, error) {
	ret := &models.Block{}
	if txn == nil {
		txn = d.DB()
	}
	result := txn.Order("number DESC").First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// CreateBlock inserts a new block row
func (d *Database) CreateBlock(
	block *models.Block,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	if result := db.Create(block); result.Error != nil {
		return fmt.Errorf("failed to create block: %w", result.Error)
	}
	return nil
}

// IncrementBlockTxCount bumps the transaction count of the given block
func (d *Database) IncrementBlockTxCount(
	blockNumber uint64,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	result := db.Model(&models.Block{}).
		Where("number = ?", blockNumber).
		Update("tx_count", gorm.Expr("tx_count + 1"))
	if result.Error != nil {
		return fmt.Errorf(
			"failed to increment block tx count: %w",
			result.Error,
		)
	}
	return nil
}

// GetBlocks returns up to limit blocks, newest first
func (d *Database) GetBlocks(
	limit int,
	txn *gorm.DB,
) ([]models.Block, error) {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	var ret []models.Block
	result := db.Order("number DESC").Limit(limit).Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// CountBlocks returns the total number of blocks
func (d *Database) CountBlocks(txn *gorm.DB) (int64, error) {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	var count int64
	result := db.Model(&models.Block{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

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

// CreateTransaction appends an immutable transaction log entry
func (d *Database) CreateTransaction(
	tx *models.Transaction,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	if result := db.Create(tx); result.Error != nil {
		return fmt.Errorf("failed to create transaction: %w", result.Error)
	}
	return nil
}

// GetTransactionByTxID returns the transaction with the given public ID, or
// nil if no such transaction exists
func (d *Database) GetTransactionByTxID(
	txId string,
	txn *gorm.DB,
) (*models.Transaction, error) {
	ret := &models.Transaction{}
	if txn == nil {
		txn = d.DB()
	}
	result := txn.Where("tx_id = ?", txId).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// GetTransactions returns up to limit transactions, newest first
func (d *Database) GetTransactions(
	limit int,
	txn *gorm.DB,
) ([]models.Transaction, error) {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	var ret []models.Transaction
	result := db.Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

// CountTransactions returns the total number of transaction log entries
func (d *Database) CountTransactions(txn *gorm.DB) (int64, error) {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	var count int64
	result := db.Model(&models.Transaction{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

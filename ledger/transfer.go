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
	"github.com/blinklabs-io/spritz/database"
	"github.com/blinklabs-io/spritz/database/models"
)

// TransferResult is returned by Transfer
type TransferResult struct {
	SenderBalance    float64
	RecipientBalance float64
	TxID             string
}

// Transfer atomically moves amount from one device to another. An unknown
// recipient is auto-provisioned with a zero balance and a derived mining
// rate, without a separate registration transaction. The debit and credit
// commit together or not at all.
func (l *Ledger) Transfer(
	fromId string,
	toId string,
	amount float64,
) (*TransferResult, error) {
	if fromId == "" || toId == "" {
		return nil, ErrEmptyDeviceId
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if fromId == toId {
		return nil, ErrSelfTransfer
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	nowMs := l.nowMs()
	amount = roundTokens(amount)
	var ret TransferResult
	var logTx *models.Transaction
	txn := l.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		tx := txn.Tx()
		sender, err := l.db.GetDevice(fromId, tx)
		if err != nil {
			return err
		}
		if sender == nil {
			return ErrDeviceNotFound
		}
		if sender.Balance < amount {
			return InsufficientBalanceError{
				Balance: sender.Balance,
				Amount:  amount,
			}
		}
		recipient, err := l.db.GetDevice(toId, tx)
		if err != nil {
			return err
		}
		if recipient == nil {
			// Auto-provision the recipient. This deliberately does not log a
			// registration transaction; the transfer itself is the record.
			recipient = &models.Device{
				ID:           toId,
				Balance:      0,
				MiningRate:   miningRateForDevice(toId),
				LastActivity: nowMs,
				CreatedAt:    nowMs,
			}
			if err := l.db.CreateDevice(recipient, tx); err != nil {
				return err
			}
		}
		if err := sender.Debit(amount); err != nil {
			return err
		}
		if err := recipient.Credit(amount); err != nil {
			return err
		}
		sender.TotalSent += amount
		recipient.TotalReceived += amount
		sender.Touch(nowMs)
		recipient.Touch(nowMs)
		if err := l.db.UpdateDevice(sender, tx); err != nil {
			return err
		}
		if err := l.db.UpdateDevice(recipient, tx); err != nil {
			return err
		}
		logTx = &models.Transaction{
			TxID:       newTxId(),
			Type:       models.TxTypeTransfer,
			FromDevice: fromId,
			ToDevice:   toId,
			Amount:     amount,
			Timestamp:  nowMs,
		}
		if err := l.appendTransaction(tx, logTx, nowMs); err != nil {
			return err
		}
		ret = TransferResult{
			SenderBalance:    sender.Balance,
			RecipientBalance: recipient.Balance,
			TxID:             logTx.TxID,
		}
		return nil
	})
	l.observeOp("transfer", err)
	if err != nil {
		return nil, err
	}
	l.publishTransaction(logTx)
	return &ret, nil
}

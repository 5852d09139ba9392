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

	"github.com/blinklabs-io/spritz/database"
	"github.com/blinklabs-io/spritz/database/models"
	"gorm.io/gorm"
)

// RegisterResult is returned by Register
type RegisterResult struct {
	DeviceId        string
	Balance         float64
	MiningRate      float64
	LastFaucetClaim int64
	TxID            string
	// Reconnected is true when an existing device was found and refreshed
	// instead of a new one being created
	Reconnected bool
}

// Register creates a new device, or refreshes an existing one when a known
// existingId is supplied (the "reconnect" path). Reconnecting is idempotent:
// it writes no new row and appends no transaction. A fresh registration
// appends a zero-amount registration transaction from the system sentinel.
func (l *Ledger) Register(existingId string) (*RegisterResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	nowMs := l.nowMs()
	var ret RegisterResult
	var logTx *models.Transaction
	txn := l.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		tx := txn.Tx()
		if existingId != "" {
			device, err := l.db.GetDevice(existingId, tx)
			if err != nil {
				return err
			}
			if device != nil {
				device.Touch(nowMs)
				if err := l.db.UpdateDevice(device, tx); err != nil {
					return err
				}
				ret = RegisterResult{
					DeviceId:        device.ID,
					Balance:         device.Balance,
					MiningRate:      device.MiningRate,
					LastFaucetClaim: device.LastFaucetClaim,
					Reconnected:     true,
				}
				return nil
			}
			// Unknown ID falls through to a fresh registration
		}
		device, err := l.allocateDevice(tx, nowMs)
		if err != nil {
			return err
		}
		logTx = &models.Transaction{
			TxID:       newTxId(),
			Type:       models.TxTypeRegistration,
			FromDevice: models.SentinelSystem,
			ToDevice:   device.ID,
			Amount:     0,
			Timestamp:  nowMs,
		}
		if err := l.appendTransaction(tx, logTx, nowMs); err != nil {
			return err
		}
		ret = RegisterResult{
			DeviceId:   device.ID,
			Balance:    device.Balance,
			MiningRate: device.MiningRate,
			TxID:       logTx.TxID,
		}
		return nil
	})
	l.observeOp("register", err)
	if err != nil {
		return nil, err
	}
	if logTx != nil {
		l.publishTransaction(logTx)
	}
	return &ret, nil
}

// allocateDevice inserts a fresh device row with a generated ID that is
// checked against the store for collisions, not merely assumed unique.
func (l *Ledger) allocateDevice(
	tx *gorm.DB,
	nowMs int64,
) (*models.Device, error) {
	var deviceId string
	for {
		deviceId = newDeviceId()
		existing, err := l.db.GetDevice(deviceId, tx)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			break
		}
	}
	device := &models.Device{
		ID:           deviceId,
		Balance:      0,
		MiningRate:   miningRateForDevice(deviceId),
		LastActivity: nowMs,
		CreatedAt:    nowMs,
	}
	if err := l.db.CreateDevice(device, tx); err != nil {
		return nil, fmt.Errorf("failed to allocate device: %w", err)
	}
	return device, nil
}

// Balance returns the current balance for a device
func (l *Ledger) Balance(deviceId string) (float64, error) {
	if deviceId == "" {
		return 0, ErrEmptyDeviceId
	}
	device, err := l.db.GetDevice(deviceId, nil)
	if err != nil {
		return 0, err
	}
	if device == nil {
		return 0, ErrDeviceNotFound
	}
	return device.Balance, nil
}

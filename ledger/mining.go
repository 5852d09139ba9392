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
	"github.com/google/uuid"
)

// StartMiningResult is returned by StartMining
type StartMiningResult struct {
	SessionId  string
	MiningRate float64
	StartTime  int64
}

// StopMiningResult is returned by StopMining
type StopMiningResult struct {
	Earned          float64
	DurationMinutes float64
	NewBalance      float64
	TxID            string
}

// StartMining opens a mining session for a device. A device can hold at most
// one active session; starting a second one fails. No balance changes and no
// transaction is logged until the session is settled by StopMining.
func (l *Ledger) StartMining(deviceId string) (*StartMiningResult, error) {
	if deviceId == "" {
		return nil, ErrEmptyDeviceId
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	nowMs := l.nowMs()
	var ret StartMiningResult
	txn := l.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		tx := txn.Tx()
		device, err := l.db.GetDevice(deviceId, tx)
		if err != nil {
			return err
		}
		if device == nil {
			return ErrDeviceNotFound
		}
		active, err := l.db.GetActiveSession(deviceId, tx)
		if err != nil {
			return err
		}
		if active != nil {
			return ErrMiningActive
		}
		session := &models.MiningSession{
			ID:        uuid.NewString(),
			DeviceID:  deviceId,
			Status:    models.SessionStatusActive,
			StartTime: nowMs,
		}
		if err := l.db.CreateSession(session, tx); err != nil {
			return err
		}
		device.Touch(nowMs)
		if err := l.db.UpdateDevice(device, tx); err != nil {
			return err
		}
		ret = StartMiningResult{
			SessionId:  session.ID,
			MiningRate: device.MiningRate,
			StartTime:  nowMs,
		}
		return nil
	})
	l.observeOp("mining_start", err)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

// StopMining settles the active mining session for a device: the session
// becomes immutable history and the device is credited with
// duration-in-minutes times its mining rate, rounded to 4 decimal places.
// This is one of only two emission points in the system (the other is the
// faucet).
func (l *Ledger) StopMining(deviceId string) (*StopMiningResult, error) {
	if deviceId == "" {
		return nil, ErrEmptyDeviceId
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	nowMs := l.nowMs()
	var ret StopMiningResult
	var logTx *models.Transaction
	txn := l.db.Transaction(true)
	err := txn.Do(func(txn *database.Txn) error {
		tx := txn.Tx()
		device, err := l.db.GetDevice(deviceId, tx)
		if err != nil {
			return err
		}
		if device == nil {
			return ErrDeviceNotFound
		}
		session, err := l.db.GetActiveSession(deviceId, tx)
		if err != nil {
			return err
		}
		if session == nil {
			return ErrNoActiveSession
		}
		durationMs := nowMs - session.StartTime
		if durationMs < 0 {
			// Wall clock stepped backwards; never settle a negative duration
			durationMs = 0
		}
		durationMinutes := float64(durationMs) / 60000
		earned := roundTokens(durationMinutes * device.MiningRate)

		logTx = &models.Transaction{
			TxID:       newTxId(),
			Type:       models.TxTypeMiningReward,
			FromDevice: models.SentinelMiningPool,
			ToDevice:   deviceId,
			Amount:     earned,
			Timestamp:  nowMs,
		}

		session.Status = models.SessionStatusCompleted
		session.EndTime = nowMs
		session.DurationMinutes = durationMinutes
		session.TokensEarned = earned
		session.TxID = logTx.TxID
		if err := l.db.UpdateSession(session, tx); err != nil {
			return err
		}
		if err := device.Credit(earned); err != nil {
			return err
		}
		device.TotalMined += earned
		device.Touch(nowMs)
		if err := l.db.UpdateDevice(device, tx); err != nil {
			return err
		}
		if err := l.appendTransaction(tx, logTx, nowMs); err != nil {
			return err
		}
		ret = StopMiningResult{
			Earned:          earned,
			DurationMinutes: durationMinutes,
			NewBalance:      device.Balance,
			TxID:            logTx.TxID,
		}
		return nil
	})
	l.observeOp("mining_stop", err)
	if err != nil {
		return nil, err
	}
	l.publishTransaction(logTx)
	return &ret, nil
}

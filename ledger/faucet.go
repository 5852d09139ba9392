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
	"time"

	"github.com/blinklabs-io/spritz/database"
	"github.com/blinklabs-io/spritz/database/models"
)

// FaucetResult is returned by ClaimFaucet
type FaucetResult struct {
	Amount     float64
	NewBalance float64
	TxID       string
}

// ClaimFaucet grants the configured faucet amount to a device, at most once
// per cooldown window. The window is evaluated against the stored claim
// timestamp only; the server clock is authoritative.
func (l *Ledger) ClaimFaucet(deviceId string) (*FaucetResult, error) {
	if deviceId == "" {
		return nil, ErrEmptyDeviceId
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	nowMs := l.nowMs()
	cooldownMs := l.config.FaucetCooldown.Milliseconds()
	var ret FaucetResult
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
		if device.LastFaucetClaim > 0 {
			elapsed := nowMs - device.LastFaucetClaim
			if elapsed < cooldownMs {
				return CooldownError{
					Remaining: time.Duration(cooldownMs-elapsed) *
						time.Millisecond,
				}
			}
		}
		if err := device.Credit(l.config.FaucetAmount); err != nil {
			return err
		}
		device.TotalReceived += l.config.FaucetAmount
		device.LastFaucetClaim = nowMs
		device.Touch(nowMs)
		if err := l.db.UpdateDevice(device, tx); err != nil {
			return err
		}
		logTx = &models.Transaction{
			TxID:       newTxId(),
			Type:       models.TxTypeFaucet,
			FromDevice: models.SentinelFaucetPool,
			ToDevice:   deviceId,
			Amount:     l.config.FaucetAmount,
			Timestamp:  nowMs,
		}
		if err := l.appendTransaction(tx, logTx, nowMs); err != nil {
			return err
		}
		ret = FaucetResult{
			Amount:     l.config.FaucetAmount,
			NewBalance: device.Balance,
			TxID:       logTx.TxID,
		}
		return nil
	})
	l.observeOp("faucet_claim", err)
	if err != nil {
		return nil, err
	}
	l.publishTransaction(logTx)
	return &ret, nil
}

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

package models

import "errors"

var ErrNegativeBalance = errors.New("device balance cannot go negative")

// Device is an anonymous ledger participant. Devices are created on first
// registration (or when named as an unknown transfer recipient) and are never
// deleted. Balance and the cumulative totals only change through ledger
// operations, which run under the store's write discipline.
//
// All timestamps are Unix milliseconds. LastFaucetClaim is 0 until the first
// faucet claim.
type Device struct {
	ID              string  `gorm:"primarykey;size:32"`
	Balance         float64 `gorm:"not null;default:0"`
	MiningRate      float64 `gorm:"not null"`
	TotalMined      float64 `gorm:"not null;default:0"`
	TotalSent       float64 `gorm:"not null;default:0"`
	TotalReceived   float64 `gorm:"not null;default:0"`
	LastFaucetClaim int64   `gorm:"not null;default:0"`
	LastActivity    int64   `gorm:"index;not null"`
	CreatedAt       int64   `gorm:"not null"`
}

func (Device) TableName() string {
	return "device"
}

// Credit adds amount to the device balance. Negative amounts are rejected so
// that Debit remains the only way to reduce a balance.
func (d *Device) Credit(amount float64) error {
	if amount < 0 {
		return ErrNegativeBalance
	}
	d.Balance += amount
	return nil
}

// Debit removes amount from the device balance, failing if the result would
// be negative.
func (d *Device) Debit(amount float64) error {
	if amount < 0 || d.Balance < amount {
		return ErrNegativeBalance
	}
	d.Balance -= amount
	return nil
}

// Touch updates the last-activity timestamp, keeping it monotonically
// non-decreasing per device.
func (d *Device) Touch(nowMs int64) {
	if nowMs > d.LastActivity {
		d.LastActivity = nowMs
	}
}

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

// GetActiveSession returns the active mining session for a device, or nil if
// the device is idle
func (d *Database) GetActiveSession(
	deviceId string,
	txn *gorm.DB,
) (*models.MiningSession, error) {
	ret := &models.MiningSession{}
	if txn == nil {
		txn = d.DB()
	}
	result := txn.Where(
		"device_id = ? AND status = ?",
		deviceId,
		models.SessionStatusActive,
	).Order("start_time DESC").First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// CreateSession inserts a new mining session row
func (d *Database) CreateSession(
	session *models.MiningSession,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	if result := db.Create(session); result.Error != nil {
		return fmt.Errorf("failed to create mining session: %w", result.Error)
	}
	return nil
}

// UpdateSession persists all fields of an existing mining session row. This
// is used exactly once per session, when it is settled.
func (d *Database) UpdateSession(
	session *models.MiningSession,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	if result := db.Save(session); result.Error != nil {
		return fmt.Errorf("failed to update mining session: %w", result.Error)
	}
	return nil
}

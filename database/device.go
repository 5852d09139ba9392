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

// GetDevice returns the device with the given ID, or nil if no such device
// exists
func (d *Database) GetDevice(
	deviceId string,
	txn *gorm.DB,
) (*models.Device, error) {
	ret := &models.Device{}
	if txn == nil {
		txn = d.DB()
	}
	result := txn.Where("id = ?", deviceId).First(ret)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, result.Error
	}
	return ret, nil
}

// CreateDevice inserts a new device row
func (d *Database) CreateDevice(
	device *models.Device,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	if result := db.Create(device); result.Error != nil {
		return fmt.Errorf("failed to create device: %w", result.Error)
	}
	return nil
}

// UpdateDevice persists all fields of an existing device row
func (d *Database) UpdateDevice(
	device *models.Device,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	if result := db.Save(device); result.Error != nil {
		return fmt.Errorf("failed to update device: %w", result.Error)
	}
	return nil
}

// CountDevices returns the total number of device rows
func (d *Database) CountDevices(txn *gorm.DB) (int64, error) {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	var count int64
	result := db.Model(&models.Device{}).Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// CountActiveDevices returns the number of devices whose last activity is at
// or after sinceMs
func (d *Database) CountActiveDevices(
	sinceMs int64,
	txn *gorm.DB,
) (int64, error) {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	var count int64
	result := db.Model(&models.Device{}).
		Where("last_activity >= ?", sinceMs).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// SumActiveMiningRates returns the sum of mining rates over devices whose
// last activity is at or after sinceMs
func (d *Database) SumActiveMiningRates(
	sinceMs int64,
	txn *gorm.DB,
) (float64, error) {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	var sum *float64
	result := db.Model(&models.Device{}).
		Select("SUM(mining_rate)").
		Where("last_activity >= ?", sinceMs).
		Scan(&sum)
	if result.Error != nil {
		return 0, result.Error
	}
	if sum == nil {
		return 0, nil
	}
	return *sum, nil
}

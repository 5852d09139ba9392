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
	"fmt"

	"github.com/blinklabs-io/spritz/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SetStat writes (or overwrites) a single aggregate stat scalar
func (d *Database) SetStat(
	key string,
	value string,
	updatedAtMs int64,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	stat := models.NetworkStat{
		Key:       key,
		Value:     value,
		UpdatedAt: updatedAtMs,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&stat)
	if result.Error != nil {
		return fmt.Errorf("failed to set stat %q: %w", key, result.Error)
	}
	return nil
}

// SeedStat writes a stat scalar only if it does not already exist. Used for
// static values seeded once at initialization.
func (d *Database) SeedStat(
	key string,
	value string,
	updatedAtMs int64,
	txn *gorm.DB,
) error {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	stat := models.NetworkStat{
		Key:       key,
		Value:     value,
		UpdatedAt: updatedAtMs,
	}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoNothing: true,
	}).Create(&stat)
	if result.Error != nil {
		return fmt.Errorf("failed to seed stat %q: %w", key, result.Error)
	}
	return nil
}

// GetStats returns all aggregate stat rows
func (d *Database) GetStats(txn *gorm.DB) ([]models.NetworkStat, error) {
	db := d.DB()
	if txn != nil {
		db = txn
	}
	var ret []models.NetworkStat
	result := db.Order("key ASC").Find(&ret)
	if result.Error != nil {
		return nil, result.Error
	}
	return ret, nil
}

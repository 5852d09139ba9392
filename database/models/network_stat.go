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

// Well-known network stat keys
const (
	StatTotalBlocks       = "total_blocks"
	StatTotalUsers        = "total_users"
	StatActiveUsers       = "active_users"
	StatTotalTransactions = "total_transactions"
	StatTotalHashRate     = "total_hash_rate"
	StatFounderPercentage = "founder_percentage"
)

// NetworkStat is a single aggregate scalar. Stats are never authoritative;
// they are recomputed from the other entities and the latest snapshot simply
// overwrites the previous one.
type NetworkStat struct {
	Key       string `gorm:"primarykey;size:32"`
	Value     string `gorm:"size:64;not null"`
	UpdatedAt int64  `gorm:"not null"`
}

func (NetworkStat) TableName() string {
	return "network_stat"
}

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

// TxType identifies what kind of ledger operation produced a transaction
type TxType string

const (
	TxTypeGenesis      TxType = "genesis"
	TxTypeRegistration TxType = "registration"
	TxTypeMiningReward TxType = "mining_reward"
	TxTypeFaucet       TxType = "faucet"
	TxTypeTransfer     TxType = "transfer"
)

// Sentinel counterparty labels. These are display labels, not device rows,
// and are exempt from balance invariants.
const (
	SentinelSystem     = "system"
	SentinelFaucetPool = "faucet_pool"
	SentinelMiningPool = "mining_pool"
	SentinelGenesis    = "genesis_block"
)

// Transaction is an immutable ledger log entry. Exactly one is written per
// mutating operation and none are ever updated or deleted.
type Transaction struct {
	ID          uint   `gorm:"primarykey"`
	TxID        string `gorm:"uniqueIndex;size:16;not null"`
	Type        TxType `gorm:"index;size:16;not null"`
	FromDevice  string `gorm:"index;size:32;not null"`
	ToDevice    string `gorm:"index;size:32;not null"`
	Amount      float64
	Timestamp   int64  `gorm:"index;not null"`
	BlockNumber uint64 `gorm:"index;not null"`
	Metadata    string `gorm:"size:255"`
}

func (Transaction) TableName() string {
	return "transaction"
}

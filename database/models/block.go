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

// GenesisPreviousHash is the previous-hash sentinel carried by block 0
const GenesisPreviousHash = "genesis"

// Block is a display-only grouping of consecutive transactions. The hash
// chain is never verified anywhere; it exists purely for presentation and
// carries no tamper-evidence. The block with the highest number is the open
// block and is the only one whose TxCount still changes.
type Block struct {
	Number       uint64 `gorm:"primarykey;autoIncrement:false"`
	Hash         string `gorm:"uniqueIndex;size:64;not null"`
	PreviousHash string `gorm:"size:64;not null"`
	TxCount      uint   `gorm:"not null;default:0"`
	Timestamp    int64  `gorm:"not null"`
}

func (Block) TableName() string {
	return "block"
}

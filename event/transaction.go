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

package event

// TransactionEventType is the event type for committed ledger transactions
const TransactionEventType = EventType("ledger.transaction")

// TransactionEvent is emitted after a mutating ledger operation commits. The
// stats aggregator subscribes to it so that aggregate counters stay close to
// the live ledger between periodic refreshes.
type TransactionEvent struct {
	TxID        string
	Type        string
	FromDevice  string
	ToDevice    string
	Amount      float64
	BlockNumber uint64
	Timestamp   int64
}

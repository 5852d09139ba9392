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
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package api

// ErrorResponse is the error body shared by all endpoints
type ErrorResponse struct {
	Success     bool   `json:"success"`
	Error       string `json:"error"`
	RemainingMs int64  `json:"remaining_ms,omitempty"`
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// RegisterRequest is accepted by POST /api/device/register
type RegisterRequest struct {
	DeviceId string `json:"device_id"`
}

// RegisterResponse is returned by POST /api/device/register
type RegisterResponse struct {
	Success         bool    `json:"success"`
	DeviceId        string  `json:"device_id"`
	Balance         float64 `json:"balance"`
	MiningRate      float64 `json:"mining_rate"`
	FaucetLastClaim int64   `json:"faucet_last_claim"`
	TxID            string  `json:"tx_id,omitempty"`
}

// BalanceResponse is returned by GET /api/device/balance
type BalanceResponse struct {
	Success bool    `json:"success"`
	Balance float64 `json:"balance"`
}

// DeviceRequest is accepted by the mining and faucet endpoints
type DeviceRequest struct {
	DeviceId string `json:"device_id"`
}

// MiningStartResponse is returned by POST /api/mining/start
type MiningStartResponse struct {
	Success    bool    `json:"success"`
	SessionId  string  `json:"session_id"`
	MiningRate float64 `json:"mining_rate"`
	StartTime  int64   `json:"start_time"`
}

// MiningStopResponse is returned by POST /api/mining/stop
type MiningStopResponse struct {
	Success         bool    `json:"success"`
	TxID            string  `json:"tx_id"`
	Earned          float64 `json:"earned"`
	DurationMinutes float64 `json:"duration_minutes"`
	NewBalance      float64 `json:"new_balance"`
}

// FaucetClaimResponse is returned by POST /api/faucet/claim
type FaucetClaimResponse struct {
	Success    bool    `json:"success"`
	TxID       string  `json:"tx_id"`
	Amount     float64 `json:"amount"`
	NewBalance float64 `json:"new_balance"`
}

// TransferRequest is accepted by POST /api/transfer
type TransferRequest struct {
	FromDevice string  `json:"from_device"`
	ToDevice   string  `json:"to_device"`
	Amount     float64 `json:"amount"`
}

// TransferResponse is returned by POST /api/transfer
type TransferResponse struct {
	Success             bool    `json:"success"`
	TxID                string  `json:"tx_id"`
	Amount              float64 `json:"amount"`
	SenderNewBalance    float64 `json:"sender_new_balance"`
	RecipientNewBalance float64 `json:"recipient_new_balance"`
}

// TransactionItem is a single entry in TransactionsResponse
type TransactionItem struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Amount      float64 `json:"amount"`
	Timestamp   int64   `json:"timestamp"`
	BlockNumber uint64  `json:"block_number"`
}

// TransactionsResponse is returned by GET /api/blockchain/transactions
type TransactionsResponse struct {
	Success      bool              `json:"success"`
	Transactions []TransactionItem `json:"transactions"`
}

// BlockItem is a single entry in BlocksResponse
type BlockItem struct {
	Number       uint64 `json:"number"`
	Hash         string `json:"hash"`
	PreviousHash string `json:"previous_hash"`
	TxCount      uint   `json:"tx_count"`
	Timestamp    int64  `json:"timestamp"`
}

// BlocksResponse is returned by GET /api/blockchain/blocks
type BlocksResponse struct {
	Success bool        `json:"success"`
	Blocks  []BlockItem `json:"blocks"`
}

// StatsResponse is returned by GET /api/blockchain/stats
type StatsResponse struct {
	Success bool       `json:"success"`
	Stats   StatsModel `json:"stats"`
}

// StatsModel is the aggregate snapshot body
type StatsModel struct {
	TotalBlocks       int64   `json:"total_blocks"`
	TotalUsers        int64   `json:"total_users"`
	ActiveUsers       int64   `json:"active_users"`
	TotalTransactions int64   `json:"total_transactions"`
	TotalHashRate     float64 `json:"total_hash_rate"`
	FounderPercentage float64 `json:"founder_percentage"`
	LastUpdated       int64   `json:"last_updated"`
}

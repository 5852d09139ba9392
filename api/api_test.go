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

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/blinklabs-io/spritz/database/models"
	"github.com/blinklabs-io/spritz/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLedger implements LedgerService for testing.
type mockLedger struct {
	registerResult *ledger.RegisterResult
	startResult    *ledger.StartMiningResult
	stopResult     *ledger.StopMiningResult
	faucetResult   *ledger.FaucetResult
	transferResult *ledger.TransferResult
	statsResult    *ledger.NetworkStats
	transactions   []models.Transaction
	blocks         []models.Block
	balance        float64
	registerErr    error
	balanceErr     error
	startErr       error
	stopErr        error
	faucetErr      error
	transferErr    error
	listTxErr      error
	listBlocksErr  error
	statsErr       error
}

func (m *mockLedger) Register(
	existingId string,
) (*ledger.RegisterResult, error) {
	return m.registerResult, m.registerErr
}

func (m *mockLedger) Balance(deviceId string) (float64, error) {
	return m.balance, m.balanceErr
}

func (m *mockLedger) StartMining(
	deviceId string,
) (*ledger.StartMiningResult, error) {
	return m.startResult, m.startErr
}

func (m *mockLedger) StopMining(
	deviceId string,
) (*ledger.StopMiningResult, error) {
	return m.stopResult, m.stopErr
}

func (m *mockLedger) ClaimFaucet(
	deviceId string,
) (*ledger.FaucetResult, error) {
	return m.faucetResult, m.faucetErr
}

func (m *mockLedger) Transfer(
	fromId, toId string,
	amount float64,
) (*ledger.TransferResult, error) {
	return m.transferResult, m.transferErr
}

func (m *mockLedger) ListTransactions(
	limit int,
) ([]models.Transaction, error) {
	return m.transactions, m.listTxErr
}

func (m *mockLedger) ListBlocks(limit int) ([]models.Block, error) {
	return m.blocks, m.listBlocksErr
}

func (m *mockLedger) GetStats() (*ledger.NetworkStats, error) {
	return m.statsResult, m.statsErr
}

func newTestApi(mock *mockLedger) *Api {
	return New(
		Config{
			ListenAddress: ":0",
		},
		mock,
		nil,
	)
}

func TestStartStop(t *testing.T) {
	a := newTestApi(&mockLedger{})

	err := a.Start(t.Context())
	require.NoError(t, err)

	// Verify server is running
	a.mu.Lock()
	assert.NotNil(t, a.httpServer)
	a.mu.Unlock()

	// Stop the server
	stopCtx, stopCancel := context.WithTimeout(
		context.Background(),
		5*time.Second,
	)
	defer stopCancel()
	err = a.Stop(stopCtx)
	require.NoError(t, err)

	// Verify server is stopped
	a.mu.Lock()
	assert.Nil(t, a.httpServer)
	a.mu.Unlock()
}

func TestStartAlreadyStarted(t *testing.T) {
	a := newTestApi(&mockLedger{})

	ctx := t.Context()
	err := a.Start(ctx)
	require.NoError(t, err)
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(
			context.Background(),
			5*time.Second,
		)
		defer stopCancel()
		_ = a.Stop(stopCtx)
	}()

	// Starting again should error
	err = a.Start(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already started")
}

func TestHandleHealth(t *testing.T) {
	a := newTestApi(&mockLedger{})

	req := httptest.NewRequest(
		http.MethodGet, "/api/health", nil,
	)
	w := httptest.NewRecorder()
	a.handleHealth(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(
		t,
		"application/json",
		w.Header().Get("Content-Type"),
	)

	var resp HealthResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "healthy", resp.Status)
}

func TestHandleRegister(t *testing.T) {
	mock := &mockLedger{
		registerResult: &ledger.RegisterResult{
			DeviceId:   "SPM_DEADBEEF_CAFE01_42",
			Balance:    0,
			MiningRate: 1.37,
			TxID:       "TX_AAAAAAAA",
		},
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/device/register",
		strings.NewReader(`{}`),
	)
	w := httptest.NewRecorder()
	a.handleRegister(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp RegisterResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "SPM_DEADBEEF_CAFE01_42", resp.DeviceId)
	assert.Equal(t, 1.37, resp.MiningRate)
	assert.Equal(t, "TX_AAAAAAAA", resp.TxID)
}

func TestHandleRegisterEmptyBody(t *testing.T) {
	mock := &mockLedger{
		registerResult: &ledger.RegisterResult{
			DeviceId:   "SPM_DEADBEEF_CAFE01_42",
			MiningRate: 1.37,
		},
	}
	a := newTestApi(mock)

	// A register request with no body is a fresh registration
	req := httptest.NewRequest(
		http.MethodPost,
		"/api/device/register",
		nil,
	)
	w := httptest.NewRecorder()
	a.handleRegister(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleRegisterInvalidBody(t *testing.T) {
	a := newTestApi(&mockLedger{})

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/device/register",
		strings.NewReader(`{not json`),
	)
	w := httptest.NewRecorder()
	a.handleRegister(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleBalance(t *testing.T) {
	mock := &mockLedger{
		balance: 123.45,
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodGet,
		"/api/device/balance?device_id=SPM_DEADBEEF_CAFE01_42",
		nil,
	)
	w := httptest.NewRecorder()
	a.handleBalance(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp BalanceResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 123.45, resp.Balance)
}

func TestHandleBalanceNotFound(t *testing.T) {
	mock := &mockLedger{
		balanceErr: ledger.ErrDeviceNotFound,
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodGet,
		"/api/device/balance?device_id=SPM_00000000_000000_99",
		nil,
	)
	w := httptest.NewRecorder()
	a.handleBalance(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp ErrorResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, ledger.ErrDeviceNotFound.Error(), resp.Error)
}

func TestHandleMiningStart(t *testing.T) {
	mock := &mockLedger{
		startResult: &ledger.StartMiningResult{
			SessionId:  "11111111-1111-1111-1111-111111111111",
			MiningRate: 1.37,
			StartTime:  1700000000000,
		},
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/mining/start",
		strings.NewReader(`{"device_id":"SPM_DEADBEEF_CAFE01_42"}`),
	)
	w := httptest.NewRecorder()
	a.handleMiningStart(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp MiningStartResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(
		t,
		"11111111-1111-1111-1111-111111111111",
		resp.SessionId,
	)
	assert.Equal(t, int64(1700000000000), resp.StartTime)
}

func TestHandleMiningStartConflict(t *testing.T) {
	mock := &mockLedger{
		startErr: ledger.ErrMiningActive,
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/mining/start",
		strings.NewReader(`{"device_id":"SPM_DEADBEEF_CAFE01_42"}`),
	)
	w := httptest.NewRecorder()
	a.handleMiningStart(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleMiningStop(t *testing.T) {
	mock := &mockLedger{
		stopResult: &ledger.StopMiningResult{
			Earned:          2.74,
			DurationMinutes: 2.0,
			NewBalance:      2.74,
			TxID:            "TX_BBBBBBBB",
		},
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/mining/stop",
		strings.NewReader(`{"device_id":"SPM_DEADBEEF_CAFE01_42"}`),
	)
	w := httptest.NewRecorder()
	a.handleMiningStop(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp MiningStopResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 2.74, resp.Earned)
	assert.Equal(t, 2.0, resp.DurationMinutes)
	assert.Equal(t, "TX_BBBBBBBB", resp.TxID)
}

func TestHandleMiningStopNoSession(t *testing.T) {
	mock := &mockLedger{
		stopErr: ledger.ErrNoActiveSession,
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/mining/stop",
		strings.NewReader(`{"device_id":"SPM_DEADBEEF_CAFE01_42"}`),
	)
	w := httptest.NewRecorder()
	a.handleMiningStop(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleFaucetClaim(t *testing.T) {
	mock := &mockLedger{
		faucetResult: &ledger.FaucetResult{
			Amount:     100,
			NewBalance: 102.74,
			TxID:       "TX_CCCCCCCC",
		},
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/faucet/claim",
		strings.NewReader(`{"device_id":"SPM_DEADBEEF_CAFE01_42"}`),
	)
	w := httptest.NewRecorder()
	a.handleFaucetClaim(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp FaucetClaimResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 100.0, resp.Amount)
	assert.Equal(t, 102.74, resp.NewBalance)
}

func TestHandleFaucetClaimCooldown(t *testing.T) {
	mock := &mockLedger{
		faucetErr: ledger.CooldownError{
			Remaining: 23 * time.Hour,
		},
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/faucet/claim",
		strings.NewReader(`{"device_id":"SPM_DEADBEEF_CAFE01_42"}`),
	)
	w := httptest.NewRecorder()
	a.handleFaucetClaim(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp ErrorResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(
		t,
		(23 * time.Hour).Milliseconds(),
		resp.RemainingMs,
	)
}

func TestHandleTransfer(t *testing.T) {
	mock := &mockLedger{
		transferResult: &ledger.TransferResult{
			SenderBalance:    52.74,
			RecipientBalance: 50,
			TxID:             "TX_DDDDDDDD",
		},
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/transfer",
		strings.NewReader(
			`{"from_device":"SPM_DEADBEEF_CAFE01_42",`+
				`"to_device":"SPM_CAFEBABE_FACADE_77","amount":50}`,
		),
	)
	w := httptest.NewRecorder()
	a.handleTransfer(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp TransferResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 50.0, resp.Amount)
	assert.Equal(t, 52.74, resp.SenderNewBalance)
	assert.Equal(t, 50.0, resp.RecipientNewBalance)
}

func TestHandleTransferInsufficientBalance(t *testing.T) {
	mock := &mockLedger{
		transferErr: ledger.InsufficientBalanceError{
			Balance: 10,
			Amount:  50,
		},
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/transfer",
		strings.NewReader(
			`{"from_device":"SPM_DEADBEEF_CAFE01_42",`+
				`"to_device":"SPM_CAFEBABE_FACADE_77","amount":50}`,
		),
	)
	w := httptest.NewRecorder()
	a.handleTransfer(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleTransferInternalError(t *testing.T) {
	mock := &mockLedger{
		transferErr: assert.AnError,
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodPost,
		"/api/transfer",
		strings.NewReader(
			`{"from_device":"SPM_DEADBEEF_CAFE01_42",`+
				`"to_device":"SPM_CAFEBABE_FACADE_77","amount":50}`,
		),
	)
	w := httptest.NewRecorder()
	a.handleTransfer(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	// Internal errors never leak details to the caller
	var resp ErrorResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.Equal(t, "internal error", resp.Error)
}

func TestHandleTransactions(t *testing.T) {
	mock := &mockLedger{
		transactions: []models.Transaction{
			{
				TxID:        "TX_AAAAAAAA",
				Type:        models.TxTypeFaucet,
				FromDevice:  models.SentinelFaucetPool,
				ToDevice:    "SPM_DEADBEEF_CAFE01_42",
				Amount:      100,
				Timestamp:   1700000000000,
				BlockNumber: 1,
			},
		},
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodGet,
		"/api/blockchain/transactions?limit=10",
		nil,
	)
	w := httptest.NewRecorder()
	a.handleTransactions(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp TransactionsResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, resp.Transactions, 1)
	assert.Equal(t, "TX_AAAAAAAA", resp.Transactions[0].ID)
	assert.Equal(t, "faucet", resp.Transactions[0].Type)
	assert.Equal(t, uint64(1), resp.Transactions[0].BlockNumber)
}

func TestHandleBlocks(t *testing.T) {
	mock := &mockLedger{
		blocks: []models.Block{
			{
				Number:       1,
				Hash:         "hash1",
				PreviousHash: "hash0",
				TxCount:      10,
				Timestamp:    1700000000000,
			},
			{
				Number:       0,
				Hash:         "hash0",
				PreviousHash: models.GenesisPreviousHash,
				TxCount:      10,
				Timestamp:    1600000000000,
			},
		},
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodGet,
		"/api/blockchain/blocks",
		nil,
	)
	w := httptest.NewRecorder()
	a.handleBlocks(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp BlocksResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	require.Len(t, resp.Blocks, 2)
	assert.Equal(t, uint64(1), resp.Blocks[0].Number)
	assert.Equal(t, "hash0", resp.Blocks[0].PreviousHash)
	assert.Equal(
		t,
		models.GenesisPreviousHash,
		resp.Blocks[1].PreviousHash,
	)
}

func TestHandleStats(t *testing.T) {
	mock := &mockLedger{
		statsResult: &ledger.NetworkStats{
			TotalBlocks:       5,
			TotalUsers:        10,
			ActiveUsers:       3,
			TotalTransactions: 42,
			TotalHashRate:     4.11,
			FounderPercentage: 5.71,
			LastUpdated:       1700000000000,
		},
	}
	a := newTestApi(mock)

	req := httptest.NewRequest(
		http.MethodGet,
		"/api/blockchain/stats",
		nil,
	)
	w := httptest.NewRecorder()
	a.handleStats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(5), resp.Stats.TotalBlocks)
	assert.Equal(t, int64(42), resp.Stats.TotalTransactions)
	assert.Equal(t, 5.71, resp.Stats.FounderPercentage)
}

func TestParseLimit(t *testing.T) {
	testDefs := []struct {
		url      string
		expected int
	}{
		{"/api/blockchain/transactions", 0},
		{"/api/blockchain/transactions?limit=25", 25},
		{"/api/blockchain/transactions?limit=bogus", 0},
	}
	for _, testDef := range testDefs {
		req := httptest.NewRequest(http.MethodGet, testDef.url, nil)
		assert.Equal(t, testDef.expected, parseLimit(req))
	}
}

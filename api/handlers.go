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
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/blinklabs-io/spritz/ledger"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError maps a ledger error onto a status code and error body. Domain
// errors keep their message; anything else is reported as a generic internal
// failure so storage details never leak to callers.
func (a *Api) writeError(
	w http.ResponseWriter,
	err error,
) {
	resp := ErrorResponse{Error: err.Error()}
	var cooldownErr ledger.CooldownError
	var insufficientErr ledger.InsufficientBalanceError
	switch {
	case errors.Is(err, ledger.ErrDeviceNotFound):
		writeJSON(w, http.StatusNotFound, resp)
	case errors.Is(err, ledger.ErrEmptyDeviceId),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrSelfTransfer),
		errors.Is(err, ledger.ErrNoActiveSession):
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, ledger.ErrMiningActive):
		writeJSON(w, http.StatusConflict, resp)
	case errors.As(err, &cooldownErr):
		resp.RemainingMs = cooldownErr.Remaining.Milliseconds()
		writeJSON(w, http.StatusTooManyRequests, resp)
	case errors.As(err, &insufficientErr):
		writeJSON(w, http.StatusBadRequest, resp)
	default:
		a.logger.Error(
			"internal error handling request",
			"error", err,
		)
		resp.Error = "internal error"
		writeJSON(w, http.StatusInternalServerError, resp)
	}
}

// decodeJSON decodes a request body, tolerating an empty body
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// handleHealth handles GET /api/health
func (a *Api) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Success:   true,
		Status:    "healthy",
		Timestamp: time.Now().UnixMilli(),
	})
}

// handleRegister handles POST /api/device/register
func (a *Api) handleRegister(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}
	result, err := a.ledger.Register(req.DeviceId)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RegisterResponse{
		Success:         true,
		DeviceId:        result.DeviceId,
		Balance:         result.Balance,
		MiningRate:      result.MiningRate,
		FaucetLastClaim: result.LastFaucetClaim,
		TxID:            result.TxID,
	})
}

// handleBalance handles GET /api/device/balance
func (a *Api) handleBalance(
	w http.ResponseWriter,
	r *http.Request,
) {
	deviceId := r.URL.Query().Get("device_id")
	balance, err := a.ledger.Balance(deviceId)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{
		Success: true,
		Balance: balance,
	})
}

// handleMiningStart handles POST /api/mining/start
func (a *Api) handleMiningStart(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req DeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}
	result, err := a.ledger.StartMining(req.DeviceId)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MiningStartResponse{
		Success:    true,
		SessionId:  result.SessionId,
		MiningRate: result.MiningRate,
		StartTime:  result.StartTime,
	})
}

// handleMiningStop handles POST /api/mining/stop
func (a *Api) handleMiningStop(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req DeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}
	result, err := a.ledger.StopMining(req.DeviceId)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MiningStopResponse{
		Success:         true,
		TxID:            result.TxID,
		Earned:          result.Earned,
		DurationMinutes: result.DurationMinutes,
		NewBalance:      result.NewBalance,
	})
}

// handleFaucetClaim handles POST /api/faucet/claim
func (a *Api) handleFaucetClaim(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req DeviceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}
	result, err := a.ledger.ClaimFaucet(req.DeviceId)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, FaucetClaimResponse{
		Success:    true,
		TxID:       result.TxID,
		Amount:     result.Amount,
		NewBalance: result.NewBalance,
	})
}

// handleTransfer handles POST /api/transfer
func (a *Api) handleTransfer(
	w http.ResponseWriter,
	r *http.Request,
) {
	var req TransferRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
		})
		return
	}
	result, err := a.ledger.Transfer(
		req.FromDevice,
		req.ToDevice,
		req.Amount,
	)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TransferResponse{
		Success:             true,
		TxID:                result.TxID,
		Amount:              req.Amount,
		SenderNewBalance:    result.SenderBalance,
		RecipientNewBalance: result.RecipientBalance,
	})
}

// parseLimit parses the optional limit query parameter
func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}

// handleTransactions handles GET /api/blockchain/transactions
func (a *Api) handleTransactions(
	w http.ResponseWriter,
	r *http.Request,
) {
	txs, err := a.ledger.ListTransactions(parseLimit(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	items := make([]TransactionItem, 0, len(txs))
	for _, tx := range txs {
		items = append(items, TransactionItem{
			ID:          tx.TxID,
			Type:        string(tx.Type),
			From:        tx.FromDevice,
			To:          tx.ToDevice,
			Amount:      tx.Amount,
			Timestamp:   tx.Timestamp,
			BlockNumber: tx.BlockNumber,
		})
	}
	writeJSON(w, http.StatusOK, TransactionsResponse{
		Success:      true,
		Transactions: items,
	})
}

// handleBlocks handles GET /api/blockchain/blocks
func (a *Api) handleBlocks(
	w http.ResponseWriter,
	r *http.Request,
) {
	blocks, err := a.ledger.ListBlocks(parseLimit(r))
	if err != nil {
		a.writeError(w, err)
		return
	}
	items := make([]BlockItem, 0, len(blocks))
	for _, block := range blocks {
		items = append(items, BlockItem{
			Number:       block.Number,
			Hash:         block.Hash,
			PreviousHash: block.PreviousHash,
			TxCount:      block.TxCount,
			Timestamp:    block.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, BlocksResponse{
		Success: true,
		Blocks:  items,
	})
}

// handleStats handles GET /api/blockchain/stats
func (a *Api) handleStats(
	w http.ResponseWriter,
	_ *http.Request,
) {
	stats, err := a.ledger.GetStats()
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{
		Success: true,
		Stats: StatsModel{
			TotalBlocks:       stats.TotalBlocks,
			TotalUsers:        stats.TotalUsers,
			ActiveUsers:       stats.ActiveUsers,
			TotalTransactions: stats.TotalTransactions,
			TotalHashRate:     stats.TotalHashRate,
			FounderPercentage: stats.FounderPercentage,
			LastUpdated:       stats.LastUpdated,
		},
	})
}

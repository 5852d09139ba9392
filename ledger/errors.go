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

package ledger

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors. These are all validated before any mutation, so returning
// one never leaves a half-applied operation behind.
var (
	ErrDeviceNotFound  = errors.New("device not found")
	ErrEmptyDeviceId   = errors.New("device id is required")
	ErrInvalidAmount   = errors.New("transfer amount must be greater than zero")
	ErrSelfTransfer    = errors.New("cannot transfer to the same device")
	ErrMiningActive    = errors.New("device already has an active mining session")
	ErrNoActiveSession = errors.New("no active mining session for device")
)

// CooldownError is returned by faucet claims made before the cooldown window
// has elapsed. It carries the remaining wait duration.
type CooldownError struct {
	Remaining time.Duration
}

func (e CooldownError) Error() string {
	return fmt.Sprintf(
		"faucet on cooldown: %s remaining",
		e.Remaining.Round(time.Second),
	)
}

// InsufficientBalanceError is returned by transfers whose amount exceeds the
// sender balance.
type InsufficientBalanceError struct {
	Balance float64
	Amount  float64
}

func (e InsufficientBalanceError) Error() string {
	return fmt.Sprintf(
		"insufficient balance: have %.4f, need %.4f",
		e.Balance,
		e.Amount,
	)
}

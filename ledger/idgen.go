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
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

const (
	deviceIdPrefix = "SPM_"
	txIdPrefix     = "TX_"
	txIdLength     = 8
	txIdAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// newDeviceId generates a candidate device ID of the form
// SPM_<8 hex>_<6 hex>_<2 digits>. Uniqueness is enforced by the caller with a
// store lookup, not assumed from the entropy.
func newDeviceId() string {
	entropy := make([]byte, 16)
	// rand.Read never returns an error on supported platforms
	_, _ = rand.Read(entropy)
	sum := sha256.Sum256(entropy)
	hexSum := strings.ToUpper(hex.EncodeToString(sum[:]))
	suffix := 10 + randUint64()%90
	return fmt.Sprintf(
		"%s%s_%s_%d",
		deviceIdPrefix,
		hexSum[0:8],
		hexSum[8:14],
		suffix,
	)
}

// newTxId generates a candidate transaction ID of the form
// TX_<8 chars of A-Z0-9>. Uniqueness is backed by the unique index on the
// transaction log.
func newTxId() string {
	var sb strings.Builder
	sb.WriteString(txIdPrefix)
	for range txIdLength {
		idx := randUint64() % uint64(len(txIdAlphabet))
		sb.WriteByte(txIdAlphabet[idx])
	}
	return sb.String()
}

func randUint64() uint64 {
	var buf [8]byte
	_, _ = rand.Read(buf[:])
	return binary.BigEndian.Uint64(buf[:])
}

// miningRateForDevice derives a device's fixed mining rate from its ID. The
// derivation is a pure function of the ID's characters so the same ID always
// maps to the same rate, landing in the [1.00, 1.99] band.
func miningRateForDevice(deviceId string) float64 {
	stripped := strings.TrimPrefix(deviceId, deviceIdPrefix)
	stripped = strings.ReplaceAll(stripped, "_", "")
	var sum int
	for _, c := range stripped {
		sum += int(c)
	}
	return 1.0 + float64(sum%100)/100
}

// roundTokens rounds a token amount to 4 decimal places to keep float drift
// out of stored balances.
func roundTokens(v float64) float64 {
	return math.Round(v*10000) / 10000
}

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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type ledgerMetrics struct {
	operationsTotal *prometheus.CounterVec
	operationErrors *prometheus.CounterVec
	blockHeight     prometheus.Gauge
}

func registerLedgerMetrics(registry prometheus.Registerer) *ledgerMetrics {
	return &ledgerMetrics{
		operationsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "spritz_ledger_operations_total",
				Help: "number of ledger operations per type",
			},
			[]string{"op"},
		),
		operationErrors: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "spritz_ledger_operation_errors_total",
				Help: "number of failed ledger operations per type",
			},
			[]string{"op"},
		),
		blockHeight: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "spritz_ledger_block_height",
				Help: "number of the current open block",
			},
		),
	}
}

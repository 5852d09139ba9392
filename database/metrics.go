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

package database

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type storeMetrics struct {
	snapshotsTotal   prometheus.Counter
	snapshotFailures prometheus.Counter
}

func registerStoreMetrics(registry prometheus.Registerer) *storeMetrics {
	return &storeMetrics{
		snapshotsTotal: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "spritz_database_snapshots_total",
				Help: "number of ledger snapshots written",
			},
		),
		snapshotFailures: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "spritz_database_snapshot_failures_total",
				Help: "number of failed ledger snapshot attempts",
			},
		),
	}
}

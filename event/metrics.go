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

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type eventMetrics struct {
	eventsTotal    *prometheus.CounterVec
	deliveryErrors *prometheus.CounterVec
	subscribers    *prometheus.GaugeVec
}

func registerEventMetrics(registry prometheus.Registerer) *eventMetrics {
	return &eventMetrics{
		eventsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "spritz_eventbus_events_total",
				Help: "number of events published per event type",
			},
			[]string{"type"},
		),
		deliveryErrors: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "spritz_eventbus_delivery_errors_total",
				Help: "number of failed or dropped event deliveries per event type",
			},
			[]string{"type"},
		),
		subscribers: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "spritz_eventbus_subscribers",
				Help: "number of active subscribers per event type",
			},
			[]string{"type"},
		),
	}
}

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

package spritz

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Config struct {
	promRegistry     prometheus.Registerer
	logger           *slog.Logger
	dataDir          string
	snapshotDir      string
	apiListenAddress string
	snapshotInterval time.Duration
	statsInterval    time.Duration
	statsWindow      time.Duration
	faucetCooldown   time.Duration
	shutdownTimeout  time.Duration
	faucetAmount     float64
	blockCapacity    uint
}

func (n *Node) configValidate() error {
	if n.config.apiListenAddress == "" {
		return errors.New("no API listen address defined")
	}
	if n.config.faucetAmount < 0 {
		return errors.New("faucet amount must not be negative")
	}
	return nil
}

// ConfigOptionFunc is a type that represents functions that modify the node config
type ConfigOptionFunc func(*Config)

// NewConfig creates a new spritz config with the specified options
func NewConfig(opts ...ConfigOptionFunc) Config {
	c := Config{
		// Default logger will throw away logs
		// We do this so we don't have to add guards around every log operation
		logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	// Apply options
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithLogger specifies the logger to use. This defaults to discarding log output
func WithLogger(logger *slog.Logger) ConfigOptionFunc {
	return func(c *Config) {
		c.logger = logger
	}
}

// WithDatabasePath specifies the persistent data directory to use. The default is to store everything in memory
func WithDatabasePath(dataDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.dataDir = dataDir
	}
}

// WithSnapshotPath specifies the directory that periodic database snapshots
// are written to. An empty string disables snapshots. The default is empty
// (disabled)
func WithSnapshotPath(snapshotDir string) ConfigOptionFunc {
	return func(c *Config) {
		c.snapshotDir = snapshotDir
	}
}

// WithSnapshotInterval specifies the time between database snapshots. The
// default is 6 hours
func WithSnapshotInterval(interval time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.snapshotInterval = interval
	}
}

// WithApiListenAddress specifies the listen address for the REST API server
func WithApiListenAddress(addr string) ConfigOptionFunc {
	return func(c *Config) {
		c.apiListenAddress = addr
	}
}

// WithBlockCapacity specifies the number of transactions collected into each
// display block. The default is 10
func WithBlockCapacity(capacity uint) ConfigOptionFunc {
	return func(c *Config) {
		c.blockCapacity = capacity
	}
}

// WithFaucetAmount specifies the balance granted per faucet claim. The
// default is 100
func WithFaucetAmount(amount float64) ConfigOptionFunc {
	return func(c *Config) {
		c.faucetAmount = amount
	}
}

// WithFaucetCooldown specifies the minimum time between faucet claims per
// device. The default is 24 hours
func WithFaucetCooldown(cooldown time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.faucetCooldown = cooldown
	}
}

// WithStatsWindow specifies the trailing window used to classify devices as
// active in the network statistics. The default is 1 hour
func WithStatsWindow(window time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.statsWindow = window
	}
}

// WithStatsInterval specifies the time between periodic network statistics
// recomputations. The default is 60 seconds
func WithStatsInterval(interval time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.statsInterval = interval
	}
}

// WithPrometheusRegistry specifies a prometheus.Registerer instance to add metrics to. In most cases, prometheus.DefaultRegistry would be
// a good choice to get metrics working
func WithPrometheusRegistry(registry prometheus.Registerer) ConfigOptionFunc {
	return func(c *Config) {
		c.promRegistry = registry
	}
}

// WithShutdownTimeout specifies the timeout for graceful shutdown. The default is 30 seconds
func WithShutdownTimeout(timeout time.Duration) ConfigOptionFunc {
	return func(c *Config) {
		c.shutdownTimeout = timeout
	}
}

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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/blinklabs-io/spritz/database/models"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

const (
	ledgerDbName = "ledger.sqlite"

	vacuumInterval = 24 * time.Hour
)

// Config holds the configuration for opening the ledger store
type Config struct {
	// DataDir is the directory holding the sqlite database. An empty DataDir
	// selects a shared in-memory database, useful for testing.
	DataDir string
	// SnapshotDir is the directory that periodic best-effort snapshots are
	// written to. Snapshots are disabled when empty.
	SnapshotDir string
	// SnapshotInterval is the time between snapshots. Defaults to 6h when
	// snapshots are enabled and no interval is given.
	SnapshotInterval time.Duration
	Logger           *slog.Logger
	PromRegistry     prometheus.Registerer
}

// Database is the authoritative ledger store. It wraps an embedded sqlite
// database accessed through GORM and owns the background vacuum and snapshot
// timers. All multi-step mutations go through Transaction().
type Database struct {
	db            *gorm.DB
	logger        *slog.Logger
	metrics       *storeMetrics
	dataDir       string
	snapshotDir   string
	snapshotEvery time.Duration
	timerVacuum   *time.Timer
	timerSnapshot *time.Timer
	timerMutex    sync.Mutex
	closed        bool
	maintenanceWG sync.WaitGroup
}

// New opens (creating if needed) the ledger database and applies schema
// migrations. Uses an in-memory database if cfg.DataDir is empty.
func New(cfg Config) (*Database, error) {
	var ledgerDb *gorm.DB
	var err error
	if cfg.DataDir == "" {
		// Use in-memory database when no data directory is specified, useful for testing
		// cache=shared allows multiple connections to share the same in-memory database
		ledgerDb, err = gorm.Open(
			sqlite.Open("file::memory:?cache=shared"),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return nil, err
		}
	} else {
		// Make sure that we can read data dir, and create if it doesn't exist
		if _, err := os.Stat(cfg.DataDir); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read data dir: %w", err)
			}
			if err := os.MkdirAll(cfg.DataDir, fs.ModePerm); err != nil {
				return nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		ledgerDbPath := filepath.Join(cfg.DataDir, ledgerDbName)
		// WAL journal mode, disable sync on write
		connOpts := "_pragma=journal_mode(WAL)&_pragma=sync(OFF)"
		ledgerDb, err = gorm.Open(
			sqlite.Open(
				fmt.Sprintf("file:%s?%s", ledgerDbPath, connOpts),
			),
			&gorm.Config{
				Logger:                 gormlogger.Discard,
				SkipDefaultTransaction: true,
			},
		)
		if err != nil {
			return nil, err
		}
	}
	snapshotEvery := cfg.SnapshotInterval
	if snapshotEvery <= 0 {
		snapshotEvery = 6 * time.Hour
	}
	db := &Database{
		db:            ledgerDb,
		logger:        cfg.Logger,
		dataDir:       cfg.DataDir,
		snapshotDir:   cfg.SnapshotDir,
		snapshotEvery: snapshotEvery,
	}
	if err := db.init(cfg.PromRegistry); err != nil {
		// Database is available for recovery, so return it with error
		return db, err
	}
	// Create table schemas
	for _, model := range models.MigrateModels {
		db.logger.Debug(fmt.Sprintf("creating table: %#v", model))
		if err := db.db.AutoMigrate(model); err != nil {
			return db, err
		}
	}
	return db, nil
}

func (d *Database) init(promRegistry prometheus.Registerer) error {
	if d.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		d.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if promRegistry != nil {
		d.metrics = registerStoreMetrics(promRegistry)
	}
	// Configure tracing for GORM
	if err := d.db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return err
	}
	// Schedule daily database vacuum to free unused space
	d.scheduleVacuum()
	// Schedule periodic best-effort snapshots
	d.scheduleSnapshot()
	return nil
}

// DB returns the underlying GORM database handle
func (d *Database) DB() *gorm.DB {
	return d.db
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.dataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Transaction starts a new database transaction and returns a handle to it
func (d *Database) Transaction(readWrite bool) *Txn {
	return NewTxn(d, readWrite)
}

func (d *Database) runVacuum() error {
	d.timerMutex.Lock()
	if d.dataDir == "" || d.closed {
		d.timerMutex.Unlock()
		return nil
	}
	// Track this vacuum operation while we know the store is open
	d.maintenanceWG.Add(1)
	d.timerMutex.Unlock()
	defer d.maintenanceWG.Done()

	if result := d.db.Exec("VACUUM"); result.Error != nil {
		return result.Error
	}
	return nil
}

// scheduleVacuum schedules a daily vacuum operation
func (d *Database) scheduleVacuum() {
	d.timerMutex.Lock()
	defer d.timerMutex.Unlock()
	if d.closed {
		return
	}
	if d.timerVacuum != nil {
		d.timerVacuum.Stop()
	}
	f := func() {
		d.logger.Debug(
			"running vacuum on ledger database",
			"component", "database",
		)
		// schedule next run
		defer d.scheduleVacuum()
		if err := d.runVacuum(); err != nil {
			d.logger.Error(
				"failed to free unused space in ledger store",
				"component", "database",
				"error", err,
			)
		}
	}
	d.timerVacuum = time.AfterFunc(vacuumInterval, f)
}

// Close shuts down the database connection and stops background timers
func (d *Database) Close() error {
	d.timerMutex.Lock()
	d.closed = true
	if d.timerVacuum != nil {
		d.timerVacuum.Stop()
		d.timerVacuum = nil
	}
	if d.timerSnapshot != nil {
		d.timerSnapshot.Stop()
		d.timerSnapshot = nil
	}
	d.timerMutex.Unlock()

	// Wait for any in-flight vacuum/snapshot operations to complete
	d.maintenanceWG.Wait()

	// get DB handle from gorm.DB
	db, err := d.db.DB()
	if err != nil {
		return fmt.Errorf("get database handle: %w", err)
	}
	return db.Close()
}

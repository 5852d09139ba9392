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
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// runSnapshot copies the ledger database to the snapshot directory using
// sqlite's VACUUM INTO. Snapshots are best-effort: failures are reported to
// the caller for logging and never propagate to request handling.
func (d *Database) runSnapshot() error {
	d.timerMutex.Lock()
	if d.dataDir == "" || d.snapshotDir == "" || d.closed {
		d.timerMutex.Unlock()
		return nil
	}
	d.maintenanceWG.Add(1)
	d.timerMutex.Unlock()
	defer d.maintenanceWG.Done()

	if _, err := os.Stat(d.snapshotDir); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read snapshot dir: %w", err)
		}
		if err := os.MkdirAll(d.snapshotDir, fs.ModePerm); err != nil {
			return fmt.Errorf("failed to create snapshot dir: %w", err)
		}
	}
	snapshotPath := filepath.Join(
		d.snapshotDir,
		fmt.Sprintf("ledger-%d.sqlite", time.Now().Unix()),
	)
	// VACUUM INTO refuses to overwrite an existing file
	if _, err := os.Stat(snapshotPath); err == nil {
		os.Remove(snapshotPath)
	}
	if result := d.db.Exec("VACUUM INTO ?", snapshotPath); result.Error != nil {
		return result.Error
	}
	if d.metrics != nil {
		d.metrics.snapshotsTotal.Inc()
	}
	d.logger.Info(
		"wrote ledger snapshot",
		"component", "database",
		"path", snapshotPath,
	)
	return nil
}

// scheduleSnapshot schedules the periodic snapshot operation
func (d *Database) scheduleSnapshot() {
	d.timerMutex.Lock()
	defer d.timerMutex.Unlock()
	if d.closed || d.snapshotDir == "" {
		return
	}
	if d.timerSnapshot != nil {
		d.timerSnapshot.Stop()
	}
	f := func() {
		// schedule next run
		defer d.scheduleSnapshot()
		if err := d.runSnapshot(); err != nil {
			if d.metrics != nil {
				d.metrics.snapshotFailures.Inc()
			}
			d.logger.Error(
				"failed to snapshot ledger store",
				"component", "database",
				"error", err,
			)
		}
	}
	d.timerSnapshot = time.AfterFunc(d.snapshotEvery, f)
}

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
	"os"
	"path/filepath"
	"testing"

	"github.com/blinklabs-io/spritz/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSnapshot(t *testing.T) {
	snapshotDir := filepath.Join(t.TempDir(), "snapshots")
	db, err := New(Config{
		DataDir:     t.TempDir(),
		SnapshotDir: snapshotDir,
	})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.CreateDevice(&models.Device{
		ID:           "SPM_SNAPSHOT_000001_10",
		MiningRate:   1.0,
		LastActivity: 1000,
	}, nil))

	require.NoError(t, db.runSnapshot())

	entries, err := os.ReadDir(snapshotDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRunSnapshotDisabled(t *testing.T) {
	// In-memory database never snapshots
	db, err := New(Config{})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.runSnapshot())
}

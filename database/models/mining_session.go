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

package models

// Mining session status values
const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
)

// MiningSession is a timed interval during which a device accrues reward
// proportional to elapsed time and its fixed mining rate. At most one session
// per device is active at any time; a completed session is immutable history.
type MiningSession struct {
	ID              string `gorm:"primarykey;size:36"`
	DeviceID        string `gorm:"index:idx_session_device_status;size:32;not null"`
	Status          string `gorm:"index:idx_session_device_status;size:12;not null"`
	StartTime       int64  `gorm:"not null"`
	EndTime         int64  `gorm:"not null;default:0"`
	DurationMinutes float64
	TokensEarned    float64
	TxID            string `gorm:"size:16"`
}

func (MiningSession) TableName() string {
	return "mining_session"
}

// Active returns true while the session has not been settled
func (s *MiningSession) Active() bool {
	return s.Status == SessionStatusActive
}

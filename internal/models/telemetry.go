package models

import (
	"time"

	"gorm.io/gorm"
)

// ChainStatus is the binary state of a coach's emergency chain.
type ChainStatus string

const (
	ChainStatusNormal ChainStatus = "normal" // chain in place
	ChainStatusPulled ChainStatus = "pulled" // chain has been pulled
)

// Telemetry is one reported sensor/status snapshot for a train+coach.
// Records are append-only: nothing in the codebase updates or deletes them.
// swagger:model
type Telemetry struct {
	ID          uint        `json:"id" gorm:"primarykey,autoIncrement"`
	CreatedAt   time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time   `json:"updated_at"`
	TrainNumber string      `json:"train_number" gorm:"size:20;not null;index:idx_train_coach"`
	CoachUID    string      `json:"coach_uid" gorm:"size:20;not null;index:idx_train_coach"`
	ChainStatus ChainStatus `json:"chain_status" gorm:"size:20;not null;default:normal;index"`
	Latitude    string      `json:"latitude" gorm:"size:50"`
	Longitude   string      `json:"longitude" gorm:"size:50"`
	Temperature string      `json:"temperature" gorm:"size:50"`
	Humidity    string      `json:"humidity" gorm:"size:50"`
	Memory      string      `json:"memory" gorm:"size:50"`
	ErrorCode   string      `json:"error" gorm:"size:10"`
	Date        string      `json:"date" gorm:"size:20"` // client-supplied
	Time        string      `json:"time" gorm:"size:20"` // client-supplied
	// DivisionID caches the roster document the record was validated against
	// (resolve-then-cache; train_number/coach_uid stay the value keys).
	DivisionID uint `json:"division_id" gorm:"index"`
}

// BeforeCreate fills the device-diagnostic defaults the firmware omits.
func (t *Telemetry) BeforeCreate(tx *gorm.DB) error {
	if t.ChainStatus == "" {
		t.ChainStatus = ChainStatusNormal
	}
	if t.ErrorCode == "" {
		t.ErrorCode = "000"
	}
	if t.Memory == "" {
		t.Memory = "Not available"
	}
	if t.Humidity == "" {
		t.Humidity = "Not available"
	}
	return nil
}

// IsValidChainStatus reports whether s is one of the accepted states.
func IsValidChainStatus(s ChainStatus) bool {
	return s == ChainStatusNormal || s == ChainStatusPulled
}

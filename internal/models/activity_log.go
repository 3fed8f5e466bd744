package models

import "time"

// ActivityLevel classifies an audit entry.
type ActivityLevel string

const (
	ActivityInfo    ActivityLevel = "info"
	ActivitySuccess ActivityLevel = "success"
	ActivityWarning ActivityLevel = "warning"
	ActivityError   ActivityLevel = "error"
)

// ActivityLog is one append-only audit entry. Writes are fire-and-forget:
// a failed audit write must never fail the operation being audited.
// swagger:model
type ActivityLog struct {
	ID        uint          `json:"id" gorm:"primarykey,autoIncrement"`
	Message   string        `json:"message" gorm:"size:500;not null"`
	Level     ActivityLevel `json:"type" gorm:"size:20;default:info"`
	Timestamp time.Time     `json:"timestamp" gorm:"autoCreateTime;index"`
	UserID    *uint         `json:"user,omitempty" gorm:"index"` // actor, when known
}

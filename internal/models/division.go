package models

import (
	"regexp"
	"time"
)

// numericUID matches the only accepted coach UID format, e.g. "101".
var numericUID = regexp.MustCompile(`^\d+$`)

// IsValidCoachUID reports whether uid is a non-empty numeric string.
func IsValidCoachUID(uid string) bool {
	return numericUID.MatchString(uid)
}

// Coach is one physical car of a train. UIDs are unique within their
// division only, not globally.
// swagger:model
type Coach struct {
	ID         uint   `json:"-" gorm:"primarykey,autoIncrement"`
	DivisionID uint   `json:"-" gorm:"not null;uniqueIndex:idx_division_coach_uid"`
	UID        string `json:"uid" gorm:"size:20;not null;uniqueIndex:idx_division_coach_uid"` // numeric string, e.g. "101"
	Name       string `json:"coach_name" gorm:"size:100;not null"`                            // display name, e.g. "A1"
}

// Division is the administrative record for one train and its coach roster.
// A division must always hold at least one coach.
// swagger:model
type Division struct {
	ID          uint      `json:"id" gorm:"primarykey,autoIncrement"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Division    string    `json:"division" gorm:"size:100;not null"`
	States      string    `json:"states" gorm:"size:100;not null"`
	Cities      string    `json:"cities" gorm:"size:100;not null"`
	TrainName   string    `json:"train_name" gorm:"size:100;not null;index"`
	TrainNumber string    `json:"train_number" gorm:"size:20;not null;uniqueIndex"`
	Coaches     []Coach   `json:"coaches" gorm:"foreignKey:DivisionID;constraint:OnDelete:CASCADE"`
}

// FindCoach returns the roster entry with the given uid, or nil.
func (d *Division) FindCoach(uid string) *Coach {
	for i := range d.Coaches {
		if d.Coaches[i].UID == uid {
			return &d.Coaches[i]
		}
	}
	return nil
}

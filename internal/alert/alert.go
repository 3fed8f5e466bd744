// Package alert holds the derived chain-pull alert type and the delivered-
// alert marker set. Alerts are never persisted: they are recomputed from
// telemetry history on both the submit path and the poll path.
package alert

import (
	"fmt"
	"time"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"
)

// Alert is the derived fact that a coach's chain is in the pulled state.
type Alert struct {
	EventID     uint               `json:"event_id"`
	TrainNumber string             `json:"train_number"`
	TrainName   string             `json:"train_name"`
	CoachUID    string             `json:"coach_uid"`
	CoachName   string             `json:"coach_name"`
	ChainStatus models.ChainStatus `json:"chain_status"`
	Latitude    string             `json:"latitude"`
	Longitude   string             `json:"longitude"`
	Temperature string             `json:"temperature"`
	ReportedAt  time.Time          `json:"reported_at"`
	// IsNew is true only on the submit path, when this event is the first
	// pulled report for its coach; repeats carry false.
	IsNew bool `json:"is_new"`
}

// Key is the composite identity used by the marker set.
func (a *Alert) Key() string {
	return fmt.Sprintf("%s|%s|%d", a.TrainNumber, a.CoachUID, a.EventID)
}

// FromTelemetry builds an alert from a stored record and its resolved division.
func FromTelemetry(t *models.Telemetry, div *models.Division) Alert {
	a := Alert{
		EventID:     t.ID,
		TrainNumber: t.TrainNumber,
		CoachUID:    t.CoachUID,
		ChainStatus: t.ChainStatus,
		Latitude:    t.Latitude,
		Longitude:   t.Longitude,
		Temperature: t.Temperature,
		ReportedAt:  t.CreatedAt,
	}
	if div != nil {
		a.TrainName = div.TrainName
		if coach := div.FindCoach(t.CoachUID); coach != nil {
			a.CoachName = coach.Name
		}
	}
	return a
}

package repository

import (
	"time"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"

	"gorm.io/gorm"
)

type TelemetryRepository struct {
	db *gorm.DB
}

func NewTelemetryRepository(db *gorm.DB) *TelemetryRepository {
	return &TelemetryRepository{db: db}
}

// Append inserts one immutable telemetry record. There is intentionally no
// update or delete method on this repository.
func (r *TelemetryRepository) Append(record *models.Telemetry) error {
	return r.db.Create(record).Error
}

// FindByTrainAndCoach returns all records for one train+coach, newest first.
func (r *TelemetryRepository) FindByTrainAndCoach(trainNumber, coachUID string) ([]models.Telemetry, error) {
	var records []models.Telemetry
	err := r.db.
		Where("train_number = ? AND coach_uid = ?", trainNumber, coachUID).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	return records, err
}

// HasEarlierPulled reports whether a pulled record other than excludeID
// already exists for the train+coach pair. This is the submit-path dedup
// probe: a hit means the incoming pull is a repeat, not a new alert.
func (r *TelemetryRepository) HasEarlierPulled(trainNumber, coachUID string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Telemetry{}).
		Where("train_number = ? AND coach_uid = ? AND chain_status = ? AND id <> ?",
			trainNumber, coachUID, models.ChainStatusPulled, excludeID).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

// LatestPulledPerCoach returns, for each distinct (train_number, coach_uid)
// pair, the single most recent pulled record. Rows where a newer record of
// any status exists for the pair are still included when the newest *pulled*
// one is wanted by the poll path; the poll path itself decides relevance.
func (r *TelemetryRepository) LatestPulledPerCoach() ([]models.Telemetry, error) {
	var records []models.Telemetry
	err := r.db.
		Where("chain_status = ?", models.ChainStatusPulled).
		Where(`id IN (
			SELECT MAX(id) FROM telemetries
			WHERE chain_status = ?
			GROUP BY train_number, coach_uid)`, models.ChainStatusPulled).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	return records, err
}

// LatestPerCoachByTrain returns the most recent record per coach of one
// train, regardless of status. Used to flag roster entries as active.
func (r *TelemetryRepository) LatestPerCoachByTrain(trainNumber string) ([]models.Telemetry, error) {
	var records []models.Telemetry
	err := r.db.
		Where("train_number = ?", trainNumber).
		Where(`id IN (
			SELECT MAX(id) FROM telemetries
			WHERE train_number = ?
			GROUP BY coach_uid)`, trainNumber).
		Order("created_at DESC, id DESC").
		Find(&records).Error
	return records, err
}

// StatusCount is one row of the dashboard aggregation.
type StatusCount struct {
	ChainStatus models.ChainStatus `json:"chain_status"`
	Count       int64              `json:"count"`
	LastUpdate  time.Time          `json:"last_update"`
}

// CountByStatus returns record counts grouped by chain status together with
// the most recent update per status.
func (r *TelemetryRepository) CountByStatus() ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.Model(&models.Telemetry{}).
		Select("chain_status, COUNT(*) AS count, MAX(created_at) AS last_update").
		Group("chain_status").
		Scan(&rows).Error
	return rows, err
}

// Count returns the total number of telemetry records.
func (r *TelemetryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Telemetry{}).Count(&count).Error
	return count, err
}

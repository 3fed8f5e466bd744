package repository

import (
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends one audit entry.
func (r *ActivityRepository) Create(entry *models.ActivityLog) error {
	return r.db.Create(entry).Error
}

// ListRecent returns the latest audit entries, newest first.
func (r *ActivityRepository) ListRecent(limit int) ([]models.ActivityLog, error) {
	var entries []models.ActivityLog
	err := r.db.Order("timestamp DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

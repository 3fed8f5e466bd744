package service

import (
	"log"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/repository"
)

// ActivityService is the audit sink. Record is fire-and-forget by contract:
// callers never learn about a failed write, it only lands in the process log.
type ActivityService struct {
	activityRepo *repository.ActivityRepository
}

func NewActivityService(activityRepo *repository.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// Record appends an audit entry.
func (s *ActivityService) Record(message string, level models.ActivityLevel, userID *uint) {
	if level == "" {
		level = models.ActivityInfo
	}
	entry := &models.ActivityLog{
		Message: message,
		Level:   level,
		UserID:  userID,
	}
	if err := s.activityRepo.Create(entry); err != nil {
		log.Printf("activity log write failed (%s): %v", message, err)
	}
}

// Recent returns the latest entries, newest first.
func (s *ActivityService) Recent(limit int) ([]models.ActivityLog, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.activityRepo.ListRecent(limit)
}

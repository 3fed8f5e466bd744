package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/alert"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/repository"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/apperr"

	"gorm.io/gorm"
)

// AlertService is the poll-side view of the alert pipeline. It re-derives
// active alerts from the latest-pulled-per-coach aggregation rather than
// reusing the submit-path decision: a different trigger (poll time instead
// of insert time) converging on the same fact, that the pair's most recent
// pulled report is still the one of record.
type AlertService struct {
	telemetryRepo *repository.TelemetryRepository
	divisionRepo  *repository.DivisionRepository
	cache         *alert.Cache
}

func NewAlertService(
	telemetryRepo *repository.TelemetryRepository,
	divisionRepo *repository.DivisionRepository,
	cache *alert.Cache,
) *AlertService {
	return &AlertService{
		telemetryRepo: telemetryRepo,
		divisionRepo:  divisionRepo,
		cache:         cache,
	}
}

// PollNew hands out not-yet-delivered alerts: latest pulled record per
// (train, coach), joined against the roster for display names, newest
// first, truncated to limit, then filtered through the delivered-marker
// set. Each (train, coach, event) triple is returned at most once per
// process lifetime, however often clients poll, until ResetDelivered.
func (s *AlertService) PollNew(limit int) ([]alert.Alert, error) {
	if limit <= 0 {
		limit = 10
	}

	records, err := s.telemetryRepo.LatestPulledPerCoach()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}

	divisions := make(map[string]*models.Division)
	candidates := make([]alert.Alert, 0, len(records))
	for i := range records {
		record := &records[i]
		division, ok := divisions[record.TrainNumber]
		if !ok {
			division, err = s.divisionRepo.FindByTrainNumber(record.TrainNumber)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Roster entry gone (division deleted); the
					// orphaned record is tolerated but not alertable.
					divisions[record.TrainNumber] = nil
					continue
				}
				return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
			}
			divisions[record.TrainNumber] = division
		}
		if division == nil || division.FindCoach(record.CoachUID) == nil {
			continue
		}
		candidates = append(candidates, alert.FromTelemetry(record, division))
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ReportedAt.Equal(candidates[j].ReportedAt) {
			return candidates[i].EventID > candidates[j].EventID
		}
		return candidates[i].ReportedAt.After(candidates[j].ReportedAt)
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return s.cache.Filter(candidates), nil
}

// ResetDelivered clears the marker set so current alerts become pollable
// again. Operator escape hatch.
func (s *AlertService) ResetDelivered() {
	s.cache.Reset()
}

// ChainStats is the dashboard aggregation over all stored reports.
type ChainStats struct {
	Total    int64                    `json:"total"`
	ByStatus []repository.StatusCount `json:"by_status"`
}

// Stats returns per-status counts with most-recent-update timestamps.
func (s *AlertService) Stats() (*ChainStats, error) {
	total, err := s.telemetryRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	byStatus, err := s.telemetryRepo.CountByStatus()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	return &ChainStats{Total: total, ByStatus: byStatus}, nil
}

package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/alert"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/notify"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/repository"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/ws"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/apperr"

	"gorm.io/gorm"
)

// TelemetryService validates, stores and classifies field-device reports.
// Validation runs before any write: a record referencing an unknown train or
// an unknown coach within that train is rejected and nothing is persisted,
// so every stored record is attributable to a roster entry that existed at
// write time.
type TelemetryService struct {
	telemetryRepo *repository.TelemetryRepository
	divisionRepo  *repository.DivisionRepository
	notifier      *notify.Notifier
	hub           *ws.Hub

	// submitLocks serializes the append-probe-notify window per
	// (train, coach) key. Without it two concurrent first pulls either
	// both alert or, with the self-exclusion in the probe, suppress each
	// other and nobody alerts.
	mu          sync.Mutex
	submitLocks map[string]*sync.Mutex
}

// TelemetryInput is one device report as submitted over HTTP.
type TelemetryInput struct {
	TrainNumber string             `json:"train_number" binding:"required"`
	CoachUID    string             `json:"coach_uid" binding:"required"`
	ChainStatus models.ChainStatus `json:"chain_status"`
	Latitude    string             `json:"latitude"`
	Longitude   string             `json:"longitude"`
	Temperature string             `json:"temperature"`
	Humidity    string             `json:"humidity"`
	Memory      string             `json:"memory"`
	ErrorCode   string             `json:"error"`
	Date        string             `json:"date"`
	Time        string             `json:"time"`
}

func NewTelemetryService(
	telemetryRepo *repository.TelemetryRepository,
	divisionRepo *repository.DivisionRepository,
	notifier *notify.Notifier,
	hub *ws.Hub,
) *TelemetryService {
	return &TelemetryService{
		telemetryRepo: telemetryRepo,
		divisionRepo:  divisionRepo,
		notifier:      notifier,
		hub:           hub,
		submitLocks:   make(map[string]*sync.Mutex),
	}
}

// resolve looks the report up against the roster: UnknownTrain when no
// division owns the train number, UnknownCoach when the division's roster
// has no entry for the uid.
func (s *TelemetryService) resolve(trainNumber, coachUID string) (*models.Division, error) {
	division, err := s.divisionRepo.FindByTrainNumber(trainNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", apperr.ErrUnknownTrain, trainNumber)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if division.FindCoach(coachUID) == nil {
		return nil, fmt.Errorf("%w: %q on train %q", apperr.ErrUnknownCoach, coachUID, trainNumber)
	}
	return division, nil
}

func (s *TelemetryService) lockFor(trainNumber, coachUID string) *sync.Mutex {
	key := trainNumber + "|" + coachUID
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.submitLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.submitLocks[key] = lock
	}
	return lock
}

// Submit validates and appends one report, then decides whether a pulled
// report is a new alert or a repeat.
//
// The rule is the one inherited from the reference behavior: the first
// pulled record ever stored for a (train, coach) pair alerts, any later
// pulled record is a repeat regardless of intervening normal reports.
// Whether a release (normal) should re-arm the alert is an open product
// question; switching to a strict transition check would mean probing for a
// pulled record newer than the last normal one instead.
//
// Returns the stored record and, for pulled reports, the alert payload;
// alert.IsNew tells the caller whether notifications were dispatched.
func (s *TelemetryService) Submit(input TelemetryInput) (*models.Telemetry, *alert.Alert, error) {
	trainNumber := strings.TrimSpace(input.TrainNumber)
	coachUID := strings.TrimSpace(input.CoachUID)
	if trainNumber == "" || coachUID == "" {
		return nil, nil, fmt.Errorf("%w: train_number and coach_uid are required", apperr.ErrValidation)
	}
	if input.ChainStatus != "" && !models.IsValidChainStatus(input.ChainStatus) {
		return nil, nil, fmt.Errorf("%w: chain_status must be %q or %q",
			apperr.ErrValidation, models.ChainStatusNormal, models.ChainStatusPulled)
	}

	division, err := s.resolve(trainNumber, coachUID)
	if err != nil {
		return nil, nil, err
	}

	record := &models.Telemetry{
		TrainNumber: trainNumber,
		CoachUID:    coachUID,
		ChainStatus: input.ChainStatus,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Temperature: input.Temperature,
		Humidity:    input.Humidity,
		Memory:      input.Memory,
		ErrorCode:   input.ErrorCode,
		Date:        input.Date,
		Time:        input.Time,
		DivisionID:  division.ID,
	}

	if input.ChainStatus != models.ChainStatusPulled {
		if err := s.telemetryRepo.Append(record); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
		}
		return record, nil, nil
	}

	// Pulled report: append and classify under the per-coach lock so only
	// one of any set of concurrent first pulls can win the probe.
	lock := s.lockFor(trainNumber, coachUID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.telemetryRepo.Append(record); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}

	alreadyPulled, err := s.telemetryRepo.HasEarlierPulled(trainNumber, coachUID, record.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}

	a := alert.FromTelemetry(record, division)
	if alreadyPulled {
		// Repeat: the submitting device still gets the alert payload so
		// it sees consistent state, but no mail and no broadcast.
		return record, &a, nil
	}

	a.IsNew = true
	if s.notifier != nil {
		s.notifier.NotifyChainPulled(a)
	}
	if s.hub != nil {
		s.hub.BroadcastAlert(a)
	}
	return record, &a, nil
}

// History returns all stored reports for one train+coach, newest first.
func (s *TelemetryService) History(trainNumber, coachUID string) ([]models.Telemetry, error) {
	trainNumber = strings.TrimSpace(trainNumber)
	coachUID = strings.TrimSpace(coachUID)
	if trainNumber == "" || coachUID == "" {
		return nil, fmt.Errorf("%w: train_number and coach_uid are required", apperr.ErrValidation)
	}
	records, err := s.telemetryRepo.FindByTrainAndCoach(trainNumber, coachUID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no reports for train %q coach %q", apperr.ErrNotFound, trainNumber, coachUID)
	}
	return records, nil
}

// CoachActivity is one roster entry with its latest reported state.
type CoachActivity struct {
	UID         string             `json:"uid"`
	Name        string             `json:"coach_name"`
	Active      bool               `json:"active"`
	ChainStatus models.ChainStatus `json:"chain_status,omitempty"`
	LastReport  *time.Time         `json:"last_report,omitempty"`
}

// AvailableCoaches returns a train's roster flagged with per-coach activity.
// Either the train name or the train number selects the division.
func (s *TelemetryService) AvailableCoaches(trainName, trainNumber string) (*models.Division, []CoachActivity, error) {
	trainName = strings.TrimSpace(trainName)
	trainNumber = strings.TrimSpace(trainNumber)
	if trainName == "" && trainNumber == "" {
		return nil, nil, fmt.Errorf("%w: either train_name or train_number is required", apperr.ErrValidation)
	}

	var division *models.Division
	var err error
	if trainNumber != "" {
		division, err = s.divisionRepo.FindByTrainNumber(trainNumber)
	} else {
		division, err = s.divisionRepo.FindByTrainName(trainName)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: no coaches found for the given train name or number", apperr.ErrNotFound)
		}
		return nil, nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}

	latest, err := s.telemetryRepo.LatestPerCoachByTrain(division.TrainNumber)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	latestByUID := make(map[string]models.Telemetry, len(latest))
	for _, record := range latest {
		latestByUID[record.CoachUID] = record
	}

	activity := make([]CoachActivity, 0, len(division.Coaches))
	for _, coach := range division.Coaches {
		entry := CoachActivity{UID: coach.UID, Name: coach.Name}
		if record, ok := latestByUID[coach.UID]; ok {
			entry.Active = true
			entry.ChainStatus = record.ChainStatus
			reportedAt := record.CreatedAt
			entry.LastReport = &reportedAt
		}
		activity = append(activity, entry)
	}
	return division, activity, nil
}

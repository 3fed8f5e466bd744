package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/repository"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/apperr"

	"gorm.io/gorm"
)

// DivisionService is the coach roster store: it owns every mutation of the
// division records and enforces the roster invariants (unique train number,
// per-division unique numeric coach UIDs, never an empty roster) at the
// boundary rather than trusting callers.
type DivisionService struct {
	divisionRepo *repository.DivisionRepository
}

// CoachInput is one roster entry as submitted by the admin frontend.
type CoachInput struct {
	UID  string `json:"uid" binding:"required"`
	Name string `json:"coach_name" binding:"required"`
}

// DivisionInput carries the fields for creating a division.
type DivisionInput struct {
	Division    string       `json:"division"`
	States      string       `json:"states"`
	Cities      string       `json:"cities"`
	TrainName   string       `json:"train_name"`
	TrainNumber string       `json:"train_number"`
	Coaches     []CoachInput `json:"coaches"`
}

// DivisionUpdate carries a partial update; nil fields are left untouched.
// A non-nil Coaches slice replaces the whole roster.
type DivisionUpdate struct {
	Division    *string       `json:"division"`
	States      *string       `json:"states"`
	Cities      *string       `json:"cities"`
	TrainName   *string       `json:"train_name"`
	TrainNumber *string       `json:"train_number"`
	Coaches     *[]CoachInput `json:"coaches"`
}

func NewDivisionService(divisionRepo *repository.DivisionRepository) *DivisionService {
	return &DivisionService{divisionRepo: divisionRepo}
}

// validateCoaches normalizes and checks a submitted roster: non-empty,
// numeric string UIDs, no duplicate UID, no blank name.
func validateCoaches(coaches []CoachInput) ([]models.Coach, error) {
	if len(coaches) == 0 {
		return nil, fmt.Errorf("%w: at least one coach must be provided", apperr.ErrValidation)
	}

	validated := make([]models.Coach, 0, len(coaches))
	seen := make(map[string]struct{}, len(coaches))
	for i, coach := range coaches {
		uid := strings.TrimSpace(coach.UID)
		name := strings.TrimSpace(coach.Name)
		if !models.IsValidCoachUID(uid) {
			return nil, fmt.Errorf("%w: coach at position %d has invalid UID %q, UID must be a numeric string",
				apperr.ErrValidation, i+1, coach.UID)
		}
		if name == "" {
			return nil, fmt.Errorf("%w: coach at position %d has empty coach_name", apperr.ErrValidation, i+1)
		}
		if _, dup := seen[uid]; dup {
			return nil, fmt.Errorf("%w: duplicate UID %q at position %d, each coach must have a unique UID",
				apperr.ErrValidation, uid, i+1)
		}
		seen[uid] = struct{}{}
		validated = append(validated, models.Coach{UID: uid, Name: name})
	}
	return validated, nil
}

// Create validates and persists a new division with its roster.
func (s *DivisionService) Create(input DivisionInput) (*models.Division, error) {
	division := strings.TrimSpace(input.Division)
	states := strings.TrimSpace(input.States)
	cities := strings.TrimSpace(input.Cities)
	trainName := strings.TrimSpace(input.TrainName)
	trainNumber := strings.TrimSpace(input.TrainNumber)

	if division == "" || states == "" || cities == "" || trainName == "" || trainNumber == "" {
		return nil, fmt.Errorf("%w: division, states, cities, train_name and train_number are all required",
			apperr.ErrValidation)
	}

	coaches, err := validateCoaches(input.Coaches)
	if err != nil {
		return nil, err
	}

	exists, err := s.divisionRepo.ExistsTrainNumber(trainNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if exists {
		return nil, fmt.Errorf("%w: train number %q already exists", apperr.ErrConflict, trainNumber)
	}

	record := &models.Division{
		Division:    division,
		States:      states,
		Cities:      cities,
		TrainName:   trainName,
		TrainNumber: trainNumber,
		Coaches:     coaches,
	}
	if err := s.divisionRepo.Create(record); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	return record, nil
}

// Update applies a partial update. A supplied coach list replaces the whole
// roster after the same per-coach validation as Create.
func (s *DivisionService) Update(id uint, update DivisionUpdate) (*models.Division, error) {
	division, err := s.divisionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: division %d", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}

	if update.Division != nil {
		division.Division = strings.TrimSpace(*update.Division)
	}
	if update.States != nil {
		division.States = strings.TrimSpace(*update.States)
	}
	if update.Cities != nil {
		division.Cities = strings.TrimSpace(*update.Cities)
	}
	if update.TrainName != nil {
		division.TrainName = strings.TrimSpace(*update.TrainName)
	}
	if update.TrainNumber != nil {
		newNumber := strings.TrimSpace(*update.TrainNumber)
		if newNumber == "" {
			return nil, fmt.Errorf("%w: train_number cannot be blank", apperr.ErrValidation)
		}
		if newNumber != division.TrainNumber {
			exists, err := s.divisionRepo.ExistsTrainNumber(newNumber)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
			}
			if exists {
				return nil, fmt.Errorf("%w: train number %q already exists", apperr.ErrConflict, newNumber)
			}
		}
		division.TrainNumber = newNumber
	}
	if division.Division == "" || division.States == "" || division.Cities == "" || division.TrainName == "" {
		return nil, fmt.Errorf("%w: fields cannot be blanked out", apperr.ErrValidation)
	}

	var newRoster []models.Coach
	if update.Coaches != nil {
		newRoster, err = validateCoaches(*update.Coaches)
		if err != nil {
			return nil, err
		}
	}

	if err := s.divisionRepo.Update(division); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if newRoster != nil {
		if err := s.divisionRepo.ReplaceCoaches(division.ID, newRoster); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
		}
	}
	return s.FindByID(id)
}

// AddCoach appends one coach to an existing division's roster.
func (s *DivisionService) AddCoach(divisionID uint, uid, name string) (*models.Division, error) {
	uid = strings.TrimSpace(uid)
	name = strings.TrimSpace(name)
	if !models.IsValidCoachUID(uid) {
		return nil, fmt.Errorf("%w: UID must be a numeric string", apperr.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: coach_name is required", apperr.ErrValidation)
	}

	division, err := s.divisionRepo.FindByID(divisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: division %d", apperr.ErrNotFound, divisionID)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if division.FindCoach(uid) != nil {
		return nil, fmt.Errorf("%w: coach with UID %q already exists", apperr.ErrConflict, uid)
	}

	coach := &models.Coach{DivisionID: division.ID, UID: uid, Name: name}
	if err := s.divisionRepo.AddCoach(coach); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	return s.FindByID(divisionID)
}

// RemoveCoach deletes one coach from a roster. Removing the last coach is
// refused: the non-empty roster invariant holds across every mutation.
func (s *DivisionService) RemoveCoach(divisionID uint, uid string) (*models.Division, error) {
	division, err := s.divisionRepo.FindByID(divisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: division %d", apperr.ErrNotFound, divisionID)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if division.FindCoach(uid) == nil {
		return nil, fmt.Errorf("%w: coach with UID %q", apperr.ErrNotFound, uid)
	}
	if len(division.Coaches) == 1 {
		return nil, fmt.Errorf("%w: a division must keep at least one coach", apperr.ErrValidation)
	}

	removed, err := s.divisionRepo.RemoveCoach(divisionID, uid)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if removed == 0 {
		return nil, fmt.Errorf("%w: coach with UID %q", apperr.ErrNotFound, uid)
	}
	return s.FindByID(divisionID)
}

// Delete removes a division. Historical telemetry referencing the train is
// deliberately left untouched.
func (s *DivisionService) Delete(id uint) (*models.Division, error) {
	division, err := s.divisionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: division %d", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if err := s.divisionRepo.Delete(id); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	return division, nil
}

// FindByID returns one division with its roster.
func (s *DivisionService) FindByID(id uint) (*models.Division, error) {
	division, err := s.divisionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: division %d", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	return division, nil
}

// FindByTrainNumber returns the division owning a train number.
func (s *DivisionService) FindByTrainNumber(trainNumber string) (*models.Division, error) {
	division, err := s.divisionRepo.FindByTrainNumber(strings.TrimSpace(trainNumber))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: train number %q", apperr.ErrNotFound, trainNumber)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	return division, nil
}

// FindByTrainName returns the division with the given train name.
func (s *DivisionService) FindByTrainName(trainName string) (*models.Division, error) {
	division, err := s.divisionRepo.FindByTrainName(strings.TrimSpace(trainName))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: train name %q", apperr.ErrNotFound, trainName)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	return division, nil
}

// ListAll returns every division, newest first.
func (s *DivisionService) ListAll() ([]models.Division, error) {
	return s.divisionRepo.ListAll()
}

// ListRecent returns the most recently added divisions for the dashboard.
func (s *DivisionService) ListRecent(n int) ([]models.Division, error) {
	if n <= 0 {
		n = 4
	}
	return s.divisionRepo.ListRecent(n)
}

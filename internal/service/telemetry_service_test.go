package service

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/notify"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/repository"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/apperr"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type telemetryFixture struct {
	service       *TelemetryService
	telemetryRepo *repository.TelemetryRepository
	mailer        *recorderMailer
	db            *gorm.DB
}

// newTelemetryFixture seeds one division (train 12345, coaches 101/102) and
// the given number of registered users.
func newTelemetryFixture(t *testing.T, numUsers int) *telemetryFixture {
	t.Helper()
	db := newTestDB(t)

	divisionRepo := repository.NewDivisionRepository(db)
	telemetryRepo := repository.NewTelemetryRepository(db)
	userRepo := repository.NewUserRepository(db)

	division := &models.Division{
		Division:    "Eastern",
		States:      "West Bengal",
		Cities:      "Howrah",
		TrainName:   "Howrah Express",
		TrainNumber: "12345",
		Coaches: []models.Coach{
			{UID: "101", Name: "A1"},
			{UID: "102", Name: "B1"},
		},
	}
	if err := divisionRepo.Create(division); err != nil {
		t.Fatalf("seeding division: %v", err)
	}

	hashed, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	for i := 0; i < numUsers; i++ {
		user := &models.User{
			Username:    fmt.Sprintf("user%d", i),
			Email:       fmt.Sprintf("user%d@example.com", i),
			PhoneNumber: fmt.Sprintf("90000000%02d", i),
			Password:    string(hashed),
		}
		if err := userRepo.Create(user); err != nil {
			t.Fatalf("seeding user %d: %v", i, err)
		}
	}

	mailer := &recorderMailer{}
	notifier := notify.NewNotifier(mailer, userRepo)

	return &telemetryFixture{
		service:       NewTelemetryService(telemetryRepo, divisionRepo, notifier, nil),
		telemetryRepo: telemetryRepo,
		mailer:        mailer,
		db:            db,
	}
}

func pulledInput(coachUID string) TelemetryInput {
	return TelemetryInput{
		TrainNumber: "12345",
		CoachUID:    coachUID,
		ChainStatus: models.ChainStatusPulled,
		Latitude:    "22.5958",
		Longitude:   "88.2636",
		Temperature: "31.2",
	}
}

func (f *telemetryFixture) storedCount(t *testing.T) int64 {
	t.Helper()
	count, err := f.telemetryRepo.Count()
	if err != nil {
		t.Fatalf("counting records: %v", err)
	}
	return count
}

func TestSubmitUnknownTrainPersistsNothing(t *testing.T) {
	f := newTelemetryFixture(t, 1)

	input := pulledInput("101")
	input.TrainNumber = "99999"
	_, _, err := f.service.Submit(input)
	if !errors.Is(err, apperr.ErrUnknownTrain) {
		t.Fatalf("expected unknown-train error, got %v", err)
	}

	if got := f.storedCount(t); got != 0 {
		t.Errorf("expected nothing persisted, found %d records", got)
	}
	if len(f.mailer.Sent()) != 0 {
		t.Errorf("expected no mail, got %d", len(f.mailer.Sent()))
	}
}

func TestSubmitUnknownCoachPersistsNothing(t *testing.T) {
	f := newTelemetryFixture(t, 1)

	_, _, err := f.service.Submit(pulledInput("999"))
	if !errors.Is(err, apperr.ErrUnknownCoach) {
		t.Fatalf("expected unknown-coach error, got %v", err)
	}

	if got := f.storedCount(t); got != 0 {
		t.Errorf("expected nothing persisted, found %d records", got)
	}
}

func TestSubmitNormalNoAlert(t *testing.T) {
	f := newTelemetryFixture(t, 2)

	input := pulledInput("101")
	input.ChainStatus = models.ChainStatusNormal
	record, a, err := f.service.Submit(input)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if a != nil {
		t.Errorf("expected no alert for a normal report, got %+v", a)
	}
	if record.ID == 0 {
		t.Error("expected record persisted with an ID")
	}
	if len(f.mailer.Sent()) != 0 {
		t.Errorf("expected no mail for a normal report, got %d", len(f.mailer.Sent()))
	}
}

func TestSubmitDefaultsApplied(t *testing.T) {
	f := newTelemetryFixture(t, 0)

	record, _, err := f.service.Submit(TelemetryInput{TrainNumber: "12345", CoachUID: "101"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if record.ChainStatus != models.ChainStatusNormal {
		t.Errorf("expected default chain status %q, got %q", models.ChainStatusNormal, record.ChainStatus)
	}
	if record.ErrorCode != "000" {
		t.Errorf("expected default error code 000, got %q", record.ErrorCode)
	}
	if record.Memory != "Not available" || record.Humidity != "Not available" {
		t.Errorf("expected placeholder defaults, got memory=%q humidity=%q", record.Memory, record.Humidity)
	}
}

func TestFirstPullAlertsEveryUser(t *testing.T) {
	f := newTelemetryFixture(t, 3)

	record, a, err := f.service.Submit(pulledInput("101"))
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if a == nil || !a.IsNew {
		t.Fatalf("expected a new alert, got %+v", a)
	}
	if a.EventID != record.ID {
		t.Errorf("alert event %d does not match record %d", a.EventID, record.ID)
	}
	if a.TrainName != "Howrah Express" || a.CoachName != "A1" {
		t.Errorf("alert not joined against roster: train=%q coach=%q", a.TrainName, a.CoachName)
	}

	sent := f.mailer.Sent()
	if len(sent) != 3 {
		t.Fatalf("expected one mail per user (3), got %d", len(sent))
	}
	for _, m := range sent {
		if m.Subject != "Chain Pulled Notification" {
			t.Errorf("unexpected subject %q", m.Subject)
		}
	}
}

func TestRepeatPullSuppressed(t *testing.T) {
	f := newTelemetryFixture(t, 2)

	if _, _, err := f.service.Submit(pulledInput("101")); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	// Release in between does not re-arm the alert.
	release := pulledInput("101")
	release.ChainStatus = models.ChainStatusNormal
	if _, _, err := f.service.Submit(release); err != nil {
		t.Fatalf("release Submit: %v", err)
	}

	record, a, err := f.service.Submit(pulledInput("101"))
	if err != nil {
		t.Fatalf("repeat Submit: %v", err)
	}
	if a == nil {
		t.Fatal("expected the repeat to still carry an alert payload")
	}
	if a.IsNew {
		t.Error("expected repeat pull classified as not new")
	}
	if record.ID == 0 {
		t.Error("expected the repeat record persisted regardless")
	}

	if got := len(f.mailer.Sent()); got != 2 {
		t.Errorf("expected only the first burst of 2 mails, got %d", got)
	}
	if count := f.storedCount(t); count != 3 {
		t.Errorf("expected all 3 reports stored, got %d", count)
	}
}

func TestPullsOnDifferentCoachesAlertIndependently(t *testing.T) {
	f := newTelemetryFixture(t, 1)

	_, a1, err := f.service.Submit(pulledInput("101"))
	if err != nil {
		t.Fatalf("Submit 101: %v", err)
	}
	_, a2, err := f.service.Submit(pulledInput("102"))
	if err != nil {
		t.Fatalf("Submit 102: %v", err)
	}
	if !a1.IsNew || !a2.IsNew {
		t.Errorf("expected both coaches to alert, got %v and %v", a1.IsNew, a2.IsNew)
	}
	if got := len(f.mailer.Sent()); got != 2 {
		t.Errorf("expected 2 mails, got %d", got)
	}
}

// TestConcurrentFirstPulls checks that racing first pulls for one coach
// produce exactly one notification burst: every submission is stored, but
// only one wins the new-alert classification.
func TestConcurrentFirstPulls(t *testing.T) {
	f := newTelemetryFixture(t, 2)

	numGoroutines := 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	newCount := 0

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, a, err := f.service.Submit(pulledInput("101"))
			if err != nil {
				t.Errorf("Submit: %v", err)
				return
			}
			if a != nil && a.IsNew {
				mu.Lock()
				newCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if newCount != 1 {
		t.Errorf("expected exactly 1 new alert, got %d", newCount)
	}
	if got := len(f.mailer.Sent()); got != 2 {
		t.Errorf("expected one burst of 2 mails, got %d", got)
	}
	if count := f.storedCount(t); count != int64(numGoroutines) {
		t.Errorf("expected %d stored records, got %d", numGoroutines, count)
	}
}

func TestHistory(t *testing.T) {
	f := newTelemetryFixture(t, 0)

	if _, err := f.service.History("12345", "101"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not-found for empty history, got %v", err)
	}

	for i := 0; i < 3; i++ {
		input := pulledInput("101")
		input.ChainStatus = models.ChainStatusNormal
		if _, _, err := f.service.Submit(input); err != nil {
			t.Fatalf("Submit %d: %v", i, err)
		}
	}

	records, err := f.service.History("12345", "101")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	for i := 1; i < len(records); i++ {
		if records[i].ID > records[i-1].ID {
			t.Errorf("history not newest first at index %d", i)
		}
	}
}

func TestAvailableCoaches(t *testing.T) {
	f := newTelemetryFixture(t, 0)

	input := pulledInput("101")
	if _, _, err := f.service.Submit(input); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	division, activity, err := f.service.AvailableCoaches("", "12345")
	if err != nil {
		t.Fatalf("AvailableCoaches by number: %v", err)
	}
	if division.TrainNumber != "12345" {
		t.Errorf("wrong division resolved: %q", division.TrainNumber)
	}
	if len(activity) != 2 {
		t.Fatalf("expected 2 roster entries, got %d", len(activity))
	}

	byUID := make(map[string]CoachActivity)
	for _, entry := range activity {
		byUID[entry.UID] = entry
	}
	if !byUID["101"].Active || byUID["101"].ChainStatus != models.ChainStatusPulled {
		t.Errorf("coach 101 should be active and pulled, got %+v", byUID["101"])
	}
	if byUID["102"].Active {
		t.Errorf("coach 102 never reported, should be inactive, got %+v", byUID["102"])
	}

	if _, _, err := f.service.AvailableCoaches("Howrah Express", ""); err != nil {
		t.Errorf("AvailableCoaches by name: %v", err)
	}
	if _, _, err := f.service.AvailableCoaches("No Such Train", ""); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not-found for unknown train, got %v", err)
	}
}

package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/notify"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/repository"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/apperr"

	"golang.org/x/crypto/bcrypt"
)

type userFixture struct {
	service  *UserService
	userRepo *repository.UserRepository
	mailer   *recorderMailer
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	mailer := &recorderMailer{}
	return &userFixture{
		service:  NewUserService(userRepo, notify.NewNotifier(mailer, userRepo)),
		userRepo: userRepo,
		mailer:   mailer,
	}
}

func registerInput() RegisterInput {
	return RegisterInput{
		Username:    "akarshan",
		Email:       "akarshan@example.com",
		PhoneNumber: "9876543210",
		Password:    "secret123",
	}
}

func (f *userFixture) seedAdmin(t *testing.T) *models.User {
	t.Helper()
	hashed, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	admin := &models.User{
		Username:    "admin",
		Email:       "admin@example.com",
		PhoneNumber: "1111111111",
		Password:    string(hashed),
		Role:        models.RoleAdmin,
	}
	if err := f.userRepo.Create(admin); err != nil {
		t.Fatalf("seeding admin: %v", err)
	}
	return admin
}

func TestRegisterAndLogin(t *testing.T) {
	f := newUserFixture(t)

	user, err := f.service.Register(registerInput())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != models.RoleUser {
		t.Errorf("expected default role %q, got %q", models.RoleUser, user.Role)
	}
	if user.Password == "secret123" {
		t.Error("password stored in plain text")
	}

	sent := f.mailer.Sent()
	if len(sent) != 1 || sent[0].Subject != "Welcome to Rail Watch!" {
		t.Errorf("expected one welcome mail, got %+v", sent)
	}

	if _, err := f.service.Login("akarshan@example.com", "", "secret123"); err != nil {
		t.Errorf("login by email: %v", err)
	}
	if _, err := f.service.Login("", "9876543210", "secret123"); err != nil {
		t.Errorf("login by phone: %v", err)
	}
	if _, err := f.service.Login("akarshan@example.com", "", "wrong"); !errors.Is(err, apperr.ErrAuth) {
		t.Errorf("expected auth error for wrong password, got %v", err)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	f := newUserFixture(t)

	if _, err := f.service.Register(registerInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	dup := registerInput()
	dup.PhoneNumber = "1234509876"
	if _, err := f.service.Register(dup); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected conflict for duplicate email, got %v", err)
	}

	dup = registerInput()
	dup.Email = "other@example.com"
	if _, err := f.service.Register(dup); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("expected conflict for duplicate phone number, got %v", err)
	}
}

func TestRegisterSurvivesMailFailure(t *testing.T) {
	f := newUserFixture(t)
	f.mailer.fail = true

	if _, err := f.service.Register(registerInput()); err != nil {
		t.Errorf("registration must not fail on welcome-mail failure, got %v", err)
	}
}

func TestAdminLoginFlow(t *testing.T) {
	f := newUserFixture(t)
	f.seedAdmin(t)

	if err := f.service.AdminLogin("admin@example.com", "admin123"); err != nil {
		t.Fatalf("AdminLogin: %v", err)
	}

	sent := f.mailer.Sent()
	if len(sent) != 1 || sent[0].Subject != "Admin Login OTP" {
		t.Fatalf("expected one OTP mail, got %+v", sent)
	}

	// Pull the issued OTP back out of storage.
	admin, err := f.userRepo.FindByEmail("admin@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if len(admin.ResetOTP) != 6 {
		t.Fatalf("expected a 6-digit OTP stored, got %q", admin.ResetOTP)
	}
	if !strings.Contains(sent[0].Body, admin.ResetOTP) {
		t.Errorf("OTP mail body does not carry the stored OTP")
	}

	verified, err := f.service.AdminVerifyOTP("admin@example.com", admin.ResetOTP)
	if err != nil {
		t.Fatalf("AdminVerifyOTP: %v", err)
	}
	if verified.Role != models.RoleAdmin {
		t.Errorf("expected admin role on verified user, got %q", verified.Role)
	}

	// The OTP is single-use.
	if _, err := f.service.AdminVerifyOTP("admin@example.com", admin.ResetOTP); !errors.Is(err, apperr.ErrAuth) {
		t.Errorf("expected auth error on OTP reuse, got %v", err)
	}
}

func TestAdminLoginRejectsRegularUser(t *testing.T) {
	f := newUserFixture(t)

	if _, err := f.service.Register(registerInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := f.service.AdminLogin("akarshan@example.com", "secret123"); !errors.Is(err, apperr.ErrForbidden) {
		t.Errorf("expected forbidden for non-admin, got %v", err)
	}
}

func TestAdminVerifyOTPExpired(t *testing.T) {
	f := newUserFixture(t)
	admin := f.seedAdmin(t)

	expired := time.Now().Add(-time.Minute)
	admin.ResetOTP = "123456"
	admin.ResetOTPExpireAt = &expired
	if err := f.userRepo.Update(admin); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := f.service.AdminVerifyOTP("admin@example.com", "123456"); !errors.Is(err, apperr.ErrAuth) {
		t.Errorf("expected auth error for expired OTP, got %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	f := newUserFixture(t)

	if _, err := f.service.Register(registerInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := f.service.ForgotPassword("akarshan@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	user, err := f.userRepo.FindByEmail("akarshan@example.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}

	if err := f.service.ResetPassword("akarshan@example.com", "000000", "newsecret"); !errors.Is(err, apperr.ErrAuth) {
		t.Errorf("expected auth error for wrong OTP, got %v", err)
	}
	if err := f.service.ResetPassword("akarshan@example.com", user.ResetOTP, "newsecret"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := f.service.Login("akarshan@example.com", "", "secret123"); !errors.Is(err, apperr.ErrAuth) {
		t.Errorf("old password still valid after reset")
	}
	if _, err := f.service.Login("akarshan@example.com", "", "newsecret"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}

func TestVerifyEmail(t *testing.T) {
	f := newUserFixture(t)

	if _, err := f.service.Register(registerInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := f.service.ForgotPassword("akarshan@example.com"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	user, _ := f.userRepo.FindByEmail("akarshan@example.com")

	if err := f.service.VerifyEmail("akarshan@example.com", user.ResetOTP); err != nil {
		t.Fatalf("VerifyEmail: %v", err)
	}
	user, _ = f.userRepo.FindByEmail("akarshan@example.com")
	if !user.IsVerified {
		t.Error("expected user marked verified")
	}
}

func TestBroadcastMail(t *testing.T) {
	f := newUserFixture(t)

	if _, err := f.service.Register(registerInput()); err != nil {
		t.Fatalf("Register: %v", err)
	}
	second := registerInput()
	second.Email = "second@example.com"
	second.PhoneNumber = "1029384756"
	if _, err := f.service.Register(second); err != nil {
		t.Fatalf("second Register: %v", err)
	}
	before := len(f.mailer.Sent())

	sent, err := f.service.BroadcastMail("Maintenance", "Scheduled downtime tonight.", "")
	if err != nil {
		t.Fatalf("BroadcastMail all: %v", err)
	}
	if sent != 2 {
		t.Errorf("expected 2 recipients, got %d", sent)
	}
	if got := len(f.mailer.Sent()) - before; got != 2 {
		t.Errorf("expected 2 new mails, got %d", got)
	}

	sent, err = f.service.BroadcastMail("Hello", "Just you.", "second@example.com")
	if err != nil {
		t.Fatalf("BroadcastMail single: %v", err)
	}
	if sent != 1 {
		t.Errorf("expected 1 recipient, got %d", sent)
	}

	if _, err := f.service.BroadcastMail("", "body", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected validation error for empty subject, got %v", err)
	}
	if _, err := f.service.BroadcastMail("s", "b", "nobody@example.com"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not-found for unknown recipient, got %v", err)
	}
}

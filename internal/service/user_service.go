package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/notify"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/repository"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/apperr"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	adminOTPWindow = 15 * time.Minute // admin login second factor
	resetOTPWindow = 10 * time.Minute // password reset / email verification
)

// UserService owns accounts: registration, password and OTP flows, lookups.
type UserService struct {
	userRepo *repository.UserRepository
	notifier *notify.Notifier
}

func NewUserService(userRepo *repository.UserRepository, notifier *notify.Notifier) *UserService {
	return &UserService{
		userRepo: userRepo,
		notifier: notifier,
	}
}

// RegisterInput carries a new account request.
type RegisterInput struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
}

// Register creates an account and sends the welcome mail best-effort.
func (s *UserService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: user already exists with this email", apperr.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if _, err := s.userRepo.FindByPhoneNumber(input.PhoneNumber); err == nil {
		return nil, fmt.Errorf("%w: user already exists with this phone number", apperr.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}

	user := &models.User{
		Username:    strings.TrimSpace(input.Username),
		Email:       email,
		PhoneNumber: strings.TrimSpace(input.PhoneNumber),
		Password:    string(hashed),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}

	if s.notifier != nil {
		if err := s.notifier.SendWelcome(user.Email, user.Username); err != nil {
			log.Printf("welcome mail to %s failed: %v", user.Email, err)
		}
	}
	return user, nil
}

// Login verifies a password against the account found by email or phone
// number and returns the user on success.
func (s *UserService) Login(email, phoneNumber, password string) (*models.User, error) {
	if (email == "" && phoneNumber == "") || password == "" {
		return nil, fmt.Errorf("%w: email or phone number and password are required", apperr.ErrValidation)
	}

	var user *models.User
	var err error
	if email != "" {
		user, err = s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	} else {
		user, err = s.userRepo.FindByPhoneNumber(strings.TrimSpace(phoneNumber))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invalid email/phone number or password", apperr.ErrAuth)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("%w: invalid email/phone number or password", apperr.ErrAuth)
	}
	return user, nil
}

// issueOTP generates, stores and mails a one-time password.
func (s *UserService) issueOTP(user *models.User, subject string, window time.Duration) error {
	otp, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	expiry := time.Now().Add(window)
	user.ResetOTP = otp
	user.ResetOTPExpireAt = &expiry
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if err := s.notifier.SendOTP(user.Email, subject, otp, int(window.Minutes())); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrDelivery, err)
	}
	return nil
}

// AdminLogin runs the first factor of the admin flow: password check, then
// an OTP mailed to the admin's address. The JWT comes only from
// AdminVerifyOTP.
func (s *UserService) AdminLogin(email, password string) error {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user not found", apperr.ErrNotFound)
		}
		return fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if user.Role != models.RoleAdmin {
		return fmt.Errorf("%w: not an admin account", apperr.ErrForbidden)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return fmt.Errorf("%w: invalid email or password", apperr.ErrAuth)
	}
	return s.issueOTP(user, "Admin Login OTP", adminOTPWindow)
}

// AdminVerifyOTP runs the second factor and returns the admin user for
// token issuance. The stored OTP is cleared on success.
func (s *UserService) AdminVerifyOTP(email, otp string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: admin not found", apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if user.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: not an admin account", apperr.ErrForbidden)
	}
	if !user.OTPValid(otp, time.Now()) {
		return nil, fmt.Errorf("%w: invalid or expired OTP", apperr.ErrAuth)
	}

	user.ResetOTP = ""
	user.ResetOTPExpireAt = nil
	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	return user, nil
}

// ForgotPassword mails a password-reset OTP.
func (s *UserService) ForgotPassword(email string) error {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user not found", apperr.ErrNotFound)
		}
		return fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	return s.issueOTP(user, "Password Reset OTP", resetOTPWindow)
}

// ResetPassword sets a new password when the OTP checks out.
func (s *UserService) ResetPassword(email, otp, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", apperr.ErrValidation)
	}
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user not found", apperr.ErrNotFound)
		}
		return fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if !user.OTPValid(otp, time.Now()) {
		return fmt.Errorf("%w: invalid or expired OTP", apperr.ErrAuth)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	user.Password = string(hashed)
	user.ResetOTP = ""
	user.ResetOTPExpireAt = nil
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	return nil
}

// VerifyEmail marks the account verified when the OTP checks out.
func (s *UserService) VerifyEmail(email, otp string) error {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: user not found", apperr.ErrNotFound)
		}
		return fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	if !user.OTPValid(otp, time.Now()) {
		return fmt.Errorf("%w: invalid or expired OTP", apperr.ErrAuth)
	}

	user.ResetOTP = ""
	user.ResetOTPExpireAt = nil
	user.IsVerified = true
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	return nil
}

// GetByID returns one user.
func (s *UserService) GetByID(id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	return user, nil
}

// List returns one page of users for the admin console.
func (s *UserService) List(page, size int) ([]models.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}
	users, total, err := s.userRepo.List((page-1)*size, size)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
	}
	return users, total, nil
}

// IsAdmin reports whether the user holds the admin role.
func (s *UserService) IsAdmin(id uint) (bool, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return false, err
	}
	return user.Role == models.RoleAdmin, nil
}

// BroadcastMail sends an admin-composed message to one user (by email) or,
// with an empty email, to every registered user. Per-recipient failures are
// logged and skipped, mirroring the alert dispatch policy.
func (s *UserService) BroadcastMail(subject, message, email string) (int, error) {
	if subject == "" || message == "" {
		return 0, fmt.Errorf("%w: subject and message are required", apperr.ErrValidation)
	}

	var recipients []string
	if email != "" {
		user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, fmt.Errorf("%w: user with this email not found", apperr.ErrNotFound)
			}
			return 0, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
		}
		recipients = []string{user.Email}
	} else {
		var err error
		recipients, err = s.userRepo.ListEmails()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", apperr.ErrInternal, err)
		}
	}

	sent := 0
	for _, to := range recipients {
		if err := s.notifier.Send(to, subject, message); err != nil {
			log.Printf("broadcast mail to %s failed: %v", to, err)
			continue
		}
		sent++
	}
	return sent, nil
}

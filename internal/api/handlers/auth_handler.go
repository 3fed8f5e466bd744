package handlers

import (
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/service"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/utils"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Password    string `json:"password" binding:"required"`
}

type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type OTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type AuthHandler struct {
	userService *service.UserService
}

func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Creates a user account and sends a welcome mail
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body service.RegisterInput true "registration details"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	user, err := h.userService.Register(req)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		utils.Error(c, utils.ERROR, "failed to generate token")
		return
	}

	utils.SuccessWithMessage(c, gin.H{"token": token, "user": user}, "user registered successfully")
}

// Login godoc
// @Summary Log in with email or phone number
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body LoginRequest true "credentials"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	user, err := h.userService.Login(req.Email, req.PhoneNumber, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		utils.Error(c, utils.ERROR, "failed to generate token")
		return
	}

	utils.SuccessWithMessage(c, gin.H{
		"token": token,
		"id":    user.ID,
		"role":  user.Role,
	}, "login successful")
}

// AdminLogin godoc
// @Summary Admin login, first factor
// @Description Verifies the password and mails a one-time password valid for 15 minutes
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body AdminLoginRequest true "admin credentials"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 403 {object} utils.Response
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	if err := h.userService.AdminLogin(req.Email, req.Password); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, nil, "OTP sent to your email, please verify to complete login")
}

// AdminVerifyOTP godoc
// @Summary Admin login, second factor
// @Description Verifies the mailed OTP and issues the JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param otpRequest body OTPRequest true "email and OTP"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /auth/admin/verify-otp [post]
func (h *AuthHandler) AdminVerifyOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	user, err := h.userService.AdminVerifyOTP(req.Email, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		utils.Error(c, utils.ERROR, "failed to generate token")
		return
	}

	utils.SuccessWithMessage(c, gin.H{"token": token}, "admin OTP verified, login complete")
}

// ForgotPassword godoc
// @Summary Request a password-reset OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{email=string} true "account email"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	if err := h.userService.ForgotPassword(req.Email); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, nil, "OTP sent to your email")
}

// ResetPassword godoc
// @Summary Reset the password using a mailed OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "email, OTP and new password"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	if err := h.userService.ResetPassword(req.Email, req.OTP, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, nil, "password reset successfully")
}

// VerifyEmail godoc
// @Summary Verify the account email using a mailed OTP
// @Tags auth
// @Accept json
// @Produce json
// @Param otpRequest body OTPRequest true "email and OTP"
// @Success 200 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Router /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	if err := h.userService.VerifyEmail(req.Email, req.OTP); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, nil, "email verified successfully")
}

// GetCurrentUser godoc
// @Summary Get the currently authenticated user
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=models.User}
// @Failure 401 {object} utils.Response
// @Router /auth/me [get]
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		utils.Error(c, utils.UNAUTHORIZED, "not logged in")
		return
	}

	user, err := h.userService.GetByID(userID.(uint))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, user)
}

package handlers

import (
	"strconv"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/service"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetUser godoc
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "user id"
// @Success 200 {object} utils.Response{data=models.User}
// @Failure 404 {object} utils.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "invalid user id")
		return
	}

	user, err := h.userService.GetByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, user)
}

// ListUsers godoc
// @Summary List registered users
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "page (default 1)"
// @Param size query int false "page size (default 10)"
// @Success 200 {object} utils.Response{data=utils.PageResult}
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	users, total, err := h.userService.List(page, size)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithPage(c, users, page, size, total)
}

type BroadcastMailRequest struct {
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
	Email   string `json:"email"` // empty means every registered user
}

// BroadcastMail godoc
// @Summary Send a mail to one user or to everyone
// @Description Admin-composed message; an empty email broadcasts to all users
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body BroadcastMailRequest true "subject, message and optional recipient"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/send-mail [post]
func (h *UserHandler) BroadcastMail(c *gin.Context) {
	var req BroadcastMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	sent, err := h.userService.BroadcastMail(req.Subject, req.Message, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, gin.H{"sent": sent}, "mail sent")
}

package handlers

import (
	"fmt"
	"strconv"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/models"
	"github.com/AkarshanGhosh/Rail-Web-Server/internal/service"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DivisionHandler exposes the admin roster operations. Every mutation,
// accepted or rejected, leaves an audit entry with the acting admin.
type DivisionHandler struct {
	divisionService *service.DivisionService
	activityService *service.ActivityService
}

func NewDivisionHandler(divisionService *service.DivisionService, activityService *service.ActivityService) *DivisionHandler {
	return &DivisionHandler{
		divisionService: divisionService,
		activityService: activityService,
	}
}

// CreateDivision godoc
// @Summary Add a division (train with its coach roster)
// @Tags divisions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param division body service.DivisionInput true "division details"
// @Success 200 {object} utils.Response{data=models.Division}
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /admin/divisions [post]
func (h *DivisionHandler) CreateDivision(c *gin.Context) {
	var input service.DivisionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	division, err := h.divisionService.Create(input)
	if err != nil {
		h.activityService.Record(
			fmt.Sprintf("Add division rejected: %v", err), models.ActivityWarning, actorID(c))
		respondError(c, err)
		return
	}

	h.activityService.Record(
		fmt.Sprintf("Admin added new train: %q (#%s) with %d coaches",
			division.TrainName, division.TrainNumber, len(division.Coaches)),
		models.ActivitySuccess, actorID(c))
	utils.SuccessWithMessage(c, division, "division added successfully")
}

// UpdateDivision godoc
// @Summary Modify a division
// @Description Applies only the supplied fields; a supplied coach list replaces the roster
// @Tags divisions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "division id"
// @Param update body service.DivisionUpdate true "fields to update"
// @Success 200 {object} utils.Response{data=models.Division}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/divisions/{id} [put]
func (h *DivisionHandler) UpdateDivision(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "invalid division id")
		return
	}

	var update service.DivisionUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	division, err := h.divisionService.Update(uint(id), update)
	if err != nil {
		h.activityService.Record(
			fmt.Sprintf("Modify division %d rejected: %v", id, err), models.ActivityWarning, actorID(c))
		respondError(c, err)
		return
	}

	h.activityService.Record(
		fmt.Sprintf("Admin modified train: %q (#%s)", division.TrainName, division.TrainNumber),
		models.ActivitySuccess, actorID(c))
	utils.SuccessWithMessage(c, division, "division updated successfully")
}

// DeleteDivision godoc
// @Summary Delete a division
// @Description Historical telemetry for the train is kept
// @Tags divisions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "division id"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/divisions/{id} [delete]
func (h *DivisionHandler) DeleteDivision(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "invalid division id")
		return
	}

	division, err := h.divisionService.Delete(uint(id))
	if err != nil {
		h.activityService.Record(
			fmt.Sprintf("Delete division %d rejected: %v", id, err), models.ActivityWarning, actorID(c))
		respondError(c, err)
		return
	}

	h.activityService.Record(
		fmt.Sprintf("Admin deleted train: %q (#%s)", division.TrainName, division.TrainNumber),
		models.ActivitySuccess, actorID(c))
	utils.SuccessWithMessage(c, nil, "division deleted successfully")
}

type AddCoachRequest struct {
	UID  string `json:"uid" binding:"required"`
	Name string `json:"coach_name" binding:"required"`
}

// AddCoach godoc
// @Summary Add one coach to a division's roster
// @Tags divisions
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "division id"
// @Param coach body AddCoachRequest true "coach uid and name"
// @Success 200 {object} utils.Response{data=models.Division}
// @Failure 409 {object} utils.Response
// @Router /admin/divisions/{id}/coaches [post]
func (h *DivisionHandler) AddCoach(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "invalid division id")
		return
	}

	var req AddCoachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	division, err := h.divisionService.AddCoach(uint(id), req.UID, req.Name)
	if err != nil {
		h.activityService.Record(
			fmt.Sprintf("Add coach %q to division %d rejected: %v", req.UID, id, err),
			models.ActivityWarning, actorID(c))
		respondError(c, err)
		return
	}

	h.activityService.Record(
		fmt.Sprintf("Admin added coach %q (UID %s) to train %q", req.Name, req.UID, division.TrainName),
		models.ActivitySuccess, actorID(c))
	utils.SuccessWithMessage(c, division, "coach added successfully")
}

// RemoveCoach godoc
// @Summary Remove one coach from a division's roster
// @Description The last coach of a division cannot be removed
// @Tags divisions
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "division id"
// @Param uid path string true "coach uid"
// @Success 200 {object} utils.Response{data=models.Division}
// @Failure 404 {object} utils.Response
// @Router /admin/divisions/{id}/coaches/{uid} [delete]
func (h *DivisionHandler) RemoveCoach(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "invalid division id")
		return
	}
	uid := c.Param("uid")

	division, err := h.divisionService.RemoveCoach(uint(id), uid)
	if err != nil {
		h.activityService.Record(
			fmt.Sprintf("Remove coach %q from division %d rejected: %v", uid, id, err),
			models.ActivityWarning, actorID(c))
		respondError(c, err)
		return
	}

	h.activityService.Record(
		fmt.Sprintf("Admin removed coach UID %s from train %q", uid, division.TrainName),
		models.ActivitySuccess, actorID(c))
	utils.SuccessWithMessage(c, division, "coach removed successfully")
}

// ListDivisions godoc
// @Summary List all divisions, newest first
// @Tags divisions
// @Produce json
// @Success 200 {object} utils.Response{data=[]models.Division}
// @Router /divisions [get]
func (h *DivisionHandler) ListDivisions(c *gin.Context) {
	divisions, err := h.divisionService.ListAll()
	if err != nil {
		utils.Error(c, utils.ERROR, "failed to fetch divisions")
		return
	}
	utils.Success(c, divisions)
}

// ListRecentDivisions godoc
// @Summary List the most recently added divisions
// @Tags divisions
// @Produce json
// @Param limit query int false "number of divisions (default 4)"
// @Success 200 {object} utils.Response{data=[]models.Division}
// @Router /divisions/recent [get]
func (h *DivisionHandler) ListRecentDivisions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "4"))
	divisions, err := h.divisionService.ListRecent(limit)
	if err != nil {
		utils.Error(c, utils.ERROR, "failed to fetch recent divisions")
		return
	}
	utils.Success(c, divisions)
}

// GetDivision godoc
// @Summary Get a division by id
// @Tags divisions
// @Produce json
// @Param id path int true "division id"
// @Success 200 {object} utils.Response{data=models.Division}
// @Failure 404 {object} utils.Response
// @Router /divisions/{id} [get]
func (h *DivisionHandler) GetDivision(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "invalid division id")
		return
	}

	division, err := h.divisionService.FindByID(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, division)
}

package handlers

import (
	"strconv"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/service"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/utils"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService *service.ActivityService
}

func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// GetRecentActivities godoc
// @Summary List recent audit entries
// @Tags activities
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "number of entries (default 5)"
// @Success 200 {object} utils.Response{data=[]models.ActivityLog}
// @Router /admin/activities [get]
func (h *ActivityHandler) GetRecentActivities(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	activities, err := h.activityService.Recent(limit)
	if err != nil {
		utils.Error(c, utils.ERROR, "failed to fetch recent activities")
		return
	}
	utils.Success(c, activities)
}

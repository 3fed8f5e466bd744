package handlers

import (
	"strconv"

	"github.com/AkarshanGhosh/Rail-Web-Server/internal/service"
	"github.com/AkarshanGhosh/Rail-Web-Server/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TelemetryHandler exposes the field-device ingest path and the alert
// polling endpoints.
type TelemetryHandler struct {
	telemetryService *service.TelemetryService
	alertService     *service.AlertService
	activityService  *service.ActivityService
}

func NewTelemetryHandler(
	telemetryService *service.TelemetryService,
	alertService *service.AlertService,
	activityService *service.ActivityService,
) *TelemetryHandler {
	return &TelemetryHandler{
		telemetryService: telemetryService,
		alertService:     alertService,
		activityService:  activityService,
	}
}

// SubmitTelemetry godoc
// @Summary Submit one coach report
// @Description Validates the report against the roster before storing it. A
// pulled chain status triggers the notification pipeline when it is the first
// pulled report for the coach; repeats still return the alert payload to the
// submitting device but dispatch nothing.
// @Tags telemetry
// @Accept json
// @Produce json
// @Param report body service.TelemetryInput true "device report"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /telemetry [post]
func (h *TelemetryHandler) SubmitTelemetry(c *gin.Context) {
	var input service.TelemetryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	record, alertPayload, err := h.telemetryService.Submit(input)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithMessage(c, gin.H{
		"telemetry": record,
		"alert":     alertPayload,
	}, "coach data added successfully")
}

// GetTelemetry godoc
// @Summary Fetch stored reports for one train and coach
// @Tags telemetry
// @Produce json
// @Param train_number query string true "train number"
// @Param coach_uid query string true "coach uid"
// @Success 200 {object} utils.Response{data=[]models.Telemetry}
// @Failure 404 {object} utils.Response
// @Router /telemetry [get]
func (h *TelemetryHandler) GetTelemetry(c *gin.Context) {
	trainNumber := c.Query("train_number")
	coachUID := c.Query("coach_uid")

	records, err := h.telemetryService.History(trainNumber, coachUID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, records)
}

type AvailableCoachesRequest struct {
	TrainName   string `json:"train_name"`
	TrainNumber string `json:"train_number"`
}

// GetAvailableCoaches godoc
// @Summary List a train's roster with per-coach activity flags
// @Tags telemetry
// @Accept json
// @Produce json
// @Param request body AvailableCoachesRequest true "train name or number"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /telemetry/coaches [post]
func (h *TelemetryHandler) GetAvailableCoaches(c *gin.Context) {
	var req AvailableCoachesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	division, coaches, err := h.telemetryService.AvailableCoaches(req.TrainName, req.TrainNumber)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"train_name":   division.TrainName,
		"train_number": division.TrainNumber,
		"coaches":      coaches,
	})
}

// GetActiveChainPulls godoc
// @Summary Poll for newly detected chain-pull alerts
// @Description Each (train, coach, event) alert is handed out at most once
// per process lifetime, however often clients poll, until the delivered set
// is reset.
// @Tags telemetry
// @Produce json
// @Param limit query int false "maximum alerts (default 10)"
// @Success 200 {object} utils.Response{data=[]alert.Alert}
// @Router /alerts/active [get]
func (h *TelemetryHandler) GetActiveChainPulls(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	alerts, err := h.alertService.PollNew(limit)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, alerts)
}

// ResetChainPullCache godoc
// @Summary Clear the delivered-alert marker set
// @Description Operator escape hatch: current alerts become pollable again
// @Tags telemetry
// @Produce json
// @Success 200 {object} utils.Response
// @Security ApiKeyAuth
// @Router /admin/alerts/reset [post]
func (h *TelemetryHandler) ResetChainPullCache(c *gin.Context) {
	h.alertService.ResetDelivered()
	h.activityService.Record("Chain-pull delivered-alert cache cleared", "info", actorID(c))
	utils.SuccessWithMessage(c, nil, "alert cache cleared")
}

// GetChainStats godoc
// @Summary Chain status statistics for the dashboard
// @Tags telemetry
// @Produce json
// @Success 200 {object} utils.Response{data=service.ChainStats}
// @Router /alerts/stats [get]
func (h *TelemetryHandler) GetChainStats(c *gin.Context) {
	stats, err := h.alertService.Stats()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, stats)
}

package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	"github.com/noah-isme/smart-attendance-api/internal/service"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
	"github.com/noah-isme/smart-attendance-api/pkg/response"
)

type attendanceSession interface {
	InitializeForToday(ctx context.Context) (*models.DailySession, error)
	Toggle(ctx context.Context, rollNo string, flag service.ToggleFlag) (*models.DailySession, error)
	Reset(ctx context.Context) (*models.DailySession, error)
}

type attendanceSubmitter interface {
	Submit(ctx context.Context) (*models.SubmitResult, error)
}

type attendanceHistorySource interface {
	GetAll(ctx context.Context) (models.AttendanceHistory, error)
}

// AttendanceHandler exposes the daily sheet workflow over HTTP.
type AttendanceHandler struct {
	sessions    attendanceSession
	submissions attendanceSubmitter
	history     attendanceHistorySource
	validator   *validator.Validate
	allowReset  bool
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(sessions attendanceSession, submissions attendanceSubmitter, history attendanceHistorySource, validate *validator.Validate, allowReset bool) *AttendanceHandler {
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceHandler{
		sessions:    sessions,
		submissions: submissions,
		history:     history,
		validator:   validate,
		allowReset:  allowReset,
	}
}

// ToggleMarkRequest is the toggle payload.
type ToggleMarkRequest struct {
	RollNo string `json:"roll_no" validate:"required"`
	Flag   string `json:"flag" validate:"required,oneof=present absent"`
}

// Today godoc
// @Summary Today's attendance sheet
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/today [get]
func (h *AttendanceHandler) Today(c *gin.Context) {
	session, err := h.sessions.InitializeForToday(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, session)
}

// Toggle godoc
// @Summary Toggle a present/absent mark
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body ToggleMarkRequest true "Mark toggle"
// @Success 200 {object} response.Envelope
// @Router /attendance/today/marks [post]
func (h *AttendanceHandler) Toggle(c *gin.Context) {
	var req ToggleMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid payload"))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}

	flag := service.ToggleFlag(strings.ToLower(req.Flag))
	session, err := h.sessions.Toggle(c.Request.Context(), req.RollNo, flag)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, session)
}

// Submit godoc
// @Summary Submit today's attendance
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /attendance/today/submit [post]
func (h *AttendanceHandler) Submit(c *gin.Context) {
	result, err := h.submissions.Submit(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Reset godoc
// @Summary Reset today's sheet (testing affordance)
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/today/reset [post]
func (h *AttendanceHandler) Reset(c *gin.Context) {
	if !h.allowReset {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "manual reset disabled"))
		return
	}
	session, err := h.sessions.Reset(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, session)
}

// History godoc
// @Summary Full attendance history
// @Tags Attendance
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /attendance/history [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	history, err := h.history.GetAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, history)
}

package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	"github.com/noah-isme/smart-attendance-api/pkg/response"
)

type leaderboardService interface {
	Leaderboard(ctx context.Context) (*models.Leaderboard, error)
}

type homeService interface {
	Home(ctx context.Context) (*models.HomeSummary, error)
}

// RankingHandler serves the leaderboard and the home dashboard summary.
type RankingHandler struct {
	ranking   leaderboardService
	dashboard homeService
}

// NewRankingHandler constructs the handler.
func NewRankingHandler(ranking leaderboardService, dashboard homeService) *RankingHandler {
	return &RankingHandler{ranking: ranking, dashboard: dashboard}
}

// Leaderboard godoc
// @Summary Attendance percentage leaderboard
// @Tags Rankings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rankings/leaderboard [get]
func (h *RankingHandler) Leaderboard(c *gin.Context) {
	board, err := h.ranking.Leaderboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, board)
}

// Home godoc
// @Summary Home dashboard summary
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/home [get]
func (h *RankingHandler) Home(c *gin.Context) {
	summary, err := h.dashboard.Home(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, summary)
}

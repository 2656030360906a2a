package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-attendance-api/internal/models"
)

type leaderboardStub struct {
	board *models.Leaderboard
	err   error
}

func (s leaderboardStub) Leaderboard(ctx context.Context) (*models.Leaderboard, error) {
	return s.board, s.err
}

type homeStub struct {
	summary *models.HomeSummary
	err     error
}

func (s homeStub) Home(ctx context.Context) (*models.HomeSummary, error) {
	return s.summary, s.err
}

func buildRankingRouter(ranking leaderboardStub, dashboard homeStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewRankingHandler(ranking, dashboard)
	r := gin.New()
	r.GET("/rankings/leaderboard", h.Leaderboard)
	r.GET("/dashboard/home", h.Home)
	return r
}

func TestLeaderboardRoute(t *testing.T) {
	board := &models.Leaderboard{
		Top: []models.RankRecord{
			{RollNo: "101", Name: "Asha", Percentage: 90},
			{RollNo: "102", Name: "Bilal", Percentage: 80},
		},
		Tied: []models.RankRecord{
			{RollNo: "101", Name: "Asha", Percentage: 90},
		},
	}
	router := buildRankingRouter(leaderboardStub{board: board}, homeStub{})

	resp := performRequest(router, http.MethodGet, "/rankings/leaderboard", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data models.Leaderboard `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, *board, envelope.Data)
}

func TestLeaderboardRouteFailure(t *testing.T) {
	router := buildRankingRouter(leaderboardStub{err: errors.New("store down")}, homeStub{})

	resp := performRequest(router, http.MethodGet, "/rankings/leaderboard", "")
	require.Equal(t, http.StatusInternalServerError, resp.Code)
}

func TestHomeRoute(t *testing.T) {
	summary := &models.HomeSummary{
		Day:             "2026-08-28",
		ClassDept:       "CSE",
		SectionSemester: "A / Sem 5",
		Submitted:       true,
		AbsentCount:     2,
	}
	router := buildRankingRouter(leaderboardStub{}, homeStub{summary: summary})

	resp := performRequest(router, http.MethodGet, "/dashboard/home", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data models.HomeSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "2026-08-28", envelope.Data.Day)
	assert.True(t, envelope.Data.Submitted)
	assert.Equal(t, 2, envelope.Data.AbsentCount)
}

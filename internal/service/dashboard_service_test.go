package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	"github.com/noah-isme/smart-attendance-api/internal/repository"
)

func newDashboardFixture(t *testing.T, day string, history models.AttendanceHistory) (*DashboardService, *repository.SessionRepository) {
	t.Helper()
	kv := repository.NewMemoryKV()
	sessions := repository.NewSessionRepository(kv)
	ranking := NewRankingService(historyStub{history: history}, nil)
	svc := NewDashboardService(sessions, ranking, fixedDay(day), "CSE", "A / Sem 5", nil)
	return svc, sessions
}

func TestHomeBeforeAnySheetExists(t *testing.T) {
	svc, _ := newDashboardFixture(t, "2026-08-28", models.AttendanceHistory{})

	summary, err := svc.Home(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", summary.Day)
	assert.Equal(t, "CSE", summary.ClassDept)
	assert.Equal(t, "A / Sem 5", summary.SectionSemester)
	assert.False(t, summary.Submitted)
	assert.Equal(t, 0, summary.AbsentCount)
	assert.Empty(t, summary.Leaderboard.Top)
}

func TestHomeAfterTodaySubmission(t *testing.T) {
	history := models.AttendanceHistory{
		"2026-08-28": {mark("101", "Asha", true), mark("102", "Bilal", false)},
	}
	svc, sessions := newDashboardFixture(t, "2026-08-28", history)

	ctx := context.Background()
	require.NoError(t, sessions.Save(ctx, &models.DailySession{
		Date:      "2026-08-28",
		Submitted: true,
		Marks:     history["2026-08-28"],
	}))
	require.NoError(t, sessions.SaveAbsentCount(ctx, "2026-08-28", 1))

	summary, err := svc.Home(ctx)
	require.NoError(t, err)
	assert.True(t, summary.Submitted)
	assert.Equal(t, 1, summary.AbsentCount)
	require.NotEmpty(t, summary.Leaderboard.Top)
	assert.Equal(t, "101", summary.Leaderboard.Top[0].RollNo)
}

func TestHomeIgnoresStaleSessionFromEarlierDay(t *testing.T) {
	history := models.AttendanceHistory{
		"2026-08-27": {mark("101", "Asha", true)},
	}
	svc, sessions := newDashboardFixture(t, "2026-08-28", history)

	ctx := context.Background()
	require.NoError(t, sessions.Save(ctx, &models.DailySession{
		Date:      "2026-08-27",
		Submitted: true,
		Marks:     history["2026-08-27"],
	}))
	require.NoError(t, sessions.SaveAbsentCount(ctx, "2026-08-27", 3))

	summary, err := svc.Home(ctx)
	require.NoError(t, err)
	assert.False(t, summary.Submitted, "yesterday's submission does not carry into today")
	assert.Equal(t, 0, summary.AbsentCount)
	require.NotEmpty(t, summary.Leaderboard.Top, "the leaderboard still reflects all history")
}

func TestHomeUnsubmittedTodayShowsZeroAbsent(t *testing.T) {
	svc, sessions := newDashboardFixture(t, "2026-08-28", models.AttendanceHistory{})

	ctx := context.Background()
	require.NoError(t, sessions.Save(ctx, &models.DailySession{
		Date: "2026-08-28",
		Marks: []models.AttendanceMark{
			{RollNo: "101", Name: "Asha", Absent: true},
		},
	}))

	summary, err := svc.Home(ctx)
	require.NoError(t, err)
	assert.False(t, summary.Submitted)
	assert.Equal(t, 0, summary.AbsentCount, "the count only appears once the day is finalized")
}

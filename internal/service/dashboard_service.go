package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/clock"
	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

type dashboardSessionStore interface {
	Load(ctx context.Context) (*models.DailySession, error)
	AbsentCount(ctx context.Context, dayKey string) (int, error)
}

type leaderboardSource interface {
	Leaderboard(ctx context.Context) (*models.Leaderboard, error)
}

// DashboardService composes the home screen summary: class identity, today's
// submission state and absentee count, and the attendance leaderboard.
type DashboardService struct {
	sessions        dashboardSessionStore
	ranking         leaderboardSource
	clock           clock.DayKeyProvider
	classDept       string
	sectionSemester string
	logger          *zap.Logger
}

// NewDashboardService constructs the dashboard composer.
func NewDashboardService(sessions dashboardSessionStore, ranking leaderboardSource, clk clock.DayKeyProvider, classDept, sectionSemester string, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		sessions:        sessions,
		ranking:         ranking,
		clock:           clk,
		classDept:       classDept,
		sectionSemester: sectionSemester,
		logger:          logger,
	}
}

// Home builds the summary. The absentee count only counts when the persisted
// session belongs to today; a stale session from an earlier day reads as zero,
// the same way the dashboard resets each morning.
func (s *DashboardService) Home(ctx context.Context) (*models.HomeSummary, error) {
	todayKey := s.clock.TodayKey()

	summary := &models.HomeSummary{
		Day:             todayKey,
		ClassDept:       s.classDept,
		SectionSemester: s.sectionSemester,
	}

	session, err := s.sessions.Load(ctx)
	switch {
	case err == nil:
		if session.Date == todayKey {
			summary.Submitted = session.Submitted
			if session.Submitted {
				count, err := s.sessions.AbsentCount(ctx, todayKey)
				if err != nil {
					return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load absent count")
				}
				summary.AbsentCount = count
			}
		}
	case appErrors.Is(err, appErrors.ErrKeyNotFound):
		// no sheet yet today
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load session for dashboard")
	}

	board, err := s.ranking.Leaderboard(ctx)
	if err != nil {
		return nil, err
	}
	summary.Leaderboard = *board

	return summary, nil
}

package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/clock"
	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

type rosterSource interface {
	GetRoster(ctx context.Context) ([]models.Student, error)
}

type sessionStore interface {
	Load(ctx context.Context) (*models.DailySession, error)
	Save(ctx context.Context, session *models.DailySession) error
	ResetDay(ctx context.Context, dayKey string) error
}

// ToggleFlag names which side of a mark a toggle targets.
type ToggleFlag string

const (
	TogglePresent ToggleFlag = "present"
	ToggleAbsent  ToggleFlag = "absent"
)

// Valid reports whether the flag is one of the two known values.
func (f ToggleFlag) Valid() bool {
	return f == TogglePresent || f == ToggleAbsent
}

// SessionService holds and mutates today's attendance sheet. A new day always
// starts all-undecided and unlocked regardless of yesterday's state; the same
// day survives process restarts verbatim.
type SessionService struct {
	roster   rosterSource
	sessions sessionStore
	clock    clock.DayKeyProvider
	logger   *zap.Logger
}

// NewSessionService constructs the session service.
func NewSessionService(roster rosterSource, sessions sessionStore, clk clock.DayKeyProvider, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{roster: roster, sessions: sessions, clock: clk, logger: logger}
}

// InitializeForToday returns today's session, reusing the persisted sheet when
// its date matches today's key and otherwise materializing a fresh one from
// the roster. A roster failure propagates; the sheet never silently starts
// empty.
func (s *SessionService) InitializeForToday(ctx context.Context) (*models.DailySession, error) {
	todayKey := s.clock.TodayKey()

	persisted, err := s.sessions.Load(ctx)
	switch {
	case err == nil:
		if persisted.Date == todayKey {
			return persisted, nil
		}
	case appErrors.Is(err, appErrors.ErrKeyNotFound):
		// first run, fall through to a fresh sheet
	default:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load persisted session")
	}

	students, err := s.roster.GetRoster(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRosterUnavailable.Code, appErrors.ErrRosterUnavailable.Status, appErrors.ErrRosterUnavailable.Message)
	}

	session := freshSession(todayKey, students)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist fresh session")
	}
	s.logger.Sugar().Infow("attendance sheet initialized", "day", todayKey, "students", len(students))
	return session, nil
}

// Toggle flips the named flag for the student and clears the opposite flag when
// the flipped one becomes set. Toggling twice restores the original mark. Once
// the session is locked the call is a silent no-op, mirroring the disabled
// sheet controls.
func (s *SessionService) Toggle(ctx context.Context, rollNo string, flag ToggleFlag) (*models.DailySession, error) {
	if !flag.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "flag must be present or absent")
	}

	session, err := s.InitializeForToday(ctx)
	if err != nil {
		return nil, err
	}
	if session.Submitted {
		return session, nil
	}

	mark := session.FindMark(rollNo)
	if mark == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not on today's sheet")
	}

	switch flag {
	case TogglePresent:
		mark.Present = !mark.Present
		if mark.Present {
			mark.Absent = false
		}
	case ToggleAbsent:
		mark.Absent = !mark.Absent
		if mark.Absent {
			mark.Present = false
		}
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist toggled mark")
	}
	return session, nil
}

// IsLocked reports whether today's sheet has been submitted.
func (s *SessionService) IsLocked(ctx context.Context) (bool, error) {
	session, err := s.InitializeForToday(ctx)
	if err != nil {
		return false, err
	}
	return session.Submitted, nil
}

// Reset clears today's marks and submitted flag without touching history. A
// testing affordance carried over from the sheet's reset control.
func (s *SessionService) Reset(ctx context.Context) (*models.DailySession, error) {
	todayKey := s.clock.TodayKey()

	students, err := s.roster.GetRoster(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrRosterUnavailable.Code, appErrors.ErrRosterUnavailable.Status, appErrors.ErrRosterUnavailable.Message)
	}

	session := freshSession(todayKey, students)
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist reset session")
	}
	if err := s.sessions.ResetDay(ctx, todayKey); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "clear submission flag")
	}
	s.logger.Sugar().Infow("attendance sheet manually reset", "day", todayKey)
	return session, nil
}

func freshSession(dayKey string, students []models.Student) *models.DailySession {
	marks := make([]models.AttendanceMark, len(students))
	for i, st := range students {
		marks[i] = models.AttendanceMark{RollNo: st.RollNo, Name: st.Name}
	}
	return &models.DailySession{Date: dayKey, Marks: marks, Submitted: false}
}

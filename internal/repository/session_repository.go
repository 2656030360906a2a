package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

const (
	sessionKey           = "attendance:session"
	submittedKeyPrefix   = "attendance:submitted:"
	lastAttendanceDayKey = "attendance:last_day"
	absentCountKeyPrefix = "attendance:absent_count:"
)

// SessionRepository persists the single working DailySession and owns the
// atomic submitted flag that makes submission exactly-once.
type SessionRepository struct {
	kv KV
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(kv KV) *SessionRepository {
	return &SessionRepository{kv: kv}
}

// Load returns the persisted session, or ErrKeyNotFound when none exists yet.
func (r *SessionRepository) Load(ctx context.Context) (*models.DailySession, error) {
	raw, err := r.kv.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	var session models.DailySession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

// Save persists the full (date, marks, submitted) triple.
func (r *SessionRepository) Save(ctx context.Context, session *models.DailySession) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := r.kv.Set(ctx, sessionKey, raw); err != nil {
		return err
	}
	return r.kv.Set(ctx, lastAttendanceDayKey, []byte(session.Date))
}

// ClaimSubmission is the check-and-set that admits exactly one submitter per
// day. Callers that lose the race get ErrAlreadySubmitted.
func (r *SessionRepository) ClaimSubmission(ctx context.Context, dayKey string) error {
	won, err := r.kv.SetNX(ctx, submittedKeyPrefix+dayKey, []byte("1"))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "claim submission flag")
	}
	if !won {
		return appErrors.ErrAlreadySubmitted
	}
	return nil
}

// ReleaseSubmission undoes a claim whose follow-up write failed, so the day is
// not left locked without a history record.
func (r *SessionRepository) ReleaseSubmission(ctx context.Context, dayKey string) error {
	return r.kv.Remove(ctx, submittedKeyPrefix+dayKey)
}

// SubmissionClaimed reports whether the day's flag has been taken.
func (r *SessionRepository) SubmissionClaimed(ctx context.Context, dayKey string) (bool, error) {
	_, err := r.kv.Get(ctx, submittedKeyPrefix+dayKey)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrKeyNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// SaveAbsentCount records the finalized absentee count for the day, read by the
// home dashboard.
func (r *SessionRepository) SaveAbsentCount(ctx context.Context, dayKey string, count int) error {
	return r.kv.Set(ctx, absentCountKeyPrefix+dayKey, []byte(fmt.Sprintf("%d", count)))
}

// AbsentCount returns the stored count for the day, zero when absent.
func (r *SessionRepository) AbsentCount(ctx context.Context, dayKey string) (int, error) {
	raw, err := r.kv.Get(ctx, absentCountKeyPrefix+dayKey)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, err
	}
	var count int
	if _, err := fmt.Sscanf(string(raw), "%d", &count); err != nil {
		return 0, fmt.Errorf("decode absent count: %w", err)
	}
	return count, nil
}

// ResetDay clears the submitted flag and absent count for the given day. Used
// by the manual reset affordance only; history is never touched.
func (r *SessionRepository) ResetDay(ctx context.Context, dayKey string) error {
	if err := r.kv.Remove(ctx, submittedKeyPrefix+dayKey); err != nil {
		return err
	}
	return r.kv.Remove(ctx, absentCountKeyPrefix+dayKey)
}

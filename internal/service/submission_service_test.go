package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	"github.com/noah-isme/smart-attendance-api/internal/repository"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
	"github.com/noah-isme/smart-attendance-api/pkg/jobs"
)

type captureQueue struct {
	mu     sync.Mutex
	queued []jobs.Job
	err    error
}

func (q *captureQueue) Enqueue(job jobs.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.queued = append(q.queued, job)
	return nil
}

func (q *captureQueue) jobTypes() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	types := make([]string, 0, len(q.queued))
	for _, job := range q.queued {
		types = append(types, job.Type)
	}
	return types
}

type failingHistory struct {
	err error
}

func (h failingHistory) Put(ctx context.Context, dayKey string, marks []models.AttendanceMark) error {
	return h.err
}

// submissionFixture wires the real session and history repositories over an
// in-memory store, so the compare-and-set paths under test are the production
// ones.
type submissionFixture struct {
	kv       *repository.MemoryKV
	sessions *repository.SessionRepository
	history  *repository.HistoryRepository
	session  *SessionService
	queue    *captureQueue
	submit   *SubmissionService
}

func newSubmissionFixture(t *testing.T, day string) *submissionFixture {
	t.Helper()
	kv := repository.NewMemoryKV()
	sessions := repository.NewSessionRepository(kv)
	history := repository.NewHistoryRepository(kv)
	sessionSvc := NewSessionService(twoStudentRoster(), sessions, fixedDay(day), nil)
	queue := &captureQueue{}
	submit := NewSubmissionService(sessionSvc, sessions, history, queue, nil, nil)
	return &submissionFixture{
		kv:       kv,
		sessions: sessions,
		history:  history,
		session:  sessionSvc,
		queue:    queue,
		submit:   submit,
	}
}

func TestSubmitRecordsDayAndLocksSession(t *testing.T) {
	ctx := context.Background()
	f := newSubmissionFixture(t, "2026-08-28")

	_, err := f.session.Toggle(ctx, "101", TogglePresent)
	require.NoError(t, err)
	_, err = f.session.Toggle(ctx, "102", ToggleAbsent)
	require.NoError(t, err)

	result, err := f.submit.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-28", result.Day)
	assert.Equal(t, 1, result.AbsentCount)

	history, err := f.history.GetAll(ctx)
	require.NoError(t, err)
	require.Contains(t, history, "2026-08-28")
	require.Len(t, history["2026-08-28"], 2)

	locked, err := f.session.IsLocked(ctx)
	require.NoError(t, err)
	assert.True(t, locked)

	count, err := f.sessions.AbsentCount(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSubmitRecordsUndecidedMarksAsIs(t *testing.T) {
	ctx := context.Background()
	f := newSubmissionFixture(t, "2026-08-28")

	result, err := f.submit.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.AbsentCount)

	history, err := f.history.GetAll(ctx)
	require.NoError(t, err)
	for _, mark := range history["2026-08-28"] {
		assert.False(t, mark.Present)
		assert.False(t, mark.Absent)
	}
}

func TestSubmitSecondCallRejected(t *testing.T) {
	ctx := context.Background()
	f := newSubmissionFixture(t, "2026-08-28")

	_, err := f.submit.Submit(ctx)
	require.NoError(t, err)

	_, err = f.submit.Submit(ctx)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadySubmitted))
}

func TestSubmitConcurrentRaceAdmitsExactlyOne(t *testing.T) {
	ctx := context.Background()
	f := newSubmissionFixture(t, "2026-08-28")

	// Warm the session so both goroutines see the same unsubmitted sheet.
	_, err := f.session.InitializeForToday(ctx)
	require.NoError(t, err)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.submit.Submit(ctx)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var accepted, rejected int
	for err := range errs {
		switch {
		case err == nil:
			accepted++
		case appErrors.Is(err, appErrors.ErrAlreadySubmitted):
			rejected++
		default:
			t.Fatalf("unexpected submit error: %v", err)
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, attempts-1, rejected)

	history, err := f.history.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 1, "exactly one record for the day")
}

func TestSubmitQueuesExportAlwaysAndNotificationOnlyWithAbsentees(t *testing.T) {
	ctx := context.Background()

	f := newSubmissionFixture(t, "2026-08-28")
	_, err := f.session.Toggle(ctx, "102", ToggleAbsent)
	require.NoError(t, err)
	_, err = f.submit.Submit(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{JobTypeNotifyAbsentees, JobTypeExportDay}, f.queue.jobTypes())

	allPresent := newSubmissionFixture(t, "2026-08-28")
	_, err = allPresent.session.Toggle(ctx, "101", TogglePresent)
	require.NoError(t, err)
	_, err = allPresent.session.Toggle(ctx, "102", TogglePresent)
	require.NoError(t, err)
	_, err = allPresent.submit.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{JobTypeExportDay}, allPresent.queue.jobTypes(), "no absentees, no notification job")
}

func TestSubmitSucceedsWhenQueueIsFull(t *testing.T) {
	ctx := context.Background()
	f := newSubmissionFixture(t, "2026-08-28")
	f.queue.err = errors.New("queue full")

	result, err := f.submit.Submit(ctx)
	require.NoError(t, err, "side-effect dispatch failure never fails the submission")
	assert.Equal(t, "2026-08-28", result.Day)

	history, err := f.history.GetAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, history, "2026-08-28")
}

func TestSubmitReleasesClaimWhenHistoryWriteFails(t *testing.T) {
	ctx := context.Background()
	kv := repository.NewMemoryKV()
	sessions := repository.NewSessionRepository(kv)
	sessionSvc := NewSessionService(twoStudentRoster(), sessions, fixedDay("2026-08-28"), nil)
	queue := &captureQueue{}
	submit := NewSubmissionService(sessionSvc, sessions, failingHistory{err: errors.New("store down")}, queue, nil, nil)

	_, err := submit.Submit(ctx)
	require.Error(t, err)

	claimed, err := sessions.SubmissionClaimed(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.False(t, claimed, "failed write releases the claim so a retry can succeed")
	assert.Empty(t, queue.jobTypes(), "no side effects for an uncommitted day")
}

func TestSubmitDuplicateDayRecordKeepsClaim(t *testing.T) {
	ctx := context.Background()
	f := newSubmissionFixture(t, "2026-08-28")

	// A record for today already exists, left by a prior run whose claim flag
	// was lost.
	require.NoError(t, f.history.Put(ctx, "2026-08-28", []models.AttendanceMark{
		{RollNo: "101", Name: "Asha", Present: true},
	}))

	_, err := f.submit.Submit(ctx)
	require.Error(t, err)
	assert.True(t, appErrors.Is(err, appErrors.ErrAlreadySubmitted))

	claimed, err := f.sessions.SubmissionClaimed(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.True(t, claimed, "claim stays so the day remains locked")

	history, err := f.history.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, history["2026-08-28"], 1)
	assert.True(t, history["2026-08-28"][0].Present, "existing record is never clobbered")
}

func TestSideEffectHandlerSwallowsFailures(t *testing.T) {
	handler := NewSideEffectHandler(nil, nil, nil, nil)
	err := handler(context.Background(), jobs.Job{ID: "j1", Type: "unknown", Payload: DayPayload{}})
	assert.NoError(t, err, "unknown job types are logged, not retried")

	err = handler(context.Background(), jobs.Job{ID: "j2", Type: JobTypeExportDay, Payload: "not-a-day-payload"})
	assert.NoError(t, err, "malformed payloads are logged, not retried")
}

package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
	"github.com/noah-isme/smart-attendance-api/pkg/jobs"
)

// Side-effect job types dispatched after a committed submission.
const (
	JobTypeNotifyAbsentees = "notify_absentees"
	JobTypeExportDay       = "export_day"
)

// DayPayload is the job payload for both side-effect types.
type DayPayload struct {
	Day   string
	Marks []models.AttendanceMark
}

type sessionInitializer interface {
	InitializeForToday(ctx context.Context) (*models.DailySession, error)
}

type submissionSessionStore interface {
	Save(ctx context.Context, session *models.DailySession) error
	ClaimSubmission(ctx context.Context, dayKey string) error
	ReleaseSubmission(ctx context.Context, dayKey string) error
	SaveAbsentCount(ctx context.Context, dayKey string, count int) error
}

type historyWriter interface {
	Put(ctx context.Context, dayKey string, marks []models.AttendanceMark) error
}

type jobQueue interface {
	Enqueue(job jobs.Job) error
}

// SubmissionService drives the transition from editable sheet to finalized
// day. The claim on the persisted submitted flag is a compare-and-set, so of
// two concurrent submitters exactly one passes and the other is told
// ALREADY_SUBMITTED after the first writer's update.
type SubmissionService struct {
	sessions sessionInitializer
	store    submissionSessionStore
	history  historyWriter
	queue    jobQueue
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewSubmissionService constructs the coordinator.
func NewSubmissionService(sessions sessionInitializer, store submissionSessionStore, history historyWriter, queue jobQueue, metrics *MetricsService, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		sessions: sessions,
		store:    store,
		history:  history,
		queue:    queue,
		metrics:  metrics,
		logger:   logger,
	}
}

// Submit finalizes today's sheet exactly once. The history write is the commit
// point: notification and export run afterwards in the background and their
// failure never unwinds a recorded day.
func (s *SubmissionService) Submit(ctx context.Context) (*models.SubmitResult, error) {
	session, err := s.sessions.InitializeForToday(ctx)
	if err != nil {
		return nil, err
	}
	if session.Submitted {
		s.observeSubmission("rejected")
		return nil, appErrors.Clone(appErrors.ErrAlreadySubmitted, "")
	}

	dayKey := session.Date
	if err := s.store.ClaimSubmission(ctx, dayKey); err != nil {
		if appErrors.Is(err, appErrors.ErrAlreadySubmitted) {
			s.observeSubmission("rejected")
		}
		return nil, err
	}

	if err := s.history.Put(ctx, dayKey, session.Marks); err != nil {
		if appErrors.Is(err, appErrors.ErrDuplicateDay) {
			// A record already exists: the day was submitted through another
			// entry point. Surface it as already-submitted, never clobber.
			s.logger.Sugar().Errorw("duplicate day record despite fresh claim", "day", dayKey)
			s.observeSubmission("rejected")
			return nil, appErrors.Clone(appErrors.ErrAlreadySubmitted, "")
		}
		if relErr := s.store.ReleaseSubmission(ctx, dayKey); relErr != nil {
			s.logger.Sugar().Errorw("failed to release submission claim", "day", dayKey, "error", relErr)
		}
		s.observeSubmission("failed")
		return nil, err
	}

	absentees := session.Absentees()
	session.Submitted = true
	if err := s.store.Save(ctx, session); err != nil {
		// The history write is already durable; the day stays recorded.
		s.logger.Sugar().Errorw("history committed but session flag not persisted", "day", dayKey, "error", err)
		s.observeSubmission("failed")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "persist submitted session")
	}
	if err := s.store.SaveAbsentCount(ctx, dayKey, len(absentees)); err != nil {
		s.logger.Sugar().Warnw("failed to persist absent count", "day", dayKey, "error", err)
	}

	s.dispatchSideEffects(dayKey, session.Marks, len(absentees))
	s.observeSubmission("accepted")
	s.logger.Sugar().Infow("attendance submitted",
		"day", dayKey, "present", len(session.Presentees()), "absent", len(absentees))

	return &models.SubmitResult{Day: dayKey, Marks: session.Marks, AbsentCount: len(absentees)}, nil
}

// dispatchSideEffects queues the absentee notification and the day export.
// Both are best effort and independent; an enqueue failure is logged, never
// surfaced to the submitter.
func (s *SubmissionService) dispatchSideEffects(dayKey string, marks []models.AttendanceMark, absentCount int) {
	payload := DayPayload{Day: dayKey, Marks: marks}

	if absentCount > 0 {
		job := jobs.Job{ID: uuid.NewString(), Type: JobTypeNotifyAbsentees, Payload: payload, Enqueued: time.Now().UTC()}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Sugar().Warnw("failed to queue absentee notification", "day", dayKey, "error", err)
		}
	}

	job := jobs.Job{ID: uuid.NewString(), Type: JobTypeExportDay, Payload: payload, Enqueued: time.Now().UTC()}
	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Sugar().Warnw("failed to queue day export", "day", dayKey, "error", err)
	}
}

func (s *SubmissionService) observeSubmission(outcome string) {
	if s.metrics != nil {
		s.metrics.ObserveSubmission(outcome)
	}
}

// NewSideEffectHandler routes queued side-effect jobs to the notification and
// export services. Failures are logged and counted; the queue is configured
// for a single attempt so neither collaborator is retried automatically.
func NewSideEffectHandler(notifier *NotificationService, exporter *ExportService, metrics *MetricsService, logger *zap.Logger) jobs.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(ctx context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(DayPayload)
		if !ok {
			logger.Sugar().Errorw("side-effect job carries unexpected payload", "job_id", job.ID, "type", job.Type)
			return nil
		}

		switch job.Type {
		case JobTypeNotifyAbsentees:
			if err := notifier.NotifyAbsentees(ctx, payload.Day, payload.Marks); err != nil {
				logger.Sugar().Warnw("absentee notification failed", "day", payload.Day, "error", err)
				if metrics != nil {
					metrics.ObserveSideEffectFailure("notification")
				}
			}
		case JobTypeExportDay:
			if _, err := exporter.ExportDay(ctx, payload.Day, payload.Marks); err != nil {
				logger.Sugar().Warnw("day export failed", "day", payload.Day, "error", err)
				if metrics != nil {
					metrics.ObserveSideEffectFailure("export")
				}
			}
		default:
			logger.Sugar().Errorw("unknown side-effect job type", "job_id", job.ID, "type", job.Type)
		}
		return nil
	}
}

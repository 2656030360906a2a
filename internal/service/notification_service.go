package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	"github.com/noah-isme/smart-attendance-api/pkg/config"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

// NotificationService sends one batch SMS request to the absentees' parents
// per submission. It is strictly best effort: a failure is reported to the
// caller (the side-effect handler) and goes no further.
type NotificationService struct {
	roster rosterSource
	cfg    config.SMSConfig
	client *http.Client
	logger *zap.Logger
}

// NewNotificationService constructs the dispatcher.
func NewNotificationService(roster rosterSource, cfg config.SMSConfig, client *http.Client, logger *zap.Logger) *NotificationService {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{roster: roster, cfg: cfg, client: client, logger: logger}
}

// NotifyAbsentees resolves parent contacts for the day's absent marks and
// fires a single bulk request to the SMS gateway. Students without a contact
// on file are skipped.
func (s *NotificationService) NotifyAbsentees(ctx context.Context, dayKey string, marks []models.AttendanceMark) error {
	absentees, err := s.resolveAbsentees(ctx, marks)
	if err != nil {
		return err
	}
	if len(absentees) == 0 {
		s.logger.Sugar().Infow("no reachable absentee contacts", "day", dayKey)
		return nil
	}
	if !s.cfg.Enabled {
		s.logger.Sugar().Infow("sms dispatch disabled, skipping batch", "day", dayKey, "absentees", len(absentees))
		return nil
	}

	numbers := make([]string, len(absentees))
	for i, a := range absentees {
		numbers[i] = a.ParentContact
	}
	message := batchMessage(absentees, dayKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.BaseURL, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrNotification.Code, appErrors.ErrNotification.Status, "build sms request")
	}
	req.Header.Set("authorization", s.cfg.APIKey)
	q := url.Values{}
	q.Set("route", s.cfg.Route)
	q.Set("sender_id", s.cfg.SenderID)
	q.Set("message", message)
	q.Set("language", "english")
	q.Set("flash", "0")
	q.Set("numbers", strings.Join(numbers, ","))
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrNotification.Code, appErrors.ErrNotification.Status, "send sms batch")
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return appErrors.Wrap(
			fmt.Errorf("gateway status %d: %s", resp.StatusCode, string(body)),
			appErrors.ErrNotification.Code, appErrors.ErrNotification.Status, appErrors.ErrNotification.Message,
		)
	}

	s.logger.Sugar().Infow("absentee sms batch dispatched", "day", dayKey, "recipients", len(numbers))
	return nil
}

// resolveAbsentees joins absent marks with the roster's parent contacts.
func (s *NotificationService) resolveAbsentees(ctx context.Context, marks []models.AttendanceMark) ([]models.Absentee, error) {
	students, err := s.roster.GetRoster(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotification.Code, appErrors.ErrNotification.Status, "resolve parent contacts")
	}
	contacts := make(map[string]string, len(students))
	for _, st := range students {
		contacts[st.RollNo] = st.ParentContact
	}

	absentees := make([]models.Absentee, 0)
	for _, mark := range marks {
		if !mark.Absent {
			continue
		}
		contact := contacts[mark.RollNo]
		if contact == "" {
			continue
		}
		absentees = append(absentees, models.Absentee{RollNo: mark.RollNo, Name: mark.Name, ParentContact: contact})
	}
	return absentees, nil
}

// batchMessage builds a single message for the whole batch. The gateway fans
// one text out to every number, so the body names the students collectively.
func batchMessage(absentees []models.Absentee, dayKey string) string {
	if len(absentees) == 1 {
		a := absentees[0]
		return fmt.Sprintf("Dear Parent, your child %s (%s) is absent today (%s). Please contact the class teacher.", a.Name, a.RollNo, dayKey)
	}
	return fmt.Sprintf("Dear Parent, your child is marked absent today (%s). Please contact the class teacher.", dayKey)
}

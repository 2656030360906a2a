package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

const historyKey = "attendance:history"

// HistoryRepository is the system of record for finalized days. A day's entry
// is written once via a create-only hash write and never updated or deleted,
// which enforces the one-record-per-day invariant at the storage boundary
// regardless of what the coordinator already checked.
type HistoryRepository struct {
	kv KV
}

// NewHistoryRepository constructs the repository.
func NewHistoryRepository(kv KV) *HistoryRepository {
	return &HistoryRepository{kv: kv}
}

// Put appends the finalized marks for the day. Fails with ErrDuplicateDay when
// the day already holds a record; it never overwrites.
func (r *HistoryRepository) Put(ctx context.Context, dayKey string, marks []models.AttendanceMark) error {
	raw, err := json.Marshal(marks)
	if err != nil {
		return fmt.Errorf("encode day record: %w", err)
	}
	won, err := r.kv.HSetNX(ctx, historyKey, dayKey, raw)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "write day record")
	}
	if !won {
		return appErrors.Clone(appErrors.ErrDuplicateDay, "")
	}
	return nil
}

// GetAll returns the full history. History sizes stay bounded by term length
// times class size, so no pagination is offered.
func (r *HistoryRepository) GetAll(ctx context.Context) (models.AttendanceHistory, error) {
	raw, err := r.kv.HGetAll(ctx, historyKey)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "read history")
	}
	history := make(models.AttendanceHistory, len(raw))
	for dayKey, value := range raw {
		var marks []models.AttendanceMark
		if err := json.Unmarshal(value, &marks); err != nil {
			return nil, fmt.Errorf("decode day record %s: %w", dayKey, err)
		}
		history[dayKey] = marks
	}
	return history, nil
}

// Has reports whether a record exists for the day.
func (r *HistoryRepository) Has(ctx context.Context, dayKey string) (bool, error) {
	history, err := r.GetAll(ctx)
	if err != nil {
		return false, err
	}
	_, ok := history[dayKey]
	return ok, nil
}

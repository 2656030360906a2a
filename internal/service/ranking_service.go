package service

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/smart-attendance-api/internal/models"
	appErrors "github.com/noah-isme/smart-attendance-api/pkg/errors"
)

const leaderboardSize = 3

type historyReader interface {
	GetAll(ctx context.Context) (models.AttendanceHistory, error)
}

// RankingService projects the attendance history into a leaderboard. It is a
// pure function of the history snapshot; nothing is cached or persisted, so
// every read reflects the history at read time.
type RankingService struct {
	history historyReader
	logger  *zap.Logger
}

// NewRankingService constructs the aggregator.
func NewRankingService(history historyReader, logger *zap.Logger) *RankingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RankingService{history: history, logger: logger}
}

// Leaderboard computes the current top-3 plus the tied-at-maximum set.
func (s *RankingService) Leaderboard(ctx context.Context) (*models.Leaderboard, error) {
	history, err := s.history.GetAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load attendance history")
	}
	board := ComputeLeaderboard(history)
	return &board, nil
}

// ComputeLeaderboard aggregates the full history deterministically.
//
// Every appearance of a roll number in a day's record counts toward that
// student's total; a present mark also counts toward their present total. A
// student absent on a day still accrues a total day, while a student missing
// from a day's record accrues nothing. Students with zero recorded days never
// enter the ranked set.
//
// Percentages use round-half-away-from-zero. Ordering is percentage descending
// with roll number ascending as the tie break. Tied holds every ranked student
// whose percentage equals the leader's, which can extend past the top three.
func ComputeLeaderboard(history models.AttendanceHistory) models.Leaderboard {
	type tally struct {
		name        string
		presentDays int
		totalDays   int
	}
	counts := make(map[string]*tally)

	for _, daily := range history {
		for _, mark := range daily {
			t, ok := counts[mark.RollNo]
			if !ok {
				t = &tally{name: mark.Name}
				counts[mark.RollNo] = t
			}
			t.totalDays++
			if mark.Present {
				t.presentDays++
			}
		}
	}

	ranked := make([]models.RankRecord, 0, len(counts))
	for rollNo, t := range counts {
		if t.totalDays == 0 {
			continue
		}
		pct := int(math.Round(float64(t.presentDays) / float64(t.totalDays) * 100))
		ranked = append(ranked, models.RankRecord{RollNo: rollNo, Name: t.name, Percentage: pct})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Percentage != ranked[j].Percentage {
			return ranked[i].Percentage > ranked[j].Percentage
		}
		return ranked[i].RollNo < ranked[j].RollNo
	})

	board := models.Leaderboard{Top: []models.RankRecord{}, Tied: []models.RankRecord{}}
	if len(ranked) == 0 {
		return board
	}

	top := ranked
	if len(top) > leaderboardSize {
		top = top[:leaderboardSize]
	}
	board.Top = top

	highest := ranked[0].Percentage
	for _, record := range ranked {
		if record.Percentage == highest {
			board.Tied = append(board.Tied, record)
		}
	}
	return board
}

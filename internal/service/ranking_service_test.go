package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/smart-attendance-api/internal/models"
)

type historyStub struct {
	history models.AttendanceHistory
	err     error
}

func (s historyStub) GetAll(ctx context.Context) (models.AttendanceHistory, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.history, nil
}

func mark(rollNo, name string, present bool) models.AttendanceMark {
	return models.AttendanceMark{RollNo: rollNo, Name: name, Present: present, Absent: !present}
}

func TestComputeLeaderboardEmptyHistory(t *testing.T) {
	board := ComputeLeaderboard(models.AttendanceHistory{})
	assert.Empty(t, board.Top)
	assert.Empty(t, board.Tied)
}

func TestComputeLeaderboardOrdersByPercentageThenRollNo(t *testing.T) {
	history := models.AttendanceHistory{
		"2026-08-25": {mark("101", "Asha", true), mark("102", "Bilal", true), mark("103", "Chitra", false)},
		"2026-08-26": {mark("101", "Asha", true), mark("102", "Bilal", false), mark("103", "Chitra", false)},
		"2026-08-27": {mark("101", "Asha", false), mark("102", "Bilal", false), mark("103", "Chitra", true)},
		"2026-08-28": {mark("101", "Asha", true), mark("102", "Bilal", true), mark("103", "Chitra", false)},
	}

	board := ComputeLeaderboard(history)
	require.Len(t, board.Top, 3)
	assert.Equal(t, models.RankRecord{RollNo: "101", Name: "Asha", Percentage: 75}, board.Top[0])
	assert.Equal(t, models.RankRecord{RollNo: "102", Name: "Bilal", Percentage: 50}, board.Top[1])
	assert.Equal(t, models.RankRecord{RollNo: "103", Name: "Chitra", Percentage: 25}, board.Top[2])

	require.Len(t, board.Tied, 1, "single leader means a tie set of one")
	assert.Equal(t, "101", board.Tied[0].RollNo)
}

func TestComputeLeaderboardTieBreaksByRollNoAscending(t *testing.T) {
	history := models.AttendanceHistory{
		"2026-08-27": {mark("205", "Esha", true), mark("104", "Dev", true)},
	}

	board := ComputeLeaderboard(history)
	require.Len(t, board.Top, 2)
	assert.Equal(t, "104", board.Top[0].RollNo)
	assert.Equal(t, "205", board.Top[1].RollNo)
}

func TestComputeLeaderboardTiedExtendsPastTopThree(t *testing.T) {
	history := models.AttendanceHistory{
		"2026-08-27": {
			mark("101", "Asha", true),
			mark("102", "Bilal", true),
			mark("103", "Chitra", true),
			mark("104", "Dev", true),
			mark("105", "Esha", false),
		},
	}

	board := ComputeLeaderboard(history)
	require.Len(t, board.Top, 3, "top stays capped at three")
	assert.Len(t, board.Tied, 4, "every student at the leading percentage is tied")
	for _, record := range board.Tied {
		assert.Equal(t, 100, record.Percentage)
	}
}

func TestComputeLeaderboardRoundsHalfAwayFromZero(t *testing.T) {
	// 1 of 8 days present is 12.5 percent and rounds to 13.
	history := models.AttendanceHistory{}
	days := []string{"2026-08-01", "2026-08-02", "2026-08-03", "2026-08-04", "2026-08-05", "2026-08-06", "2026-08-07", "2026-08-08"}
	for i, day := range days {
		history[day] = []models.AttendanceMark{mark("101", "Asha", i == 0)}
	}

	board := ComputeLeaderboard(history)
	require.Len(t, board.Top, 1)
	assert.Equal(t, 13, board.Top[0].Percentage)
}

func TestComputeLeaderboardSkipsStudentsWithNoRecordedDays(t *testing.T) {
	// An undecided mark still counts the day; only absence from the record
	// itself keeps a student out of the ranking.
	history := models.AttendanceHistory{
		"2026-08-27": {mark("101", "Asha", true)},
		"2026-08-28": {
			mark("101", "Asha", false),
			mark("102", "Bilal", true),
		},
	}

	board := ComputeLeaderboard(history)
	require.Len(t, board.Top, 2)
	assert.Equal(t, "102", board.Top[0].RollNo)
	assert.Equal(t, 100, board.Top[0].Percentage)
	assert.Equal(t, "101", board.Top[1].RollNo)
	assert.Equal(t, 50, board.Top[1].Percentage)
}

func TestComputeLeaderboardCountsUndecidedMarksAsAbsentDays(t *testing.T) {
	history := models.AttendanceHistory{
		"2026-08-27": {{RollNo: "101", Name: "Asha"}},
		"2026-08-28": {mark("101", "Asha", true)},
	}

	board := ComputeLeaderboard(history)
	require.Len(t, board.Top, 1)
	assert.Equal(t, 50, board.Top[0].Percentage)
}

func TestLeaderboardPropagatesHistoryFailure(t *testing.T) {
	svc := NewRankingService(historyStub{err: errors.New("store down")}, nil)
	_, err := svc.Leaderboard(context.Background())
	require.Error(t, err)
}

func TestLeaderboardReflectsHistoryAtReadTime(t *testing.T) {
	stub := &mutableHistoryStub{history: models.AttendanceHistory{
		"2026-08-27": {mark("101", "Asha", false)},
	}}
	svc := NewRankingService(stub, nil)

	board, err := svc.Leaderboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, board.Top[0].Percentage)

	stub.history["2026-08-28"] = []models.AttendanceMark{mark("101", "Asha", true)}
	board, err = svc.Leaderboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, board.Top[0].Percentage)
}

type mutableHistoryStub struct {
	history models.AttendanceHistory
}

func (s *mutableHistoryStub) GetAll(ctx context.Context) (models.AttendanceHistory, error) {
	return s.history, nil
}

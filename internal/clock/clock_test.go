package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZoneClockDayBoundary(t *testing.T) {
	clk, err := NewZoneClock("Asia/Kolkata")
	require.NoError(t, err)

	// 20:00 UTC is already past midnight in Kolkata (UTC+5:30).
	clk.now = func() time.Time {
		return time.Date(2026, 8, 28, 20, 0, 0, 0, time.UTC)
	}
	assert.Equal(t, "2026-08-29", clk.TodayKey())

	clk.now = func() time.Time {
		return time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	}
	assert.Equal(t, "2026-08-28", clk.TodayKey())
}

func TestZoneClockEmptyZoneFallsBack(t *testing.T) {
	clk, err := NewZoneClock("")
	require.NoError(t, err)
	assert.NotEmpty(t, clk.TodayKey())
}

func TestZoneClockRejectsUnknownZone(t *testing.T) {
	_, err := NewZoneClock("Mars/Olympus")
	assert.Error(t, err)
}

func TestFixedClock(t *testing.T) {
	instant := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	clk := NewFixed(instant)
	assert.Equal(t, instant, clk.Now())
	assert.Equal(t, "2026-08-28", clk.TodayKey())
}

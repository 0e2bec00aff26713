package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/parser"
)

func TestAnalyzeMonth(t *testing.T) {
	t.Parallel()

	rows := []parser.BookingRow{
		booking("C 2609", date(2025, 9, 28), date(2025, 10, 3), 5, 500, "Booking.com", "C"),
		booking("A 4022-4024", date(2025, 10, 10), date(2025, 10, 12), 2, 200, "Instagram", "A"),
		booking("B 1101", date(2025, 9, 1), date(2025, 9, 5), 4, 400, "Agoda", "B"),
		booking("D 7001", time.Time{}, date(2025, 10, 5), 4, 400, "Airbnb", "D"),
	}

	res, err := AnalyzeMonth(rows, 2025, time.October)
	require.NoError(t, err)

	require.Len(t, res.MonthlyStats, 1)
	oct := res.MonthlyStats[0]
	assert.Equal(t, "2025-10", oct.Month)
	assert.InDelta(t, 400, oct.TotalRevenue, eps)
	assert.InDelta(t, 4, oct.TotalNights, eps)
	assert.Equal(t, 3, oct.RoomCount)

	o := res.OverallStats
	assert.Equal(t, 3, o.UniqueRooms)
	assert.InDelta(t, 400, o.TotalRevenue, eps)
	assert.InDelta(t, 2, o.TotalBookings, eps)
	assert.InDelta(t, 4.0/93.0*100, o.OccupancyRate, eps)
	assert.InDelta(t, 400.0/93.0, o.RevPAR, eps)

	assert.InDelta(t, 200, findRoom(t, res, "C 2609").Revenue, eps)
	assert.InDelta(t, 100, findRoom(t, res, "A 4022").Revenue, eps)
	assert.InDelta(t, 200, findChannel(t, res, parser.SocialMediaChannel).Revenue, eps)

	require.Len(t, res.FilteredBookings, 2)
	assert.Equal(t, 2, res.FilteredBookings[0].NightsInMonth)
	assert.InDelta(t, 200, res.FilteredBookings[0].RevenueInMonth, eps)
	assert.Equal(t, "A 4022-4024", res.FilteredBookings[1].Room)
}

func TestAnalyzeMonth_Empty(t *testing.T) {
	t.Parallel()

	res, err := AnalyzeMonth(nil, 2025, time.February)
	require.NoError(t, err)
	require.Len(t, res.MonthlyStats, 1)
	assert.Zero(t, res.MonthlyStats[0].OccupancyRate)
	assert.Zero(t, res.OverallStats.RevPAR)
	assert.Empty(t, res.FilteredBookings)
}

func TestAnalyzeMonth_InvalidMonth(t *testing.T) {
	t.Parallel()

	_, err := AnalyzeMonth(nil, 2025, time.Month(13))
	assert.Error(t, err)
}

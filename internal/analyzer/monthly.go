package analyzer

import (
	"fmt"
	"io"
	"time"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/model"
	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/parser"
)

// AnalyzeMonth 单月分析：只保留与目标月份有交集的预订，按落在当月的晚数折算收入
func AnalyzeMonth(rows []parser.BookingRow, year int, month time.Month) (*model.AnalysisResult, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month: %d", month)
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := firstOfNextMonth(monthStart)
	key := MonthKey(monthStart)

	agg := newAggregation(Window{Start: monthStart, End: monthEnd})
	uniqueRooms := make(map[string]struct{})
	var filtered []model.FilteredBooking

	for _, row := range rows {
		if !row.HasStay() {
			continue
		}
		if !row.CheckOut.After(monthStart) || !row.CheckIn.Before(monthEnd) {
			continue
		}
		nightsInMonth := overlapNights(row.CheckIn, row.CheckOut, monthStart, monthEnd)
		if nightsInMonth <= 0 {
			continue
		}

		rooms := parser.SplitRooms(row.RoomID)
		n := float64(len(rooms))
		revenue := row.Revenue / float64(row.Nights) * float64(nightsInMonth) / n
		nights := float64(nightsInMonth) / n
		share := 1 / n

		for _, room := range rooms {
			uniqueRooms[room] = struct{}{}
			agg.totals.add(revenue, nights, share)
			bucketOf(agg.rooms, room).add(revenue, nights, share)
			bucketOf(agg.channels, row.Channel).add(revenue, nights, share)
			bucketOf(agg.buildings, row.Building).add(revenue, nights, share)
		}

		filtered = append(filtered, model.FilteredBooking{
			Room:           row.RoomID,
			CheckIn:        row.CheckIn,
			CheckOut:       row.CheckOut,
			NightsInMonth:  nightsInMonth,
			RevenueInMonth: row.Revenue * float64(nightsInMonth) / float64(row.Nights),
			Channel:        row.Channel,
			Building:       row.Building,
		})
	}

	// 单月口径下可售房晚 = 当月出现的房间数 × 当月天数
	for room := range uniqueRooms {
		agg.markSeen(room, key)
	}
	m := agg.month(key)
	m.add(agg.totals.revenue, agg.totals.nights, agg.totals.bookings)
	for room := range uniqueRooms {
		m.rooms[room] = struct{}{}
	}

	result := agg.assemble()
	result.FilteredBookings = filtered
	return result, nil
}

// AnalyzeMonthReader 读取 xlsx 后做单月分析
func AnalyzeMonthReader(r io.Reader, year int, month time.Month) (*model.AnalysisResult, parser.ReadStats, error) {
	rows, stats, err := parser.ReadBookings(r)
	if err != nil {
		return nil, stats, fmt.Errorf("analyze workbook: %w", err)
	}
	result, err := AnalyzeMonth(rows, year, month)
	if err != nil {
		return nil, stats, err
	}
	return result, stats, nil
}

func overlapNights(checkIn, checkOut, start, end time.Time) int {
	from := checkIn
	if start.After(from) {
		from = start
	}
	to := checkOut
	if end.Before(to) {
		to = end
	}
	if !to.After(from) {
		return 0
	}
	return wholeDays(from, to)
}

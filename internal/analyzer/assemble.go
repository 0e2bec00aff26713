package analyzer

import (
	"sort"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/model"
)

type keyedBucket struct {
	key string
	b   *bucket
}

// sortedByRevenue 收入降序；收入相同按键升序，保证输出稳定
func sortedByRevenue(m map[string]*bucket) []keyedBucket {
	out := make([]keyedBucket, 0, len(m))
	for k, b := range m {
		out = append(out, keyedBucket{key: k, b: b})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].b.revenue != out[j].b.revenue {
			return out[i].b.revenue > out[j].b.revenue
		}
		return out[i].key < out[j].key
	})
	return out
}

// assemble 把累加器转换为输出结构
func (a *aggregation) assemble() *model.AnalysisResult {
	monthKeys := make([]string, 0, len(a.months))
	for k := range a.months {
		monthKeys = append(monthKeys, k)
	}
	sort.Strings(monthKeys)

	av := estimateAvailability(monthKeys, a.firstSeen)

	result := &model.AnalysisResult{
		MonthlyStats:  make([]model.MonthlyStats, 0, len(monthKeys)),
		RoomStats:     make([]model.RoomStats, 0, len(a.rooms)),
		ChannelStats:  make([]model.ChannelStats, 0, len(a.channels)),
		BuildingStats: make([]model.BuildingStats, 0, len(a.buildings)),
	}

	for _, key := range monthKeys {
		m := a.months[key]
		result.MonthlyStats = append(result.MonthlyStats, model.MonthlyStats{
			Month:         key,
			TotalRevenue:  m.revenue,
			TotalNights:   m.nights,
			TotalBookings: m.bookings,
			AvgADR:        m.adr(),
			RoomCount:     av.roomCount[key],
			OccupancyRate: av.occupancy(key, m.nights),
		})
	}

	for _, kb := range sortedByRevenue(a.rooms) {
		result.RoomStats = append(result.RoomStats, model.RoomStats{
			Room: kb.key, Revenue: kb.b.revenue, Nights: kb.b.nights, Bookings: kb.b.bookings, ADR: kb.b.adr(),
		})
	}
	for _, kb := range sortedByRevenue(a.channels) {
		result.ChannelStats = append(result.ChannelStats, model.ChannelStats{
			Channel: kb.key, Revenue: kb.b.revenue, Nights: kb.b.nights, Bookings: kb.b.bookings, ADR: kb.b.adr(),
		})
	}
	for _, kb := range sortedByRevenue(a.buildings) {
		result.BuildingStats = append(result.BuildingStats, model.BuildingStats{
			Building: kb.key, Revenue: kb.b.revenue, Nights: kb.b.nights, Bookings: kb.b.bookings, ADR: kb.b.adr(),
		})
	}

	total := float64(av.totalAvailable)
	result.OverallStats = model.OverallStats{
		TotalRevenue:  a.totals.revenue,
		TotalNights:   a.totals.nights,
		TotalBookings: a.totals.bookings,
		AvgADR:        a.totals.adr(),
		UniqueRooms:   len(a.rooms),
		OccupancyRate: safeDiv(a.totals.nights, total) * 100,
		RevPAR:        safeDiv(a.totals.revenue, total),
	}

	return result
}

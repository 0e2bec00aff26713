package analyzer

import (
	"time"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/parser"
)

// RoomAllocation 拆分后单个房间分摊到的预订
type RoomAllocation struct {
	Room      string
	Revenue   float64 // 原收入 / 房间数
	Nights    float64 // 原晚数 / 房间数
	RoomCount int
	CheckIn   time.Time
	CheckOut  time.Time
	Channel   string
	Building  string
}

// Allocate 按房号拆分一行预订，收入与晚数平均分摊
func Allocate(row parser.BookingRow) []RoomAllocation {
	rooms := parser.SplitRooms(row.RoomID)
	n := float64(len(rooms))

	out := make([]RoomAllocation, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, RoomAllocation{
			Room:      room,
			Revenue:   row.Revenue / n,
			Nights:    float64(row.Nights) / n,
			RoomCount: len(rooms),
			CheckIn:   row.CheckIn,
			CheckOut:  row.CheckOut,
			Channel:   row.Channel,
			Building:  row.Building,
		})
	}
	return out
}

func (a *aggregation) addBooking(row parser.BookingRow) {
	for _, al := range Allocate(row) {
		if !al.CheckIn.IsZero() && al.CheckIn.Before(a.window.Start) {
			a.walkCarryOver(al)
			continue
		}
		a.walkInWindow(al)
	}
}

// walkCarryOver 入住早于窗口起点：只计入窗口起点到退房之间的部分。
// 渠道与区块统计不在此分支更新。
func (a *aggregation) walkCarryOver(al RoomAllocation) {
	start := a.window.Start
	if !al.CheckOut.After(start) {
		return
	}

	stayNights := wholeDays(al.CheckIn, al.CheckOut)
	nightsInWindow := wholeDays(start, al.CheckOut)
	if stayNights <= 0 || nightsInWindow <= 0 {
		return
	}

	share := 1 / float64(al.RoomCount)
	revenue := al.Revenue / float64(stayNights) * float64(nightsInWindow)
	nights := float64(nightsInWindow) / float64(al.RoomCount)

	a.totals.add(revenue, nights, share)
	a.walkMonths(al, start, revenue, nights)
	bucketOf(a.rooms, al.Room).add(revenue, nights, share)
}

// walkInWindow 入住在窗口起点之后；入住不早于窗口终点的整单跳过。
// 日期无法解析的预订计入总计与各维度，但不参与月度摊分。
func (a *aggregation) walkInWindow(al RoomAllocation) {
	dated := !al.CheckIn.IsZero() && !al.CheckOut.IsZero()
	if !al.CheckIn.IsZero() && !al.CheckIn.Before(a.window.End) {
		return
	}

	share := 1 / float64(al.RoomCount)

	a.totals.add(al.Revenue, al.Nights, share)
	if dated {
		a.walkMonths(al, al.CheckIn, al.Revenue, al.Nights)
	}
	bucketOf(a.rooms, al.Room).add(al.Revenue, al.Nights, share)
	bucketOf(a.channels, al.Channel).add(al.Revenue, al.Nights, share)
	bucketOf(a.buildings, al.Building).add(al.Revenue, al.Nights, share)
}

// walkMonths 从 from 开始逐月推进到退房，按当月晚数占比分摊收入
func (a *aggregation) walkMonths(al RoomAllocation, from time.Time, revenue, nights float64) {
	rate := safeDiv(revenue, nights)
	share := 1 / float64(al.RoomCount)

	for cur := from; cur.Before(al.CheckOut); cur = firstOfNextMonth(cur) {
		if !a.window.Contains(cur) {
			continue
		}
		key := MonthKey(cur)
		a.markSeen(al.Room, key)

		days := min(wholeDays(cur, al.CheckOut), wholeDays(cur, lastDayOfMonth(cur))+1)
		if days < 0 {
			days = 0
		}
		monthNights := float64(days) / float64(al.RoomCount)

		m := a.month(key)
		m.add(rate*monthNights, monthNights, share)
		m.rooms[al.Room] = struct{}{}
	}
}

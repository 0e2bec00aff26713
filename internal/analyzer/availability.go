package analyzer

import "sort"

// availability 可售房估算结果
type availability struct {
	roomCount      map[string]int // 月份 -> 累计房间数
	availableNight map[string]int // 月份 -> 可售房晚
	totalAvailable int
}

// estimateAvailability 房间一旦出现即视为此后持续可售，
// 每月累计房间数 = firstSeen 不晚于该月的房间数。
func estimateAvailability(monthKeys []string, firstSeen map[string]string) availability {
	keys := append([]string(nil), monthKeys...)
	sort.Strings(keys)

	seen := make([]string, 0, len(firstSeen))
	for _, m := range firstSeen {
		seen = append(seen, m)
	}
	sort.Strings(seen)

	out := availability{
		roomCount:      make(map[string]int, len(keys)),
		availableNight: make(map[string]int, len(keys)),
	}

	i := 0
	for _, key := range keys {
		for i < len(seen) && seen[i] <= key {
			i++
		}
		out.roomCount[key] = i
		nights := i * DaysInMonthKey(key)
		out.availableNight[key] = nights
		out.totalAvailable += nights
	}
	return out
}

func (av availability) occupancy(key string, nights float64) float64 {
	return safeDiv(nights, float64(av.availableNight[key])) * 100
}

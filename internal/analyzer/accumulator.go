package analyzer

// bucket 收入/晚数/预订数（预订数按拆分房间数取分数）
type bucket struct {
	revenue  float64
	nights   float64
	bookings float64
}

func (b *bucket) add(revenue, nights, bookings float64) {
	b.revenue += revenue
	b.nights += nights
	b.bookings += bookings
}

func (b *bucket) adr() float64 {
	return safeDiv(b.revenue, b.nights)
}

// monthBucket 月度桶，额外记录当月出现过的房间
type monthBucket struct {
	bucket
	rooms map[string]struct{}
}

// aggregation 单次分析独占的累加器
type aggregation struct {
	window Window

	months    map[string]*monthBucket
	rooms     map[string]*bucket
	channels  map[string]*bucket
	buildings map[string]*bucket

	// 房间首次出现的月份，仅用于可售房估算
	firstSeen map[string]string

	totals bucket
}

func newAggregation(window Window) *aggregation {
	return &aggregation{
		window:    window,
		months:    make(map[string]*monthBucket),
		rooms:     make(map[string]*bucket),
		channels:  make(map[string]*bucket),
		buildings: make(map[string]*bucket),
		firstSeen: make(map[string]string),
	}
}

func (a *aggregation) month(key string) *monthBucket {
	m, ok := a.months[key]
	if !ok {
		m = &monthBucket{rooms: make(map[string]struct{})}
		a.months[key] = m
	}
	return m
}

func (a *aggregation) markSeen(room, key string) {
	if _, ok := a.firstSeen[room]; !ok {
		a.firstSeen[room] = key
	}
}

func bucketOf(m map[string]*bucket, key string) *bucket {
	b, ok := m[key]
	if !ok {
		b = &bucket{}
		m[key] = b
	}
	return b
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

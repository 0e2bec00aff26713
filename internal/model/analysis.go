package model

import "time"

// MonthlyStats 月度统计
type MonthlyStats struct {
	Month         string  `json:"month"` // YYYY-MM
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalNights   float64 `json:"totalNights"`
	TotalBookings float64 `json:"totalBookings"`
	AvgADR        float64 `json:"avgADR"`
	RoomCount     int     `json:"roomCount"`     // 截至当月累计可售房间数
	OccupancyRate float64 `json:"occupancyRate"` // 百分比 0-100
}

// RoomStats 房间统计
type RoomStats struct {
	Room     string  `json:"room"`
	Revenue  float64 `json:"revenue"`
	Nights   float64 `json:"nights"`
	Bookings float64 `json:"bookings"`
	ADR      float64 `json:"adr"`
}

// ChannelStats 渠道统计
type ChannelStats struct {
	Channel  string  `json:"channel"`
	Revenue  float64 `json:"revenue"`
	Nights   float64 `json:"nights"`
	Bookings float64 `json:"bookings"`
	ADR      float64 `json:"adr"`
}

// BuildingStats 楼栋（区块）统计
type BuildingStats struct {
	Building string  `json:"building"`
	Revenue  float64 `json:"revenue"`
	Nights   float64 `json:"nights"`
	Bookings float64 `json:"bookings"`
	ADR      float64 `json:"adr"`
}

// OverallStats 整体汇总
type OverallStats struct {
	TotalRevenue  float64 `json:"totalRevenue"`
	TotalNights   float64 `json:"totalNights"`
	TotalBookings float64 `json:"totalBookings"`
	AvgADR        float64 `json:"avgADR"`
	UniqueRooms   int     `json:"uniqueRooms"`
	OccupancyRate float64 `json:"occupancyRate"`
	RevPAR        float64 `json:"revPAR"`
}

// AnalysisResult 一次文件分析的完整产物
type AnalysisResult struct {
	MonthlyStats  []MonthlyStats  `json:"monthlyStats"`
	RoomStats     []RoomStats     `json:"roomStats"`
	ChannelStats  []ChannelStats  `json:"channelStats"`
	BuildingStats []BuildingStats `json:"buildingStats"`
	OverallStats  OverallStats    `json:"overallStats"`

	// 仅单月分析填充，用于导出明细
	FilteredBookings []FilteredBooking `json:"filteredBookings,omitempty"`
}

// FilteredBooking 单月分析中落入目标月份的预订明细
type FilteredBooking struct {
	Room           string    `json:"room"`
	CheckIn        time.Time `json:"checkIn"`
	CheckOut       time.Time `json:"checkOut"`
	NightsInMonth  int       `json:"nightsInMonth"`
	RevenueInMonth float64   `json:"revenueInMonth"`
	Channel        string    `json:"channel"`
	Building       string    `json:"building"`
}

// AnalysisRecord 已入库的分析记录（分析历史）
type AnalysisRecord struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	FilePath    string    `json:"filePath"`
	FileHash    string    `json:"fileHash"`
	UploadDate  time.Time `json:"uploadDate"`
	WindowStart string    `json:"windowStart"` // YYYY-MM
	WindowEnd   string    `json:"windowEnd"`   // YYYY-MM（含）

	Result AnalysisResult `json:"result"`
}

// AnalysisSummary 历史列表项（不含明细数组）
type AnalysisSummary struct {
	ID            string    `json:"id"`
	FileName      string    `json:"fileName"`
	UploadDate    time.Time `json:"uploadDate"`
	TotalRevenue  float64   `json:"totalRevenue"`
	TotalNights   float64   `json:"totalNights"`
	TotalBookings float64   `json:"totalBookings"`
	AvgADR        float64   `json:"avgADR"`
	UniqueRooms   int       `json:"uniqueRooms"`
	OccupancyRate float64   `json:"occupancyRate"`
	RevPAR        float64   `json:"revPAR"`
}

// ValidationResult 上传文件结构校验结果
type ValidationResult struct {
	IsValid         bool     `json:"isValid"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	DetectedColumns []string `json:"detectedColumns"`
}

package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/ORBICITY-SYSTEM/orbi-city-hub-sub006/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "data", "orbicity.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecord(id string, uploaded time.Time) *model.AnalysisRecord {
	return &model.AnalysisRecord{
		ID:          id,
		FileName:    "bookings.xlsx",
		FilePath:    "/data/uploads/2025/02/" + id + "_bookings.xlsx",
		FileHash:    "hash-" + id,
		UploadDate:  uploaded,
		WindowStart: "2025-01",
		WindowEnd:   "2025-09",
		Result: model.AnalysisResult{
			MonthlyStats: []model.MonthlyStats{
				{Month: "2025-02", TotalRevenue: 600, TotalNights: 6, TotalBookings: 2, AvgADR: 100, RoomCount: 3, OccupancyRate: 7.142857},
			},
			RoomStats: []model.RoomStats{
				{Room: "C 2609", Revenue: 400, Nights: 4, Bookings: 1, ADR: 100},
			},
			ChannelStats: []model.ChannelStats{
				{Channel: "Booking.com", Revenue: 400, Nights: 4, Bookings: 1, ADR: 100},
			},
			BuildingStats: []model.BuildingStats{
				{Building: "C", Revenue: 400, Nights: 4, Bookings: 1, ADR: 100},
			},
			OverallStats: model.OverallStats{
				TotalRevenue: 600, TotalNights: 6, TotalBookings: 2, AvgADR: 100, UniqueRooms: 3, OccupancyRate: 7.142857, RevPAR: 7.142857,
			},
		},
	}
}

func TestStore_AnalysisRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	rec := sampleRecord("a1", time.Date(2025, 2, 20, 10, 0, 0, 0, time.UTC))
	if err := s.InsertAnalysis(rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.GetAnalysis("a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.FileName != rec.FileName || got.FileHash != rec.FileHash || got.WindowEnd != "2025-09" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if !got.UploadDate.Equal(rec.UploadDate) {
		t.Fatalf("upload date mismatch: want=%v got=%v", rec.UploadDate, got.UploadDate)
	}
	if len(got.Result.MonthlyStats) != 1 || got.Result.MonthlyStats[0].RoomCount != 3 {
		t.Fatalf("monthly stats mismatch: %+v", got.Result.MonthlyStats)
	}
	if got.Result.RoomStats[0].Room != "C 2609" || got.Result.ChannelStats[0].Channel != "Booking.com" {
		t.Fatalf("stats mismatch: %+v", got.Result)
	}
	if got.Result.OverallStats.UniqueRooms != 3 || got.Result.OverallStats.TotalRevenue != 600 {
		t.Fatalf("overall mismatch: %+v", got.Result.OverallStats)
	}

	if _, err := s.GetAnalysis("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestStore_ListCountDelete(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := s.InsertAnalysis(sampleRecord(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	n, err := s.CountAnalyses()
	if err != nil || n != 3 {
		t.Fatalf("count: want=3 got=%d err=%v", n, err)
	}

	page, err := s.ListAnalyses(2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].ID != "c" || page[1].ID != "b" {
		t.Fatalf("unexpected first page: %+v", page)
	}
	page, err = s.ListAnalyses(2, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 1 || page[0].ID != "a" || page[0].UniqueRooms != 3 {
		t.Fatalf("unexpected second page: %+v", page)
	}

	if err := s.DeleteAnalysis("b"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteAnalysis("b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: want ErrNotFound, got %v", err)
	}
}

func TestStore_FindAnalysisByHash(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	older := sampleRecord("old", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := sampleRecord("new", time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	newer.FileHash = older.FileHash
	for _, r := range []*model.AnalysisRecord{older, newer} {
		if err := s.InsertAnalysis(r); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := s.FindAnalysisByHash(older.FileHash, "2025-01", "2025-09")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.ID != "new" {
		t.Fatalf("want latest record, got %s", got.ID)
	}

	if _, err := s.FindAnalysisByHash(older.FileHash, "2025-01", "2025-06"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("different window: want ErrNotFound, got %v", err)
	}
}

func TestStore_ImportLog(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	id, err := s.CreateImportLog("bookings.xlsx", "", 1024, "abc")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id <= 0 {
		t.Fatalf("want positive id, got %d", id)
	}

	if err := s.UpdateImportLog(id, "/tmp/x.xlsx", 10, 8, 2, "a1", ImportStatusSuccess, ""); err != nil {
		t.Fatalf("update: %v", err)
	}
	l, err := s.GetImportLog(id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if l.Status != ImportStatusSuccess || l.ValidRows != 8 || l.SkippedRows != 2 || l.AnalysisID != "a1" {
		t.Fatalf("unexpected import log: %+v", l)
	}

	if err := s.UpdateImportLog(id+100, "", 0, 0, 0, "", ImportStatusFailed, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing: want ErrNotFound, got %v", err)
	}

	byAnalysis, err := s.FindImportLogByAnalysis("a1")
	if err != nil {
		t.Fatalf("find by analysis: %v", err)
	}
	if byAnalysis.ID != id || byAnalysis.TotalRows != 10 {
		t.Fatalf("unexpected import log: %+v", byAnalysis)
	}
	if _, err := s.FindImportLogByAnalysis("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("find missing: want ErrNotFound, got %v", err)
	}
}

func TestStore_AnalysisWindowConfig(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	if _, _, err := s.GetAnalysisWindow(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unset window: want ErrNotFound, got %v", err)
	}

	if err := s.SetAnalysisWindow("2025-01", "2025-09"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetAnalysisWindow("2025-03", "2025-12"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	start, end, err := s.GetAnalysisWindow()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if start != "2025-03" || end != "2025-12" {
		t.Fatalf("window mismatch: got %s..%s", start, end)
	}

	all, err := s.GetAllConfig()
	if err != nil {
		t.Fatalf("all config: %v", err)
	}
	if all[ConfigWindowStart] != "2025-03" {
		t.Fatalf("all config mismatch: %+v", all)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	if _, err := Open("mysql", "x"); err == nil {
		t.Fatalf("want error for unsupported driver")
	}
}

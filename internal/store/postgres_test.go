package store

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestRebind(t *testing.T) {
	t.Parallel()

	pg := NewWithDB(nil, DriverPostgres)
	got := pg.rebind("SELECT a FROM t WHERE x = ? AND y = ? LIMIT ?")
	want := "SELECT a FROM t WHERE x = $1 AND y = $2 LIMIT $3"
	if got != want {
		t.Fatalf("rebind mismatch: want=%q got=%q", want, got)
	}

	lite := NewWithDB(nil, DriverSQLite)
	if q := "SELECT ? "; lite.rebind(q) != q {
		t.Fatalf("sqlite query must stay unchanged")
	}
}

func TestPostgres_GetAnalysisWindow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := NewWithDB(db, DriverPostgres)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM config WHERE key = $1")).
		WithArgs(ConfigWindowStart).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("2025-01"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT value FROM config WHERE key = $1")).
		WithArgs(ConfigWindowEnd).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("2025-09"))

	start, end, err := s.GetAnalysisWindow()
	if err != nil {
		t.Fatalf("get window: %v", err)
	}
	if start != "2025-01" || end != "2025-09" {
		t.Fatalf("window mismatch: %s..%s", start, end)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgres_CreateImportLogUsesReturning(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := NewWithDB(db, DriverPostgres)
	mock.ExpectQuery(`INSERT INTO import_logs .* VALUES \(\$1, \$2, \$3, \$4, \$5\)\s+RETURNING id`).
		WithArgs("bookings.xlsx", "", int64(2048), "h", ImportStatusProcessing).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	id, err := s.CreateImportLog("bookings.xlsx", "", 2048, "h")
	if err != nil {
		t.Fatalf("create import log: %v", err)
	}
	if id != 42 {
		t.Fatalf("id mismatch: want=42 got=%d", id)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgres_ListAnalyses(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := NewWithDB(db, DriverPostgres)
	uploaded := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM analysis_results\s+ORDER BY upload_date DESC, id\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "file_name", "upload_date",
			"total_revenue", "total_nights", "total_bookings", "avg_adr", "unique_rooms", "occupancy_rate", "rev_par",
		}).AddRow("a1", "bookings.xlsx", uploaded, 600.0, 6.0, 2.0, 100.0, 3, 7.14, 7.14))

	list, err := s.ListAnalyses(0, -5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != "a1" || list[0].UniqueRooms != 3 {
		t.Fatalf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPostgres_DeleteAnalysisNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	s := NewWithDB(db, DriverPostgres)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM analysis_results WHERE id = $1")).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.DeleteAnalysis("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

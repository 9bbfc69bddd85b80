package repositories

import (
	"testing"
	"time"

	"thrive/internal/domain"
	"thrive/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSetStatusStampsConfirmedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings SET status=\\?, updated_at=NOW\\(\\), confirmed_at=NOW\\(\\)").
		WithArgs(domain.BookingConfirmed, "b1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := BookingRepository{DB: db}
	if err := repo.SetStatus("b1", domain.BookingConfirmed); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetStatusUnknownBooking(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE bookings SET status=").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := BookingRepository{DB: db}
	err = repo.SetStatus("missing", domain.BookingCompleted)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBookingFilterClause(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	f := BookingFilter{
		UserID: "u1",
		Status: domain.BookingPending,
		Search: "TGT",
		From:   &from,
	}
	cond, args := f.clause()
	if cond != "1=1 AND user_id=? AND status=? AND (booking_reference LIKE ? OR origin LIKE ? OR destination LIKE ?) AND departure_date >= ?" {
		t.Fatalf("unexpected clause: %s", cond)
	}
	if len(args) != 6 {
		t.Fatalf("expected 6 args, got %d", len(args))
	}
	if args[2] != "%TGT%" {
		t.Fatalf("search arg not wrapped: %v", args[2])
	}
}

func TestDashboardCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\),(.|\n)+FROM bookings WHERE user_id=").
		WillReturnRows(sqlmock.NewRows([]string{"total", "confirmed", "upcoming", "trips"}).AddRow(8, 5, 2, 1))

	repo := BookingRepository{DB: db}
	c, err := repo.DashboardCounts("u1", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Total != 8 || c.Confirmed != 5 || c.Upcoming != 2 || c.Trips != 1 {
		t.Fatalf("counts scanned wrong: %+v", c)
	}
}

func TestPatchWithNoFieldsIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := BookingRepository{DB: db}
	if err := repo.Patch("b1", models.BookingUpdate{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no queries should run: %v", err)
	}
}

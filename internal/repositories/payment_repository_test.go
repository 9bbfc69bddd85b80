package repositories

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMarkPaidOnlyTouchesPendingRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE payments(.|\n)+WHERE id=\\? AND status='pending'").
		WithArgs("ch_123", "ch_123", "visa", "4242", "p1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := PaymentRepository{DB: db}
	if err := repo.MarkPaid("p1", "ch_123", "visa", "4242"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMarkPaidSecondCallIsHarmless(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// already paid, zero rows affected, still no error
	mock.ExpectExec("UPDATE payments").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := PaymentRepository{DB: db}
	if err := repo.MarkPaid("p1", "ch_123", "visa", "4242"); err != nil {
		t.Fatalf("second settle should not error: %v", err)
	}
}

func TestTotalPaidCents(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount_cents\\),0\\) FROM payments").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(125000))

	repo := PaymentRepository{DB: db}
	total, err := repo.TotalPaidCents("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 125000 {
		t.Fatalf("expected 125000, got %d", total)
	}
}

func TestMonthlySpendZeroFillsGaps(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT DATE_FORMAT").
		WillReturnRows(sqlmock.NewRows([]string{"month", "total"}).
			AddRow("2026-08", 30000).
			AddRow("2026-05", 12000))

	repo := PaymentRepository{DB: db}
	points, err := repo.MonthlySpend("u1", 6, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 6 {
		t.Fatalf("expected 6 points, got %d", len(points))
	}
	if points[5].Name != "Aug" || points[5].Cents != 30000 {
		t.Fatalf("latest month wrong: %+v", points[5])
	}
	if points[2].Name != "May" || points[2].Cents != 12000 {
		t.Fatalf("May wrong: %+v", points[2])
	}
	if points[0].Cents != 0 || points[1].Cents != 0 {
		t.Fatalf("gaps should be zero filled: %+v", points)
	}
}

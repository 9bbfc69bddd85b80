package repositories

import (
	"testing"
	"time"

	"thrive/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSendQuoteRejectsAnsweredQuote(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE quotes(.|\n)+WHERE id=\\? AND status='pending'").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := QuoteRepository{DB: db}
	err = repo.SendQuote("q1", 50000, 2500, 52500, "", nil, time.Now().Add(72*time.Hour))
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestMarkAcceptedRequiresSentStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE quotes SET status='accepted'").
		WithArgs("b1", "q1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := QuoteRepository{DB: db}
	if err := repo.MarkAccepted("q1", "b1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestExpireStaleReturnsAffectedRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE quotes SET status='expired'").
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := QuoteRepository{DB: db}
	n, err := repo.ExpireStale(time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 expired, got %d", n)
	}
}

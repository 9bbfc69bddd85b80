package repositories

import (
	"testing"

	"thrive/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMarkReadUnknownNotification(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE notifications SET is_read=1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM notifications WHERE id=").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	repo := NotificationRepository{DB: db}
	err = repo.MarkRead("missing", "u1")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkReadAlreadyRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	// zero rows affected but the row exists, treated as success
	mock.ExpectExec("UPDATE notifications SET is_read=1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM notifications WHERE id=").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	repo := NotificationRepository{DB: db}
	if err := repo.MarkRead("n1", "u1"); err != nil {
		t.Fatalf("re-reading should be a noop, got %v", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE notifications SET is_read=1").
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	repo := NotificationRepository{DB: db}
	n, err := repo.MarkAllRead("u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 marked, got %d", n)
	}
}

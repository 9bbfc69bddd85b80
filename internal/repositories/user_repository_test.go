package repositories

import (
	"testing"

	"thrive/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestEmailExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users").WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	repo := UserRepository{DB: db}
	exists, err := repo.EmailExists("Jane@Example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Fatalf("expected email to exist")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSpendReferralCreditsInsufficientBalance(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE users SET referral_credits_cents").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := UserRepository{DB: db}
	err = repo.SpendReferralCredits("u1", 5000)
	if err == nil {
		t.Fatalf("expected error when balance insufficient")
	}
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSpendReferralCreditsDeductsOnce(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE users SET referral_credits_cents").
		WithArgs(int64(1000), "u1", int64(1000)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := UserRepository{DB: db}
	if err := repo.SpendReferralCredits("u1", 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT(.|\n)+FROM users WHERE id=").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := UserRepository{DB: db}
	_, err = repo.GetByID("missing")
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

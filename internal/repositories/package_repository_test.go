package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPackageSearchClause(t *testing.T) {
	s := PackageSearch{
		Query:         "bali",
		Country:       "Indonesia",
		MinPriceCents: 50000,
		MaxDays:       10,
	}
	cond, args := s.clause()
	want := "1=1 AND is_active=1 AND (name LIKE ? OR description LIKE ? OR destination_city LIKE ? OR destination_country LIKE ?) AND destination_country LIKE ? AND starting_price_cents >= ? AND duration_days <= ?"
	if cond != want {
		t.Fatalf("unexpected clause:\n got %s\nwant %s", cond, want)
	}
	if len(args) != 7 {
		t.Fatalf("expected 7 args, got %d", len(args))
	}
}

func TestPackageSearchHiddenForAdmin(t *testing.T) {
	cond, _ := PackageSearch{IncludeHidden: true}.clause()
	if cond != "1=1" {
		t.Fatalf("admin listing should not filter is_active: %s", cond)
	}
}

func TestPackageSearchOrderBy(t *testing.T) {
	cases := map[string]string{
		"price_asc":  "starting_price_cents ASC",
		"price_desc": "starting_price_cents DESC",
		"duration":   "duration_days ASC",
		"popular":    "booking_count DESC, view_count DESC",
		"":           "created_at DESC",
		"bogus":      "created_at DESC",
	}
	for sort, want := range cases {
		if got := (PackageSearch{Sort: sort}).orderBy(); got != want {
			t.Fatalf("sort %q: got %s want %s", sort, got, want)
		}
	}
}

func TestPriceRange(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT COALESCE\\(MIN\\(starting_price_cents\\),0\\)").
		WillReturnRows(sqlmock.NewRows([]string{"min", "max"}).AddRow(49900, 459900))

	repo := PackageRepository{DB: db}
	min, max, err := repo.PriceRange()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if min != 49900 || max != 459900 {
		t.Fatalf("range scanned wrong: %d..%d", min, max)
	}
}

func TestPatchWithNoFieldsDoesNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	repo := PackageRepository{DB: db}
	if err := repo.Patch("pkg1", PackageUpdate{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no queries should run: %v", err)
	}
}

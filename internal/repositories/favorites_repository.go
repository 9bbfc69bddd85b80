package repositories

import (
	"database/sql"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
)

type FavoritesRepository struct {
	DB *sql.DB
}

func (r FavoritesRepository) db() *sql.DB { return fallbackDB(r.DB) }

// Add is idempotent; favoriting twice keeps one row.
func (r FavoritesRepository) Add(userID, packageID string) error {
	_, err := r.db().Exec(`
		INSERT IGNORE INTO user_favorites (user_id, package_id, created_at)
		VALUES (?,?,NOW())`, userID, packageID)
	return err
}

func (r FavoritesRepository) Remove(userID, packageID string) error {
	res, err := r.db().Exec(`DELETE FROM user_favorites WHERE user_id=? AND package_id=?`, userID, packageID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "favorite"}
	}
	return nil
}

func (r FavoritesRepository) Exists(userID, packageID string) (bool, error) {
	var n int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM user_favorites WHERE user_id=? AND package_id=?`, userID, packageID).Scan(&n)
	return n > 0, err
}

// ListByUser returns the user's favorited packages, most recent first.
func (r FavoritesRepository) ListByUser(userID string) ([]models.Package, error) {
	rows, err := r.db().Query(`
		SELECT `+packageColumns+`
		FROM packages
		JOIN (
			SELECT package_id, created_at AS favorited_at
			FROM user_favorites WHERE user_id=?
		) uf ON uf.package_id = packages.id
		ORDER BY uf.favorited_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPackages(rows)
}

func (r FavoritesRepository) Count(userID string) (int, error) {
	var n int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM user_favorites WHERE user_id=?`, userID).Scan(&n)
	return n, err
}

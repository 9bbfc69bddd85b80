package repositories

import (
	"database/sql"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
)

type NotificationRepository struct {
	DB *sql.DB
}

func (r NotificationRepository) db() *sql.DB { return fallbackDB(r.DB) }

const notificationColumns = `
	id, user_id, type, title, message,
	COALESCE(link_url,''), COALESCE(booking_id,''),
	is_read, read_at, sent_via_email, created_at`

func scanNotification(row rowScanner) (models.Notification, error) {
	var (
		n      models.Notification
		readAt sql.NullTime
	)
	err := row.Scan(
		&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message,
		&n.LinkURL, &n.BookingID,
		&n.IsRead, &readAt, &n.SentViaEmail, &n.CreatedAt,
	)
	if err != nil {
		return models.Notification{}, err
	}
	n.ReadAt = nullTime(readAt)
	return n, nil
}

func (r NotificationRepository) Create(n models.Notification) error {
	_, err := r.db().Exec(`
		INSERT INTO notifications (
			id, user_id, type, title, message, link_url, booking_id,
			is_read, sent_via_email, created_at
		) VALUES (?,?,?,?,?,?,?,0,?,NOW())`,
		n.ID, n.UserID, n.Type, n.Title, n.Message,
		nullIfEmpty(n.LinkURL), nullIfEmpty(n.BookingID), n.SentViaEmail,
	)
	return err
}

func (r NotificationRepository) ListByUser(userID string, unreadOnly bool, p *domain.Pagination) ([]models.Notification, error) {
	p.Clamp()
	cond := "user_id=?"
	if unreadOnly {
		cond += " AND is_read=0"
	}

	if err := r.db().QueryRow(`SELECT COUNT(*) FROM notifications WHERE `+cond, userID).Scan(&p.Total); err != nil {
		return nil, err
	}

	rows, err := r.db().Query(`SELECT `+notificationColumns+` FROM notifications WHERE `+cond+` ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		userID, p.PageSize, p.Offset())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r NotificationRepository) CountUnread(userID string) (int, error) {
	var n int
	err := r.db().QueryRow(`SELECT COUNT(*) FROM notifications WHERE user_id=? AND is_read=0`, userID).Scan(&n)
	return n, err
}

// MarkRead marks one notification; ownership is enforced in the query.
func (r NotificationRepository) MarkRead(id, userID string) error {
	res, err := r.db().Exec(`
		UPDATE notifications SET is_read=1, read_at=NOW()
		WHERE id=? AND user_id=? AND is_read=0`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		if err := r.db().QueryRow(`SELECT COUNT(*) FROM notifications WHERE id=? AND user_id=?`, id, userID).Scan(&exists); err != nil {
			return err
		}
		if exists == 0 {
			return domain.NotFoundError{Resource: "notification"}
		}
	}
	return nil
}

func (r NotificationRepository) MarkAllRead(userID string) (int64, error) {
	res, err := r.db().Exec(`UPDATE notifications SET is_read=1, read_at=NOW() WHERE user_id=? AND is_read=0`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

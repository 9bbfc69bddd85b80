package repositories

import (
	"database/sql"
	"strings"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
)

type ContactRepository struct {
	DB *sql.DB
}

func (r ContactRepository) db() *sql.DB { return fallbackDB(r.DB) }

const contactColumns = `
	id, name, email, COALESCE(phone,''), subject, message,
	COALESCE(user_id,''), status, priority,
	COALESCE(assigned_to,''), COALESCE(admin_notes,''),
	replied_at, resolved_at, created_at, updated_at`

func scanContact(row rowScanner) (models.ContactMessage, error) {
	var (
		m                 models.ContactMessage
		replied, resolved sql.NullTime
	)
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message,
		&m.UserID, &m.Status, &m.Priority,
		&m.AssignedTo, &m.AdminNotes,
		&replied, &resolved, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return models.ContactMessage{}, err
	}
	m.RepliedAt = nullTime(replied)
	m.ResolvedAt = nullTime(resolved)
	return m, nil
}

func (r ContactRepository) Create(m models.ContactMessage) error {
	_, err := r.db().Exec(`
		INSERT INTO contact_messages (
			id, name, email, phone, subject, message, user_id,
			status, priority, created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,NOW(),NOW())`,
		m.ID, m.Name, m.Email, nullIfEmpty(m.Phone), m.Subject, m.Message,
		nullIfEmpty(m.UserID), m.Status, m.Priority,
	)
	return err
}

func (r ContactRepository) GetByID(id string) (models.ContactMessage, error) {
	row := r.db().QueryRow(`SELECT `+contactColumns+` FROM contact_messages WHERE id=? LIMIT 1`, id)
	m, err := scanContact(row)
	if err == sql.ErrNoRows {
		return models.ContactMessage{}, domain.NotFoundError{Resource: "contact message"}
	}
	return m, err
}

// ContactFilter narrows admin contact listings.
type ContactFilter struct {
	Status   string
	Priority string
	Search   string
}

func (r ContactRepository) List(f ContactFilter, p *domain.Pagination) ([]models.ContactMessage, error) {
	p.Clamp()
	where := []string{"1=1"}
	args := []any{}
	if f.Status != "" {
		where = append(where, "status=?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		where = append(where, "priority=?")
		args = append(args, f.Priority)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		where = append(where, "(name LIKE ? OR email LIKE ? OR subject LIKE ?)")
		like := "%" + s + "%"
		args = append(args, like, like, like)
	}
	cond := strings.Join(where, " AND ")

	if err := r.db().QueryRow(`SELECT COUNT(*) FROM contact_messages WHERE `+cond, args...).Scan(&p.Total); err != nil {
		return nil, err
	}

	args = append(args, p.PageSize, p.Offset())
	rows, err := r.db().Query(`SELECT `+contactColumns+` FROM contact_messages WHERE `+cond+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ContactMessage
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ContactUpdate is an admin PATCH; nil means untouched.
type ContactUpdate struct {
	Status     *string
	Priority   *string
	AssignedTo *string
	AdminNotes *string
}

func (r ContactRepository) Patch(id string, u ContactUpdate) error {
	sets := []string{}
	args := []any{}
	if u.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, *u.Status)
		switch *u.Status {
		case domain.ContactInProgress:
			sets = append(sets, "replied_at=NOW()")
		case domain.ContactResolved:
			sets = append(sets, "resolved_at=NOW()")
		}
	}
	if u.Priority != nil {
		sets = append(sets, "priority=?")
		args = append(args, *u.Priority)
	}
	if u.AssignedTo != nil {
		sets = append(sets, "assigned_to=?")
		args = append(args, nullIfEmpty(*u.AssignedTo))
	}
	if u.AdminNotes != nil {
		sets = append(sets, "admin_notes=?")
		args = append(args, nullIfEmpty(*u.AdminNotes))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	res, err := r.db().Exec(`UPDATE contact_messages SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "contact message"}
	}
	return nil
}

func (r ContactRepository) Delete(id string) error {
	res, err := r.db().Exec(`DELETE FROM contact_messages WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "contact message"}
	}
	return nil
}

// ContactStats backs the admin contacts dashboard.
type ContactStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"by_status"`
}

func (r ContactRepository) Stats() (ContactStats, error) {
	s := ContactStats{ByStatus: map[string]int{}}
	rows, err := r.db().Query(`SELECT status, COUNT(*) FROM contact_messages GROUP BY status`)
	if err != nil {
		return s, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return s, err
		}
		s.ByStatus[status] = n
		s.Total += n
	}
	return s, rows.Err()
}

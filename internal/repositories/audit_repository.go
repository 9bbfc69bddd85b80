package repositories

import (
	"database/sql"
	"strings"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
)

type AuditRepository struct {
	DB *sql.DB
}

func (r AuditRepository) db() *sql.DB { return fallbackDB(r.DB) }

const auditColumns = `
	id, COALESCE(user_id,''), action,
	COALESCE(entity_type,''), COALESCE(entity_id,''),
	COALESCE(description,''), COALESCE(changes,''),
	COALESCE(ip_address,''), COALESCE(user_agent,''), created_at`

func scanAuditLog(row rowScanner) (models.AuditLog, error) {
	var (
		a       models.AuditLog
		changes []byte
	)
	err := row.Scan(
		&a.ID, &a.UserID, &a.Action,
		&a.EntityType, &a.EntityID,
		&a.Description, &changes,
		&a.IPAddress, &a.UserAgent, &a.CreatedAt,
	)
	if err != nil {
		return models.AuditLog{}, err
	}
	if len(changes) > 0 {
		a.Changes = changes
	}
	return a, nil
}

func (r AuditRepository) Insert(a models.AuditLog) error {
	_, err := r.db().Exec(`
		INSERT INTO audit_logs (
			id, user_id, action, entity_type, entity_id,
			description, changes, ip_address, user_agent, created_at
		) VALUES (?,?,?,?,?,?,?,?,?,NOW())`,
		a.ID, nullIfEmpty(a.UserID), a.Action,
		nullIfEmpty(a.EntityType), nullIfEmpty(a.EntityID),
		nullIfEmpty(a.Description), nullIfEmptyBytes(a.Changes),
		nullIfEmpty(a.IPAddress), nullIfEmpty(a.UserAgent),
	)
	return err
}

// AuditFilter narrows admin audit trail listings.
type AuditFilter struct {
	UserID     string
	Action     string
	EntityType string
}

func (r AuditRepository) List(f AuditFilter, p *domain.Pagination) ([]models.AuditLog, error) {
	p.Clamp()
	where := []string{"1=1"}
	args := []any{}
	if f.UserID != "" {
		where = append(where, "user_id=?")
		args = append(args, f.UserID)
	}
	if f.Action != "" {
		where = append(where, "action=?")
		args = append(args, f.Action)
	}
	if f.EntityType != "" {
		where = append(where, "entity_type=?")
		args = append(args, f.EntityType)
	}
	cond := strings.Join(where, " AND ")

	if err := r.db().QueryRow(`SELECT COUNT(*) FROM audit_logs WHERE `+cond, args...).Scan(&p.Total); err != nil {
		return nil, err
	}

	args = append(args, p.PageSize, p.Offset())
	rows, err := r.db().Query(`SELECT `+auditColumns+` FROM audit_logs WHERE `+cond+` ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AuditLog
	for rows.Next() {
		a, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

package services

import (
	"encoding/json"

	"thrive/internal/domain/models"
	"thrive/internal/repositories"
	"thrive/internal/utils"
)

// AuditService writes the audit trail. Entries are best effort: a failed
// insert is logged and the request proceeds.
type AuditService struct {
	Repo      repositories.AuditRepository
	RequestID string
}

func (s AuditService) Record(userID, action, entityType, entityID, description string, changes any) {
	entry := models.AuditLog{
		ID:          utils.NewID(),
		UserID:      userID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
	}
	if changes != nil {
		if raw, err := json.Marshal(changes); err == nil {
			entry.Changes = raw
		}
	}
	if err := s.Repo.Insert(entry); err != nil {
		utils.LogEvent(s.RequestID, "audit", "insert_failed", "action="+action+" err="+err.Error())
	}
}

// RecordRequest captures the caller's network identity along with the action.
func (s AuditService) RecordRequest(userID, action, entityType, entityID, description, ip, userAgent string, changes any) {
	entry := models.AuditLog{
		ID:          utils.NewID(),
		UserID:      userID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		IPAddress:   ip,
		UserAgent:   userAgent,
	}
	if changes != nil {
		if raw, err := json.Marshal(changes); err == nil {
			entry.Changes = raw
		}
	}
	if err := s.Repo.Insert(entry); err != nil {
		utils.LogEvent(s.RequestID, "audit", "insert_failed", "action="+action+" err="+err.Error())
	}
}

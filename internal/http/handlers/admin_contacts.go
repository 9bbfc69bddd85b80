package handlers

import (
	"strings"

	"thrive/internal/domain"
	"thrive/internal/http/middleware"
	"thrive/internal/repositories"

	"github.com/gin-gonic/gin"
)

// AdminListContacts pages through support inquiries.
func AdminListContacts(c *gin.Context) {
	page := pageFromQuery(c)
	items, err := repositories.ContactRepository{}.List(repositories.ContactFilter{
		Status:   strings.TrimSpace(c.Query("status")),
		Priority: strings.TrimSpace(c.Query("priority")),
		Search:   strings.TrimSpace(c.Query("search")),
	}, &page)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondPage(c, "contact messages", items, page)
}

// AdminGetContact returns one inquiry.
func AdminGetContact(c *gin.Context) {
	m, err := repositories.ContactRepository{}.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "contact message", gin.H{"message": m})
}

type contactPatchRequest struct {
	Status     *string `json:"status"`
	Priority   *string `json:"priority"`
	AssignedTo *string `json:"assignedTo"`
	AdminNotes *string `json:"adminNotes"`
}

// AdminUpdateContact moves an inquiry through the support workflow.
func AdminUpdateContact(c *gin.Context) {
	var req contactPatchRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Status != nil {
		switch *req.Status {
		case domain.ContactNew, domain.ContactInProgress, domain.ContactResolved:
		default:
			RespondValidation(c, "unknown contact status", map[string]string{"status": "invalid status"})
			return
		}
	}
	if req.Priority != nil {
		switch *req.Priority {
		case "low", "normal", "high", "urgent":
		default:
			RespondValidation(c, "unknown priority", map[string]string{"priority": "invalid priority"})
			return
		}
	}

	repo := repositories.ContactRepository{}
	m, err := repo.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	err = repo.Patch(m.ID, repositories.ContactUpdate{
		Status:     req.Status,
		Priority:   req.Priority,
		AssignedTo: req.AssignedTo,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).Record(middleware.UserID(c), "admin.contact_update", "contact", m.ID, "contact patched", req)

	updated, err := repo.GetByID(m.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "contact message updated", gin.H{"message": updated})
}

// AdminDeleteContact removes an inquiry outright, typically spam.
func AdminDeleteContact(c *gin.Context) {
	repo := repositories.ContactRepository{}
	m, err := repo.GetByID(c.Param("id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if err := repo.Delete(m.ID); err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).Record(middleware.UserID(c), "admin.contact_delete", "contact", m.ID, "contact deleted", nil)
	RespondOK(c, "contact message deleted", nil)
}

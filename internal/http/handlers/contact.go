package handlers

import (
	"strings"

	"thrive/internal/domain"
	"thrive/internal/domain/models"
	"thrive/internal/http/middleware"
	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (r contactRequest) validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "name is required"
	}
	if !utils.ValidEmail(r.Email) {
		errs["email"] = "a valid email address is required"
	}
	if strings.TrimSpace(r.Subject) == "" {
		errs["subject"] = "subject is required"
	}
	if strings.TrimSpace(r.Message) == "" {
		errs["message"] = "message is required"
	}
	if r.Phone != "" && !utils.ValidPhone(r.Phone) {
		errs["phone"] = "phone number format is invalid"
	}
	return errs
}

// SubmitContact files a support inquiry. The endpoint is public; logged-in
// callers get the message linked to their account.
func SubmitContact(c *gin.Context) {
	var req contactRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		RespondValidation(c, "contact form failed validation", errs)
		return
	}

	m := models.ContactMessage{
		ID:       utils.NewID(),
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    strings.TrimSpace(req.Phone),
		Subject:  utils.Truncate(strings.TrimSpace(req.Subject), 200),
		Message:  strings.TrimSpace(req.Message),
		UserID:   middleware.UserID(c),
		Status:   domain.ContactNew,
		Priority: "normal",
	}
	if err := (repositories.ContactRepository{}).Create(m); err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondCreated(c, "message received, we will get back to you", gin.H{"id": m.ID})
}

package handlers

import (
	"encoding/json"
	"strings"

	"thrive/internal/repositories"
	"thrive/internal/utils"

	"github.com/gin-gonic/gin"
)

// GetProfile returns the full profile of the authenticated user.
func GetProfile(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	RespondOK(c, "profile", gin.H{"user": u})
}

type profileRequest struct {
	FirstName            *string         `json:"firstName"`
	LastName             *string         `json:"lastName"`
	Phone                *string         `json:"phone"`
	DateOfBirth          *string         `json:"dateOfBirth"`
	PassportNumber       *string         `json:"passportNumber"`
	PassportExpiry       *string         `json:"passportExpiry"`
	Nationality          *string         `json:"nationality"`
	PreferredAirline     *string         `json:"preferredAirline"`
	FrequentFlyerNumbers json.RawMessage `json:"frequentFlyerNumbers"`
	DietaryPreferences   *string         `json:"dietaryPreferences"`
	SpecialAssistance    *string         `json:"specialAssistance"`
	CompanyName          *string         `json:"companyName"`
	CompanyTaxID         *string         `json:"companyTaxId"`
	BillingAddress       *string         `json:"billingAddress"`
	CustomSettings       json.RawMessage `json:"customSettings"`
}

func (r profileRequest) validate() map[string]string {
	errs := map[string]string{}
	if r.FirstName != nil && strings.TrimSpace(*r.FirstName) == "" {
		errs["firstName"] = "first name cannot be blank"
	}
	if r.LastName != nil && strings.TrimSpace(*r.LastName) == "" {
		errs["lastName"] = "last name cannot be blank"
	}
	if r.Phone != nil && *r.Phone != "" && !utils.ValidPhone(*r.Phone) {
		errs["phone"] = "phone number format is invalid"
	}
	if r.PassportNumber != nil && *r.PassportNumber != "" && !utils.ValidPassport(*r.PassportNumber) {
		errs["passportNumber"] = "passport number must be 6-9 letters or digits"
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		if dob, err := utils.ParseDate(*r.DateOfBirth); err != nil || !utils.ValidDateOfBirth(dob, utils.NowUTC()) {
			errs["dateOfBirth"] = "date of birth must be a past YYYY-MM-DD date"
		}
	}
	return errs
}

// UpdateProfile applies a partial update; only keys present in the payload
// change.
func UpdateProfile(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req profileRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		RespondValidation(c, "profile update failed validation", errs)
		return
	}

	users := repositories.UserRepository{}
	err := users.UpdateProfile(u.ID, repositories.ProfileUpdate{
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		Phone:                req.Phone,
		DateOfBirth:          req.DateOfBirth,
		PassportNumber:       req.PassportNumber,
		PassportExpiry:       req.PassportExpiry,
		Nationality:          req.Nationality,
		PreferredAirline:     req.PreferredAirline,
		FrequentFlyerNumbers: req.FrequentFlyerNumbers,
		DietaryPreferences:   req.DietaryPreferences,
		SpecialAssistance:    req.SpecialAssistance,
		CompanyName:          req.CompanyName,
		CompanyTaxID:         req.CompanyTaxID,
		BillingAddress:       req.BillingAddress,
		CustomSettings:       req.CustomSettings,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	updated, err := users.GetByID(u.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).Record(u.ID, "user.profile_update", "user", u.ID, "profile updated", nil)
	RespondOK(c, "profile updated", gin.H{"user": updated})
}

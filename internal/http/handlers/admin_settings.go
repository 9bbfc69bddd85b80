package handlers

import (
	"strings"

	"thrive/internal/http/middleware"
	"thrive/internal/repositories"

	"github.com/gin-gonic/gin"
)

// AdminListSettings returns every configuration row with decoded values.
func AdminListSettings(c *gin.Context) {
	items, err := repositories.SettingsRepository{}.List()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(items))
	for _, s := range items {
		out = append(out, gin.H{
			"key":         s.Key,
			"value":       s.Typed(),
			"data_type":   s.DataType,
			"description": s.Description,
			"updated_at":  s.UpdatedAt,
		})
	}
	RespondOK(c, "settings", out)
}

type settingRequest struct {
	Value       string `json:"value"`
	DataType    string `json:"dataType"`
	Description string `json:"description"`
}

// AdminSetSetting upserts one configuration key.
func AdminSetSetting(c *gin.Context) {
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		RespondValidation(c, "setting key is required", map[string]string{"key": "setting key is required"})
		return
	}
	var req settingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	dataType := req.DataType
	if dataType == "" {
		dataType = "string"
	}
	switch dataType {
	case "string", "int", "float", "bool", "json":
	default:
		RespondValidation(c, "unknown data type", map[string]string{"dataType": "must be string, int, float, bool or json"})
		return
	}

	repo := repositories.SettingsRepository{}
	if err := repo.Set(key, req.Value, dataType, req.Description); err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).Record(middleware.UserID(c), "admin.setting_set", "setting", key, "setting updated", nil)

	s, err := repo.Get(key)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	RespondOK(c, "setting saved", gin.H{
		"key":       s.Key,
		"value":     s.Typed(),
		"data_type": s.DataType,
	})
}

// AdminDeleteSetting removes a configuration key.
func AdminDeleteSetting(c *gin.Context) {
	if err := (repositories.SettingsRepository{}).Delete(c.Param("key")); err != nil {
		RespondDomainError(c, err)
		return
	}
	auditor(c).Record(middleware.UserID(c), "admin.setting_delete", "setting", c.Param("key"), "setting removed", nil)
	RespondOK(c, "setting deleted", nil)
}

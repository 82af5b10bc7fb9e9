package controllers

import (
	"net/http"
	"strconv"

	"certificate-management-api/config"
	"certificate-management-api/services"

	"github.com/gin-gonic/gin"
)

// Keys clients may write, with whether the value must parse as a positive
// integer.
var updatableSettings = map[string]bool{
	services.SettingBatchNumberFormat:       false,
	services.SettingBatchStartNumber:        true,
	services.SettingCertificateNumberFormat: false,
	services.SettingCertificateStartNumber:  true,
	services.SettingExpiryWarningDays:       true,
	services.SettingNumberFallbackPolicy:    false,
	services.SettingNotificationEmail:       false,
}

// GetSettings returns every setting row keyed by setting_key.
func GetSettings(c *gin.Context) {
	svc := services.NewSettingsService(config.DB)
	settings, err := svc.All()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// UpdateSettings writes the supplied key/value pairs. Unknown keys are
// rejected, numeric keys must hold a positive integer, and the new values
// take effect on the next allocation with no restart.
func UpdateSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No settings to update"})
		return
	}

	for key, value := range req {
		numeric, known := updatableSettings[key]
		if !known {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown setting: " + key})
			return
		}
		if numeric {
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be a positive number"})
				return
			}
		}
		if key == services.SettingNumberFallbackPolicy &&
			value != services.PolicyFallback && value != services.PolicyStrict {
			c.JSON(http.StatusBadRequest, gin.H{"error": key + " must be 'fallback' or 'strict'"})
			return
		}
	}

	svc := services.NewSettingsService(config.DB)
	for key, value := range req {
		if err := svc.Set(key, value); err != nil {
			respondServiceError(c, err)
			return
		}
	}

	settings, err := svc.All()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Settings updated successfully",
		"settings": settings,
	})
}

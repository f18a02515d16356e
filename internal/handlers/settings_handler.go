package handlers

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/pdf"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func loadCompanySettings() (map[string]string, error) {
	var rows []models.CompanySetting
	if err := config.DB.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// GetSettingsHandler возвращает все известные ключи, отсутствующие - пустыми.
func GetSettingsHandler(c *gin.Context) {
	settings, err := loadCompanySettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load settings"})
		return
	}
	for _, key := range models.KnownSettings {
		if _, ok := settings[key]; !ok {
			settings[key] = ""
		}
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettingsHandler - upsert переданных пар ключ/значение.
func UpdateSettingsHandler(c *gin.Context) {
	var input map[string]string
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}
	if len(input) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No settings provided"})
		return
	}

	rows := make([]models.CompanySetting, 0, len(input))
	for key, value := range input {
		if !slices.Contains(models.KnownSettings, key) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown setting: " + key})
			return
		}
		value = strings.TrimSpace(value)
		if key == models.SettingRevenueShare && value != "" {
			if _, err := pdf.RevenueShare(value, 1); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid revenue_share: " + err.Error()})
				return
			}
		}
		rows = append(rows, models.CompanySetting{Key: key, Value: value})
	}
	slices.SortFunc(rows, func(a, b models.CompanySetting) int { return strings.Compare(a.Key, b.Key) })

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rows).Error
	})
	if err != nil {
		slog.Error("Failed to save company settings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}

	GetSettingsHandler(c)
}

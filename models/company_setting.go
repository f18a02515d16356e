package models

import "time"

// Ключи настроек компании, используемые при генерации PDF.
const (
	SettingCompanyName        = "company_name"
	SettingCompanyAddress     = "company_address"
	SettingRegistrationNumber = "registration_number"
	SettingSignatureImagePath = "signature_image_path"
	SettingRevenueShare       = "revenue_share"
)

// KnownSettings - ключи, которые разрешено сохранять через админку.
var KnownSettings = []string{
	SettingCompanyName,
	SettingCompanyAddress,
	SettingRegistrationNumber,
	SettingSignatureImagePath,
	SettingRevenueShare,
}

// CompanySetting - пара ключ/значение настроек компании.
type CompanySetting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CompanySetting) TableName() string { return "company_settings" }

// AllModels - список моделей для AutoMigrate.
func AllModels() []any {
	return []any{
		&User{},
		&Contract{},
		&Document{},
		&Notification{},
		&CompanySetting{},
	}
}

package models

import (
	"time"

	"gorm.io/gorm"
)

type DocumentStatus string

const (
	DocumentPending  DocumentStatus = "pending"
	DocumentApproved DocumentStatus = "approved"
	DocumentRejected DocumentStatus = "rejected"
)

// Document - загруженный пользователем файл (паспорт, скриншоты статистики и т.п.).
// Сам файл лежит на диске, в БД только путь.
type Document struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID     uint  `gorm:"not null;index" json:"userId"`
	ContractID *uint `gorm:"index" json:"contractId,omitempty"`

	OriginalFileName string         `json:"originalFileName"`
	FilePath         string         `json:"-"`
	FileSize         int64          `json:"fileSize"`
	MimeType         string         `json:"mimeType"`
	Status           DocumentStatus `gorm:"not null;default:pending" json:"status"`
	ReviewNote       string         `json:"reviewNote"`
}

func (Document) TableName() string { return "documents" }

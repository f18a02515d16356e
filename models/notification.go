package models

import "time"

// Notification - уведомление пользователя. Read выставляется самим пользователем.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`

	UserID uint   `gorm:"not null;index" json:"userId"`
	Kind   string `gorm:"not null" json:"kind"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	Read   bool   `gorm:"not null;default:false" json:"read"`

	ContractID *uint `json:"contractId,omitempty"`
}

func (Notification) TableName() string { return "notifications" }

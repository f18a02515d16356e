package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ContractType string

const (
	ContractTypePartnership ContractType = "partnership"
	ContractTypeTermination ContractType = "termination"
)

func (t ContractType) Valid() bool {
	return t == ContractTypePartnership || t == ContractTypeTermination
}

type ContractStatus string

const (
	StatusDraft       ContractStatus = "draft"
	StatusSubmitted   ContractStatus = "submitted"
	StatusUnderReview ContractStatus = "under_review"
	StatusApproved    ContractStatus = "approved"
	StatusRejected    ContractStatus = "rejected"
	StatusActive      ContractStatus = "active"
	StatusSigned      ContractStatus = "signed"
	StatusTerminated  ContractStatus = "terminated"
)

// TranslationStatus описывает происхождение TranslatedData.
type TranslationStatus string

const (
	TranslationPending TranslationStatus = "pending"
	TranslationMachine TranslationStatus = "machine"
	TranslationHuman   TranslationStatus = "human"
)

// Platform - площадка создателя контента.
type Platform struct {
	PlatformName string `json:"platformName"`
	Link         string `json:"link"`
}

// ContractData - анкетные данные договора на одном языке.
type ContractData struct {
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Country   string     `json:"country"`
	Platforms []Platform `json:"platforms"`
	Message   string     `json:"message"`
}

func (d ContractData) IsZero() bool {
	return d.Name == "" && d.Email == "" && d.Phone == "" && d.Country == "" &&
		len(d.Platforms) == 0 && d.Message == ""
}

// Contract описывает заявку на партнёрство или на расторжение.
// ContractNumber присваивается один раз при первом сохранении.
type Contract struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	PublicID       string         `gorm:"column:public_id;uniqueIndex;not null" json:"publicId"`
	ContractNumber string         `gorm:"column:contract_number;uniqueIndex;not null" json:"contractNumber"`
	Type           ContractType   `gorm:"not null" json:"type"`
	Status         ContractStatus `gorm:"not null;index" json:"status"`

	OriginalLanguage  string                           `gorm:"not null" json:"originalLanguage"`
	OriginalData      datatypes.JSONType[ContractData] `json:"originalData"`
	TranslatedData    datatypes.JSONType[ContractData] `json:"translatedData"`
	TranslationStatus TranslationStatus                `gorm:"not null;default:pending" json:"translationStatus"`

	ReviewNote  string     `json:"reviewNote"`
	SubmittedAt *time.Time `json:"submittedAt,omitempty"`
	ReviewedAt  *time.Time `json:"reviewedAt,omitempty"`

	UserID uint  `gorm:"not null;index" json:"userId"`
	User   *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	RelatedContractID *uint     `json:"relatedContractId,omitempty"`
	RelatedContract   *Contract `gorm:"foreignKey:RelatedContractID" json:"relatedContract,omitempty"`
}

func (Contract) TableName() string { return "contracts" }

// DataFor возвращает набор полей для языка lang: оригинал, если язык
// совпадает, иначе перевод (если он есть), иначе снова оригинал.
func (c *Contract) DataFor(lang string) ContractData {
	if lang == c.OriginalLanguage {
		return c.OriginalData.Data()
	}
	if lang == "en" && c.TranslationStatus != TranslationPending {
		if tr := c.TranslatedData.Data(); !tr.IsZero() {
			return tr
		}
	}
	return c.OriginalData.Data()
}

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/contracts"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type StatusInput struct {
	Status models.ContractStatus `json:"status" binding:"required"`
	Note   string                `json:"note"`
}

type TranslationInput struct {
	Data models.ContractData `json:"data"`
}

// adminContractsQuery применяет фильтры status, type, search, userId.
func adminContractsQuery(c *gin.Context) *gorm.DB {
	query := config.DB.Model(&models.Contract{})
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if t := c.Query("type"); t != "" {
		query = query.Where("type = ?", t)
	}
	if userID := c.Query("userId"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if search := c.Query("search"); search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(contract_number) LIKE ? OR LOWER(original_data) LIKE ? OR LOWER(translated_data) LIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}
	return query
}

// ListAllContractsHandler - все договоры для админки.
func ListAllContractsHandler(c *gin.Context) {
	var totalRows int64
	if err := adminContractsQuery(c).Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count contracts"})
		return
	}

	var list []models.Contract
	if err := adminContractsQuery(c).Preload("User").
		Order("created_at desc, id desc").
		Scopes(Paginate(c)).
		Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load contracts"})
		return
	}
	if list == nil {
		list = make([]models.Contract, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, list, totalRows))
}

// UpdateContractStatusHandler - смена статуса админом по машине состояний.
func UpdateContractStatusHandler(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	var contract models.Contract
	if err := config.DB.First(&contract, id).Error; err != nil {
		respondLookupError(c, err, "Contract")
		return
	}
	previous := contract.Status
	if err := contracts.Transition(&contract, input.Status, time.Now()); err != nil {
		if errors.Is(err, contracts.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	contract.ReviewNote = strings.TrimSpace(input.Note)

	if err := config.DB.Model(&contract).
		Select("status", "review_note", "submitted_at", "reviewed_at").
		Updates(&contract).Error; err != nil {
		slog.Error("Failed to update contract status", "error", err, "contract_id", contract.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	if previous != contract.Status {
		slog.Info("Contract status changed", "contract_id", contract.ID, "from", previous, "to", contract.Status)
		body := fmt.Sprintf("Contract %s is now %s.", contract.ContractNumber, contract.Status)
		if contract.ReviewNote != "" {
			body += " Note: " + contract.ReviewNote
		}
		Notify(contract.UserID, KindContractStatus, "Contract status updated", body, &contract.ID)
	}
	c.JSON(http.StatusOK, contract)
}

// UpdateContractTranslationHandler сохраняет ручной перевод.
func UpdateContractTranslationHandler(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input TranslationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}
	if err := validateContractData(&input.Data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var contract models.Contract
	if err := config.DB.First(&contract, id).Error; err != nil {
		respondLookupError(c, err, "Contract")
		return
	}
	contract.TranslatedData = datatypes.NewJSONType(input.Data)
	contract.TranslationStatus = models.TranslationHuman

	if err := config.DB.Model(&contract).
		Select("translated_data", "translation_status").
		Updates(&contract).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save translation"})
		return
	}
	c.JSON(http.StatusOK, contract)
}

// ExportContractsHandler - выгрузка договоров в Excel с теми же фильтрами, что и список.
func ExportContractsHandler(c *gin.Context) {
	var list []models.Contract
	if err := adminContractsQuery(c).Preload("User").Order("id asc").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch data for export"})
		return
	}

	f, err := buildContractsWorkbook(list)
	if err != nil {
		slog.Error("Failed to build contracts export", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build Excel file"})
		return
	}
	defer f.Close()

	fileName := fmt.Sprintf("contracts_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename="+fileName)
	if err := f.Write(c.Writer); err != nil {
		slog.Error("Failed to write Excel file", "error", err)
	}
}

const exportSheet = "Contracts"

func buildContractsWorkbook(list []models.Contract) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Number", "Type", "Status", "Language", "Name", "Email", "Country", "Platforms", "Translation", "Owner", "Created", "Submitted"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(exportSheet, cell, header)
	}

	for i, ct := range list {
		row := i + 2
		data := ct.OriginalData.Data()
		platforms := make([]string, 0, len(data.Platforms))
		for _, p := range data.Platforms {
			platforms = append(platforms, p.PlatformName+" ("+p.Link+")")
		}
		owner := ""
		if ct.User != nil {
			owner = ct.User.Email
		}
		submitted := ""
		if ct.SubmittedAt != nil {
			submitted = ct.SubmittedAt.Format("02.01.2006")
		}

		values := []interface{}{
			ct.ContractNumber, string(ct.Type), string(ct.Status), ct.OriginalLanguage,
			data.Name, data.Email, data.Country, strings.Join(platforms, ", "),
			string(ct.TranslationStatus), owner, ct.CreatedAt.Format("02.01.2006"), submitted,
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// volvera/internal/handlers/contract_handler.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/contracts"
	"github.com/SulimanHakimi/volvera-sub000/internal/pdf"
	"github.com/SulimanHakimi/volvera-sub000/internal/policy"
	"github.com/SulimanHakimi/volvera-sub000/internal/translation"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
)

const translateTimeout = 30 * time.Second

// Виды уведомлений.
const (
	KindContractSubmitted = "contract_submitted"
	KindContractStatus    = "contract_status"
	KindDocumentReviewed  = "document_reviewed"
)

// --- Структуры для входящих данных по КОНТРАКТАМ ---

type ContractInput struct {
	Type              models.ContractType `json:"type"`
	OriginalLanguage  string              `json:"originalLanguage" binding:"required"`
	Data              models.ContractData `json:"data"`
	RelatedContractID *uint               `json:"relatedContractId"`
}

type ContractUpdateInput struct {
	OriginalLanguage string              `json:"originalLanguage"`
	Data             models.ContractData `json:"data"`
}

func validateContractData(d *models.ContractData) error {
	d.Name = strings.TrimSpace(d.Name)
	d.Email = strings.TrimSpace(d.Email)
	if d.Name == "" {
		return errors.New("data.name is required")
	}
	for i, p := range d.Platforms {
		if strings.TrimSpace(p.PlatformName) == "" {
			return fmt.Errorf("data.platforms[%d].platformName is required", i)
		}
	}
	return nil
}

// validateRelated проверяет, что расторгаемый договор принадлежит тому же
// пользователю и находится в действующем статусе.
func validateRelated(ownerID uint, t models.ContractType, relatedID *uint) (int, error) {
	if t != models.ContractTypeTermination {
		if relatedID != nil {
			return http.StatusBadRequest, errors.New("relatedContractId is only allowed for termination contracts")
		}
		return 0, nil
	}
	if relatedID == nil {
		return http.StatusBadRequest, errors.New("relatedContractId is required for termination contracts")
	}
	var related models.Contract
	if err := config.DB.First(&related, *relatedID).Error; err != nil || related.UserID != ownerID {
		return http.StatusBadRequest, errors.New("related contract not found")
	}
	if related.Type != models.ContractTypePartnership || !contracts.CanBeTerminated(related.Status) {
		return http.StatusBadRequest, errors.New("related contract is not in effect")
	}
	return 0, nil
}

// loadContract загружает договор и проверяет право просмотра.
// Ответ уже отправлен, если ok == false.
func loadContract(c *gin.Context, p policy.Principal) (*models.Contract, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}
	var contract models.Contract
	if err := config.DB.Preload("RelatedContract").First(&contract, id).Error; err != nil {
		respondLookupError(c, err, "Contract")
		return nil, false
	}
	if err := policy.CanViewContract(p, &contract); err != nil {
		respondForbidden(c)
		return nil, false
	}
	return &contract, true
}

// --- Обработчики для КОНТРАКТОВ ---

// CreateContractHandler создаёт черновик. Номер присваивается здесь.
func CreateContractHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var input ContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}
	if input.Type == "" {
		input.Type = models.ContractTypePartnership
	}
	if !input.Type.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown contract type"})
		return
	}
	if !pdf.IsSupported(input.OriginalLanguage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "originalLanguage must be one of en, fa, ps"})
		return
	}
	if err := validateContractData(&input.Data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if status, err := validateRelated(p.UserID, input.Type, input.RelatedContractID); err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	contract := models.Contract{
		Type:              input.Type,
		Status:            models.StatusDraft,
		OriginalLanguage:  input.OriginalLanguage,
		OriginalData:      datatypes.NewJSONType(input.Data),
		TranslationStatus: models.TranslationPending,
		UserID:            p.UserID,
		RelatedContractID: input.RelatedContractID,
	}
	if err := contracts.CreateWithUniqueNumber(config.DB, &contract); err != nil {
		slog.Error("Failed to create contract", "error", err, "user_id", p.UserID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save contract"})
		return
	}

	slog.Info("Contract draft created", "contract_id", contract.ID, "number", contract.ContractNumber)
	c.JSON(http.StatusCreated, contract)
}

// ListContractsHandler - договоры текущего пользователя.
func ListContractsHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	query := config.DB.Model(&models.Contract{}).Where("user_id = ?", p.UserID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count contracts"})
		return
	}

	var list []models.Contract
	if err := query.Order("created_at desc, id desc").Scopes(Paginate(c)).Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load contracts"})
		return
	}
	if list == nil {
		list = make([]models.Contract, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, list, totalRows))
}

func GetContractHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	contract, ok := loadContract(c, p)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, contract)
}

// UpdateContractHandler меняет данные только у черновика.
func UpdateContractHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	contract, ok := loadContract(c, p)
	if !ok {
		return
	}
	if err := policy.CanEditContract(p, contract); err != nil {
		respondForbidden(c)
		return
	}
	if contract.Status != models.StatusDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "Only draft contracts can be edited"})
		return
	}

	var input ContractUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}
	if input.OriginalLanguage != "" {
		if !pdf.IsSupported(input.OriginalLanguage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "originalLanguage must be one of en, fa, ps"})
			return
		}
		contract.OriginalLanguage = input.OriginalLanguage
	}
	if err := validateContractData(&input.Data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contract.OriginalData = datatypes.NewJSONType(input.Data)

	// номер и PublicID не трогаем
	if err := config.DB.Model(contract).Select("original_language", "original_data").Updates(contract).Error; err != nil {
		slog.Error("Failed to update contract", "error", err, "contract_id", contract.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contract"})
		return
	}
	c.JSON(http.StatusOK, contract)
}

// SubmitContractHandler: draft -> submitted, машинный перевод и уведомление админам.
func SubmitContractHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	contract, ok := loadContract(c, p)
	if !ok {
		return
	}
	if contract.UserID != p.UserID {
		respondForbidden(c)
		return
	}
	if contract.Status != models.StatusDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "Contract is already submitted"})
		return
	}
	if err := contracts.Transition(contract, models.StatusSubmitted, time.Now()); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), translateTimeout)
	defer cancel()
	if err := translation.Apply(ctx, Translator, contract); err != nil {
		// перевод можно выполнить позже вручную
		slog.Warn("Machine translation failed", "error", err, "contract_id", contract.ID)
	}

	if err := config.DB.Model(contract).
		Select("status", "submitted_at", "translated_data", "translation_status").
		Updates(contract).Error; err != nil {
		slog.Error("Failed to submit contract", "error", err, "contract_id", contract.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit contract"})
		return
	}

	NotifyAdmins(KindContractSubmitted,
		"New contract submitted",
		fmt.Sprintf("Contract %s was submitted for review.", contract.ContractNumber),
		&contract.ID)

	c.JSON(http.StatusOK, contract)
}

// DeleteContractHandler удаляет только черновики.
func DeleteContractHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	contract, ok := loadContract(c, p)
	if !ok {
		return
	}
	if err := policy.CanEditContract(p, contract); err != nil {
		respondForbidden(c)
		return
	}
	if contract.Status != models.StatusDraft {
		c.JSON(http.StatusConflict, gin.H{"error": "Only draft contracts can be deleted"})
		return
	}
	if err := config.DB.Delete(contract).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contract"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted"})
}

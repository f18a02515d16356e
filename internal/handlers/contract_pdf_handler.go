package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/metrics"
	"github.com/SulimanHakimi/volvera-sub000/internal/pdf"
	"github.com/SulimanHakimi/volvera-sub000/internal/policy"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const langOriginal = "original"

// ContractTemplatePDFHandler - GET /contract-template?lang=. Без авторизации,
// данные сторон заменены заглушками.
func ContractTemplatePDFHandler(c *gin.Context) {
	in := pdf.Input{
		Language: c.DefaultQuery("lang", pdf.LangEN),
		Settings: pdf.SettingsFromMap(companySettingsForRender()),
	}
	renderAndSend(c, in, "template")
}

// ContractPDFHandler - GET /contracts/:id/pdf?lang=en|fa|ps|original.
// Доступ: владелец или админ.
func ContractPDFHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}

	var contract models.Contract
	if err := config.DB.Preload("RelatedContract").First(&contract, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		slog.Error("Failed to load contract for PDF", "error", err, "contract_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}
	if err := policy.CanViewContract(p, &contract); err != nil {
		respondForbidden(c)
		return
	}

	lang := c.DefaultQuery("lang", langOriginal)
	if lang == langOriginal {
		lang = contract.OriginalLanguage
	}

	in := pdf.Input{
		Contract: &contract,
		Language: lang,
		Settings: pdf.SettingsFromMap(companySettingsForRender()),
	}
	if contract.RelatedContract != nil {
		in.RelatedNumber = contract.RelatedContract.ContractNumber
	}
	renderAndSend(c, in, "contract")
}

// companySettingsForRender читает настройки компании. Ошибка БД не мешает
// генерации: документ соберётся с прочерками вместо реквизитов.
func companySettingsForRender() map[string]string {
	settings, err := loadCompanySettings()
	if err != nil {
		slog.Warn("Could not load company settings, rendering without them", "error", err)
		return map[string]string{}
	}
	return settings
}

func renderAndSend(c *gin.Context, in pdf.Input, mode string) {
	start := time.Now()
	res, err := Renderer.Render(c.Request.Context(), in)
	if err != nil {
		Metrics.ObserveRender(pdf.BundleFor(in.Language).Lang, mode, metrics.OutcomeError, time.Since(start))
		slog.Error("Contract PDF rendering failed", "error", err, "mode", mode, "lang", in.Language)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	outcome := metrics.OutcomeOK
	if res.FontFallback || (in.Settings.SignatureImagePath != "" && !res.SignatureEmbedded) {
		outcome = metrics.OutcomeDegraded
	}
	Metrics.ObserveRender(res.Language, mode, outcome, time.Since(start))

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, res.Filename))
	c.Data(http.StatusOK, "application/pdf", res.Bytes)
}

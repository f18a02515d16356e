package routes

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/handlers"
	"github.com/SulimanHakimi/volvera-sub000/internal/metrics"
	"github.com/SulimanHakimi/volvera-sub000/internal/pdf"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateContractAssignsSequentialNumbers(t *testing.T) {
	api := setupAPI(t)
	_, token := api.createUser("creator@example.com", models.RoleUser)

	first := api.createContract(token, "en", "Ahmad Karimi")
	second := api.createContract(token, "fa", "احمد کریمی")

	assert.Equal(t, "VC-000001", first.ContractNumber)
	assert.Equal(t, "VC-000002", second.ContractNumber)
	assert.NotEmpty(t, first.PublicID)
	assert.NotEqual(t, first.PublicID, second.PublicID)
	assert.Equal(t, models.StatusDraft, first.Status)
	assert.Equal(t, models.ContractTypePartnership, first.Type)

	w := api.do(http.MethodGet, "/api/contracts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[map[string]any](t, w)
	assert.EqualValues(t, 2, list["totalRows"])
}

func TestCreateContractValidation(t *testing.T) {
	api := setupAPI(t)
	_, token := api.createUser("creator@example.com", models.RoleUser)

	w := api.do(http.MethodPost, "/api/contracts", token, contractInput("de", "Hans"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/contracts", token, contractInput("en", "  "))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	in := contractInput("en", "Ahmad")
	in["type"] = "termination"
	w = api.do(http.MethodPost, "/api/contracts", token, in)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, errorOf(t, w), "relatedContractId")
}

func TestSubmitEnglishContractNotifiesAdmins(t *testing.T) {
	api := setupAPI(t)
	admin, _ := api.createUser("admin@volvera.io", models.RoleAdmin)
	_, token := api.createUser("creator@example.com", models.RoleUser)
	draft := api.createContract(token, "en", "Ahmad Karimi")

	w := api.do(http.MethodPost, fmt.Sprintf("/api/contracts/%d/submit", draft.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	submitted := decode[models.Contract](t, w)
	assert.Equal(t, models.StatusSubmitted, submitted.Status)
	assert.NotNil(t, submitted.SubmittedAt)
	assert.Equal(t, models.TranslationHuman, submitted.TranslationStatus)
	assert.Equal(t, "Ahmad Karimi", submitted.TranslatedData.Data().Name)
	assert.Equal(t, draft.ContractNumber, submitted.ContractNumber)

	var notes []models.Notification
	require.NoError(t, config.DB.Where("user_id = ?", admin.ID).Find(&notes).Error)
	require.Len(t, notes, 1)
	assert.Equal(t, handlers.KindContractSubmitted, notes[0].Kind)
	assert.Contains(t, notes[0].Body, "VC-000001")

	// повторная отправка и редактирование после отправки запрещены
	w = api.do(http.MethodPost, fmt.Sprintf("/api/contracts/%d/submit", draft.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = api.do(http.MethodPut, fmt.Sprintf("/api/contracts/%d", draft.ID), token, contractInput("en", "Other"))
	assert.Equal(t, http.StatusConflict, w.Code)
	w = api.do(http.MethodDelete, fmt.Sprintf("/api/contracts/%d", draft.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmitTranslation(t *testing.T) {
	t.Run("provider not configured", func(t *testing.T) {
		api := setupAPI(t)
		_, token := api.createUser("creator@example.com", models.RoleUser)
		draft := api.createContract(token, "fa", "احمد کریمی")

		w := api.do(http.MethodPost, fmt.Sprintf("/api/contracts/%d/submit", draft.ID), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, models.TranslationPending, decode[models.Contract](t, w).TranslationStatus)
	})

	t.Run("machine translation", func(t *testing.T) {
		api := setupAPI(t)
		handlers.Translator = fixedTranslator{data: models.ContractData{Name: "Ahmad Karimi", Country: "Afghanistan"}}
		_, token := api.createUser("creator@example.com", models.RoleUser)
		draft := api.createContract(token, "ps", "احمد کریمي")

		w := api.do(http.MethodPost, fmt.Sprintf("/api/contracts/%d/submit", draft.ID), token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var stored models.Contract
		require.NoError(t, config.DB.First(&stored, draft.ID).Error)
		assert.Equal(t, models.TranslationMachine, stored.TranslationStatus)
		assert.Equal(t, "Ahmad Karimi", stored.TranslatedData.Data().Name)
		assert.Equal(t, "احمد کریمي", stored.OriginalData.Data().Name)
	})

	t.Run("provider failure still submits", func(t *testing.T) {
		api := setupAPI(t)
		handlers.Translator = fixedTranslator{err: errTranslatorDown}
		_, token := api.createUser("creator@example.com", models.RoleUser)
		draft := api.createContract(token, "fa", "احمد")

		w := api.do(http.MethodPost, fmt.Sprintf("/api/contracts/%d/submit", draft.ID), token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		got := decode[models.Contract](t, w)
		assert.Equal(t, models.StatusSubmitted, got.Status)
		assert.Equal(t, models.TranslationPending, got.TranslationStatus)
	})
}

func TestContractOwnership(t *testing.T) {
	api := setupAPI(t)
	_, ownerToken := api.createUser("owner@example.com", models.RoleUser)
	_, otherToken := api.createUser("other@example.com", models.RoleUser)
	draft := api.createContract(ownerToken, "en", "Owner")

	path := fmt.Sprintf("/api/contracts/%d", draft.ID)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, path, otherToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPut, path, otherToken, contractInput("en", "X")).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, path+"/submit", otherToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/contracts/999", ownerToken, nil).Code)

	w := api.do(http.MethodPut, path, ownerToken, contractInput("en", "Renamed"))
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[models.Contract](t, w)
	assert.Equal(t, "Renamed", updated.OriginalData.Data().Name)
	assert.Equal(t, draft.ContractNumber, updated.ContractNumber)

	assert.Equal(t, http.StatusOK, api.do(http.MethodDelete, path, ownerToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path, ownerToken, nil).Code)

	// номер удалённого черновика не переиспользуется
	next := api.createContract(ownerToken, "en", "Next")
	assert.Equal(t, "VC-000002", next.ContractNumber)
}

func TestContractPDF(t *testing.T) {
	api := setupAPI(t)
	_, adminToken := api.createUser("admin@volvera.io", models.RoleAdmin)
	_, ownerToken := api.createUser("owner@example.com", models.RoleUser)
	_, otherToken := api.createUser("other@example.com", models.RoleUser)
	contract := api.createContract(ownerToken, "fa", "احمد کریمی")
	path := fmt.Sprintf("/contracts/%d/pdf", contract.ID)

	t.Run("unauthenticated", func(t *testing.T) {
		w := api.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("unknown contract", func(t *testing.T) {
		for _, p := range []string{"/contracts/999/pdf", "/contracts/abc/pdf"} {
			w := api.do(http.MethodGet, p, ownerToken, nil)
			assert.Equal(t, http.StatusNotFound, w.Code, p)
			assert.Equal(t, "Contract not found", errorOf(t, w))
			assert.Empty(t, w.Header().Get("Content-Disposition"))
		}
	})

	t.Run("foreign user", func(t *testing.T) {
		w := api.do(http.MethodGet, path+"?lang=en", otherToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.NotEmpty(t, errorOf(t, w))
	})

	t.Run("owner original language", func(t *testing.T) {
		w := api.do(http.MethodGet, path+"?lang=original", ownerToken, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="Partnership_Contract_VC-000001_fa.pdf"`, w.Header().Get("Content-Disposition"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("default is original", func(t *testing.T) {
		w := api.do(http.MethodGet, path, ownerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "_fa.pdf")
	})

	t.Run("admin english", func(t *testing.T) {
		w := api.do(http.MethodGet, path+"?lang=en", adminToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="Partnership_Contract_VC-000001_en.pdf"`, w.Header().Get("Content-Disposition"))
	})

	t.Run("unsupported language falls back to english", func(t *testing.T) {
		w := api.do(http.MethodGet, path+"?lang=de", ownerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.True(t, strings.HasSuffix(w.Header().Get("Content-Disposition"), `_en.pdf"`))
	})
}

func TestTerminationContractPDF(t *testing.T) {
	api := setupAPI(t)
	_, ownerToken := api.createUser("owner@example.com", models.RoleUser)
	partnership := api.createContract(ownerToken, "en", "Owner")
	require.NoError(t, config.DB.Model(&models.Contract{}).Where("id = ?", partnership.ID).
		Update("status", models.StatusActive).Error)

	in := contractInput("en", "Owner")
	in["type"] = "termination"
	in["relatedContractId"] = partnership.ID
	w := api.do(http.MethodPost, "/api/contracts", ownerToken, in)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	termination := decode[models.Contract](t, w)

	w = api.do(http.MethodGet, fmt.Sprintf("/contracts/%d/pdf?lang=en", termination.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="Termination_Contract_VC-000002_en.pdf"`, w.Header().Get("Content-Disposition"))
}

func TestContractTemplate(t *testing.T) {
	api := setupAPI(t)

	for lang, want := range map[string]string{
		"":   "Partnership_Contract_TEMPLATE_en.pdf",
		"en": "Partnership_Contract_TEMPLATE_en.pdf",
		"fa": "Partnership_Contract_TEMPLATE_fa.pdf",
		"ps": "Partnership_Contract_TEMPLATE_ps.pdf",
		"xx": "Partnership_Contract_TEMPLATE_en.pdf",
	} {
		path := "/contract-template"
		if lang != "" {
			path += "?lang=" + lang
		}
		w := api.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code, lang)
		assert.Equal(t, `attachment; filename="`+want+`"`, w.Header().Get("Content-Disposition"), lang)
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")), lang)
	}
}

type panickingFonts struct{}

func (panickingFonts) Fetch(context.Context) ([]byte, error) {
	panic("font cache corrupted")
}

func TestContractPDFRenderFailure(t *testing.T) {
	api := setupAPI(t)
	_, ownerToken := api.createUser("owner@example.com", models.RoleUser)
	contract := api.createContract(ownerToken, "fa", "احمد کریمی")

	reg := prometheus.NewRegistry()
	handlers.Metrics = metrics.New(reg)
	handlers.Renderer = pdf.New(pdf.WithFontSource(panickingFonts{}))

	for _, path := range []string{
		fmt.Sprintf("/contracts/%d/pdf?lang=fa", contract.ID),
		"/contract-template?lang=fa",
	} {
		w := api.do(http.MethodGet, path, ownerToken, nil)
		require.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Equal(t, "Failed to generate PDF", errorOf(t, w), path)
		assert.False(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")), path)
		assert.Empty(t, w.Header().Get("Content-Disposition"), path)
		assert.NotContains(t, w.Body.String(), "panic", path)
		assert.NotContains(t, w.Body.String(), "font cache", path)
	}

	// английский шрифт не загружается, поэтому документ собирается
	w := api.do(http.MethodGet, "/contract-template?lang=xx", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	expected := `
# HELP volvera_contract_renders_total Total number of contract PDF renders by language and outcome
# TYPE volvera_contract_renders_total counter
volvera_contract_renders_total{lang="en",mode="template",outcome="ok"} 1
volvera_contract_renders_total{lang="fa",mode="contract",outcome="error"} 1
volvera_contract_renders_total{lang="fa",mode="template",outcome="error"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "volvera_contract_renders_total"))
}

package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/auth"
	"github.com/SulimanHakimi/volvera-sub000/internal/handlers"
	"github.com/SulimanHakimi/volvera-sub000/internal/metrics"
	"github.com/SulimanHakimi/volvera-sub000/internal/pdf"
	"github.com/SulimanHakimi/volvera-sub000/internal/ratelimit"
	"github.com/SulimanHakimi/volvera-sub000/internal/translation"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
}

// setupAPI поднимает роутер на sqlite в памяти и подменяет зависимости обработчиков.
func setupAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	prevDB, prevRDB, prevKey, prevCfg := config.DB, config.RDB, config.JwtKey, config.Cfg
	prevRenderer, prevTranslator, prevLimiter, prevMetrics := handlers.Renderer, handlers.Translator, handlers.UploadLimiter, handlers.Metrics

	config.DB = db
	config.RDB = nil
	config.JwtKey = []byte("routes-test-secret")
	config.Cfg = &config.AppConfig{UploadDir: t.TempDir(), JwtTTL: time.Hour}
	handlers.Renderer = pdf.New()
	handlers.Translator = translation.NoopProvider{}
	handlers.UploadLimiter = ratelimit.NewMemoryLimiter(10, time.Hour)
	handlers.Metrics = metrics.New(prometheus.NewRegistry())

	t.Cleanup(func() {
		_ = sqlDB.Close()
		config.DB, config.RDB, config.JwtKey, config.Cfg = prevDB, prevRDB, prevKey, prevCfg
		handlers.Renderer, handlers.Translator, handlers.UploadLimiter, handlers.Metrics = prevRenderer, prevTranslator, prevLimiter, prevMetrics
	})
	return &testAPI{t: t, router: NewRouter()}
}

// createUser сохраняет пользователя напрямую и выпускает для него токен.
func (a *testAPI) createUser(email, role string) (models.User, string) {
	a.t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(a.t, err)
	u := models.User{Name: "User " + email, Email: email, Password: hash, Role: role, IsActive: true}
	require.NoError(a.t, config.DB.Create(&u).Error)
	token, err := auth.IssueToken(config.JwtKey, u.ID, u.Role, time.Hour)
	require.NoError(a.t, err)
	return u, token
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, w)["error"].(string)
}

func contractInput(lang, name string) map[string]any {
	return map[string]any{
		"originalLanguage": lang,
		"data": map[string]any{
			"name":    name,
			"email":   "creator@example.com",
			"phone":   "+93 700 000 000",
			"country": "Afghanistan",
			"platforms": []map[string]string{
				{"platformName": "YouTube", "link": "https://youtube.com/@creator"},
			},
			"message": "I publish weekly cooking videos.",
		},
	}
}

// createContract создаёт черновик через API и возвращает его.
func (a *testAPI) createContract(token, lang, name string) models.Contract {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/contracts", token, contractInput(lang, name))
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Contract](a.t, w)
}

type fixedTranslator struct {
	data models.ContractData
	err  error
}

func (f fixedTranslator) Translate(context.Context, models.ContractData, string, string) (models.ContractData, error) {
	return f.data, f.err
}

var errTranslatorDown = errors.New("translator is down")

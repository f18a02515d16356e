package routes

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/handlers"
	"github.com/SulimanHakimi/volvera-sub000/internal/ratelimit"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func (a *testAPI) upload(token, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	a.t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(a.t, err)
	_, err = part.Write(content)
	require.NoError(a.t, err)
	for k, v := range fields {
		require.NoError(a.t, mw.WriteField(k, v))
	}
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func TestUploadAndDownloadDocument(t *testing.T) {
	api := setupAPI(t)
	owner, token := api.createUser("creator@example.com", models.RoleUser)
	_, otherToken := api.createUser("other@example.com", models.RoleUser)
	_, adminToken := api.createUser("admin@volvera.io", models.RoleAdmin)
	contract := api.createContract(token, "en", "Ahmad")
	content := pngBytes(t)

	w := api.upload(token, "passport.PNG", content, map[string]string{"contractId": fmt.Sprint(contract.ID)})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	doc := decode[models.Document](t, w)
	assert.Equal(t, owner.ID, doc.UserID)
	assert.Equal(t, "image/png", doc.MimeType)
	assert.Equal(t, "passport.PNG", doc.OriginalFileName)
	assert.Equal(t, models.DocumentPending, doc.Status)
	require.NotNil(t, doc.ContractID)
	assert.Equal(t, contract.ID, *doc.ContractID)
	assert.NotContains(t, w.Body.String(), config.Cfg.UploadDir)

	var stored models.Document
	require.NoError(t, config.DB.First(&stored, doc.ID).Error)
	onDisk, err := os.ReadFile(stored.FilePath)
	require.NoError(t, err)
	assert.Equal(t, content, onDisk)

	path := fmt.Sprintf("/api/documents/%d/file", doc.ID)
	w = api.do(http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content, w.Body.Bytes())
	assert.Contains(t, w.Header().Get("Content-Disposition"), "passport.PNG")

	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, path, otherToken, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(http.MethodGet, path, adminToken, nil).Code)

	w = api.do(http.MethodGet, "/api/documents", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode[map[string]any](t, w)["totalRows"])
	w = api.do(http.MethodGet, "/api/documents", adminToken, nil)
	assert.EqualValues(t, 1, decode[map[string]any](t, w)["totalRows"])

	// чужой договор привязать нельзя
	w = api.upload(otherToken, "scan.png", content, map[string]string{"contractId": fmt.Sprint(contract.ID)})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUploadRemovesFileWhenRecordFails(t *testing.T) {
	api := setupAPI(t)
	owner, token := api.createUser("creator@example.com", models.RoleUser)
	require.NoError(t, config.DB.Migrator().DropTable(&models.Document{}))

	w := api.upload(token, "passport.png", pngBytes(t), nil)
	require.Equal(t, http.StatusInternalServerError, w.Code, w.Body.String())
	assert.Equal(t, "Failed to save document", errorOf(t, w))

	entries, err := os.ReadDir(filepath.Join(config.Cfg.UploadDir, fmt.Sprint(owner.ID)))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUploadRejectsBadFiles(t *testing.T) {
	api := setupAPI(t)
	_, token := api.createUser("creator@example.com", models.RoleUser)

	w := api.upload(token, "tool.exe", []byte("MZ\x90\x00"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// содержимое не совпадает с расширением
	w = api.upload(token, "fake.pdf", pngBytes(t), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "File content does not match its extension", errorOf(t, w))

	big := append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("0"), 10<<20)...)
	w = api.upload(token, "huge.pdf", big, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var count int64
	config.DB.Model(&models.Document{}).Count(&count)
	assert.Zero(t, count)
}

func TestUploadRateLimit(t *testing.T) {
	api := setupAPI(t)
	handlers.UploadLimiter = ratelimit.NewMemoryLimiter(1, time.Hour)
	_, token := api.createUser("creator@example.com", models.RoleUser)
	_, otherToken := api.createUser("other@example.com", models.RoleUser)

	assert.Equal(t, http.StatusCreated, api.upload(token, "a.png", pngBytes(t), nil).Code)
	w := api.upload(token, "b.png", pngBytes(t), nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, errorOf(t, w))

	// лимит считается на пользователя
	assert.Equal(t, http.StatusCreated, api.upload(otherToken, "c.png", pngBytes(t), nil).Code)
}

func TestReviewDocument(t *testing.T) {
	api := setupAPI(t)
	owner, token := api.createUser("creator@example.com", models.RoleUser)
	_, adminToken := api.createUser("admin@volvera.io", models.RoleAdmin)
	doc := decode[models.Document](t, api.upload(token, "id.jpg.png", pngBytes(t), nil))

	path := fmt.Sprintf("/api/admin/documents/%d", doc.ID)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPatch, path, token, map[string]string{"status": "approved"}).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPatch, path, adminToken, map[string]string{"status": "pending"}).Code)

	w := api.do(http.MethodPatch, path, adminToken, map[string]string{"status": "rejected", "note": "Blurry photo"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.DocumentRejected, decode[models.Document](t, w).Status)

	var n models.Notification
	require.NoError(t, config.DB.Where("user_id = ?", owner.ID).First(&n).Error)
	assert.Equal(t, handlers.KindDocumentReviewed, n.Kind)
	assert.Contains(t, n.Body, "Blurry photo")
}

func TestNotificationsReadFlow(t *testing.T) {
	api := setupAPI(t)
	owner, token := api.createUser("creator@example.com", models.RoleUser)
	_, otherToken := api.createUser("other@example.com", models.RoleUser)
	for i := 0; i < 3; i++ {
		handlers.Notify(owner.ID, handlers.KindContractStatus, "Contract status updated", fmt.Sprintf("update %d", i), nil)
	}

	w := api.do(http.MethodGet, "/api/notifications?unread=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[map[string]any](t, w)
	assert.EqualValues(t, 3, list["totalRows"])
	first := list["data"].([]any)[0].(map[string]any)
	id := uint(first["id"].(float64))

	path := fmt.Sprintf("/api/notifications/%d/read", id)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, path, otherToken, nil).Code)
	w = api.do(http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["read"])

	w = api.do(http.MethodGet, "/api/notifications?unread=true", token, nil)
	assert.EqualValues(t, 2, decode[map[string]any](t, w)["totalRows"])

	w = api.do(http.MethodPost, "/api/notifications/read-all", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode[map[string]any](t, w)["updated"])

	w = api.do(http.MethodGet, "/api/notifications?unread=true", token, nil)
	assert.EqualValues(t, 0, decode[map[string]any](t, w)["totalRows"])
	w = api.do(http.MethodGet, "/api/notifications", token, nil)
	assert.EqualValues(t, 3, decode[map[string]any](t, w)["totalRows"])
}

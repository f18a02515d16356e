package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/policy"
	"github.com/SulimanHakimi/volvera-sub000/internal/ratelimit"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxUploadSize = 10 << 20

// допустимые расширения и ожидаемый тип содержимого
var allowedUploads = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
}

type DocumentReviewInput struct {
	Status models.DocumentStatus `json:"status" binding:"required"`
	Note   string                `json:"note"`
}

func uploadKey(userID uint) string {
	return fmt.Sprintf("upload:%d", userID)
}

// UploadDocumentHandler принимает multipart поле file (и необязательный contractId).
func UploadDocumentHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	if err := UploadLimiter.Allow(c.Request.Context(), uploadKey(p.UserID)); err != nil {
		if errors.Is(err, ratelimit.ErrRateLimited) {
			Metrics.ObserveUpload("rate_limited")
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many uploads, try again later"})
			return
		}
		// счётчик недоступен - загрузку не блокируем
		slog.Warn("Upload rate limiter failed", "error", err, "user_id", p.UserID)
	}

	// 10 MB файл плюс запас на поля формы
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize+512)

	file, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			Metrics.ObserveUpload("rejected")
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is larger than 10 MB"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if file.Size > maxUploadSize {
		Metrics.ObserveUpload("rejected")
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is larger than 10 MB"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	expected, ok := allowedUploads[ext]
	if !ok {
		Metrics.ObserveUpload("rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pdf, png, jpg and jpeg files are allowed"})
		return
	}
	detected, err := sniffContentType(file)
	if err != nil || detected != expected {
		Metrics.ObserveUpload("rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": "File content does not match its extension"})
		return
	}

	var contractID *uint
	if raw := c.PostForm("contractId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid contractId"})
			return
		}
		var contract models.Contract
		if err := config.DB.First(&contract, id).Error; err != nil {
			respondLookupError(c, err, "Contract")
			return
		}
		if err := policy.CanViewContract(p, &contract); err != nil {
			respondForbidden(c)
			return
		}
		cid := uint(id)
		contractID = &cid
	}

	uploadDir := filepath.Join(uploadsBaseDir(), strconv.FormatUint(uint64(p.UserID), 10))
	if err := ensureDir(uploadDir); err != nil {
		slog.Error("Failed to create upload directory", "error", err, "dir", uploadDir)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create upload directory"})
		return
	}

	filePath := filepath.Join(uploadDir, uuid.New().String()+ext)
	if err := c.SaveUploadedFile(file, filePath); err != nil {
		slog.Error("Failed to save uploaded file", "error", err, "path", filePath)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	doc := models.Document{
		UserID:           p.UserID,
		ContractID:       contractID,
		OriginalFileName: filepath.Base(file.Filename),
		FilePath:         filePath,
		FileSize:         file.Size,
		MimeType:         detected,
		Status:           models.DocumentPending,
	}
	if err := config.DB.Create(&doc).Error; err != nil {
		slog.Error("Failed to save document record", "error", err)
		if rmErr := os.Remove(filePath); rmErr != nil {
			slog.Warn("Could not remove orphaned upload", "error", rmErr, "path", filePath)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save document"})
		return
	}

	Metrics.ObserveUpload("stored")
	c.JSON(http.StatusCreated, doc)
}

func sniffContentType(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	ct := http.DetectContentType(head[:n])
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return ct, nil
}

// ListDocumentsHandler: пользователь видит свои документы, админ - все (фильтр userId).
func ListDocumentsHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	query := config.DB.Model(&models.Document{})
	if p.IsAdmin() {
		if userID := c.Query("userId"); userID != "" {
			query = query.Where("user_id = ?", userID)
		}
	} else {
		query = query.Where("user_id = ?", p.UserID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count documents"})
		return
	}
	var docs []models.Document
	if err := query.Order("created_at desc, id desc").Scopes(Paginate(c)).Find(&docs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load documents"})
		return
	}
	if docs == nil {
		docs = make([]models.Document, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, docs, totalRows))
}

// DownloadDocumentHandler отдаёт файл владельцу или админу.
func DownloadDocumentHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var doc models.Document
	if err := config.DB.First(&doc, id).Error; err != nil {
		respondLookupError(c, err, "Document")
		return
	}
	if err := policy.CanViewDocument(p, &doc); err != nil {
		respondForbidden(c)
		return
	}
	if !insideDir(uploadsBaseDir(), doc.FilePath) || !fileExists(doc.FilePath) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File is not available"})
		return
	}
	c.FileAttachment(doc.FilePath, doc.OriginalFileName)
}

// ReviewDocumentHandler - админ одобряет или отклоняет документ.
func ReviewDocumentHandler(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input DocumentReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}
	if input.Status != models.DocumentApproved && input.Status != models.DocumentRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be approved or rejected"})
		return
	}

	var doc models.Document
	if err := config.DB.First(&doc, id).Error; err != nil {
		respondLookupError(c, err, "Document")
		return
	}
	doc.Status = input.Status
	doc.ReviewNote = strings.TrimSpace(input.Note)
	if err := config.DB.Model(&doc).Select("status", "review_note").Updates(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update document"})
		return
	}

	body := fmt.Sprintf("Your document %s was %s.", doc.OriginalFileName, doc.Status)
	if doc.ReviewNote != "" {
		body += " Note: " + doc.ReviewNote
	}
	Notify(doc.UserID, KindDocumentReviewed, "Document reviewed", body, doc.ContractID)
	c.JSON(http.StatusOK, doc)
}

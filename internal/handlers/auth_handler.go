package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/auth"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Country  string `json:"country"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func tokenTTL() time.Duration {
	if config.Cfg != nil && config.Cfg.JwtTTL > 0 {
		return config.Cfg.JwtTTL
	}
	return 72 * time.Hour
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// issueSession выпускает токен и кладёт его в cookie auth_token.
func issueSession(c *gin.Context, user *models.User) (string, bool) {
	ttl := tokenTTL()
	token, err := auth.IssueToken(config.JwtKey, user.ID, user.Role, ttl)
	if err != nil {
		slog.Error("Failed to issue token", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return "", false
	}
	c.SetCookie("auth_token", token, int(ttl.Seconds()), "/", "", false, true)
	return token, true
}

// RegisterHandler создаёт учётную запись с ролью user.
func RegisterHandler(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	hashed, err := auth.HashPassword(input.Password)
	if err != nil {
		slog.Error("Failed to hash password on register", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    normalizeEmail(input.Email),
		Password: hashed,
		Phone:    input.Phone,
		Country:  input.Country,
		Role:     models.RoleUser,
		IsActive: true,
	}
	var existing int64
	config.DB.Unscoped().Model(&models.User{}).Where("email = ?", user.Email).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		return
	}
	if err := config.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
			return
		}
		slog.Error("Failed to create user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	token, ok := issueSession(c, &user)
	if !ok {
		return
	}
	slog.Info("User registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func LoginHandler(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	var user models.User
	err := config.DB.Where("email = ?", normalizeEmail(input.Email)).First(&user).Error
	if err != nil || !auth.CheckPassword(user.Password, input.Password) {
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Error("Login lookup failed", "error", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account is disabled"})
		return
	}

	token, ok := issueSession(c, &user)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

func LogoutHandler(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

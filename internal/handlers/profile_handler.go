package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/auth"
	"github.com/SulimanHakimi/volvera-sub000/internal/middleware"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/gin-gonic/gin"
)

type ProfileInput struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	Country     *string `json:"country"`
	OldPassword string  `json:"oldPassword"`
	NewPassword string  `json:"newPassword"`
}

// GetProfileHandler возвращает текущего пользователя.
func GetProfileHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	var user models.User
	if err := config.DB.First(&user, p.UserID).Error; err != nil {
		respondLookupError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateProfileHandler обновляет данные профиля текущего пользователя.
// Email и роль здесь не меняются.
func UpdateProfileHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, p.UserID).Error; err != nil {
		respondLookupError(c, err, "User")
		return
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name must not be empty"})
			return
		}
		user.Name = name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Country != nil {
		user.Country = *input.Country
	}

	if input.NewPassword != "" {
		if input.OldPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Old password is required to set a new one"})
			return
		}
		if !auth.CheckPassword(user.Password, input.OldPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Old password is incorrect"})
			return
		}
		if len(input.NewPassword) < 8 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 8 characters"})
			return
		}
		hashed, err := auth.HashPassword(input.NewPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash new password"})
			return
		}
		user.Password = hashed
	}

	if err := config.DB.Save(&user).Error; err != nil {
		slog.Error("Failed to save profile", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save profile"})
		return
	}
	middleware.InvalidateUserCache(user.ID)

	c.JSON(http.StatusOK, user)
}

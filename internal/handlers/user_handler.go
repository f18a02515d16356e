package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/middleware"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/gin-gonic/gin"
)

type UserUpdateInput struct {
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// ListUsersHandler returns a paginated list of users.
func ListUsersHandler(c *gin.Context) {
	query := config.DB.Model(&models.User{})
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	if search := c.Query("search"); search != "" {
		searchPattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", searchPattern, searchPattern)
	}

	var totalRows int64
	if err := query.Count(&totalRows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not count users"})
		return
	}

	var users []models.User
	if err := query.Order("id asc").Scopes(Paginate(c)).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not fetch users"})
		return
	}
	if users == nil {
		users = make([]models.User, 0)
	}
	c.JSON(http.StatusOK, CreatePaginatedResponse(c, users, totalRows))
}

// UpdateUserHandler меняет роль и флаг активности. Кэш пользователя сбрасывается.
func UpdateUserHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var input UserUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	var user models.User
	if err := config.DB.First(&user, id).Error; err != nil {
		respondLookupError(c, err, "User")
		return
	}

	updates := map[string]interface{}{}
	if input.Role != nil {
		if *input.Role != models.RoleUser && *input.Role != models.RoleAdmin {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be user or admin"})
			return
		}
		updates["role"] = *input.Role
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}
	// админ не может снять права или заблокировать сам себя
	if user.ID == p.UserID && ((input.Role != nil && *input.Role != models.RoleAdmin) || (input.IsActive != nil && !*input.IsActive)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot demote or disable your own account"})
		return
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		slog.Error("Failed to update user", "error", err, "userID", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	middleware.InvalidateUserCache(user.ID)

	if err := config.DB.First(&user, user.ID).Error; err != nil {
		respondLookupError(c, err, "User")
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUserHandler soft-deletes a user.
func DeleteUserHandler(c *gin.Context) {
	p, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if id == p.UserID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	result := config.DB.Delete(&models.User{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	middleware.InvalidateUserCache(id)

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

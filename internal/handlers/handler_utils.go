package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SulimanHakimi/volvera-sub000/internal/middleware"
	"github.com/SulimanHakimi/volvera-sub000/internal/policy"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// principalOrAbort достаёт пользователя из контекста или отвечает 401.
func principalOrAbort(c *gin.Context) (policy.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return policy.Principal{}, false
	}
	return p, true
}

// idParam разбирает числовой параметр пути или отвечает 400.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// respondLookupError: 404 для отсутствующей записи, иначе 500.
func respondLookupError(c *gin.Context, err error, what string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return
	}
	slog.Error("Database lookup failed", "error", err, "what", what)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not load " + what})
}

func respondForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this resource"})
}

package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/auth"
	"github.com/SulimanHakimi/volvera-sub000/internal/policy"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const userCacheTTL = 10 * time.Minute

// CachedUserData - данные пользователя, которые держим в Redis между запросами.
type CachedUserData struct {
	UserID   uint   `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

func userCacheKey(userID uint) string {
	return fmt.Sprintf("user:%d:data", userID)
}

// AuthMiddleware принимает токен из cookie auth_token или заголовка
// Authorization: Bearer. Роль берётся из БД (или кэша), а не из токена:
// смена роли админом действует сразу после сброса кэша.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("auth_token")
		if err != nil || tokenStr == "" {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				handleAuthError(c, "Authorization token not provided")
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				handleAuthError(c, "Invalid Authorization header format")
				return
			}
			tokenStr = parts[1]
		}

		claims, err := auth.ParseToken(config.JwtKey, tokenStr)
		if err != nil {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			handleAuthError(c, "Invalid or expired token")
			return
		}
		userID := claims.UserID

		if userData, ok := loadCachedUser(userID); ok {
			setContextAndProceed(c, userData)
			return
		}

		slog.Debug("User data cache miss, loading from DATABASE", "user_id", userID)
		var dbUser models.User
		if err := config.DB.First(&dbUser, userID).Error; err != nil {
			c.SetCookie("auth_token", "", -1, "/", "", false, true)
			handleAuthError(c, "User from token not found in DB")
			return
		}

		userData := CachedUserData{
			UserID:   dbUser.ID,
			Email:    dbUser.Email,
			Name:     dbUser.Name,
			Role:     dbUser.Role,
			IsActive: dbUser.IsActive,
		}
		storeCachedUser(&userData)

		setContextAndProceed(c, &userData)
	}
}

func loadCachedUser(userID uint) (*CachedUserData, bool) {
	if config.RDB == nil {
		return nil, false
	}
	cachedData, err := config.RDB.Get(config.Ctx, userCacheKey(userID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("Redis GET command failed", "error", err, "user_id", userID)
		}
		return nil, false
	}
	var userData CachedUserData
	if err := json.Unmarshal([]byte(cachedData), &userData); err != nil {
		slog.Warn("Failed to unmarshal cached user data", "user_id", userID, "data", cachedData)
		return nil, false
	}
	slog.Debug("User data loaded from CACHE", "user_id", userID)
	return &userData, true
}

func storeCachedUser(userData *CachedUserData) {
	if config.RDB == nil {
		return
	}
	jsonData, err := json.Marshal(userData)
	if err != nil {
		slog.Error("Failed to marshal user data for caching", "error", err, "user_id", userData.UserID)
		return
	}
	if err := config.RDB.Set(config.Ctx, userCacheKey(userData.UserID), jsonData, userCacheTTL).Err(); err != nil {
		slog.Error("Failed to SET user data to cache", "error", err, "user_id", userData.UserID)
	}
}

// InvalidateUserCache сбрасывает кэш после изменения роли, блокировки или удаления.
func InvalidateUserCache(userID uint) {
	if config.RDB == nil {
		return
	}
	if err := config.RDB.Del(config.Ctx, userCacheKey(userID)).Err(); err != nil {
		slog.Error("Failed to DEL user data from cache", "error", err, "user_id", userID)
	}
}

func setContextAndProceed(c *gin.Context, userData *CachedUserData) {
	if !userData.IsActive {
		handleAuthError(c, "Account is disabled")
		return
	}
	c.Set("user_id", userData.UserID)
	c.Set("email", userData.Email)
	c.Set("userName", userData.Name)
	c.Set("role", userData.Role)
	c.Next()
}

// CurrentPrincipal возвращает пользователя, положенного в контекст AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (policy.Principal, bool) {
	id, ok := c.Get("user_id")
	if !ok {
		return policy.Principal{}, false
	}
	userID, ok := id.(uint)
	if !ok || userID == 0 {
		return policy.Principal{}, false
	}
	return policy.Principal{UserID: userID, Role: c.GetString("role")}, true
}

// AdminMiddleware пропускает только администраторов.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			handleAuthError(c, "Not authenticated")
			return
		}
		if err := policy.RequireAdmin(p); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func handleAuthError(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": message})
	c.Abort()
}

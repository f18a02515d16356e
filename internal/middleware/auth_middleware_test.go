package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/auth"
	"github.com/SulimanHakimi/volvera-sub000/models"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setup(t *testing.T, withRedis bool) *miniredis.Miniredis {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	prevDB, prevRDB, prevKey := config.DB, config.RDB, config.JwtKey
	config.DB = db
	config.JwtKey = []byte("middleware-test")
	config.RDB = nil

	var mr *miniredis.Miniredis
	if withRedis {
		mr = miniredis.RunT(t)
		config.RDB = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	}
	t.Cleanup(func() {
		if config.RDB != nil {
			_ = config.RDB.Close()
		}
		_ = sqlDB.Close()
		config.DB, config.RDB, config.JwtKey = prevDB, prevRDB, prevKey
	})
	return mr
}

func newRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/me", func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": p.UserID, "role": p.Role, "email": c.GetString("email")})
	})
	r.GET("/admin", AdminMiddleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func createUser(t *testing.T, role string, active bool) (models.User, string) {
	t.Helper()
	u := models.User{Name: "Test", Email: role + "@example.com", Role: role, IsActive: true}
	require.NoError(t, config.DB.Create(&u).Error)
	if !active {
		require.NoError(t, config.DB.Model(&u).Update("is_active", false).Error)
	}
	token, err := auth.IssueToken(config.JwtKey, u.ID, u.Role, time.Hour)
	require.NoError(t, err)
	return u, token
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareRejectsMissingAndBadTokens(t *testing.T) {
	setup(t, false)
	r := newRouter()

	w := get(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Authorization token not provided"}`, w.Body.String())

	w = get(r, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddlewareAcceptsBearerAndCookie(t *testing.T) {
	setup(t, false)
	r := newRouter()
	u, token := createUser(t, models.RoleUser, true)

	w := get(r, "/me", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), u.Email)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddlewareRejectsDisabledAndDeletedUsers(t *testing.T) {
	setup(t, false)
	r := newRouter()

	_, disabled := createUser(t, models.RoleUser, false)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", disabled).Code)

	u, token := createUser(t, models.RoleAdmin, true)
	require.NoError(t, config.DB.Delete(&u).Error)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/me", token).Code)
}

func TestAuthMiddlewareCachesUser(t *testing.T) {
	mr := setup(t, true)
	r := newRouter()
	u, token := createUser(t, models.RoleUser, true)

	require.Equal(t, http.StatusOK, get(r, "/me", token).Code)
	key := userCacheKey(u.ID)
	require.True(t, mr.Exists(key))
	assert.Equal(t, userCacheTTL, mr.TTL(key))

	// роль меняется в БД, но до сброса кэша действует старая
	require.NoError(t, config.DB.Model(&u).Update("role", models.RoleAdmin).Error)
	assert.Equal(t, http.StatusForbidden, get(r, "/admin", token).Code)

	InvalidateUserCache(u.ID)
	assert.False(t, mr.Exists(key))
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", token).Code)
}

func TestAdminMiddleware(t *testing.T) {
	setup(t, false)
	r := newRouter()

	_, userToken := createUser(t, models.RoleUser, true)
	_, adminToken := createUser(t, models.RoleAdmin, true)

	w := get(r, "/admin", userToken)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Permission denied"}`, w.Body.String())
	assert.Equal(t, http.StatusNoContent, get(r, "/admin", adminToken).Code)
}

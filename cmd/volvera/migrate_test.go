package main

import (
	"testing"

	"github.com/SulimanHakimi/volvera-sub000/internal/auth"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func TestSeedAdminCreatesUser(t *testing.T) {
	db := setupTestDB(t)

	require.NoError(t, seedAdmin(db, " Admin@Volvera.io ", "supersecret", "Root"))

	var user models.User
	require.NoError(t, db.Where("email = ?", "admin@volvera.io").First(&user).Error)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.IsActive)
	assert.True(t, auth.CheckPassword(user.Password, "supersecret"))
}

func TestSeedAdminPromotesExisting(t *testing.T) {
	db := setupTestDB(t)
	existing := models.User{Name: "Creator", Email: "creator@volvera.io", Role: models.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&existing).Error)

	// пароль не нужен, пользователь уже есть
	require.NoError(t, seedAdmin(db, "creator@volvera.io", "", ""))

	var user models.User
	require.NoError(t, db.First(&user, existing.ID).Error)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestSeedAdminShortPassword(t *testing.T) {
	db := setupTestDB(t)
	assert.Error(t, seedAdmin(db, "new@volvera.io", "short", "New"))

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/auth"
	"github.com/SulimanHakimi/volvera-sub000/models"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateFlags = struct {
	adminEmail    string
	adminPassword string
	adminName     string
}{}

func migrateRun(cfg *config.AppConfig) error {
	if err := config.ConnectDB(cfg); err != nil {
		return err
	}
	if err := config.DB.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	slog.Info("Database schema is up to date")

	if migrateFlags.adminEmail == "" {
		return nil
	}
	return seedAdmin(config.DB, migrateFlags.adminEmail, migrateFlags.adminPassword, migrateFlags.adminName)
}

// seedAdmin создаёт администратора, существующему пользователю выдаёт роль admin.
func seedAdmin(db *gorm.DB, email, password, name string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	switch {
	case err == nil:
		if err := db.Model(&user).Updates(map[string]any{"role": models.RoleAdmin, "is_active": true}).Error; err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		slog.Info("Existing user promoted to admin", "email", email)
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}

	if len(password) < 8 {
		return fmt.Errorf("admin password must be at least 8 characters")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	user = models.User{
		Email:    email,
		Name:     name,
		Password: hash,
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	slog.Info("Admin user created", "email", email, "id", user.ID)
	return nil
}

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema and optionally seed an admin",
		Run: func(cmd *cobra.Command, args []string) {
			if err := migrateRun(config.Cfg); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
		},
	}
	cmd.Flags().StringVar(&migrateFlags.adminEmail, "admin-email", "", "email of the admin user to create or promote")
	cmd.Flags().StringVar(&migrateFlags.adminPassword, "admin-password", "", "password for a newly created admin")
	cmd.Flags().StringVar(&migrateFlags.adminName, "admin-name", "Administrator", "display name for a newly created admin")
	return cmd
}

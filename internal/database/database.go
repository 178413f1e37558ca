package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/volunteerhub/backend/internal/config"
	"github.com/volunteerhub/backend/internal/models"
	"github.com/volunteerhub/backend/pkg/logger"
	"github.com/volunteerhub/backend/pkg/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func Connect(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the schema. The roster join model is registered
// before AutoMigrate so the composite key lands on event_volunteers.
func Migrate(db *gorm.DB) error {
	if err := models.SetupJoinTables(db); err != nil {
		return fmt.Errorf("setting up join tables: %w", err)
	}
	return db.AutoMigrate(models.AllModels()...)
}

// SeedAdmin makes sure the configured admin account exists. An existing user
// with the same email is promoted; the password is only set on creation.
// It reports whether a new account was created.
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" {
		return false, nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		if existing.Role == models.UserRoleAdmin {
			return false, nil
		}
		if err := db.Model(&existing).Update("role", models.UserRoleAdmin).Error; err != nil {
			return false, err
		}
		logger.Info("admin_promoted", map[string]interface{}{"email": email})
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	if len(cfg.Password) < 6 {
		return false, errors.New("admin password must be at least 6 characters")
	}

	hash, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return false, err
	}

	fullName := strings.TrimSpace(cfg.FullName)
	if fullName == "" {
		fullName = "Event Admin"
	}

	admin := models.User{
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		ContactNo:    "-",
		Role:         models.UserRoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return false, err
	}

	logger.Info("admin_seeded", map[string]interface{}{"email": email})
	return true, nil
}

package database

import (
	"errors"
	"fmt"
	"os"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AutoMigrate migrates all domain models. Order matters because of foreign
// keys.
func AutoMigrate(db *gorm.DB, log *zap.Logger) error {
	log.Info("starting database auto-migration")

	models := []interface{}{
		&domain.User{},
		&domain.Link{},
		&domain.Click{},
		&domain.BioPage{},
		&domain.BioLink{},
	}

	for i, model := range models {
		modelName := fmt.Sprintf("%T", model)
		log.Debug("migrating model",
			zap.String("model", modelName),
			zap.Int("step", i+1),
			zap.Int("total", len(models)))

		if err := db.AutoMigrate(model); err != nil {
			log.Error("failed to migrate model",
				zap.String("model", modelName),
				zap.Error(err))
			return fmt.Errorf("failed to migrate model %s: %w", modelName, err)
		}
	}

	log.Info("database auto-migration completed", zap.Int("migrated_models", len(models)))
	return nil
}

// SeedData creates the initial admin account when none exists. Credentials
// come from ADMIN_EMAIL and ADMIN_PASSWORD; with neither set, seeding is a
// no-op.
func SeedData(db *gorm.DB, log *zap.Logger) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Info("admin credentials not configured, skipping seeding")
		return nil
	}

	var existing domain.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Info("admin account already exists, skipping seeding", zap.String("email", email))
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := domain.User{
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	log.Info("admin account seeded", zap.String("email", email), zap.Int64("user_id", admin.ID))
	return nil
}

package initialize

import (
	"healthtrack/config"
	"healthtrack/internal/logger"
	. "healthtrack/internal/models"
	"healthtrack/internal/utils"

	"gorm.io/gorm"
)

// InitializeTables creates the administrator account named by
// SEED_ADMIN_EMAIL when it does not exist yet.
func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if config.SeedAdminEmail == "" || config.SeedAdminPassword == "" {
		log.Info("No administrator configured, skipping")
		return nil
	}

	email := NormalizeEmail(config.SeedAdminEmail)

	var count int64
	if err := db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return log.Err("failed to look up administrator", err)
	}
	if count > 0 {
		log.Info("Administrator already exists", "email", email)
		return nil
	}

	hash, err := utils.HashPassword(config.SeedAdminPassword)
	if err != nil {
		return log.Err("failed to hash administrator password", err)
	}

	admin := User{Name: "Administrator", Email: email, PasswordHash: hash, Role: RoleAdmin}
	if err := db.Create(&admin).Error; err != nil {
		return log.Err("failed to create administrator", err, "email", email)
	}

	log.Info("Table initialization complete", "adminID", admin.ID)
	return nil
}

package seed

import (
	"healthtrack/config"
	"healthtrack/internal/logger"
	. "healthtrack/internal/models"
	"healthtrack/internal/utils"

	"gorm.io/gorm"
)

const demoPassword = "password"

// Seed creates demo accounts for local development. Existing accounts are
// left untouched.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data", "environment", config.Environment)

	hash, err := utils.HashPassword(demoPassword)
	if err != nil {
		return log.Err("failed to hash demo password", err)
	}

	users := []User{
		{
			Name:  "Dr. Meredith Grey",
			Email: "meredith.grey@example.com",
			Role:  RoleDoctor,
		}, {
			Name:  "Dr. Gregory House",
			Email: "gregory.house@example.com",
			Role:  RoleDoctor,
		}, {
			Name:  "Ada Lovelace",
			Email: "ada.lovelace@example.com",
			Role:  RolePatient,
		},
	}

	for _, user := range users {
		var existingUser User
		if err := db.First(&existingUser, "email = ?", user.Email).Error; err == nil {
			log.Info("User already exists", "email", user.Email)
			continue
		}
		user.PasswordHash = hash
		log.Info("Seeding user", "email", user.Email, "role", user.Role)
		if err := db.Create(&user).Error; err != nil {
			log.Er("failed to create user", err, "email", user.Email)
		}
	}

	return nil
}

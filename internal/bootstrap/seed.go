package bootstrap

import (
	"log"
	"os"

	"campus.clubhub.id/clubhub/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Club{},
		&model.Event{},
		&model.Registration{},
		&model.ParticipantStats{},
		&model.Badge{},
		&model.EventInsight{},
		&model.ClubRequest{},
		&model.Notification{},
	)
}

// SeedUniversityAdmin creates the single university account when missing.
func SeedUniversityAdmin(db *gorm.DB) error {
	email := valueOrDefault("UNIVERSITY_ADMIN_EMAIL", "admin@university.edu")

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("University admin already exists, skipping seed")
		return nil
	}

	password := valueOrDefault("UNIVERSITY_ADMIN_PASSWORD", "admin123")
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		Name:         "University Admin",
		Email:        email,
		PasswordHash: string(hashedPasswordBytes),
		Role:         model.RoleUniversity,
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	log.Println("✅ University admin seeded successfully")
	log.Printf("   Email: %s", email)

	return nil
}

func valueOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

package seeders

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dev-quest/quest_api/model"
)

// UserSeeder creates a demo admin and a demo user, each with a zeroed stats
// row, for local development.
type UserSeeder struct {
	db *gorm.DB
}

func NewUserSeeder(db *gorm.DB) *UserSeeder {
	return &UserSeeder{db: db}
}

var seedUsers = []struct {
	Email    string
	Username string
	Password string
	Role     string
}{
	{"admin@devquest.local", "admin", "Admin1234", model.RoleAdmin},
	{"demo@devquest.local", "demo", "Demo1234", model.RoleUser},
}

func (s *UserSeeder) SeedUsers() error {
	created := 0

	for _, seed := range seedUsers {
		var existing model.User
		err := s.db.Where("email = ?", seed.Email).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		userID, _ := uuid.NewV7()
		user := model.User{
			ID:       userID.String(),
			Email:    seed.Email,
			Username: seed.Username,
			Password: string(hash),
			Role:     seed.Role,
		}

		statsID, _ := uuid.NewV7()
		stats := model.UserStats{
			ID:     statsID.String(),
			UserID: user.ID,
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			return tx.Create(&stats).Error
		})
		if err != nil {
			return err
		}

		log.Printf("Created user %s (password: %s)", user.Email, seed.Password)
		created++
	}

	log.Printf("Seeded %d users", created)
	return nil
}

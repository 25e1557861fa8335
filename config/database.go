package config

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/secure-trade/api-go/models"
)

func InitDB() *gorm.DB {
	dbHost := os.Getenv("DB_HOST")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbPort := os.Getenv("DB_PORT")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		dbHost, dbUser, dbPassword, dbName, dbPort)

	// TranslateError turns unique-index violations into gorm.ErrDuplicatedKey,
	// which the store layer relies on.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	db.AutoMigrate(&models.Role{}, &models.User{}, &models.Listing{}, &models.UserReport{}, &models.ListingReport{})

	seedRoles(db)
	seedAdmin(db)

	return db
}

func seedRoles(db *gorm.DB) {
	roles := []models.Role{
		{ID: models.RoleIDUser, Name: models.RoleUser},
		{ID: models.RoleIDAdmin, Name: models.RoleAdmin},
	}
	for _, role := range roles {
		var count int64
		db.Model(&models.Role{}).Where("id = ?", role.ID).Count(&count)
		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				log.Printf("Failed to seed role %s: %v", role.Name, err)
			}
		}
	}
}

// seedAdmin creates the administrator account from the environment on first
// boot. The admin is an ordinary account with the admin role; nothing in the
// system keys off the username.
func seedAdmin(db *gorm.DB) {
	username := os.Getenv("ADMIN_USERNAME")
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || email == "" || password == "" {
		log.Println("Admin seed skipped: ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD not all set")
		return
	}

	var count int64
	db.Model(&models.User{}).Where("role_id = ?", models.RoleIDAdmin).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash admin password: %v", err)
		return
	}
	admin := models.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Active:   true,
		RoleID:   models.RoleIDAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Printf("Failed to seed admin account: %v", err)
		return
	}
	log.Printf("Seeded admin account %s", username)
}

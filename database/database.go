package database

import (
	"errors"
	"os"

	"certimport-backend/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=certimport port=5432 sslmode=disable"
	}

	// TranslateError maps unique violations to gorm.ErrDuplicatedKey.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Client{},
		&models.Consultant{},
		&models.Product{},
	)
}

// CreateDemoClient makes sure the client every imported product is assigned
// to exists.
func CreateDemoClient(db *gorm.DB, id, name string) error {
	clientID, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	var existing models.Client
	result := db.Where("id = ?", clientID).First(&existing)
	if result.Error == nil {
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	client := models.Client{ID: clientID, Name: name}
	if err := db.Create(&client).Error; err != nil {
		return err
	}

	logrus.WithField("client_id", clientID).Infof("Demo client created: %s", name)
	return nil
}

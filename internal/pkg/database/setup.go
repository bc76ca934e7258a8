package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/ManuelReschke/StreamFox/app/models"
	"github.com/ManuelReschke/StreamFox/app/repository"
	"github.com/ManuelReschke/StreamFox/internal/pkg/env"
)

const maxRetries = 5
const retryDelay = 5 * time.Second

var DB *gorm.DB

// SetupDatabase connects the optional webhook audit database. The service
// runs without it; when DB_HOST is unset the audit log is simply disabled.
func SetupDatabase() {
	if env.GetEnv("DB_HOST", "") == "" {
		log.Print("DB_HOST not set, webhook audit log disabled")
		return
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	var err error
	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                      dsn,
			DefaultStringSize:        256,
			DisableDatetimePrecision: true,
		}), &gorm.Config{})
		if err == nil {
			DB.AutoMigrate(
				&models.WebhookEvent{},
			)
			repository.InitializeFactory(DB)
			return
		}

		log.Printf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	log.Printf("Giving up on database connection, webhook audit log disabled: %v", err)
	DB = nil
}

// GetDB returns the database handle, or nil when the audit log is disabled.
func GetDB() *gorm.DB {
	return DB
}

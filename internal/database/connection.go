// internal/database/connection.go
package database

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/parkspot/admin-backend/internal/config"
	"github.com/parkspot/admin-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.ParkingListing{},
		&models.Booking{},
		&models.VerificationRequest{},
		&models.RefundRequest{},
		&models.PayoutRequest{},
		&models.Dispute{},
		&models.JobApplication{},
		&models.AdminSettings{},
		&models.AuditLog{},
		&models.AdminNotification{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_type_status ON users(user_type, status)",
		"CREATE INDEX IF NOT EXISTS idx_users_newsletter ON users(newsletter_opt_in) WHERE newsletter_opt_in",

		// Listing indexes
		"CREATE INDEX IF NOT EXISTS idx_parking_listings_host ON parking_listings(host_id)",
		"CREATE INDEX IF NOT EXISTS idx_parking_listings_status ON parking_listings(status, listed)",
		"CREATE INDEX IF NOT EXISTS idx_parking_listings_city ON parking_listings(city)",
		"CREATE INDEX IF NOT EXISTS idx_parking_listings_created_at ON parking_listings(created_at DESC)",

		// Booking indexes
		"CREATE INDEX IF NOT EXISTS idx_bookings_renter ON bookings(renter_id)",
		"CREATE INDEX IF NOT EXISTS idx_bookings_listing ON bookings(listing_id)",
		"CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status, starts_at)",
		"CREATE INDEX IF NOT EXISTS idx_bookings_code ON bookings(code)",

		// Moderation queue indexes
		"CREATE INDEX IF NOT EXISTS idx_verification_requests_status ON verification_requests(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_refund_requests_status ON refund_requests(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_refund_requests_booking ON refund_requests(booking_id)",
		"CREATE INDEX IF NOT EXISTS idx_payout_requests_status ON payout_requests(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_payout_requests_host ON payout_requests(host_id)",
		"CREATE INDEX IF NOT EXISTS idx_disputes_status ON disputes(status, created_at DESC)",

		// Admin indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_admin_notifications_status ON admin_notifications(status, priority)",
		"CREATE INDEX IF NOT EXISTS idx_admin_settings_category ON admin_settings(category, key)",
		"CREATE INDEX IF NOT EXISTS idx_job_applications_status ON job_applications(status, created_at DESC)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_parking_listings_search ON parking_listings USING GIN(to_tsvector('english', title || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// DefaultSettings returns the platform settings created on first boot.
// Categories and keys that code reads back come from the models constants
// so the seed and the lookups stay aligned.
func DefaultSettings() []models.AdminSettings {
	return []models.AdminSettings{
		{
			Category:    "general",
			Key:         "platform_name",
			Value:       models.JSONB{"value": "ParkSpot"},
			DataType:    "string",
			Description: "Platform name displayed to users",
		},
		{
			Category:    "payments",
			Key:         "platform_fee_percent",
			Value:       models.JSONB{"value": 10.0},
			DataType:    "float",
			Description: "Platform fee taken from each booking",
		},
		{
			Category:    "payments",
			Key:         "minimum_payout",
			Value:       models.JSONB{"value": 25.0},
			DataType:    "float",
			Description: "Minimum amount a host can request as payout",
		},
		{
			Category:    models.SettingCategoryListings,
			Key:         models.SettingKeyAutoPublishApproved,
			Value:       models.JSONB{"value": true},
			DataType:    "boolean",
			Description: "Publish listings automatically once approved",
		},
	}
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.User{}).Where("user_type = ?", models.UserTypeAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username: "admin",
			Email:    "admin@parkspot.app",
			UserType: models.UserTypeAdmin,
			Status:   models.UserStatusActive,
			ProfileData: models.JSONB{
				"first_name": "System",
				"last_name":  "Administrator",
				"role":       "super_admin",
			},
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	for _, setting := range DefaultSettings() {
		var existing models.AdminSettings
		err := db.Where("category = ? AND key = ?", setting.Category, setting.Key).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&setting).Error; err != nil {
				return fmt.Errorf("failed to create setting %s.%s: %w", setting.Category, setting.Key, err)
			}
		}
	}

	log.Println("Initial data seeded successfully")
	return nil
}

package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SettingsID is the pinned primary key of the singleton settings row.
const SettingsID uint = 1

// DB is the global database instance
var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string, logLevel logger.LogLevel) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established")
	return nil
}

// AutoMigrate runs database migrations
func AutoMigrate() error {
	log.Println("Running database migrations...")

	err := DB.AutoMigrate(
		&User{},
		&CharacterOwnership{},
		&FleetEvent{},
		&Claim{},
		&InsuranceTier{},
		&HistoryEntry{},
		&SrpSettings{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// InitializeDefaults creates default records if they don't exist
func InitializeDefaults() error {
	log.Println("Initializing default database records...")

	if _, err := GetSrpSettings(DB); err != nil {
		return fmt.Errorf("failed to initialize settings: %w", err)
	}

	return nil
}

// EnsureAdminUser creates or refreshes the bootstrap admin account. The
// admin holds every permission so a fresh install can grant access to
// regular members.
func EnsureAdminUser(username, passwordHash string) error {
	var user User
	err := DB.Where("username = ?", username).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = User{
			Username:          username,
			PasswordHash:      passwordHash,
			BasicAccess:       true,
			CreateSRP:         true,
			ManageSRP:         true,
			ManageSRPRequests: true,
		}
		if err := DB.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}
		log.Printf("Created admin user %q", username)
		return nil
	}
	if err != nil {
		return err
	}

	// Keep the stored hash in sync with the configured password
	return DB.Model(&user).Updates(map[string]interface{}{
		"password_hash":       passwordHash,
		"basic_access":        true,
		"create_srp":          true,
		"manage_srp":          true,
		"manage_srp_requests": true,
	}).Error
}

// GetSrpSettings returns the singleton settings row, creating the default
// row if it does not exist yet. Callers can treat the settings as
// always-present; the row is never truly deletable (see ResetSrpSettings).
// Accepts a db parameter for transaction contexts and testing.
func GetSrpSettings(db *gorm.DB) (*SrpSettings, error) {
	var settings SrpSettings
	err := db.First(&settings, SettingsID).Error
	if err == gorm.ErrRecordNotFound {
		settings = SrpSettings{ID: SettingsID, NotificationsEnabled: true}
		if err := db.Create(&settings).Error; err != nil {
			return nil, err
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSrpSettings writes the singleton settings row. The id is forced to
// the pinned constant so concurrent writers always target the same row.
func UpdateSrpSettings(db *gorm.DB, settings *SrpSettings) error {
	settings.ID = SettingsID
	return db.Save(settings).Error
}

// ResetSrpSettings replaces the settings row with defaults. Deleting the
// singleton is a no-op in effect: the row is recreated immediately.
func ResetSrpSettings(db *gorm.DB) (*SrpSettings, error) {
	if err := db.Delete(&SrpSettings{}, SettingsID).Error; err != nil {
		return nil, err
	}
	return GetSrpSettings(db)
}

// GetUserByID loads a user with their linked characters
func GetUserByID(db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.Preload("Characters").First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername loads a user by username with their linked characters
func GetUserByUsername(db *gorm.DB, username string) (*User, error) {
	var user User
	if err := db.Preload("Characters").Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// Close closes the database connection
func Close() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

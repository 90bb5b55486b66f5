package database

import (
	"fmt"
	"time"

	config "github.com/anjiri1684/skill_tutor/configs"
	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/anjiri1684/skill_tutor/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to the given driver ("postgres" or "sqlite") without touching DB.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	logLevel := gormlogger.Warn
	if config.Config("APP_ENV") == "test" {
		logLevel = gormlogger.Silent
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormlogger.Default.LogMode(logLevel),
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// sqlite allows one writer; a single connection keeps transactions serialized.
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

func ConnectDB() {
	db, err := Open(config.Config("DB_DRIVER"), config.Config("DATABASE_URL"))
	if err != nil {
		logger.Log.Fatalw("Failed to connect to database", "error", err)
	}
	DB = db
	logger.Log.Infow("Database connected", "driver", config.Config("DB_DRIVER"))
}

func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Tutor{},
		&models.CourseCategory{},
		&models.Course{},
		&models.Resource{},
		&models.Enrollment{},
		&models.Booking{},
		&models.Payment{},
		&models.Review{},
		&models.ReviewRequest{},
	)
}

func SeedAdmin() {
	adminEmail := config.Config("ADMIN_EMAIL")
	adminPassword := config.Config("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		logger.Log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	var count int64
	if err := DB.Model(&models.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		logger.Log.Fatalw("Failed to check for admin user", "error", err)
	}
	if count > 0 {
		logger.Log.Debug("Admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Fatalw("Failed to hash admin password", "error", err)
	}

	fullName := config.Config("ADMIN_FULL_NAME")
	if fullName == "" {
		fullName = "Platform Admin"
	}
	admin := models.User{
		FullName: fullName,
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
		IsActive: true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		logger.Log.Fatalw("Failed to seed admin user", "error", err)
	}
	logger.Log.Infow("Admin user seeded", "email", adminEmail)
}

package config

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var (
	conf     *viper.Viper
	loadOnce sync.Once
)

func load() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	} else {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	conf = viper.New()
	conf.SetDefault("APP_ENV", "development")
	conf.SetDefault("PORT", "8080")
	conf.SetDefault("DB_DRIVER", "postgres")
	conf.SetDefault("JWT_TTL", 72*time.Hour)
	conf.SetDefault("PLATFORM_COMMISSION_RATE", 0.15)
	conf.SetDefault("FRONTEND_URL", "http://localhost:3000")
	conf.SetDefault("EMAIL_PROVIDER", "brevo")
	conf.SetDefault("CORS_ORIGINS", "*")
	conf.SetDefault("TIME_ZONE", "UTC")
	conf.SetDefault("PAYPAL_API_BASE_URL", "https://api-m.sandbox.paypal.com")
	conf.SetDefault("REVIEW_REQUEST_REMINDER_AFTER", 72*time.Hour)
	conf.SetDefault("KCB_API_BASE_URL", "https://api.buni.kcbgroup.com")
	conf.SetDefault("EXCHANGE_RATE_API_BASE_URL", "https://v6.exchangerate-api.com/v6")
	conf.SetDefault("CURRENCY", "USD")
	conf.SetDefault("PAYMENT_PENDING_TTL", 30*time.Minute)
	conf.AutomaticEnv()
}

func v() *viper.Viper {
	loadOnce.Do(load)
	return conf
}

// Config returns the string value of key from the environment (or .env),
// falling back to the registered default.
func Config(key string) string {
	return v().GetString(key)
}

func Int(key string) int {
	return v().GetInt(key)
}

func Float(key string) float64 {
	return v().GetFloat64(key)
}

func Bool(key string) bool {
	return v().GetBool(key)
}

func Duration(key string) time.Duration {
	return v().GetDuration(key)
}

func IsProduction() bool {
	return Config("APP_ENV") == "production"
}

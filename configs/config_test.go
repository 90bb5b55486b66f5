package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "8080", Config("PORT"))
	assert.Equal(t, 72*time.Hour, Duration("JWT_TTL"))
	assert.InDelta(t, 0.15, Float("PLATFORM_COMMISSION_RATE"), 0.0001)
}

func TestEnvironmentOverridesDefault(t *testing.T) {
	t.Setenv("PLATFORM_COMMISSION_RATE", "0.2")
	t.Setenv("REVIEW_REQUEST_REMINDER_AFTER", "24h")
	t.Setenv("APP_ENV", "production")

	assert.InDelta(t, 0.2, Float("PLATFORM_COMMISSION_RATE"), 0.0001)
	assert.Equal(t, 24*time.Hour, Duration("REVIEW_REQUEST_REMINDER_AFTER"))
	assert.True(t, IsProduction())
}

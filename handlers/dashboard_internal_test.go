package handlers

import (
	"testing"
	"time"

	"github.com/anjiri1684/skill_tutor/models"
	"github.com/stretchr/testify/assert"
)

func TestMonthlyEarnings(t *testing.T) {
	t.Setenv("PLATFORM_COMMISSION_RATE", "0.1")
	at := func(month time.Month, day int) models.Payment {
		p := models.Payment{Amount: 50}
		p.CreatedAt = time.Date(2026, month, day, 12, 0, 0, 0, time.UTC)
		return p
	}

	months, total := monthlyEarnings([]models.Payment{at(1, 3), at(1, 28), at(3, 1)})
	assert.Equal(t, []MonthlyEarning{{Month: "2026-01", Amount: 90}, {Month: "2026-03", Amount: 45}}, months)
	assert.InDelta(t, 135.0, total, 0.001)

	months, total = monthlyEarnings(nil)
	assert.Empty(t, months)
	assert.Zero(t, total)
}

func TestFilterByStatus(t *testing.T) {
	list := []models.ReviewRequest{
		{Status: models.ReviewRequestPending},
		{Status: models.ReviewRequestResponded},
		{Status: models.ReviewRequestPending},
	}
	assert.Len(t, filterByStatus(list, ""), 3)
	assert.Len(t, filterByStatus(list, models.ReviewRequestPending), 2)
	assert.Len(t, filterByStatus(list, models.ReviewRequestResponded), 1)
}

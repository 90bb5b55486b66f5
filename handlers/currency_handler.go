package handlers

import (
	"strings"

	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/anjiri1684/skill_tutor/services"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
)

func GetConversionRate(c *fiber.Ctx) error {
	rates, err := services.FetchRates()
	if err != nil {
		logger.Log.Warnw("Exchange rates unavailable", "error", err)
		return utils.Fail(c, fiber.StatusServiceUnavailable, "Could not fetch exchange rates")
	}

	target := strings.ToUpper(c.Query("to", "KES"))
	rate, ok := rates[target]
	if !ok {
		return utils.Fail(c, fiber.StatusNotFound, target+" rate not available")
	}
	return utils.OK(c, fiber.Map{"base": "USD", "currency": target, "rate": rate})
}

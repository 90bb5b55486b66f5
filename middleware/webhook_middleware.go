package middleware

import (
	"crypto/subtle"

	config "github.com/anjiri1684/skill_tutor/configs"
	"github.com/anjiri1684/skill_tutor/logger"
	"github.com/anjiri1684/skill_tutor/utils"
	"github.com/gofiber/fiber/v2"
)

// CallbackSecret guards provider callbacks with the shared secret carried in
// the callback URL (?token=). Without a configured secret, callbacks are only
// accepted outside production.
func CallbackSecret(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := config.Config(key)
		if secret == "" {
			if config.IsProduction() {
				logger.Log.Errorw("Callback rejected, secret not configured", "key", key, "path", c.Path())
				return utils.Fail(c, fiber.StatusUnauthorized, "Callback not accepted")
			}
			return c.Next()
		}
		if subtle.ConstantTimeCompare([]byte(c.Query("token")), []byte(secret)) != 1 {
			logger.Log.Warnw("Callback with bad token", "path", c.Path(), "ip", c.IP())
			return utils.Fail(c, fiber.StatusUnauthorized, "Callback not accepted")
		}
		return c.Next()
	}
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"bakery/session"
)

const sessionKey = "session"

// SessionRequired validates the bearer token in the Authorization header and
// loads the session it names.
func SessionRequired(issuer *session.TokenIssuer, store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Missing or malformed session token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Missing or malformed session token"})
		}

		claims, err := issuer.Parse(parts[1])
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Invalid or expired session token"})
		}

		s, ok := store.Get(claims.SessionID)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "message": "Session expired, upload the data again"})
		}

		c.Locals(sessionKey, s)
		return c.Next()
	}
}

// CurrentSession returns the session loaded by SessionRequired.
func CurrentSession(c *fiber.Ctx) (*session.Session, bool) {
	s, ok := c.Locals(sessionKey).(*session.Session)
	return s, ok
}

package middleware

import (
	"slices"

	"github.com/gofiber/fiber/v3"
)

const MsgOriginNotAllowed = "Not allowed by CORS"

// OriginGuard rejects cross-origin requests whose Origin is not in the
// allow-list with 403. Requests without an Origin header (curl, server to
// server) always pass. A "*" entry allows every origin.
func OriginGuard(allowed []string) fiber.Handler {
	allowAll := slices.Contains(allowed, "*")
	return func(c fiber.Ctx) error {
		origin := c.Get(fiber.HeaderOrigin)
		if origin == "" || allowAll || slices.Contains(allowed, origin) {
			return c.Next()
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": MsgOriginNotAllowed})
	}
}

package handlers

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"sellerhub/internal/domain"
	applog "sellerhub/internal/log"
	"sellerhub/internal/repos"
	"sellerhub/internal/validate"
)

// RequireSeller authenticates API calls with the X-Seller-ID / X-Api-Key
// header pair against the webhook-synced users table.
func RequireSeller(users *repos.UserRepo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sellerID, ok := validate.ID(c.Get("X-Seller-ID"))
		key := c.Get("X-Api-Key")
		if !ok || key == "" {
			applog.Security(c, "auth.seller.missing", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing credentials"})
		}
		u, err := users.ByID(sellerID)
		if err != nil || u.APIKeyHash == "" {
			applog.Security(c, "auth.seller.unknown", map[string]any{"seller": sellerID})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		if bcrypt.CompareHashAndPassword([]byte(u.APIKeyHash), []byte(key)) != nil {
			applog.Security(c, "auth.seller.badkey", map[string]any{"seller": sellerID})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
		}
		c.Locals("seller", u)
		return c.Next()
	}
}

// RequireAdminToken guards operator-only routes with the shared token from
// config. An empty configured token disables the routes entirely.
func RequireAdminToken(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get("X-Admin-Token")
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			applog.Security(c, "auth.admin.denied", nil)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
		}
		return c.Next()
	}
}

func currentSeller(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("seller").(*domain.User)
	return u
}

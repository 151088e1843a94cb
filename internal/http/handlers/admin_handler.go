package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	applog "sellerhub/internal/log"
	"sellerhub/internal/repos"
	"sellerhub/internal/validate"
)

type AdminHandler struct {
	Users *repos.UserRepo
	Token string
}

// POST /api/v1/admin/users/:id/apikey
// Issues a fresh API key for a synced user. The plaintext key is returned
// exactly once; only its bcrypt hash is stored.
func (h *AdminHandler) IssueAPIKey(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	key := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), 10)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not generate key"})
	}
	if err := h.Users.SetAPIKeyHash(id, string(hash)); err != nil {
		if repos.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "user not found"})
		}
		applog.Error(c, "admin.apikey.fail", err, map[string]any{"user": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save key"})
	}
	applog.Audit(c, "admin.apikey.issue", map[string]any{"user": id})
	return c.JSON(fiber.Map{"userId": id, "apiKey": key})
}

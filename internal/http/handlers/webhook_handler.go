package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	svix "github.com/svix/svix-webhooks/go"

	applog "sellerhub/internal/log"
	"sellerhub/internal/services"
)

// WebhookHandler receives signed user.* events from the identity provider
// and mirrors them into the local users table. Replays are idempotent:
// duplicate creates and missing update/delete targets answer 200 so the
// provider stops retrying.
type WebhookHandler struct {
	Secret string
	Sync   *services.UserSyncService
}

// Handle serves the single webhook route. The provider delivers over POST
// but the route is also bound to GET/PUT, so one method-agnostic handler.
func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	payload := c.Body()

	headers := http.Header{}
	headers.Set("svix-id", c.Get("svix-id"))
	headers.Set("svix-timestamp", c.Get("svix-timestamp"))
	headers.Set("svix-signature", c.Get("svix-signature"))

	wh, err := svix.NewWebhook(h.Secret)
	if err != nil {
		applog.Error(c, "webhook.secret.invalid", err, nil)
		return c.Status(fiber.StatusInternalServerError).SendString("")
	}
	if err := wh.Verify(payload, headers); err != nil {
		applog.Security(c, "webhook.verify.fail", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusBadRequest).SendString("Error occurred")
	}

	var evt services.IdentityEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		applog.Security(c, "webhook.payload.malformed", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusBadRequest).SendString("Error occurred")
	}

	switch evt.Type {
	case "user.created":
		return h.created(c, evt)
	case "user.updated":
		return h.updated(c, evt)
	case "user.deleted":
		return h.deleted(c, evt)
	}
	// Unhandled event kinds are acknowledged so the provider does not retry.
	return c.Status(fiber.StatusOK).SendString("")
}

func (h *WebhookHandler) created(c *fiber.Ctx, evt services.IdentityEvent) error {
	switch err := h.Sync.Created(evt.Data); {
	case errors.Is(err, services.ErrEventInvalid):
		applog.Security(c, "webhook.user.created.invalid", map[string]any{"user": evt.Data.ID})
		return c.Status(fiber.StatusBadRequest).SendString("Error: Missing user ID or email addresses")
	case errors.Is(err, services.ErrNoPrimaryEmail):
		applog.Security(c, "webhook.user.created.noemail", map[string]any{"user": evt.Data.ID})
		return c.Status(fiber.StatusBadRequest).SendString("Error: Primary email not found")
	case errors.Is(err, services.ErrUserExists):
		// Replayed delivery; the first application already took effect.
		applog.Warn(c, "webhook.user.created.duplicate", map[string]any{"user": evt.Data.ID})
	case err != nil:
		applog.Error(c, "webhook.user.created.fail", err, map[string]any{"user": evt.Data.ID})
		return c.Status(fiber.StatusInternalServerError).SendString("Error processing webhook")
	default:
		applog.Audit(c, "webhook.user.created", map[string]any{"user": evt.Data.ID})
	}
	return c.Status(fiber.StatusOK).SendString("")
}

func (h *WebhookHandler) updated(c *fiber.Ctx, evt services.IdentityEvent) error {
	switch err := h.Sync.Updated(evt.Data); {
	case errors.Is(err, services.ErrEventInvalid):
		applog.Security(c, "webhook.user.updated.invalid", nil)
		return c.Status(fiber.StatusBadRequest).SendString("Error: Missing user ID")
	case errors.Is(err, services.ErrNoChanges):
		applog.Info(c, "webhook.user.updated.noop", map[string]any{"user": evt.Data.ID})
	case errors.Is(err, services.ErrUserMissing):
		applog.Warn(c, "webhook.user.updated.missing", map[string]any{"user": evt.Data.ID})
	case err != nil:
		// Acknowledged anyway; the next user.updated delivery reconciles.
		applog.Error(c, "webhook.user.updated.fail", err, map[string]any{"user": evt.Data.ID})
	default:
		applog.Audit(c, "webhook.user.updated", map[string]any{"user": evt.Data.ID})
	}
	return c.Status(fiber.StatusOK).SendString("")
}

func (h *WebhookHandler) deleted(c *fiber.Ctx, evt services.IdentityEvent) error {
	switch err := h.Sync.Deleted(evt.Data); {
	case errors.Is(err, services.ErrEventInvalid):
		applog.Security(c, "webhook.user.deleted.invalid", nil)
		return c.Status(fiber.StatusBadRequest).SendString("Error: Missing user ID")
	case errors.Is(err, services.ErrUserMissing):
		applog.Warn(c, "webhook.user.deleted.missing", map[string]any{"user": evt.Data.ID})
	case err != nil:
		applog.Error(c, "webhook.user.deleted.fail", err, map[string]any{"user": evt.Data.ID})
	default:
		applog.Audit(c, "webhook.user.deleted", map[string]any{"user": evt.Data.ID})
	}
	return c.Status(fiber.StatusOK).SendString("")
}

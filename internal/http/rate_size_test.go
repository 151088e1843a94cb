package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	html "github.com/gofiber/template/html/v2"

	"sellerhub/internal/config"
	"sellerhub/internal/http/handlers"
	"sellerhub/internal/repos"
)

// The webhook route carries its own limiter so a misbehaving provider
// cannot starve the seller API.
func TestWebhookThrottle(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	deps := handlers.NewDeps(db, config.Config{WebhookSecret: webhookSecret()})
	app := fiber.New()
	app.Post("/api/webhooks/identity",
		limiter.New(limiter.Config{Max: 2, Expiration: time.Minute}),
		deps.WebhookHandler.Handle)

	for i := 0; i < 2; i++ {
		resp, err := app.Test(signedRequest("msg_throttle", `{"type":"session.created","data":{}}`))
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d: want 200, got %d", i+1, resp.StatusCode)
		}
	}
	resp, err := app.Test(signedRequest("msg_throttle", `{"type":"session.created","data":{}}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("want 429 after limit, got %d", resp.StatusCode)
	}
}

func TestBodySizeGuard(t *testing.T) {
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	deps := handlers.NewDeps(db, config.Config{WebhookSecret: webhookSecret()})
	app := fiber.New()
	app.Server().MaxRequestBodySize = 1024

	app.Post("/api/webhooks/identity", deps.WebhookHandler.Handle)

	big := `{"type":"user.created","data":{"id":"` + strings.Repeat("x", 4096) + `"}}`
	resp, err := app.Test(signedRequest("msg_big", big))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("want 413 for oversized body, got %d", resp.StatusCode)
	}
}

func TestNotFoundPageRendered(t *testing.T) {
	engine := html.New("../../web/templates", ".html")
	app := fiber.New(fiber.Config{Views: engine})
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz: want 200, got %d", resp.StatusCode)
	}
	resp, err = app.Test(httptest.NewRequest("GET", "/no-such-page", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("want 404 fallback, got %d", resp.StatusCode)
	}
}

package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"sellerhub/internal/config"
	"sellerhub/internal/http/handlers"
	applog "sellerhub/internal/log"
	"sellerhub/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	engine := html.New("./web/templates", ".html")

	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Something went wrong. Please try again."})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	app.Static("/static", "./web/static")

	deps := handlers.NewDeps(db, cfg)

	// Identity webhook: the provider may probe any verb, so one handler is
	// bound to POST/GET/PUT.
	webhookLimiter := limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.webhook.hit", nil)
			return c.SendStatus(fiber.StatusTooManyRequests)
		},
	})
	app.Post("/api/webhooks/identity", webhookLimiter, deps.WebhookHandler.Handle)
	app.Get("/api/webhooks/identity", webhookLimiter, deps.WebhookHandler.Handle)
	app.Put("/api/webhooks/identity", webhookLimiter, deps.WebhookHandler.Handle)

	// Seller overview page
	app.Get("/seller/overview", deps.OverviewHandler.Page)

	// Seller JSON API
	api := app.Group("/api/v1", handlers.RequireSeller(deps.Users))
	api.Post("/products", deps.ProductHandler.Create)
	api.Get("/products/table", deps.ProductHandler.Table)
	api.Post("/products/view", deps.ProductHandler.View)
	api.Post("/products/select", deps.ProductHandler.Select)
	api.Post("/products/bulk-delete", deps.ProductHandler.BulkDelete)
	api.Post("/products/bulk-update", deps.ProductHandler.BulkUpdate)
	api.Get("/orders/table", deps.OrderHandler.Table)
	api.Post("/orders/view", deps.OrderHandler.View)
	api.Post("/orders/select", deps.OrderHandler.Select)
	api.Post("/orders/:id/ship", deps.OrderHandler.Ship)

	// Operator routes
	admin := app.Group("/api/v1/admin", handlers.RequireAdminToken(cfg.AdminToken))
	admin.Post("/users/:id/apikey", deps.AdminHandler.IssueAPIKey)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "sellerhub/internal/log"
	"sellerhub/internal/repos"
	"sellerhub/internal/services"
	"sellerhub/internal/validate"
)

type OrderHandler struct {
	Views *services.ViewService
}

// GET /api/v1/orders/table
func (h *OrderHandler) Table(c *fiber.Ctx) error {
	g, err := h.Views.OrderGrid(currentSeller(c).ID)
	if err != nil {
		applog.Error(c, "order.table.load.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load orders"})
	}
	return c.JSON(gridView(g.Page()))
}

// POST /api/v1/orders/view
func (h *OrderHandler) View(c *fiber.Ctx) error {
	var req viewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	g, err := h.Views.OrderGrid(currentSeller(c).ID)
	if err != nil {
		applog.Error(c, "order.table.load.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load orders"})
	}
	if err := applyView(g, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(gridView(g.Page()))
}

// POST /api/v1/orders/select
func (h *OrderHandler) Select(c *fiber.Ctx) error {
	var req selectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	g, err := h.Views.OrderGrid(currentSeller(c).ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load orders"})
	}
	switch {
	case req.Clear:
		g.ClearSelection()
	case req.AllPage != nil:
		g.SelectPage(*req.AllPage)
	default:
		g.ToggleSelect(req.IDs...)
	}
	return c.JSON(gridView(g.Page()))
}

// POST /api/v1/orders/:id/ship
func (h *OrderHandler) Ship(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid order id"})
	}
	sellerID := currentSeller(c).ID
	if err := h.Views.ShipOrder(c.Context(), sellerID, id); err != nil {
		if repos.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "order not found"})
		}
		applog.Error(c, "order.ship.fail", err, map[string]any{"order": id})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "order.ship", map[string]any{"order": id})
	return c.JSON(fiber.Map{"success": true, "message": "Order " + id + " marked as shipped."})
}

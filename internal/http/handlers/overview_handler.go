package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "sellerhub/internal/log"
	"sellerhub/internal/repos"
)

// OverviewHandler renders the seller overview page with live counts in
// place of the hardcoded stat cards the dashboard mock shipped with.
type OverviewHandler struct {
	Products *repos.ProductRepo
	Orders   *repos.OrderRepo
	Users    *repos.UserRepo
}

// GET /seller/overview
func (h *OverviewHandler) Page(c *fiber.Ctx) error {
	sellerID := c.Query("seller", repos.DemoSellerID)
	products, err := h.Products.CountBySeller(sellerID)
	if err != nil {
		applog.Error(c, "overview.products.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load overview"})
	}
	orders, err := h.Orders.CountBySeller(sellerID)
	if err != nil {
		applog.Error(c, "overview.orders.fail", err, nil)
		return c.Status(500).Render("notfound", fiber.Map{"Message": "Could not load overview"})
	}
	users, _ := h.Users.Count()
	return c.Render("overview", fiber.Map{
		"SellerID": sellerID,
		"Products": products,
		"Orders":   orders,
		"Users":    users,
	})
}

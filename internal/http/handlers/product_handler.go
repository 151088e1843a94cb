package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"sellerhub/internal/domain"
	"sellerhub/internal/grid"
	applog "sellerhub/internal/log"
	"sellerhub/internal/services"
)

type ProductHandler struct {
	Products *services.ProductService
	Views    *services.ViewService
}

// POST /api/v1/products
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var sub domain.ProductSubmission
	if err := c.BodyParser(&sub); err != nil {
		applog.Security(c, "product.create.badjson", map[string]any{"err": err.Error()})
		return c.Status(fiber.StatusBadRequest).JSON(services.CreateResult{Success: false, Error: "invalid JSON body"})
	}
	// The authenticated seller owns the product regardless of the payload.
	if u := currentSeller(c); u != nil {
		sub.SellerID = u.ID
	}

	res := h.Products.Create(sub)
	if !res.Success {
		applog.Info(c, "product.create.rejected", map[string]any{"error": res.Error})
		return c.Status(fiber.StatusBadRequest).JSON(res)
	}

	applog.Audit(c, "product.create", map[string]any{"product": res.Product.ID, "sku": res.Product.SKU})
	// Keep the table snapshot in step with the store.
	if err := h.Views.RefreshProducts(res.Product.SellerID); err != nil {
		applog.Error(c, "product.view.refresh.fail", err, nil)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

func gridView[T any](v grid.View[T]) fiber.Map {
	return fiber.Map{
		"rows":       v.Rows,
		"pageIndex":  v.PageIndex,
		"pageCount":  v.PageCount,
		"pageSize":   v.PageSize,
		"filtered":   v.Filtered,
		"total":      v.Total,
		"selected":   v.Selected,
		"sortColumn": v.SortColumn,
		"sortDir":    int(v.SortDir),
		"noResults":  v.Filtered == 0,
	}
}

// viewRequest carries the table-state mutations a client may batch into one
// call. Pointers distinguish "leave alone" from zero values.
type viewRequest struct {
	GlobalFilter *string `json:"globalFilter"`
	FilterColumn string  `json:"filterColumn"`
	FilterValue  string  `json:"filterValue"`
	ToggleSort   string  `json:"toggleSort"`
	PageIndex    *int    `json:"pageIndex"`
	PageSize     *int    `json:"pageSize"`
}

func applyView[T any](g *grid.Grid[T], req viewRequest) error {
	if req.GlobalFilter != nil {
		g.SetGlobalFilter(*req.GlobalFilter)
	}
	if req.FilterColumn != "" {
		if err := g.SetColumnFilter(req.FilterColumn, req.FilterValue); err != nil {
			return err
		}
	}
	if req.ToggleSort != "" {
		if err := g.ToggleSort(req.ToggleSort); err != nil {
			return err
		}
	}
	if req.PageSize != nil {
		if err := g.SetPageSize(*req.PageSize); err != nil {
			return err
		}
	}
	if req.PageIndex != nil {
		g.SetPageIndex(*req.PageIndex)
	}
	return nil
}

// GET /api/v1/products/table
func (h *ProductHandler) Table(c *fiber.Ctx) error {
	g, err := h.Views.ProductGrid(currentSeller(c).ID)
	if err != nil {
		applog.Error(c, "product.table.load.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
	}
	return c.JSON(gridView(g.Page()))
}

// POST /api/v1/products/view
func (h *ProductHandler) View(c *fiber.Ctx) error {
	var req viewRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	g, err := h.Views.ProductGrid(currentSeller(c).ID)
	if err != nil {
		applog.Error(c, "product.table.load.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
	}
	if err := applyView(g, req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(gridView(g.Page()))
}

type selectRequest struct {
	IDs     []string `json:"ids"`
	AllPage *bool    `json:"allPage"`
	Clear   bool     `json:"clear"`
}

// POST /api/v1/products/select
func (h *ProductHandler) Select(c *fiber.Ctx) error {
	var req selectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	g, err := h.Views.ProductGrid(currentSeller(c).ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load products"})
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

// POST /api/v1/products/bulk-delete
func (h *ProductHandler) BulkDelete(c *fiber.Ctx) error {
	sellerID := currentSeller(c).ID
	n, err := h.Views.BulkDeleteProducts(c.Context(), sellerID)
	if errors.Is(err, grid.ErrNoSelection) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No items selected for this action."})
	}
	if err != nil {
		applog.Error(c, "product.bulkdelete.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete products: " + err.Error()})
	}
	applog.Audit(c, "product.bulkdelete", map[string]any{"count": n})
	return c.JSON(fiber.Map{"success": true, "message": fmt.Sprintf("Successfully deleted %d product(s).", n)})
}

type bulkUpdateRequest struct {
	Stock *int             `json:"stock"`
	Price *decimal.Decimal `json:"price"`
}

// POST /api/v1/products/bulk-update
func (h *ProductHandler) BulkUpdate(c *fiber.Ctx) error {
	var req bulkUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON body"})
	}
	if req.Stock == nil && req.Price == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "nothing to update"})
	}
	if req.Stock != nil && *req.Stock < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "stock must be non-negative"})
	}
	if req.Price != nil && req.Price.Sign() <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be positive"})
	}

	sellerID := currentSeller(c).ID
	n, err := h.Views.BulkUpdateProducts(c.Context(), sellerID, req.Stock, req.Price)
	if errors.Is(err, grid.ErrNoSelection) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No items selected for this action."})
	}
	if err != nil {
		applog.Error(c, "product.bulkupdate.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update products: " + err.Error()})
	}
	applog.Audit(c, "product.bulkupdate", map[string]any{"count": n})
	return c.JSON(fiber.Map{"success": true, "message": fmt.Sprintf("Successfully updated %d product(s).", n)})
}

package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sellerhub/internal/domain"
	"sellerhub/internal/grid"
	"sellerhub/internal/repos"
)

var usd = message.NewPrinter(language.AmericanEnglish)

// FormatUSD renders a price the way the dashboard shows it: grouped
// thousands, at most two fraction digits, trailing zeros dropped
// ("$1,234.5", not "$1,234.50").
func FormatUSD(d decimal.Decimal) string {
	r := d.Round(2)
	if r.IsInteger() {
		return usd.Sprintf("$%d", r.IntPart())
	}
	f, _ := r.Float64()
	return strings.TrimSuffix(usd.Sprintf("$%.2f", f), "0")
}

// ProductRow is the preprocessed products-table row: stock status derived
// from quantity, price formatted for display. Derived on every snapshot
// load, never stored.
type ProductRow struct {
	ID            string `json:"id"`
	Image         string `json:"image"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Price         string `json:"price"`
	Stock         int    `json:"stock"`
	Status        string `json:"status"`
	Category      string `json:"category"`
	ProductStatus string `json:"productStatus"`

	priceRaw decimal.Decimal
}

type OrderRow struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Buyer  string `json:"buyer"`
	Amount string `json:"amount"`
	Status string `json:"status"`
	Item   string `json:"item"`

	amountRaw decimal.Decimal
}

func productRow(p domain.Product) ProductRow {
	image := ""
	if imgs := p.Images(); len(imgs) > 0 {
		image = imgs[0]
	}
	return ProductRow{
		ID:            p.ID,
		Image:         image,
		Name:          p.Title,
		SKU:           p.SKU,
		Price:         FormatUSD(p.Price),
		Stock:         p.Quantity,
		Status:        domain.StockStatus(p.Quantity),
		Category:      p.Category,
		ProductStatus: p.Status,
		priceRaw:      p.Price,
	}
}

func orderRow(o domain.Order) OrderRow {
	return OrderRow{
		ID:        o.ID,
		Date:      o.OrderDate,
		Buyer:     o.BuyerName,
		Amount:    FormatUSD(o.Amount),
		Status:    o.Status,
		Item:      o.Item,
		amountRaw: o.Amount,
	}
}

// ProductColumns mirrors the dashboard's products table: global search over
// name and sku only, equality filters on status and category, image and
// actions excluded from sorting.
func ProductColumns() []grid.Column[ProductRow] {
	return []grid.Column[ProductRow]{
		{ID: "image", Value: func(r ProductRow) string { return r.Image }},
		{ID: "name", Value: func(r ProductRow) string { return r.Name }, Sortable: true, Global: true},
		{ID: "sku", Value: func(r ProductRow) string { return r.SKU }, Sortable: true, Global: true},
		{ID: "price", Value: func(r ProductRow) string { return r.Price }, Sortable: true,
			Less: func(a, b ProductRow) bool { return a.priceRaw.LessThan(b.priceRaw) }},
		{ID: "stock", Value: func(r ProductRow) string { return usd.Sprintf("%d", r.Stock) }, Sortable: true,
			Less: func(a, b ProductRow) bool { return a.Stock < b.Stock }},
		{ID: "status", Value: func(r ProductRow) string { return r.Status }, Sortable: true, Filterable: true},
		{ID: "category", Value: func(r ProductRow) string { return r.Category }, Sortable: true, Filterable: true},
	}
}

// OrderColumns: global search over order id and buyer, status tab filter.
func OrderColumns() []grid.Column[OrderRow] {
	return []grid.Column[OrderRow]{
		{ID: "id", Value: func(r OrderRow) string { return r.ID }, Sortable: true, Global: true},
		{ID: "date", Value: func(r OrderRow) string { return r.Date }, Sortable: true},
		{ID: "buyer", Value: func(r OrderRow) string { return r.Buyer }, Sortable: true, Global: true},
		{ID: "amount", Value: func(r OrderRow) string { return r.Amount }, Sortable: true,
			Less: func(a, b OrderRow) bool { return a.amountRaw.LessThan(b.amountRaw) }},
		{ID: "status", Value: func(r OrderRow) string { return r.Status }, Sortable: true, Filterable: true},
		{ID: "item", Value: func(r OrderRow) string { return r.Item }, Sortable: true},
	}
}

// ViewService owns one grid per seller and table, loaded lazily from the
// store and refreshed after writes.
type ViewService struct {
	Products *repos.ProductRepo
	Orders   *repos.OrderRepo

	mu           sync.Mutex
	productGrids map[string]*grid.Grid[ProductRow]
	orderGrids   map[string]*grid.Grid[OrderRow]
}

func NewViewService(products *repos.ProductRepo, orders *repos.OrderRepo) *ViewService {
	return &ViewService{
		Products:     products,
		Orders:       orders,
		productGrids: map[string]*grid.Grid[ProductRow]{},
		orderGrids:   map[string]*grid.Grid[OrderRow]{},
	}
}

// ProductGrid returns the seller's grid, loading the first snapshot before
// the grid is published in the map. A concurrent first caller either creates
// the grid itself or waits and receives it fully loaded, never empty.
func (s *ViewService) ProductGrid(sellerID string) (*grid.Grid[ProductRow], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.productGrids[sellerID]; ok {
		return g, nil
	}
	rows, err := s.loadProductRows(sellerID)
	if err != nil {
		return nil, err
	}
	g := grid.New(func(r ProductRow) string { return r.ID }, ProductColumns())
	g.SetRows(rows)
	s.productGrids[sellerID] = g
	return g, nil
}

func (s *ViewService) OrderGrid(sellerID string) (*grid.Grid[OrderRow], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.orderGrids[sellerID]; ok {
		return g, nil
	}
	rows, err := s.loadOrderRows(sellerID)
	if err != nil {
		return nil, err
	}
	g := grid.New(func(r OrderRow) string { return r.ID }, OrderColumns())
	g.SetRows(rows)
	s.orderGrids[sellerID] = g
	return g, nil
}

func (s *ViewService) loadProductRows(sellerID string) ([]ProductRow, error) {
	products, err := s.Products.ListBySeller(sellerID)
	if err != nil {
		return nil, err
	}
	rows := make([]ProductRow, 0, len(products))
	for _, p := range products {
		rows = append(rows, productRow(p))
	}
	return rows, nil
}

func (s *ViewService) loadOrderRows(sellerID string) ([]OrderRow, error) {
	orders, err := s.Orders.ListBySeller(sellerID)
	if err != nil {
		return nil, err
	}
	rows := make([]OrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderRow(o))
	}
	return rows, nil
}

// RefreshProducts reloads the seller's snapshot; stock statuses are
// recomputed here as a side effect of rebuilding the rows.
func (s *ViewService) RefreshProducts(sellerID string) error {
	g, err := s.ProductGrid(sellerID)
	if err != nil {
		return err
	}
	rows, err := s.loadProductRows(sellerID)
	if err != nil {
		return err
	}
	g.SetRows(rows)
	return nil
}

func (s *ViewService) RefreshOrders(sellerID string) error {
	g, err := s.OrderGrid(sellerID)
	if err != nil {
		return err
	}
	rows, err := s.loadOrderRows(sellerID)
	if err != nil {
		return err
	}
	g.SetRows(rows)
	return nil
}

// BulkDeleteProducts deletes the seller's full cross-page selection: the
// store first, then the in-memory rows on success.
func (s *ViewService) BulkDeleteProducts(ctx context.Context, sellerID string) (int, error) {
	g, err := s.ProductGrid(sellerID)
	if err != nil {
		return 0, err
	}
	deleted := 0
	err = g.BulkRemove(ctx, func(ctx context.Context, ids []string) error {
		n, err := s.Products.DeleteByIDs(sellerID, ids)
		deleted = int(n)
		return err
	})
	return deleted, err
}

// BulkUpdateProducts sets stock and/or price on the selection, then reloads
// the snapshot so statuses and formatted prices follow the new values.
func (s *ViewService) BulkUpdateProducts(ctx context.Context, sellerID string, stock *int, price *decimal.Decimal) (int, error) {
	if stock == nil && price == nil {
		return 0, errors.New("nothing to update")
	}
	g, err := s.ProductGrid(sellerID)
	if err != nil {
		return 0, err
	}
	updated := 0
	err = g.Bulk(ctx, func(ctx context.Context, ids []string) error {
		updated = len(ids)
		return s.Products.BulkUpdate(sellerID, ids, stock, price)
	})
	if err != nil {
		return 0, err
	}
	return updated, s.RefreshProducts(sellerID)
}

// ShipOrder moves a Pending order to Shipped and refreshes the orders grid.
func (s *ViewService) ShipOrder(ctx context.Context, sellerID, orderID string) error {
	o, err := s.Orders.Get(sellerID, orderID)
	if err != nil {
		return err
	}
	if o.Status != domain.OrderPending {
		return errors.New("only pending orders can be shipped")
	}
	if err := s.Orders.UpdateStatus(sellerID, orderID, domain.OrderShipped); err != nil {
		return err
	}
	return s.RefreshOrders(sellerID)
}

package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"sellerhub/internal/grid"
	"sellerhub/internal/repos"
	"sellerhub/internal/services"
)

func newViews(t *testing.T) (*services.ViewService, *repos.ProductRepo, *repos.OrderRepo) {
	t.Helper()
	db := memdb(t)
	prodRepo := repos.NewProductRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	return services.NewViewService(prodRepo, orderRepo), prodRepo, orderRepo
}

func TestFormatUSD(t *testing.T) {
	cases := map[string]string{
		"1500":    "$1,500",
		"70":      "$70",
		"129.99":  "$129.99",
		"1234.5":  "$1,234.5",
		"1234.50": "$1,234.5",
		"0.1":     "$0.1",
		"99.999":  "$100",
	}
	for in, want := range cases {
		if got := services.FormatUSD(decimal.RequireFromString(in)); got != want {
			t.Fatalf("FormatUSD(%s): want %q, got %q", in, want, got)
		}
	}
}

// First callers racing on a fresh grid must all see the loaded snapshot,
// never a just-published empty one.
func TestProductGrid_FirstLoadPublishedComplete(t *testing.T) {
	views, _, _ := newViews(t)
	var wg sync.WaitGroup
	totals := make([]int, 8)
	for i := range totals {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g, err := views.ProductGrid(repos.DemoSellerID)
			if err != nil {
				t.Error(err)
				return
			}
			totals[i] = g.Page().Total
		}(i)
	}
	wg.Wait()
	for i, n := range totals {
		if n != 11 {
			t.Fatalf("caller %d observed %d rows, want 11", i, n)
		}
	}
}

func TestProductGrid_SeededSnapshot(t *testing.T) {
	views, _, _ := newViews(t)
	g, err := views.ProductGrid(repos.DemoSellerID)
	if err != nil {
		t.Fatal(err)
	}
	v := g.Page()
	if v.Total != 11 {
		t.Fatalf("want 11 seeded products, got %d", v.Total)
	}
	if v.PageSize != grid.DefaultPageSize || len(v.Rows) != 10 {
		t.Fatalf("want default first page of 10, got size=%d rows=%d", v.PageSize, len(v.Rows))
	}
}

// Derived statuses: 0 -> Out of Stock, 1-9 -> Low Stock, >=10 -> Active.
func TestProductGrid_DerivedStatusAndFormattedPrice(t *testing.T) {
	views, _, _ := newViews(t)
	g, err := views.ProductGrid(repos.DemoSellerID)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetPageSize(50); err != nil {
		t.Fatal(err)
	}
	byName := map[string]services.ProductRow{}
	for _, r := range g.Page().Rows {
		byName[r.Name] = r
	}

	cases := []struct {
		name, status, price string
		stock               int
	}{
		{"Organic Face Cream", "Out of Stock", "$200", 0},
		{"Bamboo Cutting Board", "Low Stock", "$20", 5},
		{"Smart Home Speaker", "Low Stock", "$120", 8},
		{"Wireless Earbuds", "Active", "$70", 12},
		{"High-Performance Laptop", "Active", "$1,500", 10},
	}
	for _, tc := range cases {
		row, ok := byName[tc.name]
		if !ok {
			t.Fatalf("row %q missing", tc.name)
		}
		if row.Status != tc.status || row.Price != tc.price || row.Stock != tc.stock {
			t.Fatalf("%s: want (%s, %s, %d), got (%s, %s, %d)",
				tc.name, tc.status, tc.price, tc.stock, row.Status, row.Price, row.Stock)
		}
	}
}

func TestProductGrid_GlobalFilterWireless(t *testing.T) {
	views, _, _ := newViews(t)
	g, err := views.ProductGrid(repos.DemoSellerID)
	if err != nil {
		t.Fatal(err)
	}
	g.SetGlobalFilter("wireless")
	v := g.Page()
	if v.Filtered != 1 || v.Rows[0].Name != "Wireless Earbuds" {
		t.Fatalf("want exactly Wireless Earbuds, got %+v", v.Rows)
	}
	if v.Rows[0].Status != "Active" {
		t.Fatalf("stock 12 must derive Active, got %q", v.Rows[0].Status)
	}
}

func TestProductGrid_CategoryFilterElectronics(t *testing.T) {
	views, _, _ := newViews(t)
	g, err := views.ProductGrid(repos.DemoSellerID)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.SetColumnFilter("category", "Electronics"); err != nil {
		t.Fatal(err)
	}
	v := g.Page()
	want := []string{"Wireless Earbuds", "Smart Home Speaker", "Noise-Cancelling Headphones", "High-Performance Laptop"}
	if v.Filtered != len(want) {
		t.Fatalf("want %d rows, got %d", len(want), v.Filtered)
	}
	for i, name := range want {
		if v.Rows[i].Name != name {
			t.Fatalf("row %d: want %q (source order), got %q", i, name, v.Rows[i].Name)
		}
	}
}

func TestBulkDeleteProducts_RemovesFromStoreAndGrid(t *testing.T) {
	views, prodRepo, _ := newViews(t)
	g, err := views.ProductGrid(repos.DemoSellerID)
	if err != nil {
		t.Fatal(err)
	}
	g.ToggleSelect("p-001", "p-002")

	n, err := views.BulkDeleteProducts(context.Background(), repos.DemoSellerID)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("want 2 deleted, got %d", n)
	}
	if v := g.Page(); v.Total != 9 || v.Selected != 0 {
		t.Fatalf("grid must drop rows and clear selection, got total=%d selected=%d", v.Total, v.Selected)
	}
	left, err := prodRepo.CountBySeller(repos.DemoSellerID)
	if err != nil {
		t.Fatal(err)
	}
	if left != 9 {
		t.Fatalf("store must hold 9 products, got %d", left)
	}
}

func TestBulkDeleteProducts_EmptySelection(t *testing.T) {
	views, _, _ := newViews(t)
	if _, err := views.ProductGrid(repos.DemoSellerID); err != nil {
		t.Fatal(err)
	}
	_, err := views.BulkDeleteProducts(context.Background(), repos.DemoSellerID)
	if !errors.Is(err, grid.ErrNoSelection) {
		t.Fatalf("want ErrNoSelection, got %v", err)
	}
}

func TestBulkUpdateProducts_RefreshesDerivedState(t *testing.T) {
	views, _, _ := newViews(t)
	g, err := views.ProductGrid(repos.DemoSellerID)
	if err != nil {
		t.Fatal(err)
	}
	g.ToggleSelect("p-005") // Organic Face Cream, stock 0

	stock := 40
	price := decimal.RequireFromString("250")
	n, err := views.BulkUpdateProducts(context.Background(), repos.DemoSellerID, &stock, &price)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("want 1 updated, got %d", n)
	}
	if err := g.SetPageSize(50); err != nil {
		t.Fatal(err)
	}
	for _, r := range g.Page().Rows {
		if r.ID != "p-005" {
			continue
		}
		if r.Stock != 40 || r.Status != "Active" || r.Price != "$250" {
			t.Fatalf("derived state must follow the update, got %+v", r)
		}
		return
	}
	t.Fatal("updated row missing from grid")
}

func TestOrderGrid_StatusTabAndShip(t *testing.T) {
	views, _, orderRepo := newViews(t)
	g, err := views.OrderGrid(repos.DemoSellerID)
	if err != nil {
		t.Fatal(err)
	}
	if v := g.Page(); v.Total != 6 {
		t.Fatalf("want 6 seeded orders, got %d", v.Total)
	}
	if err := g.SetColumnFilter("status", "Pending"); err != nil {
		t.Fatal(err)
	}
	v := g.Page()
	if v.Filtered != 1 || v.Rows[0].ID != "Ord-01" {
		t.Fatalf("want the one pending order, got %+v", v.Rows)
	}

	if err := views.ShipOrder(context.Background(), repos.DemoSellerID, "Ord-01"); err != nil {
		t.Fatal(err)
	}
	if v := g.Page(); v.Filtered != 0 {
		t.Fatalf("shipped order must leave the Pending tab, got %d rows", v.Filtered)
	}
	o, err := orderRepo.Get(repos.DemoSellerID, "Ord-01")
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != "Shipped" {
		t.Fatalf("want Shipped, got %q", o.Status)
	}

	// Only pending orders may ship.
	if err := views.ShipOrder(context.Background(), repos.DemoSellerID, "Ord-03"); err == nil {
		t.Fatal("shipping a delivered order must fail")
	}
}

func TestOrderGrid_GlobalFilterByIDAndBuyer(t *testing.T) {
	views, _, _ := newViews(t)
	g, err := views.OrderGrid(repos.DemoSellerID)
	if err != nil {
		t.Fatal(err)
	}
	g.SetGlobalFilter("ord-02")
	if v := g.Page(); v.Filtered != 1 || v.Rows[0].Item != "Bluetooth Keyboard" {
		t.Fatalf("want Ord-02, got %+v", v.Rows)
	}
	g.SetGlobalFilter("mike")
	if v := g.Page(); v.Filtered != 6 {
		t.Fatalf("buyer search must match all 6, got %d", v.Filtered)
	}
	// Item names are not globally searchable.
	g.SetGlobalFilter("webcam")
	if v := g.Page(); v.Filtered != 0 {
		t.Fatalf("item column must not match, got %d", v.Filtered)
	}
}

package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

const (
	StatusDraft     = "DRAFT"
	StatusPublished = "PUBLISHED"
)

// Stock statuses derived from quantity; never stored.
const (
	StockActive = "Active"
	StockLow    = "Low Stock"
	StockOut    = "Out of Stock"
)

var Categories = []string{"Apparel", "Accessories", "Electronics", "Home Goods", "Health & Beauty"}

type Product struct {
	ID                string              `db:"id"`
	SellerID          string              `db:"seller_id"`
	Title             string              `db:"title"`
	Description       string              `db:"description"`
	ImagesJSON        string              `db:"images_json"`
	Category          string              `db:"category"`
	SpecsJSON         string              `db:"specs_json"`
	Price             decimal.Decimal     `db:"price"`
	SalePrice         decimal.NullDecimal `db:"sale_price"`
	Quantity          int                 `db:"quantity"`
	SKU               string              `db:"sku"`
	EnableNegotiation bool                `db:"enable_negotiation"`
	SEOTitle          string              `db:"seo_title"`
	SEODescription    string              `db:"seo_description"`
	Status            string              `db:"status"`
	CreatedAt         string              `db:"created_at"`
	UpdatedAt         string              `db:"updated_at"`

	Tags []Tag `db:"-"`
}

// Images decodes the stored JSON array; a corrupt column yields nil.
func (p Product) Images() []string {
	var out []string
	_ = json.Unmarshal([]byte(p.ImagesJSON), &out)
	return out
}

func (p Product) Specifications() map[string]string {
	var out map[string]string
	_ = json.Unmarshal([]byte(p.SpecsJSON), &out)
	return out
}

type Tag struct {
	Name string `db:"name"`
}

// StockStatus maps quantity to the badge shown in the products table.
func StockStatus(qty int) string {
	switch {
	case qty == 0:
		return StockOut
	case qty < 10:
		return StockLow
	}
	return StockActive
}

// ProductSubmission is the loosely-typed create-product payload. Every
// numeric field is optional at this boundary so validation can tell
// "absent" from "zero".
type ProductSubmission struct {
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Images            []string          `json:"images"`
	Category          string            `json:"category"`
	Specifications    map[string]string `json:"specifications"`
	Price             *decimal.Decimal  `json:"price"`
	SalePrice         *decimal.Decimal  `json:"salePrice"`
	Quantity          *int              `json:"quantity"`
	SKU               string            `json:"sku"`
	EnableNegotiation bool              `json:"enableNegotiation"`
	SEOTitle          string            `json:"seoTitle"`
	SEODescription    string            `json:"seoDescription"`
	Tags              []string          `json:"tags"`
	Status            string            `json:"status"`
	SellerID          string            `json:"sellerId"`
}

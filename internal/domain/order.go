package domain

import "github.com/shopspring/decimal"

const (
	OrderPending   = "Pending"
	OrderShipped   = "Shipped"
	OrderDelivered = "Delivered"
	OrderCancelled = "Cancelled"
)

type Order struct {
	ID        string          `db:"id"`
	SellerID  string          `db:"seller_id"`
	OrderDate string          `db:"order_date"`
	BuyerName string          `db:"buyer_name"`
	Amount    decimal.Decimal `db:"amount"`
	Status    string          `db:"status"`
	Item      string          `db:"item"`
}

package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"sellerhub/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

func (r *OrderRepo) ListBySeller(sellerID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.Select(&out, `
	  SELECT id, seller_id, order_date, buyer_name, amount, status, item
	  FROM orders
	  WHERE seller_id = ?
	  ORDER BY order_date DESC, id
	`, sellerID)
	return out, err
}

func (r *OrderRepo) Get(sellerID, id string) (domain.Order, error) {
	var o domain.Order
	err := r.db.Get(&o, `
	  SELECT id, seller_id, order_date, buyer_name, amount, status, item
	  FROM orders
	  WHERE seller_id = ? AND id = ?
	`, sellerID, id)
	return o, err
}

// UpdateStatus moves an order between fulfillment states; a missing row
// surfaces as sql.ErrNoRows.
func (r *OrderRepo) UpdateStatus(sellerID, id, status string) error {
	res, err := r.db.Exec(`UPDATE orders SET status=? WHERE seller_id=? AND id=?`, status, sellerID, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *OrderRepo) CountBySeller(sellerID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM orders WHERE seller_id=?`, sellerID)
	return n, err
}

package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"sellerhub/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `
  id, seller_id, title, description, images_json, category, specs_json,
  price, sale_price, quantity, sku, enable_negotiation, seo_title, seo_description,
  status, created_at, COALESCE(updated_at,'') AS updated_at`

// BySKU returns (nil, nil) when no product carries the sku.
func (r *ProductRepo) BySKU(sku string) (*domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE sku = ?`, sku)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) ListBySeller(sellerID string) ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE seller_id = ?
	  ORDER BY created_at, id
	`, sellerID)
	return out, err
}

// Create inserts the product and its tag relations in one transaction. Tags
// are connected by natural key and created on first reference.
func (r *ProductRepo) Create(p domain.Product, tags []string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.NamedExec(`
	  INSERT INTO products(
	    id, seller_id, title, description, images_json, category, specs_json,
	    price, sale_price, quantity, sku, enable_negotiation, seo_title, seo_description, status
	  ) VALUES (
	    :id, :seller_id, :title, :description, :images_json, :category, :specs_json,
	    :price, :sale_price, :quantity, :sku, :enable_negotiation, :seo_title, :seo_description, :status
	  )`, p); err != nil {
		return err
	}

	for _, name := range tags {
		if err := upsertConnectTag(tx, p.ID, name); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// upsertConnectTag creates the tag if absent and attaches it to the product.
func upsertConnectTag(tx *sqlx.Tx, productID, name string) error {
	if _, err := tx.Exec(`INSERT INTO tags(name) VALUES(?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
		return err
	}
	_, err := tx.Exec(`INSERT INTO product_tags(product_id, tag_name) VALUES(?,?)
	                   ON CONFLICT(product_id, tag_name) DO NOTHING`, productID, name)
	return err
}

func (r *ProductRepo) TagsFor(productID string) ([]domain.Tag, error) {
	var out []domain.Tag
	err := r.db.Select(&out, `
	  SELECT t.name FROM tags t
	  JOIN product_tags pt ON pt.tag_name = t.name
	  WHERE pt.product_id = ?
	  ORDER BY t.name
	`, productID)
	return out, err
}

// DeleteByIDs removes the seller's products in one statement and returns how
// many rows went away. Ids owned by other sellers are ignored.
func (r *ProductRepo) DeleteByIDs(sellerID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM products WHERE seller_id = ? AND id IN (?)`, sellerID, ids)
	if err != nil {
		return 0, err
	}
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// BulkUpdate sets quantity and/or price on the given products. Nil fields
// keep their current values.
func (r *ProductRepo) BulkUpdate(sellerID string, ids []string, quantity *int, price *decimal.Decimal) error {
	if len(ids) == 0 || (quantity == nil && price == nil) {
		return nil
	}
	set := ""
	args := []any{}
	if quantity != nil {
		set += "quantity=?"
		args = append(args, *quantity)
	}
	if price != nil {
		if set != "" {
			set += ","
		}
		set += "price=?"
		args = append(args, *price)
	}
	args = append(args, sellerID)
	query, inArgs, err := sqlx.In(`UPDATE products SET `+set+`,updated_at=CURRENT_TIMESTAMP WHERE seller_id = ? AND id IN (?)`, append(args, ids)...)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(query, inArgs...)
	return err
}

func (r *ProductRepo) CountBySeller(sellerID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM products WHERE seller_id=?`, sellerID)
	return n, err
}

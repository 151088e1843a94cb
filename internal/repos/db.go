package repos

import (
	"database/sql"
	"errors"
	"log"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo catalog/orders if DB is empty (idempotent; safe to run every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}

	return db, nil
}

// IsUniqueViolation reports whether err came from a UNIQUE constraint.
// Conflicts are expected outcomes (replayed webhooks, duplicate SKUs), so
// callers branch on this instead of failing.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsNotFound reports whether a mutation targeted a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users (ids issued by the external identity provider, never locally)
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  api_key_hash TEXT NOT NULL DEFAULT '',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

-- Products
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  title TEXT NOT NULL,
  description TEXT NOT NULL,
  images_json TEXT NOT NULL DEFAULT '[]',
  category TEXT NOT NULL,
  specs_json TEXT NOT NULL DEFAULT '{}',
  price NUMERIC NOT NULL CHECK (price > 0),
  sale_price NUMERIC,
  quantity INTEGER NOT NULL CHECK (quantity >= 0),
  sku TEXT NOT NULL UNIQUE,
  enable_negotiation INTEGER NOT NULL DEFAULT 0,
  seo_title TEXT NOT NULL DEFAULT '',
  seo_description TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL CHECK (status IN ('DRAFT','PUBLISHED')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_seller   ON products(seller_id);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);

-- Tags (natural key; shared across products)
CREATE TABLE IF NOT EXISTS tags(
  name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS product_tags(
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  tag_name   TEXT NOT NULL REFERENCES tags(name) ON DELETE CASCADE,
  PRIMARY KEY (product_id, tag_name)
);

-- Orders (view-only snapshot for the seller dashboard)
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  seller_id TEXT NOT NULL,
  order_date TEXT NOT NULL,
  buyer_name TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  status TEXT NOT NULL CHECK (status IN ('Pending','Shipped','Delivered','Cancelled')),
  item TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_seller ON orders(seller_id);
`
	_, err := db.Exec(schema)
	return err
}

const DemoSellerID = "user_seed_demo_seller"

// DemoAPIKey is the plaintext key matching the seeded seller's hash. Dev
// convenience only; webhook-synced users get keys through the admin route.
const DemoAPIKey = "sellerhub-demo-key"

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo seller/products/orders")

	hash, _ := bcrypt.GenerateFromPassword([]byte(DemoAPIKey), 10)

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO users(id,email,name,api_key_hash) VALUES(?,?,?,?)
	             ON CONFLICT(id) DO NOTHING`,
		DemoSellerID, "seller@sellerhub.test", "Demo Seller", string(hash))

	tx.MustExec(`INSERT INTO products(id,seller_id,title,description,images_json,category,price,quantity,sku,status) VALUES
	  ('p-001',?,'Premium Cotton T-Shirt','Soft heavyweight tee','["products/p-001/main.jpg"]','Apparel',100,200,'TS-001','PUBLISHED'),
	  ('p-002',?,'Leather Wallet','Full-grain bifold wallet','["products/p-002/main.jpg"]','Accessories',50,200,'WL-002','PUBLISHED'),
	  ('p-003',?,'Wireless Earbuds','Bluetooth 5.3 earbuds','["products/p-003/main.jpg"]','Electronics',70,12,'EB-003','PUBLISHED'),
	  ('p-004',?,'Handcrafted Ceramic Mug','Hand-thrown stoneware mug','["products/p-004/main.jpg"]','Home Goods',60,32,'MG-004','PUBLISHED'),
	  ('p-005',?,'Organic Face Cream','Fragrance-free day cream','["products/p-005/main.jpg"]','Health & Beauty',200,0,'OF-005','PUBLISHED'),
	  ('p-006',?,'Bamboo Cutting Board','End-grain bamboo board','["products/p-006/main.jpg"]','Home Goods',20,5,'CB-006','PUBLISHED'),
	  ('p-007',?,'Ergonomic Desk Chair','Mesh back, adjustable arms','["products/p-007/main.jpg"]','Home Goods',350,15,'DC-007','PUBLISHED'),
	  ('p-008',?,'Smart Home Speaker','Voice assistant speaker','["products/p-008/main.jpg"]','Electronics',120,8,'SH-008','PUBLISHED'),
	  ('p-009',?,'Stainless Steel Water Bottle','Insulated 750ml bottle','["products/p-009/main.jpg"]','Accessories',25,50,'WB-009','PUBLISHED'),
	  ('p-010',?,'Noise-Cancelling Headphones','Over-ear ANC headphones','["products/p-010/main.jpg"]','Electronics',180,0,'NC-010','PUBLISHED'),
	  ('p-011',?,'High-Performance Laptop','14-inch creator laptop','["products/p-011/main.jpg"]','Electronics',1500,10,'HP-011','PUBLISHED')`,
		DemoSellerID, DemoSellerID, DemoSellerID, DemoSellerID, DemoSellerID, DemoSellerID,
		DemoSellerID, DemoSellerID, DemoSellerID, DemoSellerID, DemoSellerID)

	tx.MustExec(`INSERT INTO orders(id,seller_id,order_date,buyer_name,amount,status,item) VALUES
	  ('Ord-01',?,'2025-05-15','Mike Turner',200,'Pending','Wireless Mouse'),
	  ('Ord-02',?,'2025-05-14','Mike Turner',100,'Shipped','Bluetooth Keyboard'),
	  ('Ord-03',?,'2025-05-14','Mike Turner',300,'Delivered','27" Monitor'),
	  ('Ord-04',?,'2025-05-13','Mike Turner',100,'Cancelled','USB-C Hub'),
	  ('Ord-05',?,'2025-05-15','Mike Turner',500,'Delivered','Laptop Stand'),
	  ('Ord-06',?,'2025-05-15','Mike Turner',50,'Delivered','Webcam Cover')`,
		DemoSellerID, DemoSellerID, DemoSellerID, DemoSellerID, DemoSellerID, DemoSellerID)

	return tx.Commit()
}

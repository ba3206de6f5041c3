package db

// SchemaStatements is the canonical sqlite DDL for the storefront tables.
// The goose migrations carry the same statements; tests use this slice to
// build throwaway stores without walking the migrations directory.
var SchemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
  user_id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'USER',
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS products (
  product_id INTEGER PRIMARY KEY AUTOINCREMENT,
  parent_product_id INTEGER REFERENCES products(product_id) ON DELETE SET NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL,
  category TEXT NOT NULL,
  price NUMERIC NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  rating REAL NOT NULL DEFAULT 0,
  reviews TEXT NOT NULL DEFAULT '[]',
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS product_accessories (
  product_id INTEGER NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
  accessory_id INTEGER NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
  PRIMARY KEY (product_id, accessory_id)
);`,
	`CREATE TABLE IF NOT EXISTS cart_items (
  cart_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, product_id)
);`,
	`CREATE TABLE IF NOT EXISTS orders (
  order_id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  order_date DATETIME NOT NULL,
  order_status TEXT NOT NULL DEFAULT 'NEW',
  total_amount NUMERIC NOT NULL,
  shipping_address TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
	// order_items deliberately carries no FK to products: orders must keep
	// their frozen lines even after the product row is deleted.
	`CREATE TABLE IF NOT EXISTS order_items (
  order_item_id INTEGER PRIMARY KEY AUTOINCREMENT,
  order_id INTEGER NOT NULL REFERENCES orders(order_id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  price_at_order_time NUMERIC NOT NULL
);`,
	`CREATE TABLE IF NOT EXISTS reviews (
  review_id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
  product_id INTEGER NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
  rating INTEGER NOT NULL,
  comment TEXT NOT NULL,
  created_at DATETIME
);`,
}

// CreateSchema applies the sqlite schema to the client's connection.
func (c *Client) CreateSchema() error {
	for _, stmt := range SchemaStatements {
		if err := c.conn.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

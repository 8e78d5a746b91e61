package shopmcp_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rickchristie/govner/pgflock/client"
	shopmcp "github.com/rickchristie/shop-mcp"
	"github.com/rs/zerolog"
)

const (
	pgflockLockerPort = 9776
	pgflockPassword   = "pgflock"
)

func acquireTestDB(t *testing.T) string {
	t.Helper()
	connStr, err := client.Lock(pgflockLockerPort, t.Name(), pgflockPassword)
	if err != nil {
		t.Fatalf("Failed to acquire test database: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Unlock(pgflockLockerPort, pgflockPassword, connStr)
	})
	return connStr
}

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func defaultConfig() shopmcp.Config {
	return shopmcp.Config{
		Pool:  shopmcp.PoolConfig{MaxConns: 5},
		Store: shopmcp.StoreConfig{OpTimeoutSeconds: 30},
	}
}

func newTestInstance(t *testing.T, config shopmcp.Config) (*shopmcp.ShopMcp, string) {
	t.Helper()
	connStr := acquireTestDB(t)
	setupSchema(t, connStr)
	ctx := context.Background()
	s, err := shopmcp.New(ctx, connStr, config, testLogger())
	if err != nil {
		t.Fatalf("Failed to create ShopMcp: %v", err)
	}
	t.Cleanup(func() { s.Close(ctx) })
	return s, connStr
}

// setupSchema creates the store tables on a fresh test database.
func setupSchema(t *testing.T, connStr string) {
	t.Helper()
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect for schema setup: %v", err)
	}
	defer conn.Close(ctx)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id text PRIMARY KEY,
			name text NOT NULL,
			email text NOT NULL UNIQUE,
			phone_number text,
			shipping_address text
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id text PRIMARY KEY,
			product_name text NOT NULL,
			description text,
			price numeric(10,2) NOT NULL,
			stock_quantity integer NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id text PRIMARY KEY,
			user_id text NOT NULL REFERENCES users(user_id),
			product_id text NOT NULL REFERENCES products(product_id),
			quantity integer NOT NULL,
			purchase_date date NOT NULL,
			status text NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			t.Fatalf("Failed to create schema: %v", err)
		}
	}
}

// execSQL runs a statement directly against the test database, outside the
// engine, for seeding and verification.
func execSQL(t *testing.T, connStr, sql string, args ...any) {
	t.Helper()
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close(ctx)
	if _, err := conn.Exec(ctx, sql, args...); err != nil {
		t.Fatalf("Failed to exec %q: %v", sql, err)
	}
}

// queryOneInt reads a single integer value directly from the test database.
func queryOneInt(t *testing.T, connStr, sql string, args ...any) int {
	t.Helper()
	ctx := context.Background()
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close(ctx)
	var n int
	if err := conn.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		t.Fatalf("Failed to query %q: %v", sql, err)
	}
	return n
}

func seedUser(t *testing.T, connStr, userID, name, email string) {
	t.Helper()
	execSQL(t, connStr,
		"INSERT INTO users (user_id, name, email) VALUES ($1, $2, $3)",
		userID, name, email)
}

func seedProduct(t *testing.T, connStr, productID, name string, price float64, stock int) {
	t.Helper()
	execSQL(t, connStr,
		"INSERT INTO products (product_id, product_name, price, stock_quantity) VALUES ($1, $2, $3, $4)",
		productID, name, price, stock)
}

func seedOrder(t *testing.T, connStr, orderID, userID, productID string, quantity int, purchaseDate string) {
	t.Helper()
	execSQL(t, connStr,
		"INSERT INTO orders (order_id, user_id, product_id, quantity, purchase_date, status) VALUES ($1, $2, $3, $4, $5, 'submitted')",
		orderID, userID, productID, quantity, purchaseDate)
}

package database

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/fekuna/omnipos-inventory-web/internal/auth"
	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const (
	DemoUserName     = "Demo User"
	DemoUserEmail    = "demo@example.com"
	DemoUserPassword = "password123"

	// salesProductCount is how many catalog products get random sales history.
	salesProductCount = 8
)

type demoProduct struct {
	Name        string
	Category    string
	Price       string
	Quantity    int
	Description string
}

type demoItem struct {
	Product  int // index into DemoProducts
	Quantity int
}

type demoOrder struct {
	OrderID        string
	CustomerName   string
	OrderDate      time.Time
	Status         string
	TrackingNumber string
	Items          []demoItem
}

var DemoProducts = []demoProduct{
	{"MacBook Pro 15\"", "Electronics", "2499.99", 15, "High-performance laptop for professionals"},
	{"iMac Pro 2019", "Electronics", "4999.99", 8, "All-in-one desktop computer"},
	{"iPad Pro with Apple Pencil", "Electronics", "1299.99", 25, "Professional tablet with stylus"},
	{"MacBook Pro 13\"", "Electronics", "1799.99", 20, "Compact professional laptop"},
	{"iPhone 14 Pro", "Electronics", "999.99", 50, "Latest smartphone with advanced camera"},
	{"AirPods Pro", "Electronics", "249.99", 75, "Wireless noise-cancelling earbuds"},
	{"Apple Watch Series 8", "Electronics", "399.99", 30, "Advanced smartwatch with health tracking"},
	{"Gaming Laptop", "Electronics", "1299.99", 8, "High-performance gaming laptop with RGB keyboard"},
	{"Cotton T-Shirt", "Clothing", "24.99", 45, "Comfortable 100% cotton t-shirt"},
	{"Python Programming Book", "Books", "39.99", 25, "Learn Python programming from scratch"},
}

var demoOrders = []demoOrder{
	{"#2018078", "Brentia Hoyas", date(2019, 8, 21), model.OrderStatusDelivered, "DCRUY", []demoItem{{0, 2}, {5, 4}, {9, 3}}},
	{"#2018079", "Ted Holder", date(2019, 6, 24), model.OrderStatusCheckback, "JHKKL", []demoItem{{1, 1}}},
	{"#2018083", "Share W&C", date(2019, 8, 29), model.OrderStatusDelivered, "KJKQ", []demoItem{{3, 2}, {8, 10}}},
	{"#2018084", "Duelal Mask", date(2019, 12, 10), model.OrderStatusPending, "BOJKL", []demoItem{{4, 3}, {6, 2}}},
	{"#2018085", "Earth Mujian", date(2019, 11, 21), model.OrderStatusDelivered, "WKUX", []demoItem{{2, 4}, {5, 2}}},
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Seeder writes the fixed demo data set plus randomly generated sales history.
type Seeder struct {
	rng *rand.Rand
	now func() time.Time
}

func NewSeeder(rng *rand.Rand) *Seeder {
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Seeder{rng: rng, now: time.Now}
}

// Seed inserts the demo user, catalog, orders and sales using q,
// which is normally the transaction of a reset.
func (s *Seeder) Seed(ctx context.Context, q sqlx.ExtContext) error {
	hash, err := auth.HashPassword(DemoUserPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO users (name, email, password_hash, image_url) VALUES ($1, $2, $3, $4)`,
		DemoUserName, DemoUserEmail, hash, model.DefaultAvatarURL)
	if err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}

	productIDs := make([]int64, len(DemoProducts))
	prices := make([]decimal.Decimal, len(DemoProducts))
	for i, p := range DemoProducts {
		price := decimal.RequireFromString(p.Price)
		prices[i] = price
		err := sqlx.GetContext(ctx, q, &productIDs[i],
			`INSERT INTO products (name, category, price, quantity, description) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			p.Name, p.Category, price, p.Quantity, p.Description)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", p.Name, err)
		}
	}

	for _, o := range demoOrders {
		if err := s.seedOrder(ctx, q, o, productIDs, prices); err != nil {
			return err
		}
	}

	for _, sale := range s.generateSales(productIDs, prices) {
		_, err := q.ExecContext(ctx,
			`INSERT INTO sales (product_id, quantity_sold, sale_price, sale_date) VALUES ($1, $2, $3, $4)`,
			sale.ProductID, sale.QuantitySold, sale.SalePrice, sale.SaleDate)
		if err != nil {
			return fmt.Errorf("seed sale: %w", err)
		}
	}

	return nil
}

func (s *Seeder) seedOrder(ctx context.Context, q sqlx.ExtContext, o demoOrder, productIDs []int64, prices []decimal.Decimal) error {
	amount := demoOrderAmount(o, prices)

	var orderID int64
	err := sqlx.GetContext(ctx, q, &orderID,
		`INSERT INTO orders (order_id, customer_name, order_date, amount, status, tracking_number)
         VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		o.OrderID, o.CustomerName, o.OrderDate, amount, o.Status, o.TrackingNumber)
	if err != nil {
		return fmt.Errorf("seed order %s: %w", o.OrderID, err)
	}

	for _, item := range o.Items {
		_, err := q.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4)`,
			orderID, productIDs[item.Product], item.Quantity, prices[item.Product])
		if err != nil {
			return fmt.Errorf("seed order item for %s: %w", o.OrderID, err)
		}
		_, err = q.ExecContext(ctx,
			`UPDATE products SET quantity = quantity - $1 WHERE id = $2`,
			item.Quantity, productIDs[item.Product])
		if err != nil {
			return fmt.Errorf("seed stock for %s: %w", o.OrderID, err)
		}
	}
	return nil
}

func demoOrderAmount(o demoOrder, prices []decimal.Decimal) decimal.Decimal {
	amount := decimal.Zero
	for _, item := range o.Items {
		amount = amount.Add(prices[item.Product].Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return amount
}

// generateSales builds 5-15 sales for each of the first salesProductCount
// products, priced at 85-95% of list and dated within the last 180 days.
func (s *Seeder) generateSales(productIDs []int64, prices []decimal.Decimal) []model.Sale {
	now := s.now().UTC()
	n := min(salesProductCount, len(productIDs))

	var sales []model.Sale
	for i := 0; i < n; i++ {
		count := 5 + s.rng.IntN(11)
		for j := 0; j < count; j++ {
			factor := decimal.NewFromFloat(0.85 + s.rng.Float64()*0.10)
			sales = append(sales, model.Sale{
				ProductID:    productIDs[i],
				QuantitySold: 1 + s.rng.IntN(3),
				SalePrice:    prices[i].Mul(factor).Round(2),
				SaleDate:     now.AddDate(0, 0, -(1 + s.rng.IntN(180))),
			})
		}
	}
	return sales
}

// Reset drops and recreates the schema, then seeds it, in one transaction.
func Reset(ctx context.Context, db *sqlx.DB, seeder *Seeder) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := DropSchema(ctx, tx); err != nil {
		return err
	}
	if err := CreateSchema(ctx, tx); err != nil {
		return err
	}
	if err := seeder.Seed(ctx, tx); err != nil {
		return err
	}

	return tx.Commit()
}

// Init creates missing tables and seeds the demo data unless the demo user
// already exists. It reports whether seeding happened.
func Init(ctx context.Context, db *sqlx.DB, seeder *Seeder) (bool, error) {
	if err := CreateSchema(ctx, db); err != nil {
		return false, err
	}

	var exists bool
	if err := db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, DemoUserEmail); err != nil {
		return false, fmt.Errorf("check demo user: %w", err)
	}
	if exists {
		return false, nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if err := seeder.Seed(ctx, tx); err != nil {
		return false, err
	}
	return true, tx.Commit()
}

//go:build integration

package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-inventory-web/internal/database"
	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/order"
	"github.com/fekuna/omnipos-inventory-web/internal/order/dto"
	orderRepo "github.com/fekuna/omnipos-inventory-web/internal/order/repository"
	productRepo "github.com/fekuna/omnipos-inventory-web/internal/product/repository"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("inventory"),
		postgres.WithUsername("inventory"),
		postgres.WithPassword("inventory"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("terminate postgres: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sqlx.Connect("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func count(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM "+table))
	return n
}

func TestInitSeedsOnce(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	seeded, err := database.Init(ctx, db, database.NewSeeder(nil))
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = database.Init(ctx, db, database.NewSeeder(nil))
	require.NoError(t, err)
	assert.False(t, seeded)

	assert.Equal(t, 1, count(t, db, "users"))
	assert.Equal(t, len(database.DemoProducts), count(t, db, "products"))
	assert.Equal(t, 5, count(t, db, "orders"))
	assert.Positive(t, count(t, db, "sales"))

	// 15 in catalog less 2 on the first demo order.
	var qty int
	require.NoError(t, db.Get(&qty, `SELECT quantity FROM products WHERE name = $1`, database.DemoProducts[0].Name))
	assert.Equal(t, 13, qty)
}

func TestResetRestoresDemoData(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	_, err := database.Init(ctx, db, database.NewSeeder(nil))
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM sales`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (name, email, password_hash) VALUES ('Extra', 'extra@example.com', 'x')`)
	require.NoError(t, err)

	require.NoError(t, database.Reset(ctx, db, database.NewSeeder(nil)))

	assert.Equal(t, 1, count(t, db, "users"))
	assert.Equal(t, 5, count(t, db, "orders"))
	assert.Positive(t, count(t, db, "sales"))
}

func TestOrderStockRoundTrip(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	require.NoError(t, database.CreateSchema(ctx, db))

	products := productRepo.NewPGRepository(db)
	orders := orderRepo.NewPGRepository(db)

	now := time.Now().UTC()
	p := &model.Product{
		BaseModel: model.BaseModel{CreatedAt: now, UpdatedAt: now},
		Name:      "Widget",
		Category:  "Tools",
		Price:     decimal.RequireFromString("2.50"),
		Quantity:  10,
	}
	require.NoError(t, products.Create(ctx, p))

	newOrder := func(id string) *model.Order {
		return &model.Order{
			BaseModel:    model.BaseModel{CreatedAt: now, UpdatedAt: now},
			OrderID:      id,
			CustomerName: "Ada",
			OrderDate:    now,
			Status:       model.OrderStatusPending,
		}
	}

	_, err := orders.Create(ctx, newOrder("#1"), []dto.OrderLine{{ProductID: p.ID, Quantity: 12}})
	var stockErr *order.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 10, stockErr.Available)
	assert.Equal(t, 0, count(t, db, "orders"))

	o := newOrder("#2")
	items, err := orders.Create(ctx, o, []dto.OrderLine{{ProductID: p.ID, Quantity: 4}})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "10.00", o.Amount.StringFixed(2))

	got, err := products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)

	restored, err := orders.Delete(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, restored)

	got, err = products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)
	assert.Equal(t, 0, count(t, db, "order_items"))
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	productCols = []string{"id", "name", "category", "price", "quantity", "description", "created_at", "updated_at"}
	orderCols   = []string{"id", "order_id", "customer_name", "customer_email", "customer_phone", "order_date", "amount", "status", "tracking_number", "shipping_address", "notes", "created_at", "updated_at"}
)

func newMockRepo(t *testing.T) (*PGRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })
	return NewPGRepository(sqlx.NewDb(mockDB, "postgres")), mock
}

func TestSnapshot(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM products ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(int64(1), "Laptop", "Electronics", "1000.00", 3, "", now, now))
	mock.ExpectQuery("SELECT \\* FROM orders ORDER BY order_date DESC").
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(int64(1), "#1", "Ada", "", "", now, "99.90", "Pending", "", "", "", now, now))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT p.name, SUM\\(s.quantity_sold\\) AS total_sold").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"name", "total_sold"}).AddRow("Laptop", int64(12)))
	mock.ExpectCommit()

	s, err := repo.Snapshot(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, s.Products, 1)
	require.Len(t, s.Orders, 1)
	assert.Equal(t, "99.90", s.Orders[0].Amount.StringFixed(2))
	assert.Equal(t, 2, s.UserCount)
	require.Len(t, s.TopSellers, 1)
	assert.Equal(t, int64(12), s.TopSellers[0].TotalSold)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSnapshotRollsBackOnError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM products").WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	_, err := repo.Snapshot(context.Background(), 4)
	assert.ErrorContains(t, err, "load products")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProducts(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM products ORDER BY id").
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(int64(1), "Laptop", "Electronics", "1000.00", 3, "", now, now).
			AddRow(int64(2), "Shirt", "Clothing", "20.00", 0, "", now, now))

	products, err := repo.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
}

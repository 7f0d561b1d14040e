package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/report"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// Snapshot reads every dashboard input inside one read-only transaction so
// the figures agree with each other.
func (r *PGRepository) Snapshot(ctx context.Context, topSellers int) (*report.Snapshot, error) {
	tx, err := r.DB.BeginTxx(ctx, &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var s report.Snapshot
	if err := tx.SelectContext(ctx, &s.Products, `SELECT * FROM products ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	if err := tx.SelectContext(ctx, &s.Orders, `SELECT * FROM orders ORDER BY order_date DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	if err := tx.GetContext(ctx, &s.UserCount, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	query := `
        SELECT p.name, SUM(s.quantity_sold) AS total_sold
        FROM sales s
        JOIN products p ON p.id = s.product_id
        GROUP BY p.id, p.name
        ORDER BY total_sold DESC, p.id
        LIMIT $1
    `
	if err := tx.SelectContext(ctx, &s.TopSellers, query, topSellers); err != nil {
		return nil, fmt.Errorf("load top sellers: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PGRepository) Products(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.DB.SelectContext(ctx, &products, `SELECT * FROM products ORDER BY id`)
	return products, err
}

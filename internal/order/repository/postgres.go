package repository

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"

	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/order"
	"github.com/fekuna/omnipos-inventory-web/internal/order/dto"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

type stockRow struct {
	ID       int64           `db:"id"`
	Name     string          `db:"name"`
	Price    decimal.Decimal `db:"price"`
	Quantity int             `db:"quantity"`
}

func (r *PGRepository) Create(ctx context.Context, o *model.Order, lines []dto.OrderLine) ([]model.OrderItem, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	query := `
        INSERT INTO orders (
            order_id, customer_name, customer_email, customer_phone, order_date,
            amount, status, tracking_number, shipping_address, notes, created_at, updated_at
        )
        VALUES (
            :order_id, :customer_name, :customer_email, :customer_phone, :order_date,
            :amount, :status, :tracking_number, :shipping_address, :notes, :created_at, :updated_at
        )
        RETURNING id
    `
	query, args, err := tx.BindNamed(query, o)
	if err != nil {
		return nil, err
	}
	if err := tx.GetContext(ctx, &o.ID, query, args...); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	// Locks are taken in product id order so overlapping orders cannot deadlock.
	sorted := slices.Clone(lines)
	slices.SortStableFunc(sorted, func(a, b dto.OrderLine) int {
		return cmp.Compare(a.ProductID, b.ProductID)
	})

	amount := decimal.Zero
	items := make([]model.OrderItem, 0, len(sorted))
	for _, line := range sorted {
		var p stockRow
		err := tx.GetContext(ctx, &p, `SELECT id, name, price, quantity FROM products WHERE id = $1 FOR UPDATE`, line.ProductID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("product %d: %w", line.ProductID, order.ErrProductNotFound)
			}
			return nil, err
		}
		if line.Quantity > p.Quantity {
			return nil, &order.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   line.Quantity,
				Available:   p.Quantity,
			}
		}

		item := model.OrderItem{OrderID: o.ID, ProductID: p.ID, Quantity: line.Quantity, UnitPrice: p.Price}
		err = tx.GetContext(ctx, &item.ID,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4) RETURNING id`,
			item.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity - $1, updated_at = NOW() WHERE id = $2`,
			line.Quantity, p.ID)
		if err != nil {
			return nil, fmt.Errorf("take stock: %w", err)
		}

		amount = amount.Add(item.Subtotal())
		items = append(items, item)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE orders SET amount = $1 WHERE id = $2`, amount, o.ID); err != nil {
		return nil, fmt.Errorf("set order amount: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	o.Amount = amount
	return items, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Order, error) {
	var o model.Order
	err := r.DB.GetContext(ctx, &o, `SELECT * FROM orders WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

func (r *PGRepository) FindItems(ctx context.Context, orderID int64) ([]model.OrderItemDetail, error) {
	items := []model.OrderItemDetail{}
	query := `
        SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, p.name AS product_name
        FROM order_items oi
        JOIN products p ON p.id = oi.product_id
        WHERE oi.order_id = $1
        ORDER BY oi.id
    `
	err := r.DB.SelectContext(ctx, &items, query, orderID)
	return items, err
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Order, error) {
	orders := []model.Order{}
	err := r.DB.SelectContext(ctx, &orders, `SELECT * FROM orders ORDER BY created_at DESC, id DESC`)
	return orders, err
}

func (r *PGRepository) FindRecent(ctx context.Context, limit int) ([]model.Order, error) {
	orders := []model.Order{}
	err := r.DB.SelectContext(ctx, &orders, `SELECT * FROM orders ORDER BY order_date DESC, id DESC LIMIT $1`, limit)
	return orders, err
}

func (r *PGRepository) Update(ctx context.Context, o *model.Order) error {
	query := `
        UPDATE orders
        SET customer_name = :customer_name,
            customer_email = :customer_email,
            customer_phone = :customer_phone,
            order_date = :order_date,
            amount = :amount,
            status = :status,
            tracking_number = :tracking_number,
            shipping_address = :shipping_address,
            notes = :notes,
            updated_at = :updated_at
        WHERE id = :id
    `
	res, err := r.DB.NamedExecContext(ctx, query, o)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (r *PGRepository) Delete(ctx context.Context, id int64) (int, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var items []model.OrderItem
	if err := tx.SelectContext(ctx, &items, `SELECT * FROM order_items WHERE order_id = $1 ORDER BY id`, id); err != nil {
		return 0, fmt.Errorf("load order items: %w", err)
	}

	restored := 0
	for _, item := range items {
		_, err := tx.ExecContext(ctx,
			`UPDATE products SET quantity = quantity + $1, updated_at = NOW() WHERE id = $2`,
			item.Quantity, item.ProductID)
		if err != nil {
			return 0, fmt.Errorf("restore stock: %w", err)
		}
		restored += item.Quantity
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return 0, fmt.Errorf("delete order items: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete order: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, order.ErrNotFound
	}

	return restored, tx.Commit()
}

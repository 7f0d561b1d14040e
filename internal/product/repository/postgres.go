package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-inventory-web/internal/database"
	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/product"
	"github.com/fekuna/omnipos-inventory-web/internal/product/dto"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (name, category, price, quantity, description, created_at, updated_at)
        VALUES (:name, :category, :price, :quantity, :description, :created_at, :updated_at)
        RETURNING id
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, p)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&p.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	query := `SELECT * FROM products WHERE id = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindByName(ctx context.Context, name string) (*model.Product, error) {
	var p model.Product
	query := `SELECT * FROM products WHERE name = $1 LIMIT 1`
	err := r.DB.GetContext(ctx, &p, query, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f *dto.ProductFilters) ([]model.Product, error) {
	products := []model.Product{}

	conditions := []string{}
	args := map[string]interface{}{}

	if f.Category != "" {
		conditions = append(conditions, "category = :category")
		args["category"] = f.Category
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR description ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := "created_at DESC, id DESC"
	if f.SortBy != "" {
		// whitelist, never interpolate user input
		switch f.SortBy {
		case "name":
			orderBy = "name"
		case "price":
			orderBy = "price"
		case "quantity":
			orderBy = "quantity"
		default:
			orderBy = "created_at"
		}
		if strings.ToLower(f.SortOrder) == "asc" {
			orderBy += " ASC"
		} else {
			orderBy += " DESC"
		}
	}

	query := fmt.Sprintf("SELECT * FROM products%s ORDER BY %s", whereClause, orderBy)

	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	if err := nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET name = :name,
            category = :category,
            price = :price,
            quantity = :quantity,
            description = :description,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM order_items WHERE product_id = $1`, id); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sales WHERE product_id = $1`, id); err != nil {
		return fmt.Errorf("delete sales: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		if database.IsForeignKeyViolation(err) {
			return product.ErrInUse
		}
		return fmt.Errorf("delete product: %w", err)
	}

	return tx.Commit()
}

func (r *PGRepository) ListCategories(ctx context.Context) ([]string, error) {
	categories := []string{}
	err := r.DB.SelectContext(ctx, &categories, `SELECT DISTINCT category FROM products ORDER BY category`)
	return categories, err
}

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-inventory-web/internal/database"
	"github.com/fekuna/omnipos-inventory-web/internal/model"
	"github.com/fekuna/omnipos-inventory-web/internal/user"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (name, email, password_hash, image_url, created_at)
        VALUES (:name, :email, :password_hash, :image_url, :created_at)
        RETURNING id
    `
	rows, err := r.DB.NamedQueryContext(ctx, query, u)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return user.ErrEmailTaken
		}
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&u.ID); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u, `SELECT * FROM users WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.DB.GetContext(ctx, &u, `SELECT * FROM users WHERE email = $1 LIMIT 1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *PGRepository) UpdateImage(ctx context.Context, id int64, imageURL string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET image_url = $1 WHERE id = $2`, imageURL, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return user.ErrNotFound
	}
	return nil
}

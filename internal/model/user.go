package model

import "time"

const DefaultAvatarURL = "/static/images/default-avatar.png"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	ImageURL     string    `db:"image_url" json:"image_url"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

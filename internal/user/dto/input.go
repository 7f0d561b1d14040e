package dto

type RegisterInput struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

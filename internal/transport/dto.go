package transport

import "time"

type CreateAuthorRequest struct {
	FirstName string `json:"first_name" validate:"required,max=255"`
	LastName  string `json:"last_name"  validate:"required,max=255"`
	Bio       string `json:"bio"`
}

type PatchAuthorRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=255"`
	LastName  *string `json:"last_name"  validate:"omitempty,min=1,max=255"`
	Bio       *string `json:"bio"`
}

type CreateBookRequest struct {
	Title    string  `json:"title"     validate:"required,max=255"`
	Price    float64 `json:"price"     validate:"gte=0"`
	AuthorID uint    `json:"author_id" validate:"required"`
}

// UpdateBookRequest replaces both fields.
type UpdateBookRequest struct {
	Title string  `json:"title" validate:"required,max=255"`
	Price float64 `json:"price" validate:"gte=0"`
}

type CreateUserRequest struct {
	Username  string `json:"username"   validate:"required,min=3,max=64"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=1"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PatchUserRequest: nil means "leave as is".
type PatchUserRequest struct {
	Email     *string `json:"email"      validate:"omitempty,email"`
	Password  *string `json:"password"   validate:"omitempty,min=1"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

type UserSearch struct {
	Username  string `query:"username"`
	FirstName string `query:"first_name"`
	LastName  string `query:"last_name"`
	Email     string `query:"email"`
}

type RegisterRequest struct {
	Username  string `json:"username"   validate:"required,min=3,max=64"`
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=1"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type RegisterResult struct {
	ID           uint   `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	AccessExp    time.Time `json:"access_exp"`
	RefreshExp   time.Time `json:"refresh_exp"`
	IsAdmin      bool      `json:"is_admin"`
}

type AddToCardRequest struct {
	BookID   uint `json:"book_id"  validate:"required"`
	Quantity uint `json:"quantity"`
}

type RemoveFromCardResponse struct {
	BookID   uint `json:"book_id"`
	Deleted  bool `json:"deleted"`
	Quantity uint `json:"quantity"`
}

type CardTotal struct {
	CardID uint    `json:"card_id"`
	Items  int     `json:"items"`
	Total  float64 `json:"total"`
}

type BookHit struct {
	ID      uint     `json:"id"`
	Title   string   `json:"title"`
	Price   float64  `json:"price"`
	Authors []string `json:"authors"`
}

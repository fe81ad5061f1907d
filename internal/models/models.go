package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Author struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	FirstName string         `gorm:"not null"                 json:"first_name"`
	LastName  string         `gorm:"not null"                 json:"last_name"`
	Bio       string         `json:"bio,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index"                    json:"-"`
}

type Book struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"  json:"id"`
	Title     string         `gorm:"not null;index"            json:"title"`
	Price     float64        `gorm:"not null"                  json:"price"`
	Authors   []Author       `gorm:"many2many:book_authors;"   json:"authors"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index"                     json:"-"`
}

// User uniqueness only covers rows that are not soft-deleted.
type User struct {
	ID        uint           `gorm:"primaryKey;autoIncrement"                                        json:"id"`
	Username  string         `gorm:"not null;uniqueIndex:idx_users_username,where:deleted_at IS NULL" json:"username"`
	Email     string         `gorm:"not null;uniqueIndex:idx_users_email,where:deleted_at IS NULL"    json:"email"`
	Password  string         `gorm:"not null"                                                        json:"-"`
	Salt      string         `gorm:"not null"                                                        json:"-"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Role      string         `gorm:"not null;default:user"                                           json:"role"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index"                                                           json:"-"`
}

type ShoppingCard struct {
	ID        uint               `gorm:"primaryKey;autoIncrement"         json:"id"`
	UserID    uint               `gorm:"not null;uniqueIndex:idx_cards_user,where:deleted_at IS NULL" json:"user_id"`
	User      *User              `json:"user,omitempty"`
	Items     []ShoppingCardItem `gorm:"foreignKey:CardID"                json:"items"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
	DeletedAt gorm.DeletedAt     `gorm:"index"                            json:"-"`
}

type ShoppingCardItem struct {
	ID       uint  `gorm:"primaryKey;autoIncrement"                    json:"id"`
	CardID   uint  `gorm:"uniqueIndex:idx_card_book;not null"          json:"card_id"`
	BookID   uint  `gorm:"uniqueIndex:idx_card_book;not null"          json:"book_id"`
	Book     *Book `json:"book,omitempty"`
	Quantity uint  `gorm:"not null;default:1;check:quantity>0"         json:"quantity"`
}

func (ShoppingCardItem) TableName() string {
	return "shopping_card_items"
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"              json:"id"`
	JTI       string `gorm:"not null;uniqueIndex"    json:"jti"`
	Token     string `gorm:"not null;uniqueIndex"    json:"-"`
	UserID    uint   `gorm:"index;not null"          json:"user_id"`
	Role      string `gorm:"not null"                json:"role"`
	ExpiresAt int64  `gorm:"not null"                json:"expires_at"`
	Revoked   bool   `gorm:"default:false"           json:"revoked"`
}

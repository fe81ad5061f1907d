package repo

import "gorm.io/gorm"

// GormRepo is the single persistence handle every service talks to.
// Default queries skip soft-deleted rows.
type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

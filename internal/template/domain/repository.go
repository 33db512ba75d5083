package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListActive(ctx context.Context, db *gorm.DB) ([]Template, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Template, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Template, error)
	Upsert(ctx context.Context, db *gorm.DB, tmpl *Template) error
}

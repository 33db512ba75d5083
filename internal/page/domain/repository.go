package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sparklinkhq/sparklink/internal/ordering"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, page *Page) error
	FindByID(ctx context.Context, db *gorm.DB, profileID, id snowflake.ID) (*Page, error)
	FindBySlug(ctx context.Context, db *gorm.DB, profileID snowflake.ID, slug string) (*Page, error)
	List(ctx context.Context, db *gorm.DB, profileID snowflake.ID) ([]Page, error)
	ListPublished(ctx context.Context, db *gorm.DB, profileID snowflake.ID) ([]Page, error)
	Count(ctx context.Context, db *gorm.DB, profileID snowflake.ID) (int64, error)
	Update(ctx context.Context, db *gorm.DB, page *Page) error
	Delete(ctx context.Context, db *gorm.DB, profileID, id snowflake.ID) error
	ShiftAfterRemoval(ctx context.Context, db *gorm.DB, profileID snowflake.ID, removedPosition int) error
	UpdatePositions(ctx context.Context, db *gorm.DB, profileID snowflake.ID, updates []ordering.Update) error
}

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/sparklinkhq/sparklink/internal/ordering"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, item *GalleryItem) error
	FindByID(ctx context.Context, db *gorm.DB, profileID, id snowflake.ID) (*GalleryItem, error)
	List(ctx context.Context, db *gorm.DB, profileID snowflake.ID) ([]GalleryItem, error)
	ListAfter(ctx context.Context, db *gorm.DB, profileID snowflake.ID, afterPosition, limit int) ([]GalleryItem, error)
	ListVisible(ctx context.Context, db *gorm.DB, profileID snowflake.ID) ([]GalleryItem, error)
	Count(ctx context.Context, db *gorm.DB, profileID snowflake.ID) (int64, error)
	Update(ctx context.Context, db *gorm.DB, item *GalleryItem) error
	Delete(ctx context.Context, db *gorm.DB, profileID, id snowflake.ID) error
	ShiftAfterRemoval(ctx context.Context, db *gorm.DB, profileID snowflake.ID, removedPosition int) error
	UpdatePositions(ctx context.Context, db *gorm.DB, profileID snowflake.ID, updates []ordering.Update) error
}

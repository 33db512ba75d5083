package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/sparklinkhq/sparklink/internal/gallery/domain"
	"github.com/sparklinkhq/sparklink/internal/ordering"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, item *domain.GalleryItem) error {
	return db.WithContext(ctx).Create(item).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, profileID, id snowflake.ID) (*domain.GalleryItem, error) {
	var item domain.GalleryItem
	err := db.WithContext(ctx).
		Where("profile_id = ? AND id = ?", profileID, id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, profileID snowflake.ID) ([]domain.GalleryItem, error) {
	var items []domain.GalleryItem
	err := db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListAfter(ctx context.Context, db *gorm.DB, profileID snowflake.ID, afterPosition, limit int) ([]domain.GalleryItem, error) {
	var items []domain.GalleryItem
	query := db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("position ASC")
	if afterPosition >= 0 {
		query = query.Where("position > ?", afterPosition)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) ListVisible(ctx context.Context, db *gorm.DB, profileID snowflake.ID) ([]domain.GalleryItem, error) {
	var items []domain.GalleryItem
	err := db.WithContext(ctx).
		Where("profile_id = ? AND is_visible = ?", profileID, true).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, profileID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.GalleryItem{}).
		Where("profile_id = ?", profileID).
		Count(&count).Error
	return count, err
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, item *domain.GalleryItem) error {
	if item == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Save(item).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, profileID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("profile_id = ? AND id = ?", profileID, id).
		Delete(&domain.GalleryItem{}).Error
}

// ShiftAfterRemoval closes the position gap left by a delete.
func (r *repo) ShiftAfterRemoval(ctx context.Context, db *gorm.DB, profileID snowflake.ID, removedPosition int) error {
	return db.WithContext(ctx).Exec(
		`UPDATE gallery_items SET position = position - 1 WHERE profile_id = ? AND position > ?`,
		profileID,
		removedPosition,
	).Error
}

func (r *repo) UpdatePositions(ctx context.Context, db *gorm.DB, profileID snowflake.ID, updates []ordering.Update) error {
	for _, u := range updates {
		err := db.WithContext(ctx).Exec(
			`UPDATE gallery_items SET position = ? WHERE profile_id = ? AND id = ?`,
			u.Position,
			profileID,
			u.ID,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

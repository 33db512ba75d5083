package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/sparklinkhq/sparklink/internal/ordering"
	"github.com/sparklinkhq/sparklink/internal/page/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, page *domain.Page) error {
	return db.WithContext(ctx).Create(page).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, profileID, id snowflake.ID) (*domain.Page, error) {
	return r.findOne(ctx, db, "profile_id = ? AND id = ?", profileID, id)
}

func (r *repo) FindBySlug(ctx context.Context, db *gorm.DB, profileID snowflake.ID, slug string) (*domain.Page, error) {
	return r.findOne(ctx, db, "profile_id = ? AND slug = ?", profileID, slug)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, query string, args ...any) (*domain.Page, error) {
	var page domain.Page
	err := db.WithContext(ctx).Where(query, args...).First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &page, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, profileID snowflake.ID) ([]domain.Page, error) {
	var pages []domain.Page
	err := db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("position ASC").
		Find(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *repo) ListPublished(ctx context.Context, db *gorm.DB, profileID snowflake.ID) ([]domain.Page, error) {
	var pages []domain.Page
	err := db.WithContext(ctx).
		Where("profile_id = ? AND is_published = ?", profileID, true).
		Order("position ASC").
		Find(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, profileID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.Page{}).
		Where("profile_id = ?", profileID).
		Count(&count).Error
	return count, err
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, page *domain.Page) error {
	if page == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Save(page).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, profileID, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("profile_id = ? AND id = ?", profileID, id).
		Delete(&domain.Page{}).Error
}

// ShiftAfterRemoval closes the position gap left by a delete.
func (r *repo) ShiftAfterRemoval(ctx context.Context, db *gorm.DB, profileID snowflake.ID, removedPosition int) error {
	return db.WithContext(ctx).Exec(
		`UPDATE pages SET position = position - 1 WHERE profile_id = ? AND position > ?`,
		profileID,
		removedPosition,
	).Error
}

func (r *repo) UpdatePositions(ctx context.Context, db *gorm.DB, profileID snowflake.ID, updates []ordering.Update) error {
	for _, u := range updates {
		err := db.WithContext(ctx).Exec(
			`UPDATE pages SET position = ? WHERE profile_id = ? AND id = ?`,
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

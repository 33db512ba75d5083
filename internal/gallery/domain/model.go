package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// GalleryItem is an ordered image in a profile's gallery. Position is dense
// and zero based within the owning profile, same as pages.
type GalleryItem struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	ProfileID snowflake.ID `gorm:"column:profile_id;not null;index:ix_gallery_profile_position,priority:1"`
	Position  int          `gorm:"not null;index:ix_gallery_profile_position,priority:2"`

	Title       string  `gorm:"type:text;not null"`
	Description *string `gorm:"type:text"`
	Category    *string `gorm:"type:text"`

	Tags datatypes.JSONSlice[string] `gorm:"type:jsonb"`

	ImageURL string `gorm:"column:image_url;type:text;not null"`

	// ObjectKey is set when the image lives in our object storage, nil for
	// externally hosted images.
	ObjectKey *string `gorm:"column:object_key;type:text"`

	IsVisible bool `gorm:"column:is_visible;not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (GalleryItem) TableName() string { return "gallery_items" }

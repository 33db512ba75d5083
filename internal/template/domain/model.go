package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Template is a catalog entry. Rows are seeded, not user created.
type Template struct {
	ID   snowflake.ID `gorm:"primaryKey"`
	Code string       `gorm:"type:text;not null;uniqueIndex"`
	Name string       `gorm:"type:text;not null"`

	Description *string `gorm:"type:text"`
	PreviewURL  *string `gorm:"column:preview_url;type:text"`

	// RequiredTier is the minimum subscription that may apply this template.
	RequiredTier string `gorm:"column:required_tier;type:text;not null;default:'STARTER'"`

	// ColorSchemes lists the scheme codes this template supports; empty means
	// all configured schemes.
	ColorSchemes datatypes.JSONSlice[string] `gorm:"column:color_schemes;type:jsonb"`

	IsActive bool `gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Template) TableName() string { return "templates" }

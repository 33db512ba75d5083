package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Profile is the portfolio owner record. Pages and gallery items hang off the
// profile, and its subscription tier drives every capability check.
type Profile struct {
	ID     snowflake.ID `gorm:"primaryKey"`
	UserID snowflake.ID `gorm:"column:user_id;not null;uniqueIndex"`

	DisplayName  string            `gorm:"type:text;not null"`
	Headline     *string           `gorm:"type:text"`
	Bio          *string           `gorm:"type:text"`
	SocialLinks  datatypes.JSONMap `gorm:"type:jsonb"`
	Subscription string            `gorm:"type:text;not null;default:'STARTER'"`
	TemplateCode *string           `gorm:"column:template_code;type:text"`
	ColorScheme  *string           `gorm:"column:color_scheme;type:text"`
	IsPublished  bool              `gorm:"column:is_published;not null;default:false"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Profile) TableName() string { return "profiles" }

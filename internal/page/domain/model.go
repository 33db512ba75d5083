package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PageType classifies what a portfolio page renders.
type PageType string

const (
	PageTypeHome         PageType = "HOME"
	PageTypeAbout        PageType = "ABOUT"
	PageTypeProjects     PageType = "PROJECTS"
	PageTypeServices     PageType = "SERVICES"
	PageTypeContact      PageType = "CONTACT"
	PageTypeGallery      PageType = "GALLERY"
	PageTypeBlog         PageType = "BLOG"
	PageTypeResume       PageType = "RESUME"
	PageTypeTestimonials PageType = "TESTIMONIALS"
	PageTypeCustom       PageType = "CUSTOM"
)

var validPageTypes = map[PageType]bool{
	PageTypeHome:         true,
	PageTypeAbout:        true,
	PageTypeProjects:     true,
	PageTypeServices:     true,
	PageTypeContact:      true,
	PageTypeGallery:      true,
	PageTypeBlog:         true,
	PageTypeResume:       true,
	PageTypeTestimonials: true,
	PageTypeCustom:       true,
}

// ValidPageType reports whether t is a known page type.
func ValidPageType(t PageType) bool { return validPageTypes[t] }

// Page is an ordered portfolio page. Position is dense and zero based within
// the owning profile; it changes only through reorder or create/delete
// reindex, never through content edits.
type Page struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	ProfileID snowflake.ID `gorm:"column:profile_id;not null;index:ix_pages_profile_position,priority:1;uniqueIndex:ux_pages_profile_slug,priority:1"`
	Position  int          `gorm:"not null;index:ix_pages_profile_position,priority:2"`

	Type  PageType `gorm:"column:page_type;type:text;not null"`
	Title string   `gorm:"type:text;not null"`
	Slug  string   `gorm:"type:text;not null;uniqueIndex:ux_pages_profile_slug,priority:2"`

	// Content holds the semi-structured document: headline, subheading and a
	// sections array, stored as-is.
	Content datatypes.JSONMap `gorm:"type:jsonb"`

	IsPublished         bool    `gorm:"column:is_published;not null;default:false"`
	IsPasswordProtected bool    `gorm:"column:is_password_protected;not null;default:false"`
	PasswordHash        *string `gorm:"column:password_hash;type:text"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Page) TableName() string { return "pages" }

package domain

import (
	"context"
	"errors"

	"github.com/sparklinkhq/sparklink/internal/config"
)

type Service interface {
	// Resolve returns the published site for a username, served from cache
	// when possible.
	Resolve(ctx context.Context, username string) (*SiteResponse, error)
	// UnlockPage verifies a protected page's password and returns its content.
	UnlockPage(ctx context.Context, username, slug, password string) (*PageContent, error)
	// Invalidate drops the cached site for a username after a mutation.
	Invalidate(ctx context.Context, username string)
}

// SiteCache stores rendered public sites keyed by username.
type SiteCache interface {
	Get(ctx context.Context, username string) (*SiteResponse, bool)
	Set(ctx context.Context, username string, site *SiteResponse)
	Delete(ctx context.Context, username string)
}

type SiteResponse struct {
	Profile ProfileView   `json:"profile"`
	Pages   []PageView    `json:"pages"`
	Gallery []GalleryView `json:"gallery"`
}

type ProfileView struct {
	Username     string              `json:"username"`
	DisplayName  string              `json:"display_name"`
	Headline     *string             `json:"headline,omitempty"`
	Bio          *string             `json:"bio,omitempty"`
	SocialLinks  map[string]any      `json:"social_links,omitempty"`
	TemplateCode *string             `json:"template_code,omitempty"`
	ColorScheme  *string             `json:"color_scheme,omitempty"`
	Palette      *config.ColorScheme `json:"palette,omitempty"`
}

// PageView omits content for password protected pages; callers unlock those
// separately.
type PageView struct {
	ID                  string         `json:"id"`
	Position            int            `json:"position"`
	Type                string         `json:"type"`
	Title               string         `json:"title"`
	Slug                string         `json:"slug"`
	IsPasswordProtected bool           `json:"is_password_protected"`
	Content             map[string]any `json:"content,omitempty"`
}

type GalleryView struct {
	ID          string   `json:"id"`
	Position    int      `json:"position"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ImageURL    string   `json:"image_url"`
}

type PageContent struct {
	Slug    string         `json:"slug"`
	Title   string         `json:"title"`
	Content map[string]any `json:"content,omitempty"`
}

var (
	ErrSiteNotFound      = errors.New("site_not_found")
	ErrPageNotFound      = errors.New("page_not_found")
	ErrPageNotProtected  = errors.New("page_not_protected")
	ErrIncorrectPassword = errors.New("incorrect_page_password")
	ErrPasswordRequired  = errors.New("password_required")
)

package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/sparklinkhq/sparklink/internal/tier"
)

type Service interface {
	EnsureForUser(ctx context.Context, userID snowflake.ID, displayName string) (*Response, error)
	Get(ctx context.Context) (*Response, error)
	GetByUsername(ctx context.Context, username string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	SetPublished(ctx context.Context, published bool) (*Response, error)
	ChangeTier(ctx context.Context, newTier string) (*Response, error)
	ApplyTemplate(ctx context.Context, templateCode, colorScheme string) (*Response, error)
}

type UpdateRequest struct {
	DisplayName *string        `json:"display_name,omitempty"`
	Headline    *string        `json:"headline,omitempty"`
	Bio         *string        `json:"bio,omitempty"`
	SocialLinks map[string]any `json:"social_links,omitempty"`
	ColorScheme *string        `json:"color_scheme,omitempty"`
}

type Response struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Username     string         `json:"username,omitempty"`
	DisplayName  string         `json:"display_name"`
	Headline     *string        `json:"headline,omitempty"`
	Bio          *string        `json:"bio,omitempty"`
	SocialLinks  map[string]any `json:"social_links,omitempty"`
	Subscription tier.Tier      `json:"subscription"`
	Limits       tier.Limits    `json:"limits"`
	TemplateCode *string        `json:"template_code,omitempty"`
	ColorScheme  *string        `json:"color_scheme,omitempty"`
	IsPublished  bool           `json:"is_published"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

var (
	ErrInvalidProfile     = errors.New("invalid_profile")
	ErrNotFound           = errors.New("profile_not_found")
	ErrInvalidDisplayName = errors.New("invalid_display_name")
	ErrInvalidTier        = errors.New("invalid_tier")
	ErrInvalidColorScheme = errors.New("invalid_color_scheme")
	ErrNotPublished       = errors.New("profile_not_published")
)

package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, req ReorderRequest) ([]Response, error)
}

type CreateRequest struct {
	Type                string         `json:"type"`
	Title               string         `json:"title"`
	Slug                string         `json:"slug,omitempty"`
	Content             map[string]any `json:"content,omitempty"`
	IsPublished         *bool          `json:"is_published,omitempty"`
	IsPasswordProtected *bool          `json:"is_password_protected,omitempty"`
	Password            string         `json:"password,omitempty"`
}

type UpdateRequest struct {
	ID                  string         `json:"id"`
	Title               *string        `json:"title,omitempty"`
	Slug                *string        `json:"slug,omitempty"`
	Content             map[string]any `json:"content,omitempty"`
	IsPublished         *bool          `json:"is_published,omitempty"`
	IsPasswordProtected *bool          `json:"is_password_protected,omitempty"`
	Password            *string        `json:"password,omitempty"`
}

// PageOrder is one entry of a client-submitted full ordering.
type PageOrder struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

type ReorderRequest struct {
	PageOrders []PageOrder `json:"page_orders"`
}

// Response never carries the page password, only the protection flag.
type Response struct {
	ID                  string         `json:"id"`
	ProfileID           string         `json:"profile_id"`
	Position            int            `json:"position"`
	Type                PageType       `json:"type"`
	Title               string         `json:"title"`
	Slug                string         `json:"slug"`
	Content             map[string]any `json:"content,omitempty"`
	IsPublished         bool           `json:"is_published"`
	IsPasswordProtected bool           `json:"is_password_protected"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

var (
	ErrInvalidProfile        = errors.New("invalid_profile")
	ErrInvalidID             = errors.New("invalid_page_id")
	ErrInvalidType           = errors.New("invalid_page_type")
	ErrInvalidTitle          = errors.New("invalid_title")
	ErrInvalidSlug           = errors.New("invalid_slug")
	ErrSlugTaken             = errors.New("slug_taken")
	ErrNotFound              = errors.New("page_not_found")
	ErrPageLimitReached      = errors.New("page_limit_reached")
	ErrPasswordUnavailable   = errors.New("password_protection_unavailable")
	ErrPasswordRequired      = errors.New("password_required")
	ErrInvalidReorder        = errors.New("invalid_reorder")
	ErrIncorrectPagePassword = errors.New("incorrect_page_password")
)

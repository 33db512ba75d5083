package domain

import (
	"context"
	"errors"
	"time"

	"github.com/sparklinkhq/sparklink/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, req ReorderRequest) ([]Response, error)
}

type CreateRequest struct {
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ImageURL    string   `json:"image_url"`
	ObjectKey   *string  `json:"-"`
	IsVisible   *bool    `json:"is_visible,omitempty"`
}

type UpdateRequest struct {
	ID          string   `json:"id"`
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	IsVisible   *bool    `json:"is_visible,omitempty"`
}

type ListRequest struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

type ListResponse struct {
	Items    []Response          `json:"items"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

// ItemOrder is one entry of a client-submitted full ordering.
type ItemOrder struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

type ReorderRequest struct {
	ItemOrders []ItemOrder `json:"item_orders"`
}

type Response struct {
	ID          string    `json:"id"`
	ProfileID   string    `json:"profile_id"`
	Position    int       `json:"position"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	ImageURL    string    `json:"image_url"`
	ObjectKey   *string   `json:"-"`
	IsVisible   bool      `json:"is_visible"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var (
	ErrInvalidProfile = errors.New("invalid_profile")
	ErrInvalidID      = errors.New("invalid_gallery_item_id")
	ErrInvalidTitle   = errors.New("invalid_title")
	ErrInvalidImage   = errors.New("invalid_image")
	ErrNotFound       = errors.New("gallery_item_not_found")
	ErrInvalidReorder = errors.New("invalid_reorder")
)

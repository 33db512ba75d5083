package domain

import (
	"context"
	"errors"

	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	"github.com/sparklinkhq/sparklink/internal/tier"
)

type Service interface {
	List(ctx context.Context) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Apply(ctx context.Context, req ApplyRequest) (*profiledomain.Response, error)
}

type ApplyRequest struct {
	ID          string `json:"id"`
	ColorScheme string `json:"color_scheme,omitempty"`
}

// Response annotates each catalog entry with whether the calling profile's
// subscription may apply it.
type Response struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	PreviewURL   *string   `json:"preview_url,omitempty"`
	RequiredTier tier.Tier `json:"required_tier"`
	CanAccess    bool      `json:"can_access"`
	ColorSchemes []string  `json:"color_schemes,omitempty"`
}

var (
	ErrInvalidID         = errors.New("invalid_template_id")
	ErrNotFound          = errors.New("template_not_found")
	ErrTemplateLocked    = errors.New("template_locked")
	ErrSchemeUnsupported = errors.New("color_scheme_unsupported")
)

package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/sparklinkhq/sparklink/internal/auth/domain"
	"github.com/sparklinkhq/sparklink/internal/clock"
	"github.com/sparklinkhq/sparklink/internal/config"
	"github.com/sparklinkhq/sparklink/internal/profile/domain"
	"github.com/sparklinkhq/sparklink/internal/profilectx"
	"github.com/sparklinkhq/sparklink/internal/tier"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxDisplayNameLength = 80

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	UserRepo authdomain.Repository
	Themes   *config.ThemeConfigHolder
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	userRepo authdomain.Repository
	themes   *config.ThemeConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("profile.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		userRepo: p.UserRepo,
		themes:   p.Themes,
	}
}

func (s *Service) EnsureForUser(ctx context.Context, userID snowflake.ID, displayName string) (*domain.Response, error) {
	existing, err := s.repo.FindByUserID(ctx, s.db, userID)
	if err == nil {
		return s.toResponse(ctx, existing), nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	name := strings.TrimSpace(displayName)
	if name == "" || len(name) > maxDisplayNameLength {
		return nil, domain.ErrInvalidDisplayName
	}

	now := s.clock.Now()
	profile := &domain.Profile{
		ID:           s.genID.Generate(),
		UserID:       userID,
		DisplayName:  name,
		Subscription: string(tier.Starter),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, s.db, profile); err != nil {
		return nil, err
	}

	s.log.Info("profile created", zap.String("profile_id", profile.ID.String()))
	return s.toResponse(ctx, profile), nil
}

func (s *Service) Get(ctx context.Context) (*domain.Response, error) {
	profile, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, profile), nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*domain.Response, error) {
	handle := strings.ToLower(strings.TrimSpace(username))
	if handle == "" {
		return nil, domain.ErrNotFound
	}

	user, err := s.userRepo.FindByUsername(ctx, s.db, handle)
	if err != nil {
		if errors.Is(err, authdomain.ErrUserNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	profile, err := s.repo.FindByUserID(ctx, s.db, user.ID)
	if err != nil {
		return nil, err
	}

	resp := s.toResponse(ctx, profile)
	resp.Username = user.Username
	return resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	profile, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" || len(name) > maxDisplayNameLength {
			return nil, domain.ErrInvalidDisplayName
		}
		profile.DisplayName = name
	}
	if req.Headline != nil {
		profile.Headline = trimmedPtr(*req.Headline)
	}
	if req.Bio != nil {
		profile.Bio = trimmedPtr(*req.Bio)
	}
	if req.SocialLinks != nil {
		profile.SocialLinks = datatypes.JSONMap(req.SocialLinks)
	}
	if req.ColorScheme != nil {
		scheme := strings.TrimSpace(*req.ColorScheme)
		if scheme == "" {
			profile.ColorScheme = nil
		} else {
			if _, ok := s.themes.Scheme(scheme); !ok {
				return nil, domain.ErrInvalidColorScheme
			}
			profile.ColorScheme = &scheme
		}
	}

	profile.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, profile); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, profile), nil
}

func (s *Service) SetPublished(ctx context.Context, published bool) (*domain.Response, error) {
	profile, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	profile.IsPublished = published
	profile.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, profile); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, profile), nil
}

func (s *Service) ChangeTier(ctx context.Context, newTier string) (*domain.Response, error) {
	normalized := tier.Tier(strings.ToUpper(strings.TrimSpace(newTier)))
	switch normalized {
	case tier.Starter, tier.Rise, tier.Blaze:
	default:
		return nil, domain.ErrInvalidTier
	}

	profile, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	profile.Subscription = string(normalized)
	profile.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, profile); err != nil {
		return nil, err
	}

	s.log.Info("subscription changed",
		zap.String("profile_id", profile.ID.String()),
		zap.String("tier", string(normalized)),
	)
	return s.toResponse(ctx, profile), nil
}

func (s *Service) ApplyTemplate(ctx context.Context, templateCode, colorScheme string) (*domain.Response, error) {
	profile, err := s.current(ctx)
	if err != nil {
		return nil, err
	}

	code := strings.TrimSpace(templateCode)
	if code == "" {
		return nil, domain.ErrInvalidProfile
	}
	profile.TemplateCode = &code

	scheme := strings.TrimSpace(colorScheme)
	if scheme != "" {
		if _, ok := s.themes.Scheme(scheme); !ok {
			return nil, domain.ErrInvalidColorScheme
		}
		profile.ColorScheme = &scheme
	}

	profile.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, profile); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, profile), nil
}

func (s *Service) current(ctx context.Context) (*domain.Profile, error) {
	profileID, ok := profilectx.ProfileIDFromContext(ctx)
	if !ok || profileID == 0 {
		return nil, domain.ErrInvalidProfile
	}
	return s.repo.FindByID(ctx, s.db, profileID)
}

func (s *Service) toResponse(ctx context.Context, p *domain.Profile) *domain.Response {
	t := tier.Normalize(p.Subscription)
	resp := &domain.Response{
		ID:           p.ID.String(),
		UserID:       p.UserID.String(),
		DisplayName:  p.DisplayName,
		Headline:     p.Headline,
		Bio:          p.Bio,
		Subscription: t,
		Limits:       tier.LimitsFor(t),
		TemplateCode: p.TemplateCode,
		ColorScheme:  p.ColorScheme,
		IsPublished:  p.IsPublished,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if len(p.SocialLinks) > 0 {
		resp.SocialLinks = map[string]any(p.SocialLinks)
	}
	if user, err := s.userRepo.FindByID(ctx, s.db, p.UserID); err == nil {
		resp.Username = user.Username
	}
	return resp
}

func trimmedPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	"github.com/sparklinkhq/sparklink/internal/profilectx"
	"github.com/sparklinkhq/sparklink/internal/template/domain"
	"github.com/sparklinkhq/sparklink/internal/tier"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Repo        domain.Repository
	ProfileRepo profiledomain.Repository
	ProfileSvc  profiledomain.Service
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	profileRepo profiledomain.Repository
	profileSvc  profiledomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("template.service"),
		repo:        p.Repo,
		profileRepo: p.ProfileRepo,
		profileSvc:  p.ProfileSvc,
	}
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	userTier, err := s.callerTier(ctx)
	if err != nil {
		return nil, err
	}

	templates, err := s.repo.ListActive(ctx, s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(templates))
	for i := range templates {
		resp = append(resp, toResponse(&templates[i], userTier))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	userTier, err := s.callerTier(ctx)
	if err != nil {
		return nil, err
	}

	tmplID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.repo.FindByID(ctx, s.db, tmplID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(tmpl, userTier)
	return &resp, nil
}

// Apply re-checks the tier gate on the server before touching the profile;
// the annotated catalog the client renders is advisory only.
func (s *Service) Apply(ctx context.Context, req domain.ApplyRequest) (*profiledomain.Response, error) {
	userTier, err := s.callerTier(ctx)
	if err != nil {
		return nil, err
	}

	tmplID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	tmpl, err := s.repo.FindByID(ctx, s.db, tmplID)
	if err != nil {
		return nil, err
	}
	if !tmpl.IsActive {
		return nil, domain.ErrNotFound
	}

	required := tier.Normalize(tmpl.RequiredTier)
	if !tier.CanAccessTemplate(userTier, required) {
		s.log.Warn("template apply denied",
			zap.String("template", tmpl.Code),
			zap.String("required_tier", string(required)),
			zap.String("user_tier", string(userTier)),
		)
		return nil, domain.ErrTemplateLocked
	}

	scheme := strings.TrimSpace(req.ColorScheme)
	if scheme != "" && len(tmpl.ColorSchemes) > 0 && !contains(tmpl.ColorSchemes, scheme) {
		return nil, domain.ErrSchemeUnsupported
	}

	return s.profileSvc.ApplyTemplate(ctx, tmpl.Code, scheme)
}

func (s *Service) callerTier(ctx context.Context) (tier.Tier, error) {
	profileID, ok := profilectx.ProfileIDFromContext(ctx)
	if !ok || profileID == 0 {
		return "", profiledomain.ErrInvalidProfile
	}
	profile, err := s.profileRepo.FindByID(ctx, s.db, profileID)
	if err != nil {
		return "", err
	}
	return tier.Normalize(profile.Subscription), nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}

func toResponse(tmpl *domain.Template, userTier tier.Tier) domain.Response {
	required := tier.Normalize(tmpl.RequiredTier)
	return domain.Response{
		ID:           tmpl.ID.String(),
		Code:         tmpl.Code,
		Name:         tmpl.Name,
		Description:  tmpl.Description,
		PreviewURL:   tmpl.PreviewURL,
		RequiredTier: required,
		CanAccess:    tier.CanAccessTemplate(userTier, required),
		ColorSchemes: []string(tmpl.ColorSchemes),
	}
}

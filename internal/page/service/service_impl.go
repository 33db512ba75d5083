package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	goslug "github.com/gosimple/slug"
	"github.com/sparklinkhq/sparklink/internal/auth/password"
	"github.com/sparklinkhq/sparklink/internal/clock"
	"github.com/sparklinkhq/sparklink/internal/ordering"
	"github.com/sparklinkhq/sparklink/internal/page/domain"
	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	"github.com/sparklinkhq/sparklink/internal/profilectx"
	"github.com/sparklinkhq/sparklink/internal/tier"
	"github.com/sparklinkhq/sparklink/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxTitleLength = 120

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Repo        domain.Repository
	ProfileRepo profiledomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	repo        domain.Repository
	profileRepo profiledomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("page.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		repo:        p.Repo,
		profileRepo: p.ProfileRepo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	profileID, limits, err := s.profileLimits(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" || len(title) > maxTitleLength {
		return nil, domain.ErrInvalidTitle
	}

	pageType := domain.PageType(strings.ToUpper(strings.TrimSpace(req.Type)))
	if !domain.ValidPageType(pageType) {
		return nil, domain.ErrInvalidType
	}

	pageSlug, err := resolveSlug(req.Slug, title)
	if err != nil {
		return nil, err
	}

	protected := req.IsPasswordProtected != nil && *req.IsPasswordProtected
	var passwordHash *string
	if protected {
		if !limits.PasswordProtection {
			return nil, domain.ErrPasswordUnavailable
		}
		if strings.TrimSpace(req.Password) == "" {
			return nil, domain.ErrPasswordRequired
		}
		hashed, err := password.Hash(req.Password)
		if err != nil {
			return nil, err
		}
		passwordHash = &hashed
	}

	published := req.IsPublished != nil && *req.IsPublished

	var record *domain.Page
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.repo.Count(ctx, tx, profileID)
		if err != nil {
			return err
		}
		if !limits.WithinPageLimit(int(count)) {
			return domain.ErrPageLimitReached
		}

		if _, err := s.repo.FindBySlug(ctx, tx, profileID, pageSlug); err == nil {
			return domain.ErrSlugTaken
		} else if err != domain.ErrNotFound {
			return err
		}

		now := s.clock.Now()
		record = &domain.Page{
			ID:                  s.genID.Generate(),
			ProfileID:           profileID,
			Position:            int(count),
			Type:                pageType,
			Title:               title,
			Slug:                pageSlug,
			IsPublished:         published,
			IsPasswordProtected: protected,
			PasswordHash:        passwordHash,
			CreatedAt:           now,
			UpdatedAt:           now,
		}
		if req.Content != nil {
			record.Content = datatypes.JSONMap(req.Content)
		}
		return s.repo.Create(ctx, tx, record)
	})
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) List(ctx context.Context) ([]domain.Response, error) {
	profileID, err := s.profileID(ctx)
	if err != nil {
		return nil, err
	}

	pages, err := s.repo.List(ctx, s.db, profileID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(pages))
	for i := range pages {
		resp = append(resp, toResponse(&pages[i]))
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	profileID, err := s.profileID(ctx)
	if err != nil {
		return nil, err
	}

	pageID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	page, err := s.repo.FindByID(ctx, s.db, profileID, pageID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(page)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	profileID, limits, err := s.profileLimits(ctx)
	if err != nil {
		return nil, err
	}

	pageID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	page, err := s.repo.FindByID(ctx, s.db, profileID, pageID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > maxTitleLength {
			return nil, domain.ErrInvalidTitle
		}
		page.Title = title
	}

	if req.Slug != nil {
		newSlug, err := resolveSlug(*req.Slug, page.Title)
		if err != nil {
			return nil, err
		}
		if newSlug != page.Slug {
			if _, err := s.repo.FindBySlug(ctx, s.db, profileID, newSlug); err == nil {
				return nil, domain.ErrSlugTaken
			} else if err != domain.ErrNotFound {
				return nil, err
			}
			page.Slug = newSlug
		}
	}

	if req.Content != nil {
		page.Content = datatypes.JSONMap(req.Content)
	}
	if req.IsPublished != nil {
		page.IsPublished = *req.IsPublished
	}

	if req.IsPasswordProtected != nil {
		if *req.IsPasswordProtected {
			if !limits.PasswordProtection {
				return nil, domain.ErrPasswordUnavailable
			}
			if req.Password == nil && page.PasswordHash == nil {
				return nil, domain.ErrPasswordRequired
			}
			page.IsPasswordProtected = true
		} else {
			page.IsPasswordProtected = false
			page.PasswordHash = nil
		}
	}

	if req.Password != nil && page.IsPasswordProtected {
		if strings.TrimSpace(*req.Password) == "" {
			return nil, domain.ErrPasswordRequired
		}
		hashed, err := password.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		page.PasswordHash = &hashed
	}

	page.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, page); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrSlugTaken
		}
		return nil, err
	}

	resp := toResponse(page)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	profileID, err := s.profileID(ctx)
	if err != nil {
		return err
	}

	pageID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		page, err := s.repo.FindByID(ctx, tx, profileID, pageID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, profileID, pageID); err != nil {
			return err
		}
		// Close the gap so survivors stay dense at 0..n-2.
		return s.repo.ShiftAfterRemoval(ctx, tx, profileID, page.Position)
	})
}

func (s *Service) Reorder(ctx context.Context, req domain.ReorderRequest) ([]domain.Response, error) {
	profileID, err := s.profileID(ctx)
	if err != nil {
		return nil, err
	}

	submitted := make([]ordering.Entry, 0, len(req.PageOrders))
	for _, po := range req.PageOrders {
		id, err := parseID(po.ID)
		if err != nil {
			return nil, domain.ErrInvalidReorder
		}
		submitted = append(submitted, ordering.Entry{ID: id, Position: po.Position})
	}

	var pages []domain.Page
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.List(ctx, tx, profileID)
		if err != nil {
			return err
		}

		currentEntries := make([]ordering.Entry, len(current))
		for i := range current {
			currentEntries[i] = ordering.Entry{ID: current[i].ID, Position: current[i].Position}
		}

		// A stale tab submitting against an outdated view is rejected here
		// rather than silently corrupting the stored order.
		if err := ordering.SamePermutation(currentEntries, submitted); err != nil {
			return domain.ErrInvalidReorder
		}

		// The client submits the full list; every row gets its new position in
		// one transaction so a failure leaves the stored order untouched.
		if err := s.repo.UpdatePositions(ctx, tx, profileID, fullUpdateSet(submitted)); err != nil {
			return err
		}

		s.log.Debug("pages reordered",
			zap.String("profile_id", profileID.String()),
			zap.Int("moved", len(ordering.Changed(currentEntries, submitted))),
		)

		pages, err = s.repo.List(ctx, tx, profileID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(pages))
	for i := range pages {
		resp = append(resp, toResponse(&pages[i]))
	}
	return resp, nil
}

func (s *Service) profileID(ctx context.Context) (snowflake.ID, error) {
	profileID, ok := profilectx.ProfileIDFromContext(ctx)
	if !ok || profileID == 0 {
		return 0, domain.ErrInvalidProfile
	}
	return profileID, nil
}

func (s *Service) profileLimits(ctx context.Context) (snowflake.ID, tier.Limits, error) {
	profileID, err := s.profileID(ctx)
	if err != nil {
		return 0, tier.Limits{}, err
	}
	profile, err := s.profileRepo.FindByID(ctx, s.db, profileID)
	if err != nil {
		return 0, tier.Limits{}, err
	}
	return profileID, tier.LimitsFor(tier.Normalize(profile.Subscription)), nil
}

func resolveSlug(raw, title string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		candidate = title
	}
	generated := goslug.Make(candidate)
	if generated == "" {
		return "", domain.ErrInvalidSlug
	}
	return generated, nil
}

func fullUpdateSet(entries []ordering.Entry) []ordering.Update {
	updates := make([]ordering.Update, 0, len(entries))
	for _, e := range ordering.Sort(entries) {
		updates = append(updates, ordering.Update{ID: e.ID, Position: e.Position})
	}
	return updates
}

func parseID(value string) (snowflake.ID, error) {
	parsed, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || parsed == 0 {
		return 0, domain.ErrInvalidID
	}
	return parsed, nil
}

func toResponse(p *domain.Page) domain.Response {
	resp := domain.Response{
		ID:                  p.ID.String(),
		ProfileID:           p.ProfileID.String(),
		Position:            p.Position,
		Type:                p.Type,
		Title:               p.Title,
		Slug:                p.Slug,
		IsPublished:         p.IsPublished,
		IsPasswordProtected: p.IsPasswordProtected,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	if len(p.Content) > 0 {
		resp.Content = map[string]any(p.Content)
	}
	return resp
}

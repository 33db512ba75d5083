package service

import (
	"context"
	"strings"

	authdomain "github.com/sparklinkhq/sparklink/internal/auth/domain"
	"github.com/sparklinkhq/sparklink/internal/auth/password"
	"github.com/sparklinkhq/sparklink/internal/config"
	gallerydomain "github.com/sparklinkhq/sparklink/internal/gallery/domain"
	"github.com/sparklinkhq/sparklink/internal/metrics"
	pagedomain "github.com/sparklinkhq/sparklink/internal/page/domain"
	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	"github.com/sparklinkhq/sparklink/internal/publicsite/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Cache       domain.SiteCache
	Metrics     *metrics.Metrics `optional:"true"`
	Themes      *config.ThemeConfigHolder
	UserRepo    authdomain.Repository
	ProfileRepo profiledomain.Repository
	PageRepo    pagedomain.Repository
	GalleryRepo gallerydomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	cache       domain.SiteCache
	metrics     *metrics.Metrics
	themes      *config.ThemeConfigHolder
	userRepo    authdomain.Repository
	profileRepo profiledomain.Repository
	pageRepo    pagedomain.Repository
	galleryRepo gallerydomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("publicsite.service"),
		cache:       p.Cache,
		metrics:     p.Metrics,
		themes:      p.Themes,
		userRepo:    p.UserRepo,
		profileRepo: p.ProfileRepo,
		pageRepo:    p.PageRepo,
		galleryRepo: p.GalleryRepo,
	}
}

func (s *Service) Resolve(ctx context.Context, username string) (*domain.SiteResponse, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return nil, domain.ErrSiteNotFound
	}

	if site, ok := s.cache.Get(ctx, username); ok {
		s.metrics.ObserveCacheLookup(true)
		return site, nil
	}
	s.metrics.ObserveCacheLookup(false)

	user, profile, err := s.publishedProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	pages, err := s.pageRepo.ListPublished(ctx, s.db, profile.ID)
	if err != nil {
		return nil, err
	}
	items, err := s.galleryRepo.ListVisible(ctx, s.db, profile.ID)
	if err != nil {
		return nil, err
	}

	site := &domain.SiteResponse{
		Profile: s.profileView(user, profile),
		Pages:   make([]domain.PageView, 0, len(pages)),
		Gallery: make([]domain.GalleryView, 0, len(items)),
	}
	for i := range pages {
		site.Pages = append(site.Pages, pageView(&pages[i]))
	}
	for i := range items {
		item := &items[i]
		site.Gallery = append(site.Gallery, domain.GalleryView{
			ID:          item.ID.String(),
			Position:    item.Position,
			Title:       item.Title,
			Description: item.Description,
			Category:    item.Category,
			Tags:        []string(item.Tags),
			ImageURL:    item.ImageURL,
		})
	}

	s.cache.Set(ctx, username, site)
	return site, nil
}

func (s *Service) UnlockPage(ctx context.Context, username, slug, pagePassword string) (*domain.PageContent, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	_, profile, err := s.publishedProfile(ctx, username)
	if err != nil {
		return nil, err
	}

	page, err := s.pageRepo.FindBySlug(ctx, s.db, profile.ID, strings.TrimSpace(slug))
	if err != nil {
		if err == pagedomain.ErrNotFound {
			return nil, domain.ErrPageNotFound
		}
		return nil, err
	}
	if !page.IsPublished {
		return nil, domain.ErrPageNotFound
	}
	if !page.IsPasswordProtected || page.PasswordHash == nil {
		return nil, domain.ErrPageNotProtected
	}
	if pagePassword == "" {
		return nil, domain.ErrPasswordRequired
	}
	if !password.Verify(pagePassword, *page.PasswordHash) {
		return nil, domain.ErrIncorrectPassword
	}

	return &domain.PageContent{
		Slug:    page.Slug,
		Title:   page.Title,
		Content: map[string]any(page.Content),
	}, nil
}

func (s *Service) Invalidate(ctx context.Context, username string) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return
	}
	s.cache.Delete(ctx, username)
}

func (s *Service) publishedProfile(ctx context.Context, username string) (*authdomain.User, *profiledomain.Profile, error) {
	user, err := s.userRepo.FindByUsername(ctx, s.db, username)
	if err != nil {
		if err == authdomain.ErrUserNotFound {
			return nil, nil, domain.ErrSiteNotFound
		}
		return nil, nil, err
	}
	profile, err := s.profileRepo.FindByUserID(ctx, s.db, user.ID)
	if err != nil {
		if err == profiledomain.ErrNotFound {
			return nil, nil, domain.ErrSiteNotFound
		}
		return nil, nil, err
	}
	if !profile.IsPublished {
		return nil, nil, domain.ErrSiteNotFound
	}
	return user, profile, nil
}

func (s *Service) profileView(user *authdomain.User, profile *profiledomain.Profile) domain.ProfileView {
	view := domain.ProfileView{
		Username:     user.Username,
		DisplayName:  profile.DisplayName,
		Headline:     profile.Headline,
		Bio:          profile.Bio,
		TemplateCode: profile.TemplateCode,
		ColorScheme:  profile.ColorScheme,
	}
	if len(profile.SocialLinks) > 0 {
		view.SocialLinks = map[string]any(profile.SocialLinks)
	}
	if profile.ColorScheme != nil {
		if palette, ok := s.themes.Scheme(*profile.ColorScheme); ok {
			view.Palette = &palette
		}
	}
	return view
}

func pageView(page *pagedomain.Page) domain.PageView {
	view := domain.PageView{
		ID:                  page.ID.String(),
		Position:            page.Position,
		Type:                string(page.Type),
		Title:               page.Title,
		Slug:                page.Slug,
		IsPasswordProtected: page.IsPasswordProtected,
	}
	if !page.IsPasswordProtected && page.Content != nil {
		view.Content = map[string]any(page.Content)
	}
	return view
}

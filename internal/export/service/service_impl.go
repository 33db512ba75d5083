package service

import (
	"context"
	"io"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/sparklinkhq/sparklink/internal/export/domain"
	"github.com/sparklinkhq/sparklink/internal/export/pdf"
	pagedomain "github.com/sparklinkhq/sparklink/internal/page/domain"
	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	"github.com/sparklinkhq/sparklink/internal/profilectx"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Renderer    pdf.Renderer
	PageRepo    pagedomain.Repository
	ProfileRepo profiledomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	renderer    pdf.Renderer
	pageRepo    pagedomain.Repository
	profileRepo profiledomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("export.service"),
		renderer:    p.Renderer,
		pageRepo:    p.PageRepo,
		profileRepo: p.ProfileRepo,
	}
}

func (s *Service) ExportResume(ctx context.Context, pageID string) (*domain.Document, error) {
	profileID, ok := profilectx.ProfileIDFromContext(ctx)
	if !ok || profileID == 0 {
		return nil, profiledomain.ErrInvalidProfile
	}

	id, err := snowflake.ParseString(strings.TrimSpace(pageID))
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	page, err := s.pageRepo.FindByID(ctx, s.db, profileID, id)
	if err != nil {
		return nil, err
	}
	if page.Type != pagedomain.PageTypeResume {
		return nil, domain.ErrNotExportable
	}

	profile, err := s.profileRepo.FindByID(ctx, s.db, profileID)
	if err != nil {
		return nil, err
	}

	data := resumeData(profile, page)
	reader, err := s.renderer.RenderResume(ctx, data)
	if err != nil {
		return nil, err
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	s.log.Info("resume exported",
		zap.String("profile_id", profileID.String()),
		zap.String("page_id", page.ID.String()),
		zap.Int("bytes", len(content)),
	)
	return &domain.Document{
		FileName:    page.Slug + ".pdf",
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

// resumeData flattens the page's semi-structured content into the renderer's
// shape; unknown keys are ignored.
func resumeData(profile *profiledomain.Profile, page *pagedomain.Page) pdf.ResumeData {
	data := pdf.ResumeData{
		Name:     profile.DisplayName,
		Headline: page.Title,
	}
	if profile.Headline != nil {
		data.Headline = *profile.Headline
	}
	if page.Content == nil {
		return data
	}

	if headline, ok := page.Content["headline"].(string); ok && headline != "" {
		data.Headline = headline
	}
	if email, ok := page.Content["email"].(string); ok {
		data.Email = email
	}

	rawSections, ok := page.Content["sections"].([]any)
	if !ok {
		return data
	}
	for _, raw := range rawSections {
		section, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		out := pdf.ResumeSection{
			Title: str(section, "title"),
			Body:  str(section, "body"),
		}
		if items, ok := section["items"].([]any); ok {
			for _, rawItem := range items {
				item, ok := rawItem.(map[string]any)
				if !ok {
					continue
				}
				out.Items = append(out.Items, pdf.ResumeItem{
					Heading:     str(item, "heading"),
					Subheading:  str(item, "subheading"),
					Period:      str(item, "period"),
					Description: str(item, "description"),
				})
			}
		}
		data.Sections = append(data.Sections, out)
	}
	return data
}

func str(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return v
}

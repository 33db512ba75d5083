package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/sparklinkhq/sparklink/internal/export/domain"
	"github.com/sparklinkhq/sparklink/internal/export/pdf"
	pagedomain "github.com/sparklinkhq/sparklink/internal/page/domain"
	pagerepository "github.com/sparklinkhq/sparklink/internal/page/repository"
	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	profilerepository "github.com/sparklinkhq/sparklink/internal/profile/repository"
	"github.com/sparklinkhq/sparklink/internal/profilectx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type fakeRenderer struct {
	got pdf.ResumeData
}

func (f *fakeRenderer) RenderResume(_ context.Context, data pdf.ResumeData) (io.Reader, error) {
	f.got = data
	return strings.NewReader("%PDF-fake"), nil
}

func setup(t *testing.T) (domain.Service, *fakeRenderer, context.Context, *gorm.DB, snowflake.ID) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&profiledomain.Profile{}, &pagedomain.Page{}))

	genID, err := snowflake.NewNode(1)
	require.NoError(t, err)

	headline := "Engineer & Illustrator"
	profileID := genID.Generate()
	require.NoError(t, profilerepository.Provide().Create(context.Background(), conn, &profiledomain.Profile{
		ID:          profileID,
		UserID:      genID.Generate(),
		DisplayName: "Ada Lovelace",
		Headline:    &headline,
	}))

	renderer := &fakeRenderer{}
	svc := New(Params{
		DB:          conn,
		Log:         zap.NewNop(),
		Renderer:    renderer,
		PageRepo:    pagerepository.Provide(),
		ProfileRepo: profilerepository.Provide(),
	})

	return svc, renderer, profilectx.WithProfileID(context.Background(), profileID), conn, profileID
}

func addPage(t *testing.T, conn *gorm.DB, profileID snowflake.ID, pageType pagedomain.PageType, content datatypes.JSONMap) *pagedomain.Page {
	t.Helper()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	page := &pagedomain.Page{
		ID:        node.Generate(),
		ProfileID: profileID,
		Type:      pageType,
		Title:     "Resume",
		Slug:      "resume",
		Content:   content,
	}
	require.NoError(t, pagerepository.Provide().Create(context.Background(), conn, page))
	return page
}

func TestExportResume(t *testing.T) {
	svc, renderer, ctx, conn, profileID := setup(t)
	page := addPage(t, conn, profileID, pagedomain.PageTypeResume, datatypes.JSONMap{
		"email": "ada@example.com",
		"sections": []any{
			map[string]any{
				"title": "Experience",
				"items": []any{
					map[string]any{
						"heading":    "Analytical Engines Ltd",
						"subheading": "Programmer",
						"period":     "1842-1843",
					},
				},
			},
		},
	})

	doc, err := svc.ExportResume(ctx, page.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", doc.FileName)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.NotEmpty(t, doc.Content)

	assert.Equal(t, "Ada Lovelace", renderer.got.Name)
	assert.Equal(t, "ada@example.com", renderer.got.Email)
	require.Len(t, renderer.got.Sections, 1)
	assert.Equal(t, "Experience", renderer.got.Sections[0].Title)
	require.Len(t, renderer.got.Sections[0].Items, 1)
	assert.Equal(t, "Analytical Engines Ltd", renderer.got.Sections[0].Items[0].Heading)
}

func TestExportRejectsNonResumePages(t *testing.T) {
	svc, _, ctx, conn, profileID := setup(t)
	page := addPage(t, conn, profileID, pagedomain.PageTypeAbout, nil)

	_, err := svc.ExportResume(ctx, page.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotExportable)
}

func TestExportUnknownPage(t *testing.T) {
	svc, _, ctx, _, _ := setup(t)

	_, err := svc.ExportResume(ctx, "123456789")
	assert.ErrorIs(t, err, pagedomain.ErrNotFound)
}

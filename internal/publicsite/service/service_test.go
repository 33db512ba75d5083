package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/sparklinkhq/sparklink/internal/auth/domain"
	authrepository "github.com/sparklinkhq/sparklink/internal/auth/repository"
	"github.com/sparklinkhq/sparklink/internal/auth/password"
	"github.com/sparklinkhq/sparklink/internal/config"
	gallerydomain "github.com/sparklinkhq/sparklink/internal/gallery/domain"
	galleryrepository "github.com/sparklinkhq/sparklink/internal/gallery/repository"
	pagedomain "github.com/sparklinkhq/sparklink/internal/page/domain"
	pagerepository "github.com/sparklinkhq/sparklink/internal/page/repository"
	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	profilerepository "github.com/sparklinkhq/sparklink/internal/profile/repository"
	"github.com/sparklinkhq/sparklink/internal/publicsite/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type testSite struct {
	svc       domain.Service
	db        *gorm.DB
	genID     *snowflake.Node
	profileID snowflake.ID
}

func setup(t *testing.T, published bool) *testSite {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&authdomain.User{}, &profiledomain.Profile{}, &pagedomain.Page{}, &gallerydomain.GalleryItem{},
	))

	genID, err := snowflake.NewNode(1)
	require.NoError(t, err)

	themes, err := config.NewStaticThemeConfigHolder(config.DefaultThemeConfig())
	require.NoError(t, err)

	userRepo := authrepository.Provide()
	profileRepo := profilerepository.Provide()

	userID := genID.Generate()
	require.NoError(t, userRepo.Create(context.Background(), conn, &authdomain.User{
		ID:       userID,
		Username: "ada",
		Email:    "ada@example.com",
	}))

	scheme := "midnight"
	profileID := genID.Generate()
	require.NoError(t, profileRepo.Create(context.Background(), conn, &profiledomain.Profile{
		ID:           profileID,
		UserID:       userID,
		DisplayName:  "Ada Lovelace",
		Subscription: "RISE",
		ColorScheme:  &scheme,
		IsPublished:  published,
	}))

	svc := New(Params{
		DB:          conn,
		Log:         zap.NewNop(),
		Cache:       NewMemorySiteCache(),
		Themes:      themes,
		UserRepo:    userRepo,
		ProfileRepo: profileRepo,
		PageRepo:    pagerepository.Provide(),
		GalleryRepo: galleryrepository.Provide(),
	})

	return &testSite{svc: svc, db: conn, genID: genID, profileID: profileID}
}

func (ts *testSite) addPage(t *testing.T, position int, title string, published, protected bool, pagePassword string) {
	t.Helper()
	page := &pagedomain.Page{
		ID:          ts.genID.Generate(),
		ProfileID:   ts.profileID,
		Position:    position,
		Type:        pagedomain.PageTypeCustom,
		Title:       title,
		Slug:        title,
		Content:     datatypes.JSONMap{"headline": title},
		IsPublished: published,
	}
	if protected {
		hash, err := password.Hash(pagePassword)
		require.NoError(t, err)
		page.IsPasswordProtected = true
		page.PasswordHash = &hash
	}
	require.NoError(t, pagerepository.Provide().Create(context.Background(), ts.db, page))
}

func (ts *testSite) addGalleryItem(t *testing.T, position int, title string, visible bool) {
	t.Helper()
	require.NoError(t, galleryrepository.Provide().Create(context.Background(), ts.db, &gallerydomain.GalleryItem{
		ID:        ts.genID.Generate(),
		ProfileID: ts.profileID,
		Position:  position,
		Title:     title,
		ImageURL:  "https://img.example.com/" + title + ".jpg",
		IsVisible: visible,
	}))
}

func TestResolvePublishedSite(t *testing.T) {
	ts := setup(t, true)
	ts.addPage(t, 0, "home", true, false, "")
	ts.addPage(t, 1, "drafts", false, false, "")
	ts.addPage(t, 2, "clients", true, true, "hunter22")
	ts.addGalleryItem(t, 0, "sunrise", true)
	ts.addGalleryItem(t, 1, "hidden", false)

	site, err := ts.svc.Resolve(context.Background(), "ada")
	require.NoError(t, err)

	assert.Equal(t, "ada", site.Profile.Username)
	assert.Equal(t, "Ada Lovelace", site.Profile.DisplayName)
	require.NotNil(t, site.Profile.Palette)
	assert.Equal(t, "midnight", site.Profile.Palette.Code)

	// Drafts are absent; protected pages are listed without content.
	require.Len(t, site.Pages, 2)
	assert.Equal(t, "home", site.Pages[0].Slug)
	assert.NotNil(t, site.Pages[0].Content)
	assert.Equal(t, "clients", site.Pages[1].Slug)
	assert.True(t, site.Pages[1].IsPasswordProtected)
	assert.Nil(t, site.Pages[1].Content)

	require.Len(t, site.Gallery, 1)
	assert.Equal(t, "sunrise", site.Gallery[0].Title)
}

func TestResolveUnpublishedSiteNotFound(t *testing.T) {
	ts := setup(t, false)

	_, err := ts.svc.Resolve(context.Background(), "ada")
	assert.ErrorIs(t, err, domain.ErrSiteNotFound)
}

func TestResolveUnknownUsernameNotFound(t *testing.T) {
	ts := setup(t, true)

	_, err := ts.svc.Resolve(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrSiteNotFound)
}

func TestResolveServesFromCacheUntilInvalidated(t *testing.T) {
	ts := setup(t, true)
	ts.addPage(t, 0, "home", true, false, "")

	first, err := ts.svc.Resolve(context.Background(), "ada")
	require.NoError(t, err)
	require.Len(t, first.Pages, 1)

	// A write that bypasses the service is invisible until the cache entry
	// is dropped.
	ts.addPage(t, 1, "about", true, false, "")

	cached, err := ts.svc.Resolve(context.Background(), "ada")
	require.NoError(t, err)
	assert.Len(t, cached.Pages, 1)

	ts.svc.Invalidate(context.Background(), "ada")

	fresh, err := ts.svc.Resolve(context.Background(), "ada")
	require.NoError(t, err)
	assert.Len(t, fresh.Pages, 2)
}

func TestUnlockPage(t *testing.T) {
	ts := setup(t, true)
	ts.addPage(t, 0, "clients", true, true, "hunter22")
	ts.addPage(t, 1, "open", true, false, "")

	content, err := ts.svc.UnlockPage(context.Background(), "ada", "clients", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "clients", content.Slug)
	assert.Equal(t, "clients", content.Content["headline"])

	_, err = ts.svc.UnlockPage(context.Background(), "ada", "clients", "wrong")
	assert.ErrorIs(t, err, domain.ErrIncorrectPassword)

	_, err = ts.svc.UnlockPage(context.Background(), "ada", "clients", "")
	assert.ErrorIs(t, err, domain.ErrPasswordRequired)

	_, err = ts.svc.UnlockPage(context.Background(), "ada", "open", "whatever")
	assert.ErrorIs(t, err, domain.ErrPageNotProtected)

	_, err = ts.svc.UnlockPage(context.Background(), "ada", "missing", "x")
	assert.ErrorIs(t, err, domain.ErrPageNotFound)
}

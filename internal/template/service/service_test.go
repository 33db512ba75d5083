package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	authdomain "github.com/sparklinkhq/sparklink/internal/auth/domain"
	authrepository "github.com/sparklinkhq/sparklink/internal/auth/repository"
	"github.com/sparklinkhq/sparklink/internal/clock"
	"github.com/sparklinkhq/sparklink/internal/config"
	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	profilerepository "github.com/sparklinkhq/sparklink/internal/profile/repository"
	profileservice "github.com/sparklinkhq/sparklink/internal/profile/service"
	"github.com/sparklinkhq/sparklink/internal/profilectx"
	"github.com/sparklinkhq/sparklink/internal/template/domain"
	"github.com/sparklinkhq/sparklink/internal/template/repository"
	"github.com/sparklinkhq/sparklink/internal/tier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func setup(t *testing.T, subscription tier.Tier) (domain.Service, context.Context, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&authdomain.User{}, &profiledomain.Profile{}, &domain.Template{}))

	genID, err := snowflake.NewNode(1)
	require.NoError(t, err)

	themes, err := config.NewStaticThemeConfigHolder(config.DefaultThemeConfig())
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	profileRepo := profilerepository.Provide()
	userRepo := authrepository.Provide()

	profileSvc := profileservice.New(profileservice.Params{
		DB:       conn,
		Log:      zap.NewNop(),
		GenID:    genID,
		Clock:    fakeClock,
		Repo:     profileRepo,
		UserRepo: userRepo,
		Themes:   themes,
	})

	profileID := genID.Generate()
	require.NoError(t, profileRepo.Create(context.Background(), conn, &profiledomain.Profile{
		ID:           profileID,
		UserID:       genID.Generate(),
		DisplayName:  "Test Maker",
		Subscription: string(subscription),
	}))

	svc := New(Params{
		DB:          conn,
		Log:         zap.NewNop(),
		Repo:        repository.Provide(),
		ProfileRepo: profileRepo,
		ProfileSvc:  profileSvc,
	})

	return svc, profilectx.WithProfileID(context.Background(), profileID), conn
}

func seedTemplate(t *testing.T, conn *gorm.DB, code string, required tier.Tier) *domain.Template {
	t.Helper()
	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	tmpl := &domain.Template{
		ID:           node.Generate(),
		Code:         code,
		Name:         code,
		RequiredTier: string(required),
		IsActive:     true,
	}
	require.NoError(t, repository.Provide().Upsert(context.Background(), conn, tmpl))
	return tmpl
}

func TestListAnnotatesAccessByTier(t *testing.T) {
	svc, ctx, conn := setup(t, tier.Starter)
	seedTemplate(t, conn, "minimal", tier.Starter)
	seedTemplate(t, conn, "premium", tier.Rise)
	seedTemplate(t, conn, "studio", tier.Blaze)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)

	access := map[string]bool{}
	for _, tmpl := range list {
		access[tmpl.Code] = tmpl.CanAccess
	}
	assert.True(t, access["minimal"])
	assert.False(t, access["premium"])
	assert.False(t, access["studio"])
}

func TestApplyDeniedBelowRequiredTier(t *testing.T) {
	svc, ctx, conn := setup(t, tier.Starter)
	tmpl := seedTemplate(t, conn, "premium", tier.Rise)

	_, err := svc.Apply(ctx, domain.ApplyRequest{ID: tmpl.ID.String()})
	assert.ErrorIs(t, err, domain.ErrTemplateLocked)
}

func TestApplyAllowedAtAndAboveRequiredTier(t *testing.T) {
	for _, sub := range []tier.Tier{tier.Rise, tier.Blaze} {
		svc, ctx, conn := setup(t, sub)
		tmpl := seedTemplate(t, conn, "premium", tier.Rise)

		resp, err := svc.Apply(ctx, domain.ApplyRequest{ID: tmpl.ID.String(), ColorScheme: "midnight"})
		require.NoError(t, err)
		require.NotNil(t, resp.TemplateCode)
		assert.Equal(t, "premium", *resp.TemplateCode)
		require.NotNil(t, resp.ColorScheme)
		assert.Equal(t, "midnight", *resp.ColorScheme)
	}
}

func TestApplyRejectsUnknownColorScheme(t *testing.T) {
	svc, ctx, conn := setup(t, tier.Blaze)
	tmpl := seedTemplate(t, conn, "studio", tier.Starter)

	_, err := svc.Apply(ctx, domain.ApplyRequest{ID: tmpl.ID.String(), ColorScheme: "neon"})
	assert.ErrorIs(t, err, profiledomain.ErrInvalidColorScheme)
}

func TestApplyRejectsSchemeOutsideTemplateList(t *testing.T) {
	svc, ctx, conn := setup(t, tier.Blaze)

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	tmpl := &domain.Template{
		ID:           node.Generate(),
		Code:         "mono-only",
		Name:         "Mono Only",
		Description:  strPtr("single palette"),
		RequiredTier: string(tier.Starter),
		ColorSchemes: []string{"mono"},
		IsActive:     true,
	}
	require.NoError(t, repository.Provide().Upsert(context.Background(), conn, tmpl))

	_, err = svc.Apply(ctx, domain.ApplyRequest{ID: tmpl.ID.String(), ColorScheme: "midnight"})
	assert.ErrorIs(t, err, domain.ErrSchemeUnsupported)
}

func TestApplyInactiveTemplateNotFound(t *testing.T) {
	svc, ctx, conn := setup(t, tier.Blaze)
	tmpl := seedTemplate(t, conn, "retired", tier.Starter)
	require.NoError(t, conn.Model(&domain.Template{}).Where("id = ?", tmpl.ID).Update("is_active", false).Error)

	_, err := svc.Apply(ctx, domain.ApplyRequest{ID: tmpl.ID.String()})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/sparklinkhq/sparklink/internal/clock"
	"github.com/sparklinkhq/sparklink/internal/ordering"
	"github.com/sparklinkhq/sparklink/internal/page/domain"
	pagerepository "github.com/sparklinkhq/sparklink/internal/page/repository"
	profiledomain "github.com/sparklinkhq/sparklink/internal/profile/domain"
	profilerepository "github.com/sparklinkhq/sparklink/internal/profile/repository"
	"github.com/sparklinkhq/sparklink/internal/profilectx"
	"github.com/sparklinkhq/sparklink/internal/tier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc       domain.Service
	db        *gorm.DB
	repo      domain.Repository
	profileID snowflake.ID
	ctx       context.Context
}

func setup(t *testing.T, subscription tier.Tier) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&profiledomain.Profile{}, &domain.Page{}))

	genID, err := snowflake.NewNode(1)
	require.NoError(t, err)

	profileRepo := profilerepository.Provide()
	profileID := genID.Generate()
	require.NoError(t, profileRepo.Create(context.Background(), conn, &profiledomain.Profile{
		ID:           profileID,
		UserID:       genID.Generate(),
		DisplayName:  "Test Maker",
		Subscription: string(subscription),
	}))

	repo := pagerepository.Provide()
	svc := New(Params{
		DB:          conn,
		Log:         zap.NewNop(),
		GenID:       genID,
		Clock:       clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:        repo,
		ProfileRepo: profileRepo,
	})

	return &fixture{
		svc:       svc,
		db:        conn,
		repo:      repo,
		profileID: profileID,
		ctx:       profilectx.WithProfileID(context.Background(), profileID),
	}
}

func (f *fixture) createPage(t *testing.T, title string) *domain.Response {
	t.Helper()
	resp, err := f.svc.Create(f.ctx, domain.CreateRequest{Type: "CUSTOM", Title: title})
	require.NoError(t, err)
	return resp
}

func TestCreateAppendsAtEnd(t *testing.T) {
	f := setup(t, tier.Blaze)

	first := f.createPage(t, "Home")
	second := f.createPage(t, "About")
	third := f.createPage(t, "Contact")

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, 2, third.Position)
}

func TestCreateGeneratesSlugFromTitle(t *testing.T) {
	f := setup(t, tier.Blaze)

	resp, err := f.svc.Create(f.ctx, domain.CreateRequest{Type: "about", Title: "About Me!"})
	require.NoError(t, err)
	assert.Equal(t, "about-me", resp.Slug)
	assert.Equal(t, domain.PageTypeAbout, resp.Type)
	assert.False(t, resp.IsPublished, "pages start as drafts")
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	f := setup(t, tier.Blaze)
	f.createPage(t, "Projects")

	_, err := f.svc.Create(f.ctx, domain.CreateRequest{Type: "CUSTOM", Title: "Projects"})
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestCreateEnforcesStarterPageLimit(t *testing.T) {
	f := setup(t, tier.Starter)

	f.createPage(t, "One")
	f.createPage(t, "Two")
	f.createPage(t, "Three")

	// A starter profile holds at most three pages.
	_, err := f.svc.Create(f.ctx, domain.CreateRequest{Type: "CUSTOM", Title: "Four"})
	assert.ErrorIs(t, err, domain.ErrPageLimitReached)
}

func TestCreateUnlimitedPagesOnBlaze(t *testing.T) {
	f := setup(t, tier.Blaze)
	for i := 0; i < 15; i++ {
		_, err := f.svc.Create(f.ctx, domain.CreateRequest{Type: "CUSTOM", Title: "Page " + string(rune('A'+i))})
		require.NoError(t, err)
	}
}

func TestPasswordProtectionGatedByTier(t *testing.T) {
	protected := true

	starter := setup(t, tier.Starter)
	_, err := starter.svc.Create(starter.ctx, domain.CreateRequest{
		Type: "CUSTOM", Title: "Secret", IsPasswordProtected: &protected, Password: "hunter22",
	})
	assert.ErrorIs(t, err, domain.ErrPasswordUnavailable)

	rise := setup(t, tier.Rise)
	_, err = rise.svc.Create(rise.ctx, domain.CreateRequest{
		Type: "CUSTOM", Title: "Secret", IsPasswordProtected: &protected,
	})
	assert.ErrorIs(t, err, domain.ErrPasswordRequired)

	resp, err := rise.svc.Create(rise.ctx, domain.CreateRequest{
		Type: "CUSTOM", Title: "Secret", IsPasswordProtected: &protected, Password: "hunter22",
	})
	require.NoError(t, err)
	assert.True(t, resp.IsPasswordProtected)

	stored, err := rise.repo.FindBySlug(rise.ctx, rise.db, rise.profileID, "secret")
	require.NoError(t, err)
	require.NotNil(t, stored.PasswordHash)
	assert.NotContains(t, *stored.PasswordHash, "hunter22")
}

func TestUpdateNeverChangesPosition(t *testing.T) {
	f := setup(t, tier.Blaze)
	f.createPage(t, "Home")
	page := f.createPage(t, "About")

	newTitle := "About the Studio"
	resp, err := f.svc.Update(f.ctx, domain.UpdateRequest{ID: page.ID, Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, page.Position, resp.Position)
	assert.Equal(t, "About the Studio", resp.Title)
	assert.Equal(t, page.Slug, resp.Slug, "slug is stable unless changed explicitly")
}

func TestUpdateDisablingProtectionClearsPassword(t *testing.T) {
	f := setup(t, tier.Rise)
	protected := true
	page, err := f.svc.Create(f.ctx, domain.CreateRequest{
		Type: "CUSTOM", Title: "Secret", IsPasswordProtected: &protected, Password: "hunter22",
	})
	require.NoError(t, err)

	unprotected := false
	resp, err := f.svc.Update(f.ctx, domain.UpdateRequest{ID: page.ID, IsPasswordProtected: &unprotected})
	require.NoError(t, err)
	assert.False(t, resp.IsPasswordProtected)

	stored, err := f.repo.FindBySlug(f.ctx, f.db, f.profileID, "secret")
	require.NoError(t, err)
	assert.Nil(t, stored.PasswordHash)
}

func TestDeleteMiddleClosesGap(t *testing.T) {
	f := setup(t, tier.Blaze)
	f.createPage(t, "A")
	middle := f.createPage(t, "B")
	f.createPage(t, "C")

	require.NoError(t, f.svc.Delete(f.ctx, middle.ID))

	pages, err := f.svc.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "A", pages[0].Title)
	assert.Equal(t, 0, pages[0].Position)
	assert.Equal(t, "C", pages[1].Title)
	assert.Equal(t, 1, pages[1].Position)
}

func TestDeleteLastNeedsNoRenumber(t *testing.T) {
	f := setup(t, tier.Blaze)
	f.createPage(t, "A")
	last := f.createPage(t, "B")

	require.NoError(t, f.svc.Delete(f.ctx, last.ID))

	pages, err := f.svc.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, 0, pages[0].Position)
}

func TestReorderMoveFirstToLast(t *testing.T) {
	f := setup(t, tier.Blaze)
	a := f.createPage(t, "A")
	b := f.createPage(t, "B")
	c := f.createPage(t, "C")

	// Drag A from index 0 to index 2: the client computes B,C,A and submits
	// the full list.
	resp, err := f.svc.Reorder(f.ctx, domain.ReorderRequest{PageOrders: []domain.PageOrder{
		{ID: b.ID, Position: 0},
		{ID: c.ID, Position: 1},
		{ID: a.ID, Position: 2},
	}})
	require.NoError(t, err)

	require.Len(t, resp, 3)
	assert.Equal(t, []string{"B", "C", "A"}, []string{resp[0].Title, resp[1].Title, resp[2].Title})
	for i, page := range resp {
		assert.Equal(t, i, page.Position)
	}
}

func TestReorderRejectsStaleSubmission(t *testing.T) {
	f := setup(t, tier.Blaze)
	a := f.createPage(t, "A")
	b := f.createPage(t, "B")
	f.createPage(t, "C")

	// Missing an item.
	_, err := f.svc.Reorder(f.ctx, domain.ReorderRequest{PageOrders: []domain.PageOrder{
		{ID: a.ID, Position: 0},
		{ID: b.ID, Position: 1},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidReorder)

	// Gapped positions.
	_, err = f.svc.Reorder(f.ctx, domain.ReorderRequest{PageOrders: []domain.PageOrder{
		{ID: a.ID, Position: 0},
		{ID: b.ID, Position: 1},
		{ID: f.createPage(t, "D").ID, Position: 4},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidReorder)
}

type flakyPositionsRepo struct {
	domain.Repository
}

func (r flakyPositionsRepo) UpdatePositions(ctx context.Context, db *gorm.DB, profileID snowflake.ID, updates []ordering.Update) error {
	// Apply part of the batch, then fail: the surrounding transaction must
	// roll the partial write back.
	if len(updates) > 0 {
		if err := r.Repository.UpdatePositions(ctx, db, profileID, updates[:1]); err != nil {
			return err
		}
	}
	return errors.New("write failed")
}

func TestReorderFailureLeavesStoredOrderUntouched(t *testing.T) {
	f := setup(t, tier.Blaze)
	a := f.createPage(t, "A")
	b := f.createPage(t, "B")
	c := f.createPage(t, "C")

	genID, err := snowflake.NewNode(2)
	require.NoError(t, err)
	flaky := New(Params{
		DB:          f.db,
		Log:         zap.NewNop(),
		GenID:       genID,
		Clock:       clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:        flakyPositionsRepo{Repository: pagerepository.Provide()},
		ProfileRepo: profilerepository.Provide(),
	})

	_, err = flaky.Reorder(f.ctx, domain.ReorderRequest{PageOrders: []domain.PageOrder{
		{ID: c.ID, Position: 0},
		{ID: a.ID, Position: 1},
		{ID: b.ID, Position: 2},
	}})
	require.Error(t, err)

	pages, err := f.svc.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{pages[0].Title, pages[1].Title, pages[2].Title})
	for i, page := range pages {
		assert.Equal(t, i, page.Position)
	}
}

func TestOperationsRequireProfileContext(t *testing.T) {
	f := setup(t, tier.Blaze)

	_, err := f.svc.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)

	_, err = f.svc.Create(context.Background(), domain.CreateRequest{Type: "CUSTOM", Title: "X"})
	assert.ErrorIs(t, err, domain.ErrInvalidProfile)
}

package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/sparklinkhq/sparklink/internal/clock"
	"github.com/sparklinkhq/sparklink/internal/gallery/domain"
	"github.com/sparklinkhq/sparklink/internal/gallery/repository"
	"github.com/sparklinkhq/sparklink/internal/profilectx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (domain.Service, context.Context) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.GalleryItem{}))

	genID, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: genID,
		Clock: clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})

	ctx := profilectx.WithProfileID(context.Background(), genID.Generate())
	return svc, ctx
}

func createItem(t *testing.T, svc domain.Service, ctx context.Context, title string) *domain.Response {
	t.Helper()
	resp, err := svc.Create(ctx, domain.CreateRequest{
		Title:    title,
		ImageURL: "https://img.example.com/" + title + ".jpg",
	})
	require.NoError(t, err)
	return resp
}

func TestCreateAppendsAtEnd(t *testing.T) {
	svc, ctx := setup(t)

	first := createItem(t, svc, ctx, "sunrise")
	second := createItem(t, svc, ctx, "sunset")

	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.True(t, first.IsVisible, "items default to visible")
}

func TestCreateValidation(t *testing.T) {
	svc, ctx := setup(t)

	_, err := svc.Create(ctx, domain.CreateRequest{Title: "  ", ImageURL: "https://x/y.jpg"})
	assert.ErrorIs(t, err, domain.ErrInvalidTitle)

	_, err = svc.Create(ctx, domain.CreateRequest{Title: "ok", ImageURL: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestUpdateMetadataKeepsPosition(t *testing.T) {
	svc, ctx := setup(t)
	createItem(t, svc, ctx, "a")
	item := createItem(t, svc, ctx, "b")

	category := "travel"
	hidden := false
	resp, err := svc.Update(ctx, domain.UpdateRequest{
		ID:        item.ID,
		Category:  &category,
		Tags:      []string{"city", "night"},
		IsVisible: &hidden,
	})
	require.NoError(t, err)
	assert.Equal(t, item.Position, resp.Position)
	assert.Equal(t, []string{"city", "night"}, resp.Tags)
	assert.False(t, resp.IsVisible)
}

func TestDeleteMiddleClosesGap(t *testing.T) {
	svc, ctx := setup(t)
	createItem(t, svc, ctx, "a")
	middle := createItem(t, svc, ctx, "b")
	createItem(t, svc, ctx, "c")

	require.NoError(t, svc.Delete(ctx, middle.ID))

	list, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, 0, list.Items[0].Position)
	assert.Equal(t, "a", list.Items[0].Title)
	assert.Equal(t, 1, list.Items[1].Position)
	assert.Equal(t, "c", list.Items[1].Title)
}

func TestReorderFullPermutation(t *testing.T) {
	svc, ctx := setup(t)
	a := createItem(t, svc, ctx, "a")
	b := createItem(t, svc, ctx, "b")
	c := createItem(t, svc, ctx, "c")

	resp, err := svc.Reorder(ctx, domain.ReorderRequest{ItemOrders: []domain.ItemOrder{
		{ID: c.ID, Position: 0},
		{ID: a.ID, Position: 1},
		{ID: b.ID, Position: 2},
	}})
	require.NoError(t, err)
	require.Len(t, resp, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{resp[0].Title, resp[1].Title, resp[2].Title})
}

func TestReorderRejectsPartialList(t *testing.T) {
	svc, ctx := setup(t)
	a := createItem(t, svc, ctx, "a")
	createItem(t, svc, ctx, "b")

	_, err := svc.Reorder(ctx, domain.ReorderRequest{ItemOrders: []domain.ItemOrder{
		{ID: a.ID, Position: 0},
	}})
	assert.ErrorIs(t, err, domain.ErrInvalidReorder)
}

func TestListPaginatesInPositionOrder(t *testing.T) {
	svc, ctx := setup(t)
	for i := 0; i < 5; i++ {
		createItem(t, svc, ctx, fmt.Sprintf("item-%02d", i))
	}

	first, err := svc.List(ctx, domain.ListRequest{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first.Items, 2)
	assert.True(t, first.PageInfo.HasMore)
	assert.Equal(t, "item-00", first.Items[0].Title)
	assert.Equal(t, "item-01", first.Items[1].Title)

	second, err := svc.List(ctx, domain.ListRequest{PageSize: 2, PageToken: first.PageInfo.NextPageToken})
	require.NoError(t, err)
	require.Len(t, second.Items, 2)
	assert.True(t, second.PageInfo.HasMore)
	assert.Equal(t, "item-02", second.Items[0].Title)

	third, err := svc.List(ctx, domain.ListRequest{PageSize: 2, PageToken: second.PageInfo.NextPageToken})
	require.NoError(t, err)
	require.Len(t, third.Items, 1)
	assert.False(t, third.PageInfo.HasMore)
	assert.Empty(t, third.PageInfo.NextPageToken)
}

package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/sparklinkhq/sparklink/internal/clock"
	"github.com/sparklinkhq/sparklink/internal/gallery/domain"
	"github.com/sparklinkhq/sparklink/internal/ordering"
	"github.com/sparklinkhq/sparklink/internal/profilectx"
	"github.com/sparklinkhq/sparklink/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxTitleLength  = 120
	defaultPageSize = 50
	maxPageSize     = 250
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("gallery.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	profileID, err := s.profileID(ctx)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" || len(title) > maxTitleLength {
		return nil, domain.ErrInvalidTitle
	}

	imageURL := strings.TrimSpace(req.ImageURL)
	if imageURL == "" {
		return nil, domain.ErrInvalidImage
	}

	visible := req.IsVisible == nil || *req.IsVisible

	var record *domain.GalleryItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := s.repo.Count(ctx, tx, profileID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		record = &domain.GalleryItem{
			ID:          s.genID.Generate(),
			ProfileID:   profileID,
			Position:    int(count),
			Title:       title,
			Description: req.Description,
			Category:    req.Category,
			ImageURL:    imageURL,
			ObjectKey:   req.ObjectKey,
			IsVisible:   visible,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if len(req.Tags) > 0 {
			record.Tags = datatypes.NewJSONSlice(req.Tags)
		}
		return s.repo.Create(ctx, tx, record)
	})
	if err != nil {
		return nil, err
	}

	resp := toResponse(record)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	profileID, err := s.profileID(ctx)
	if err != nil {
		return nil, err
	}

	limit := req.PageSize
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	afterPosition := -1
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, err
		}
		afterPosition = cursor.Position
	}

	items, err := s.repo.ListAfter(ctx, s.db, profileID, afterPosition, limit+1)
	if err != nil {
		return nil, err
	}

	items, hasMore := pagination.Trim(items, limit)

	resp := &domain.ListResponse{
		Items:    make([]domain.Response, 0, len(items)),
		PageInfo: pagination.PageInfo{HasMore: hasMore},
	}
	for i := range items {
		resp.Items = append(resp.Items, toResponse(&items[i]))
	}

	if hasMore {
		last := items[len(items)-1]
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:       last.ID.String(),
			Position: last.Position,
		})
		if err != nil {
			return nil, err
		}
		resp.PageInfo.NextPageToken = token
	}

	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	profileID, err := s.profileID(ctx)
	if err != nil {
		return nil, err
	}

	itemID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, profileID, itemID)
	if err != nil {
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	profileID, err := s.profileID(ctx)
	if err != nil {
		return nil, err
	}

	itemID, err := parseID(req.ID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, profileID, itemID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" || len(title) > maxTitleLength {
			return nil, domain.ErrInvalidTitle
		}
		item.Title = title
	}
	if req.Description != nil {
		item.Description = req.Description
	}
	if req.Category != nil {
		item.Category = req.Category
	}
	if req.Tags != nil {
		item.Tags = datatypes.NewJSONSlice(req.Tags)
	}
	if req.IsVisible != nil {
		item.IsVisible = *req.IsVisible
	}

	item.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return nil, err
	}

	resp := toResponse(item)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	profileID, err := s.profileID(ctx)
	if err != nil {
		return err
	}

	itemID, err := parseID(id)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindByID(ctx, tx, profileID, itemID)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, profileID, itemID); err != nil {
			return err
		}
		return s.repo.ShiftAfterRemoval(ctx, tx, profileID, item.Position)
	})
}

func (s *Service) Reorder(ctx context.Context, req domain.ReorderRequest) ([]domain.Response, error) {
	profileID, err := s.profileID(ctx)
	if err != nil {
		return nil, err
	}

	submitted := make([]ordering.Entry, 0, len(req.ItemOrders))
	for _, o := range req.ItemOrders {
		id, err := parseID(o.ID)
		if err != nil {
			return nil, err
		}
		submitted = append(submitted, ordering.Entry{ID: id, Position: o.Position})
	}

	var items []domain.GalleryItem
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.List(ctx, tx, profileID)
		if err != nil {
			return err
		}

		entries := make([]ordering.Entry, 0, len(current))
		for _, item := range current {
			entries = append(entries, ordering.Entry{ID: item.ID, Position: item.Position})
		}

		if err := ordering.SamePermutation(entries, submitted); err != nil {
			return domain.ErrInvalidReorder
		}

		updates := ordering.Changed(entries, submitted)
		if err := s.repo.UpdatePositions(ctx, tx, profileID, updates); err != nil {
			return err
		}
		s.log.Debug("gallery reordered",
			zap.String("profile_id", profileID.String()),
			zap.Int("moved", len(updates)),
		)

		items, err = s.repo.List(ctx, tx, profileID)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

func (s *Service) profileID(ctx context.Context) (snowflake.ID, error) {
	profileID, ok := profilectx.ProfileIDFromContext(ctx)
	if !ok {
		return 0, domain.ErrInvalidProfile
	}
	return profileID, nil
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func toResponse(item *domain.GalleryItem) domain.Response {
	return domain.Response{
		ID:          item.ID.String(),
		ProfileID:   item.ProfileID.String(),
		Position:    item.Position,
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		Tags:        []string(item.Tags),
		ImageURL:    item.ImageURL,
		ObjectKey:   item.ObjectKey,
		IsVisible:   item.IsVisible,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kanavphull/stores-rest-api/internal/domain"
	"github.com/kanavphull/stores-rest-api/internal/repository"
	apperrors "github.com/kanavphull/stores-rest-api/pkg/errors"
)

// TagService implements the business logic for tags and item-tag links.
type TagService struct {
	tagRepo   repository.TagRepository
	itemRepo  repository.ItemRepository
	storeRepo repository.StoreRepository
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(
	tagRepo repository.TagRepository,
	itemRepo repository.ItemRepository,
	storeRepo repository.StoreRepository,
	logger *slog.Logger,
) *TagService {
	return &TagService{
		tagRepo:   tagRepo,
		itemRepo:  itemRepo,
		storeRepo: storeRepo,
		logger:    logger,
	}
}

// CreateForStore adds a new tag to a store.
func (s *TagService) CreateForStore(ctx context.Context, storeID int64, name string) (*domain.Tag, error) {
	if _, err := s.storeRepo.GetByID(ctx, storeID); err != nil {
		return nil, fmt.Errorf("get store for tag: %w", err)
	}

	tag := &domain.Tag{
		Name:    name,
		StoreID: storeID,
	}

	if err := s.tagRepo.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.logger.InfoContext(ctx, "tag created",
		slog.Int64("tag_id", tag.ID),
		slog.Int64("store_id", tag.StoreID),
	)

	return tag, nil
}

// Get retrieves a tag by ID.
func (s *TagService) Get(ctx context.Context, id int64) (*domain.Tag, error) {
	tag, err := s.tagRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get tag: %w", err)
	}
	return tag, nil
}

// ListForStore returns all tags of a store.
func (s *TagService) ListForStore(ctx context.Context, storeID int64) ([]domain.Tag, error) {
	if _, err := s.storeRepo.GetByID(ctx, storeID); err != nil {
		return nil, fmt.Errorf("get store for tags: %w", err)
	}

	tags, err := s.tagRepo.ListByStoreID(ctx, storeID)
	if err != nil {
		return nil, fmt.Errorf("list store tags: %w", err)
	}
	return tags, nil
}

// ListForItem returns all tags linked to an item.
func (s *TagService) ListForItem(ctx context.Context, itemID int64) ([]domain.Tag, error) {
	tags, err := s.tagRepo.ListByItemID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("list item tags: %w", err)
	}
	return tags, nil
}

// Delete removes a tag. A tag still linked to items is refused so links are
// always released explicitly first.
func (s *TagService) Delete(ctx context.Context, id int64) error {
	if _, err := s.tagRepo.GetByID(ctx, id); err != nil {
		return fmt.Errorf("get tag for delete: %w", err)
	}

	linked, err := s.tagRepo.CountLinkedItems(ctx, id)
	if err != nil {
		return fmt.Errorf("count tag links: %w", err)
	}
	if linked > 0 {
		return apperrors.InvalidInput("could not delete tag, make sure tag is not associated with any items, then try again")
	}

	if err := s.tagRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	s.logger.InfoContext(ctx, "tag deleted",
		slog.Int64("tag_id", id),
	)

	return nil
}

// LinkToItem attaches a tag to an item. Both must belong to the same store.
func (s *TagService) LinkToItem(ctx context.Context, itemID, tagID int64) (*domain.Tag, error) {
	item, tag, err := s.itemAndTag(ctx, itemID, tagID)
	if err != nil {
		return nil, err
	}

	if item.StoreID != tag.StoreID {
		return nil, apperrors.InvalidInput("make sure item and tag belong to the same store before linking")
	}

	if err := s.tagRepo.Link(ctx, itemID, tagID); err != nil {
		return nil, fmt.Errorf("link tag: %w", err)
	}

	s.logger.InfoContext(ctx, "tag linked to item",
		slog.Int64("item_id", itemID),
		slog.Int64("tag_id", tagID),
	)

	return tag, nil
}

// UnlinkFromItem detaches a tag from an item and returns both for the
// response body.
func (s *TagService) UnlinkFromItem(ctx context.Context, itemID, tagID int64) (*domain.Item, *domain.Tag, error) {
	item, tag, err := s.itemAndTag(ctx, itemID, tagID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.tagRepo.Unlink(ctx, itemID, tagID); err != nil {
		return nil, nil, fmt.Errorf("unlink tag: %w", err)
	}

	s.logger.InfoContext(ctx, "tag unlinked from item",
		slog.Int64("item_id", itemID),
		slog.Int64("tag_id", tagID),
	)

	return item, tag, nil
}

func (s *TagService) itemAndTag(ctx context.Context, itemID, tagID int64) (*domain.Item, *domain.Tag, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, nil, fmt.Errorf("get item: %w", err)
	}

	tag, err := s.tagRepo.GetByID(ctx, tagID)
	if err != nil {
		return nil, nil, fmt.Errorf("get tag: %w", err)
	}

	return item, tag, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kanavphull/stores-rest-api/internal/domain"
	"github.com/kanavphull/stores-rest-api/internal/repository"
	apperrors "github.com/kanavphull/stores-rest-api/pkg/errors"
)

// ItemService implements the business logic for item operations.
type ItemService struct {
	itemRepo repository.ItemRepository
	logger   *slog.Logger
}

// NewItemService creates a new item service.
func NewItemService(itemRepo repository.ItemRepository, logger *slog.Logger) *ItemService {
	return &ItemService{
		itemRepo: itemRepo,
		logger:   logger,
	}
}

// UpsertItemInput holds the parameters for PUT /item/{id}. StoreID is only
// consulted when the item does not exist yet.
type UpsertItemInput struct {
	Name    string
	Price   float64
	StoreID int64
}

// Create adds a new item to a store.
func (s *ItemService) Create(ctx context.Context, name string, price float64, storeID int64) (*domain.Item, error) {
	item := &domain.Item{
		Name:    name,
		Price:   price,
		StoreID: storeID,
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	s.logger.InfoContext(ctx, "item created",
		slog.Int64("item_id", item.ID),
		slog.Int64("store_id", item.StoreID),
	)

	return item, nil
}

// Get retrieves an item by ID.
func (s *ItemService) Get(ctx context.Context, id int64) (*domain.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	return item, nil
}

// List returns all items.
func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	items, err := s.itemRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

// Upsert updates the name and price of the item at the given ID, or creates
// it there when absent. Creation requires a store ID.
func (s *ItemService) Upsert(ctx context.Context, id int64, input UpsertItemInput) (*domain.Item, bool, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err == nil {
		item.Name = input.Name
		item.Price = input.Price
		if err := s.itemRepo.Update(ctx, item); err != nil {
			return nil, false, fmt.Errorf("update item: %w", err)
		}

		s.logger.InfoContext(ctx, "item updated",
			slog.Int64("item_id", item.ID),
		)
		return item, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, fmt.Errorf("get item for upsert: %w", err)
	}

	if input.StoreID == 0 {
		return nil, false, apperrors.InvalidInput("store_id is required to create an item")
	}

	item = &domain.Item{
		ID:      id,
		Name:    input.Name,
		Price:   input.Price,
		StoreID: input.StoreID,
	}
	if err := s.itemRepo.CreateWithID(ctx, item); err != nil {
		return nil, false, fmt.Errorf("create item at id: %w", err)
	}

	s.logger.InfoContext(ctx, "item created via upsert",
		slog.Int64("item_id", item.ID),
		slog.Int64("store_id", item.StoreID),
	)

	return item, true, nil
}

// Delete removes an item.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	if err := s.itemRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	s.logger.InfoContext(ctx, "item deleted",
		slog.Int64("item_id", id),
	)

	return nil
}

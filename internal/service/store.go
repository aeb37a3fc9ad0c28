package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kanavphull/stores-rest-api/internal/domain"
	"github.com/kanavphull/stores-rest-api/internal/repository"
)

// StoreService implements the business logic for store operations.
type StoreService struct {
	storeRepo repository.StoreRepository
	logger    *slog.Logger
}

// NewStoreService creates a new store service.
func NewStoreService(storeRepo repository.StoreRepository, logger *slog.Logger) *StoreService {
	return &StoreService{
		storeRepo: storeRepo,
		logger:    logger,
	}
}

// Create adds a new store. Duplicate names surface as AlreadyExists.
func (s *StoreService) Create(ctx context.Context, name string) (*domain.Store, error) {
	store := &domain.Store{Name: name}

	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	s.logger.InfoContext(ctx, "store created",
		slog.Int64("store_id", store.ID),
		slog.String("name", store.Name),
	)

	return store, nil
}

// Get retrieves a store by ID.
func (s *StoreService) Get(ctx context.Context, id int64) (*domain.Store, error) {
	store, err := s.storeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get store: %w", err)
	}
	return store, nil
}

// List returns all stores.
func (s *StoreService) List(ctx context.Context) ([]domain.Store, error) {
	stores, err := s.storeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return stores, nil
}

// Delete removes a store. Its items and tags go with it.
func (s *StoreService) Delete(ctx context.Context, id int64) error {
	if err := s.storeRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete store: %w", err)
	}

	s.logger.InfoContext(ctx, "store deleted",
		slog.Int64("store_id", id),
	)

	return nil
}

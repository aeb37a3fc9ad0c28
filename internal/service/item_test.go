package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kanavphull/stores-rest-api/internal/domain"
	apperrors "github.com/kanavphull/stores-rest-api/pkg/errors"
)

func TestItemService_Create_Success(t *testing.T) {
	repo := &mockItemRepository{}
	svc := NewItemService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Item")).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Item).ID = 5
	}).Return(nil)

	item, err := svc.Create(ctx, "chair", 19.99, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.ID)
	assert.Equal(t, 19.99, item.Price)
	repo.AssertExpectations(t)
}

func TestItemService_Upsert_UpdatesExisting(t *testing.T) {
	repo := &mockItemRepository{}
	svc := NewItemService(repo, newTestLogger())
	ctx := context.Background()

	existing := &domain.Item{ID: 5, Name: "chair", Price: 19.99, StoreID: 1}
	repo.On("GetByID", ctx, int64(5)).Return(existing, nil)
	repo.On("Update", ctx, mock.MatchedBy(func(i *domain.Item) bool {
		return i.ID == 5 && i.Name == "chair deluxe" && i.Price == 29.99
	})).Return(nil)

	item, created, err := svc.Upsert(ctx, 5, UpsertItemInput{Name: "chair deluxe", Price: 29.99})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "chair deluxe", item.Name)
	// The store of an existing item never changes on update.
	assert.Equal(t, int64(1), item.StoreID)
	repo.AssertExpectations(t)
}

func TestItemService_Upsert_CreatesAtID(t *testing.T) {
	repo := &mockItemRepository{}
	svc := NewItemService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(7)).Return(nil, apperrors.ErrNotFound)
	repo.On("CreateWithID", ctx, mock.MatchedBy(func(i *domain.Item) bool {
		return i.ID == 7 && i.StoreID == 2
	})).Return(nil)

	item, created, err := svc.Upsert(ctx, 7, UpsertItemInput{Name: "desk", Price: 120, StoreID: 2})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(7), item.ID)
	repo.AssertExpectations(t)
}

func TestItemService_Upsert_CreateRequiresStoreID(t *testing.T) {
	repo := &mockItemRepository{}
	svc := NewItemService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(7)).Return(nil, apperrors.ErrNotFound)

	_, _, err := svc.Upsert(ctx, 7, UpsertItemInput{Name: "desk", Price: 120})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	repo.AssertNotCalled(t, "CreateWithID", mock.Anything, mock.Anything)
}

func TestItemService_List(t *testing.T) {
	repo := &mockItemRepository{}
	svc := NewItemService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("List", ctx).Return([]domain.Item{{ID: 5, Name: "chair"}}, nil)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestItemService_Delete_NotFound(t *testing.T) {
	repo := &mockItemRepository{}
	svc := NewItemService(repo, newTestLogger())
	ctx := context.Background()

	repo.On("Delete", ctx, int64(999)).Return(apperrors.ErrNotFound)

	err := svc.Delete(ctx, 999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

package repository

import (
	"context"

	"github.com/kanavphull/stores-rest-api/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user and fills in the generated ID.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// ExistsByUsernameOrEmail reports whether any user holds the username or
	// the email. Registration rejects either collision.
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)

	// Delete removes a user by their identifier.
	Delete(ctx context.Context, id int64) error
}

// StoreRepository defines the interface for store persistence operations.
type StoreRepository interface {
	// Create inserts a new store and fills in the generated ID.
	Create(ctx context.Context, store *domain.Store) error

	// GetByID retrieves a store by its unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.Store, error)

	// List returns all stores ordered by name.
	List(ctx context.Context) ([]domain.Store, error)

	// Delete removes a store by its identifier. Items and tags of the store
	// are removed by cascade.
	Delete(ctx context.Context, id int64) error
}

// ItemRepository defines the interface for item persistence operations.
type ItemRepository interface {
	// Create inserts a new item and fills in the generated ID.
	Create(ctx context.Context, item *domain.Item) error

	// CreateWithID inserts an item under a caller-chosen identifier. Used by
	// the upsert path of PUT /item/{id}.
	CreateWithID(ctx context.Context, item *domain.Item) error

	// GetByID retrieves an item by its unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.Item, error)

	// List returns all items ordered by name.
	List(ctx context.Context) ([]domain.Item, error)

	// Update modifies the name and price of an existing item.
	Update(ctx context.Context, item *domain.Item) error

	// Delete removes an item by its identifier.
	Delete(ctx context.Context, id int64) error
}

// TagRepository defines the interface for tag persistence operations.
type TagRepository interface {
	// Create inserts a new tag and fills in the generated ID.
	Create(ctx context.Context, tag *domain.Tag) error

	// GetByID retrieves a tag by its unique identifier.
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)

	// ListByStoreID returns all tags of a store ordered by name.
	ListByStoreID(ctx context.Context, storeID int64) ([]domain.Tag, error)

	// ListByItemID returns all tags linked to an item.
	ListByItemID(ctx context.Context, itemID int64) ([]domain.Tag, error)

	// CountLinkedItems returns the number of items currently linked to the tag.
	CountLinkedItems(ctx context.Context, tagID int64) (int64, error)

	// Link attaches the tag to the item. Linking twice is a no-op.
	Link(ctx context.Context, itemID, tagID int64) error

	// Unlink detaches the tag from the item.
	Unlink(ctx context.Context, itemID, tagID int64) error

	// Delete removes a tag by its identifier.
	Delete(ctx context.Context, id int64) error
}

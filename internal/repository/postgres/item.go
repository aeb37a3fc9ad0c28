package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/kanavphull/stores-rest-api/internal/domain"
	apperrors "github.com/kanavphull/stores-rest-api/pkg/errors"
)

// ItemRepository implements repository.ItemRepository using PostgreSQL.
type ItemRepository struct {
	db DB
}

// NewItemRepository creates a new PostgreSQL-backed item repository.
func NewItemRepository(db DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Create inserts a new item and fills in the generated ID.
func (r *ItemRepository) Create(ctx context.Context, i *domain.Item) error {
	query := `
		INSERT INTO items (name, price, store_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, i.Name, i.Price, i.StoreID).
		Scan(&i.ID, &i.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("store", strconv.FormatInt(i.StoreID, 10))
		}
		return fmt.Errorf("insert item: %w", err)
	}

	return nil
}

// CreateWithID inserts an item under a caller-chosen identifier, used when
// PUT creates the resource at the requested path.
func (r *ItemRepository) CreateWithID(ctx context.Context, i *domain.Item) error {
	query := `
		INSERT INTO items (id, name, price, store_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query, i.ID, i.Name, i.Price, i.StoreID).
		Scan(&i.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("item", "id", strconv.FormatInt(i.ID, 10))
		}
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("store", strconv.FormatInt(i.StoreID, 10))
		}
		return fmt.Errorf("insert item with id: %w", err)
	}

	return nil
}

// GetByID retrieves an item by its ID.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*domain.Item, error) {
	query := `
		SELECT id, name, price, store_id, created_at
		FROM items
		WHERE id = $1`

	var i domain.Item
	err := r.db.QueryRow(ctx, query, id).Scan(&i.ID, &i.Name, &i.Price, &i.StoreID, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}

	return &i, nil
}

// List returns all items ordered by name.
func (r *ItemRepository) List(ctx context.Context) ([]domain.Item, error) {
	query := `
		SELECT id, name, price, store_id, created_at
		FROM items
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []domain.Item
	for rows.Next() {
		var i domain.Item
		if err := rows.Scan(&i.ID, &i.Name, &i.Price, &i.StoreID, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		items = append(items, i)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate item rows: %w", err)
	}

	if items == nil {
		items = []domain.Item{}
	}

	return items, nil
}

// Update modifies the name and price of an existing item.
func (r *ItemRepository) Update(ctx context.Context, i *domain.Item) error {
	query := `
		UPDATE items
		SET name = $1, price = $2
		WHERE id = $3`

	ct, err := r.db.Exec(ctx, query, i.Name, i.Price, i.ID)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("item", strconv.FormatInt(i.ID, 10))
	}

	return nil
}

// Delete removes an item from the database by its ID.
func (r *ItemRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM items WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("item", strconv.FormatInt(id, 10))
	}

	return nil
}

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

// TagRepository implements repository.TagRepository using PostgreSQL.
type TagRepository struct {
	db DB
}

// NewTagRepository creates a new PostgreSQL-backed tag repository.
func NewTagRepository(db DB) *TagRepository {
	return &TagRepository{db: db}
}

// Create inserts a new tag and fills in the generated ID.
func (r *TagRepository) Create(ctx context.Context, t *domain.Tag) error {
	query := `
		INSERT INTO tags (name, store_id)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, t.Name, t.StoreID).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("tag", "name", t.Name)
		}
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("store", strconv.FormatInt(t.StoreID, 10))
		}
		return fmt.Errorf("insert tag: %w", err)
	}

	return nil
}

// GetByID retrieves a tag by its ID.
func (r *TagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	query := `
		SELECT id, name, store_id, created_at
		FROM tags
		WHERE id = $1`

	var t domain.Tag
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.StoreID, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan tag: %w", err)
	}

	return &t, nil
}

// ListByStoreID returns all tags of a store ordered by name.
func (r *TagRepository) ListByStoreID(ctx context.Context, storeID int64) ([]domain.Tag, error) {
	query := `
		SELECT id, name, store_id, created_at
		FROM tags
		WHERE store_id = $1
		ORDER BY name`

	return r.listTags(ctx, query, storeID)
}

// ListByItemID returns all tags linked to an item.
func (r *TagRepository) ListByItemID(ctx context.Context, itemID int64) ([]domain.Tag, error) {
	query := `
		SELECT t.id, t.name, t.store_id, t.created_at
		FROM tags t
		JOIN items_tags it ON it.tag_id = t.id
		WHERE it.item_id = $1
		ORDER BY t.name`

	return r.listTags(ctx, query, itemID)
}

// CountLinkedItems returns the number of items currently linked to the tag.
func (r *TagRepository) CountLinkedItems(ctx context.Context, tagID int64) (int64, error) {
	query := `SELECT COUNT(*) FROM items_tags WHERE tag_id = $1`

	var count int64
	if err := r.db.QueryRow(ctx, query, tagID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count linked items: %w", err)
	}

	return count, nil
}

// Link attaches the tag to the item. Linking twice is a no-op.
func (r *TagRepository) Link(ctx context.Context, itemID, tagID int64) error {
	query := `
		INSERT INTO items_tags (item_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	if _, err := r.db.Exec(ctx, query, itemID, tagID); err != nil {
		return fmt.Errorf("link item %d to tag %d: %w", itemID, tagID, err)
	}

	return nil
}

// Unlink detaches the tag from the item.
func (r *TagRepository) Unlink(ctx context.Context, itemID, tagID int64) error {
	query := `DELETE FROM items_tags WHERE item_id = $1 AND tag_id = $2`

	if _, err := r.db.Exec(ctx, query, itemID, tagID); err != nil {
		return fmt.Errorf("unlink item %d from tag %d: %w", itemID, tagID, err)
	}

	return nil
}

// Delete removes a tag from the database by its ID.
func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM tags WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("tag", strconv.FormatInt(id, 10))
	}

	return nil
}

// listTags executes a query expected to return tag rows.
func (r *TagRepository) listTags(ctx context.Context, query string, args ...any) ([]domain.Tag, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var t domain.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.StoreID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag row: %w", err)
		}
		tags = append(tags, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tag rows: %w", err)
	}

	if tags == nil {
		tags = []domain.Tag{}
	}

	return tags, nil
}

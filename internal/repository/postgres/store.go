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

// StoreRepository implements repository.StoreRepository using PostgreSQL.
type StoreRepository struct {
	db DB
}

// NewStoreRepository creates a new PostgreSQL-backed store repository.
func NewStoreRepository(db DB) *StoreRepository {
	return &StoreRepository{db: db}
}

// Create inserts a new store and fills in the generated ID.
func (r *StoreRepository) Create(ctx context.Context, s *domain.Store) error {
	query := `
		INSERT INTO stores (name)
		VALUES ($1)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query, s.Name).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("store", "name", s.Name)
		}
		return fmt.Errorf("insert store: %w", err)
	}

	return nil
}

// GetByID retrieves a store by its ID.
func (r *StoreRepository) GetByID(ctx context.Context, id int64) (*domain.Store, error) {
	query := `
		SELECT id, name, created_at
		FROM stores
		WHERE id = $1`

	var s domain.Store
	err := r.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan store: %w", err)
	}

	return &s, nil
}

// List returns all stores ordered by name.
func (r *StoreRepository) List(ctx context.Context) ([]domain.Store, error) {
	query := `
		SELECT id, name, created_at
		FROM stores
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	defer rows.Close()

	var stores []domain.Store
	for rows.Next() {
		var s domain.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan store row: %w", err)
		}
		stores = append(stores, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate store rows: %w", err)
	}

	if stores == nil {
		stores = []domain.Store{}
	}

	return stores, nil
}

// Delete removes a store by its ID. Items and tags cascade at the schema level.
func (r *StoreRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM stores WHERE id = $1`

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("store", strconv.FormatInt(id, 10))
	}

	return nil
}

package items

import (
	"context"

	"github.com/google/uuid"
	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes read access to the item catalog.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an items repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// List returns the full catalog ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID loads a single catalog item.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).
		First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByName returns every item carrying the exact name. Names are not
// unique in the catalog.
func (r *Repository) FindByName(ctx context.Context, name string) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

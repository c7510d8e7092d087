package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// CreateForUser inserts an empty cart for the user.
func (r *repository) CreateForUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	cart := &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Total:  decimal.Zero,
	}
	if err := r.db.WithContext(ctx).Create(cart).Error; err != nil {
		return nil, err
	}
	return cart, nil
}

// FindByUserID loads the user's cart with entries in insertion order.
func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *repository) AppendEntries(ctx context.Context, entries []models.CartEntry) error {
	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		if entries[i].ID == uuid.Nil {
			entries[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

func (r *repository) DeleteEntries(ctx context.Context, entryIDs []uuid.UUID) error {
	if len(entryIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", entryIDs).
		Delete(&models.CartEntry{}).Error
}

// ClearEntries removes every entry from the cart.
func (r *repository) ClearEntries(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartEntry{}).Error
}

func (r *repository) UpdateTotal(ctx context.Context, cartID uuid.UUID, total decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Update("total", total).Error
}

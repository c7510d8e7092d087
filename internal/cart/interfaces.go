package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository persists carts and their entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateForUser(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
	AppendEntries(ctx context.Context, entries []models.CartEntry) error
	DeleteEntries(ctx context.Context, entryIDs []uuid.UUID) error
	ClearEntries(ctx context.Context, cartID uuid.UUID) error
	UpdateTotal(ctx context.Context, cartID uuid.UUID, total decimal.Decimal) error
}

type userLoader interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

type itemLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

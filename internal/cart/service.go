package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jcampos-dev/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ModifyCartInput identifies the cart by username and names the item and
// quantity to add or remove.
type ModifyCartInput struct {
	Username string
	ItemID   uuid.UUID
	Quantity int
}

// Service exposes cart mutations and reads. Concurrent mutations against the
// same cart resolve last writer wins.
type Service interface {
	AddItem(ctx context.Context, input ModifyCartInput) (*models.Cart, error)
	RemoveItem(ctx context.Context, input ModifyCartInput) (*models.Cart, error)
	GetByUsername(ctx context.Context, username string) (*models.Cart, error)
}

// ServiceParams packages the dependencies for the cart service.
type ServiceParams struct {
	Repo  Repository
	Users userLoader
	Items itemLoader
	Tx    txRunner
}

type service struct {
	repo  Repository
	users userLoader
	items itemLoader
	tx    txRunner
}

// NewService builds a cart service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repository required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user loader required")
	}
	if params.Items == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "item loader required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{
		repo:  params.Repo,
		users: params.Users,
		items: params.Items,
		tx:    params.Tx,
	}, nil
}

// AddItem appends quantity copies of the item to the user's cart. Each copy
// is stored as its own entry with the item's name and price frozen at the
// moment of insertion.
func (s *service) AddItem(ctx context.Context, input ModifyCartInput) (*models.Cart, error) {
	if err := validateModifyInput(input); err != nil {
		return nil, err
	}

	var updated *models.Cart
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, item, err := s.loadCartAndItem(ctx, repo, input)
		if err != nil {
			return err
		}

		nextPosition := 0
		if n := len(cart.Entries); n > 0 {
			nextPosition = cart.Entries[n-1].Position + 1
		}

		entries := make([]models.CartEntry, 0, input.Quantity)
		for i := 0; i < input.Quantity; i++ {
			entries = append(entries, models.CartEntry{
				CartID:    cart.ID,
				ItemID:    item.ID,
				Position:  nextPosition + i,
				ItemName:  item.Name,
				ItemPrice: item.Price,
			})
		}
		if err := repo.AppendEntries(ctx, entries); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append cart entries")
		}

		cart.Entries = append(cart.Entries, entries...)
		total := sumEntries(cart.Entries)
		if err := repo.UpdateTotal(ctx, cart.ID, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart total")
		}
		cart.Total = total
		updated = cart
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// RemoveItem deletes up to quantity copies of the item from the cart,
// earliest entries first. Removing more copies than present empties the
// item from the cart without error.
func (s *service) RemoveItem(ctx context.Context, input ModifyCartInput) (*models.Cart, error) {
	if err := validateModifyInput(input); err != nil {
		return nil, err
	}

	var updated *models.Cart
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		cart, item, err := s.loadCartAndItem(ctx, repo, input)
		if err != nil {
			return err
		}

		removeIDs := make([]uuid.UUID, 0, input.Quantity)
		remaining := make([]models.CartEntry, 0, len(cart.Entries))
		for _, entry := range cart.Entries {
			if entry.ItemID == item.ID && len(removeIDs) < input.Quantity {
				removeIDs = append(removeIDs, entry.ID)
				continue
			}
			remaining = append(remaining, entry)
		}

		if err := repo.DeleteEntries(ctx, removeIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart entries")
		}

		total := sumEntries(remaining)
		if err := repo.UpdateTotal(ctx, cart.ID, total); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart total")
		}

		cart.Entries = remaining
		cart.Total = total
		updated = cart
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// GetByUsername returns the user's cart with entries in insertion order.
func (s *service) GetByUsername(ctx context.Context, username string) (*models.Cart, error) {
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	cart, err := s.repo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) loadCartAndItem(ctx context.Context, repo Repository, input ModifyCartInput) (*models.Cart, *models.Item, error) {
	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	item, err := s.items.FindByID(ctx, input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}

	cart, err := repo.FindByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, item, nil
}

func validateModifyInput(input ModifyCartInput) error {
	if input.Username == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "username required")
	}
	if input.ItemID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	if input.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}
	return nil
}

func sumEntries(entries []models.CartEntry) decimal.Decimal {
	total := decimal.Zero
	for _, entry := range entries {
		total = total.Add(entry.ItemPrice)
	}
	return total
}

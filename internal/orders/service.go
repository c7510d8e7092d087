package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jcampos-dev/storefront-backend/internal/cart"
	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jcampos-dev/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service turns carts into orders and reads order history.
type Service interface {
	PlaceOrder(ctx context.Context, username string) (*models.Order, error)
	History(ctx context.Context, username string) ([]models.Order, error)
}

// ServiceParams packages the dependencies for the checkout service.
type ServiceParams struct {
	Repo  Repository
	Carts cart.Repository
	Users userLoader
	Tx    txRunner
}

type service struct {
	repo  Repository
	carts cart.Repository
	users userLoader
	tx    txRunner
}

// NewService builds a checkout service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders repository required")
	}
	if params.Carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart repository required")
	}
	if params.Users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "user loader required")
	}
	if params.Tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	return &service{
		repo:  params.Repo,
		carts: params.Carts,
		users: params.Users,
		tx:    params.Tx,
	}, nil
}

// PlaceOrder freezes the current cart contents into an order and empties
// the cart, both inside one transaction. The order's line items are copies.
// Later catalog or cart changes never touch a placed order.
func (s *service) PlaceOrder(ctx context.Context, username string) (*models.Order, error) {
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

	var placed *models.Order
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.repo.WithTx(tx)
		cartRepo := s.carts.WithTx(tx)

		userCart, err := cartRepo.FindByUserID(ctx, user.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}

		order := snapshotCart(user.ID, userCart)
		if _, err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if err := cartRepo.ClearEntries(ctx, userCart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		if err := cartRepo.UpdateTotal(ctx, userCart.ID, decimal.Zero); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset cart total")
		}

		placed = order
		return nil
	}); err != nil {
		return nil, err
	}

	return placed, nil
}

// History returns the user's orders, newest first.
func (s *service) History(ctx context.Context, username string) ([]models.Order, error) {
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

	orders, err := s.repo.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load orders")
	}
	return orders, nil
}

func snapshotCart(userID uuid.UUID, userCart *models.Cart) *models.Order {
	items := make([]models.OrderItem, 0, len(userCart.Entries))
	for _, entry := range userCart.Entries {
		items = append(items, models.OrderItem{
			ItemID:   entry.ItemID,
			Position: entry.Position,
			Name:     entry.ItemName,
			Price:    entry.ItemPrice,
		})
	}
	return &models.Order{
		UserID: userID,
		Total:  sumItems(items),
		Items:  items,
	}
}

func sumItems(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)
	}
	return total
}

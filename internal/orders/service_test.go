package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jcampos-dev/storefront-backend/internal/cart"
	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jcampos-dev/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  total NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	cartEntries := `
CREATE TABLE IF NOT EXISTS cart_entries (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  item_name TEXT NOT NULL,
  item_price NUMERIC NOT NULL,
  created_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total NUMERIC NOT NULL,
  created_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  position INTEGER NOT NULL,
  name TEXT NOT NULL,
  price NUMERIC NOT NULL
);`
	for _, ddl := range []string{carts, cartEntries, orders, orderItems} {
		require.NoError(t, db.Exec(ddl).Error)
	}
	return db
}

type sqliteTxRunner struct {
	db *gorm.DB
}

func (r sqliteTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type stubUserLoader struct {
	users map[string]*models.User
}

func (s stubUserLoader) FindByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := s.users[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type checkoutFixture struct {
	svc   Service
	carts cart.Repository
	user  *models.User
	db    *gorm.DB
}

func newCheckoutFixture(t *testing.T) checkoutFixture {
	t.Helper()
	db := setupOrdersTestDB(t)

	user := &models.User{ID: uuid.New(), Username: "buyer-" + uuid.NewString()[:8]}
	cartRepo := cart.NewRepository(db)
	_, err := cartRepo.CreateForUser(context.Background(), user.ID)
	require.NoError(t, err)

	svc, err := NewService(ServiceParams{
		Repo:  NewRepository(db),
		Carts: cartRepo,
		Users: stubUserLoader{users: map[string]*models.User{user.Username: user}},
		Tx:    sqliteTxRunner{db: db},
	})
	require.NoError(t, err)

	return checkoutFixture{svc: svc, carts: cartRepo, user: user, db: db}
}

func (f checkoutFixture) fillCart(t *testing.T, itemID uuid.UUID, name string, price string, qty int) {
	t.Helper()
	ctx := context.Background()

	userCart, err := f.carts.FindByUserID(ctx, f.user.ID)
	require.NoError(t, err)

	next := len(userCart.Entries)
	entries := make([]models.CartEntry, 0, qty)
	for i := 0; i < qty; i++ {
		entries = append(entries, models.CartEntry{
			CartID:    userCart.ID,
			ItemID:    itemID,
			Position:  next + i,
			ItemName:  name,
			ItemPrice: decimal.RequireFromString(price),
		})
	}
	require.NoError(t, f.carts.AppendEntries(ctx, entries))

	reloaded, err := f.carts.FindByUserID(ctx, f.user.ID)
	require.NoError(t, err)
	total := decimal.Zero
	for _, entry := range reloaded.Entries {
		total = total.Add(entry.ItemPrice)
	}
	require.NoError(t, f.carts.UpdateTotal(ctx, userCart.ID, total))
}

func TestPlaceOrderSnapshotsAndEmptiesCart(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	itemID := uuid.New()
	f.fillCart(t, itemID, "Deluxe Widget", "7.99", 2)

	order, err := f.svc.PlaceOrder(ctx, f.user.Username)
	require.NoError(t, err)

	require.True(t, order.Total.Equal(decimal.RequireFromString("15.98")))
	require.Len(t, order.Items, 2)
	require.Equal(t, "Deluxe Widget", order.Items[0].Name)
	require.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("7.99")))

	userCart, err := f.carts.FindByUserID(ctx, f.user.ID)
	require.NoError(t, err)
	require.Empty(t, userCart.Entries)
	require.True(t, userCart.Total.IsZero())
}

type stubItemLoader struct {
	items map[uuid.UUID]*models.Item
}

func (s stubItemLoader) FindByID(_ context.Context, id uuid.UUID) (*models.Item, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

// Drives the cart service end to end: two adds, one removal, then checkout.
func TestAddRemoveThenPlaceOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	item := &models.Item{
		ID:    uuid.New(),
		Name:  "Deluxe Widget",
		Price: decimal.RequireFromString("7.99"),
	}
	cartSvc, err := cart.NewService(cart.ServiceParams{
		Repo:  f.carts,
		Users: stubUserLoader{users: map[string]*models.User{f.user.Username: f.user}},
		Items: stubItemLoader{items: map[uuid.UUID]*models.Item{item.ID: item}},
		Tx:    sqliteTxRunner{db: f.db},
	})
	require.NoError(t, err)

	userCart, err := cartSvc.AddItem(ctx, cart.ModifyCartInput{
		Username: f.user.Username,
		ItemID:   item.ID,
		Quantity: 2,
	})
	require.NoError(t, err)
	require.True(t, userCart.Total.Equal(decimal.RequireFromString("15.98")))

	userCart, err = cartSvc.RemoveItem(ctx, cart.ModifyCartInput{
		Username: f.user.Username,
		ItemID:   item.ID,
		Quantity: 1,
	})
	require.NoError(t, err)
	require.True(t, userCart.Total.Equal(decimal.RequireFromString("7.99")))
	require.Len(t, userCart.Entries, 1)

	order, err := f.svc.PlaceOrder(ctx, f.user.Username)
	require.NoError(t, err)
	require.True(t, order.Total.Equal(decimal.RequireFromString("7.99")))
	require.Len(t, order.Items, 1)
	require.Equal(t, "Deluxe Widget", order.Items[0].Name)
}

func TestPlacedOrderSurvivesLaterCartChanges(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	itemID := uuid.New()
	f.fillCart(t, itemID, "Deluxe Widget", "7.99", 1)

	order, err := f.svc.PlaceOrder(ctx, f.user.Username)
	require.NoError(t, err)

	f.fillCart(t, itemID, "Deluxe Widget v2", "9.99", 3)

	history, err := f.svc.History(ctx, f.user.Username)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, order.ID, history[0].ID)
	require.Len(t, history[0].Items, 1)
	require.Equal(t, "Deluxe Widget", history[0].Items[0].Name)
	require.True(t, history[0].Total.Equal(decimal.RequireFromString("7.99")))
}

func TestPlaceOrderOnEmptyCartCreatesEmptyOrder(t *testing.T) {
	f := newCheckoutFixture(t)

	order, err := f.svc.PlaceOrder(context.Background(), f.user.Username)
	require.NoError(t, err)
	require.Empty(t, order.Items)
	require.True(t, order.Total.IsZero())
}

func TestHistoryNewestFirst(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := context.Background()

	f.fillCart(t, uuid.New(), "First", "1.00", 1)
	first, err := f.svc.PlaceOrder(ctx, f.user.Username)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	f.fillCart(t, uuid.New(), "Second", "2.00", 1)
	second, err := f.svc.PlaceOrder(ctx, f.user.Username)
	require.NoError(t, err)

	history, err := f.svc.History(ctx, f.user.Username)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, second.ID, history[0].ID)
	require.Equal(t, first.ID, history[1].ID)
}

func TestPlaceOrderUnknownUser(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), "ghost")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestHistoryUnknownUser(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.svc.History(context.Background(), "ghost")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

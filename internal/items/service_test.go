package items

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jcampos-dev/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupItemsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func seedItem(t *testing.T, db *gorm.DB, name, price string) *models.Item {
	t.Helper()
	item := &models.Item{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString(price),
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func newCatalogService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupItemsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func TestListReturnsCatalogSortedByName(t *testing.T) {
	svc, db := newCatalogService(t)
	seedItem(t, db, "Square Widget", "1.99")
	seedItem(t, db, "Round Widget", "2.99")

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Round Widget", items[0].Name)
	require.Equal(t, "Square Widget", items[1].Name)
}

func TestFindByIDUnknownItem(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.FindByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestFindByNameMatchesDuplicates(t *testing.T) {
	svc, db := newCatalogService(t)
	seedItem(t, db, "Round Widget", "2.99")
	seedItem(t, db, "Round Widget", "3.49")
	seedItem(t, db, "Square Widget", "1.99")

	items, err := svc.FindByName(context.Background(), "Round Widget")
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestFindByNameUnknownName(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.FindByName(context.Background(), "Hexagonal Widget")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestFindByNameRequiresName(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.FindByName(context.Background(), "   ")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

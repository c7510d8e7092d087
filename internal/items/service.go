package items

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jcampos-dev/storefront-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes catalog lookups.
type Service interface {
	List(ctx context.Context) ([]models.Item, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error)
	FindByName(ctx context.Context, name string) ([]models.Item, error)
}

type service struct {
	repo *Repository
}

// NewService builds a catalog service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "items repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Item, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list items")
	}
	return items, nil
}

func (s *service) FindByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item")
	}
	return item, nil
}

// FindByName reports not found when no catalog entry carries the name.
func (s *service) FindByName(ctx context.Context, name string) ([]models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	items, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load items by name")
	}
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no items with that name")
	}
	return items, nil
}

package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcampos-dev/storefront-backend/api/middleware"
	"github.com/jcampos-dev/storefront-backend/api/responses"
	"github.com/jcampos-dev/storefront-backend/api/validators"
	cartsvc "github.com/jcampos-dev/storefront-backend/internal/cart"
	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jcampos-dev/storefront-backend/pkg/errors"
	"github.com/jcampos-dev/storefront-backend/pkg/logger"
)

type modifyCartRequest struct {
	ItemID   uuid.UUID `json:"item_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

type cartEntryResponse struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Position int             `json:"position"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
}

type cartResponse struct {
	ID      uuid.UUID           `json:"id"`
	Total   decimal.Decimal     `json:"total"`
	Entries []cartEntryResponse `json:"entries"`
}

func newCartResponse(cart *models.Cart) cartResponse {
	entries := make([]cartEntryResponse, 0, len(cart.Entries))
	for _, entry := range cart.Entries {
		entries = append(entries, cartEntryResponse{
			ItemID:   entry.ItemID,
			Position: entry.Position,
			Name:     entry.ItemName,
			Price:    entry.ItemPrice,
		})
	}
	return cartResponse{
		ID:      cart.ID,
		Total:   cart.Total,
		Entries: entries,
	}
}

func requireUsername(r *http.Request) (string, error) {
	username := middleware.UsernameFromContext(r.Context())
	if username == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	return username, nil
}

// CartAddItem appends copies of an item to the caller's cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartModifyHandler(svc, logg, func(s cartsvc.Service) modifyFunc {
		return s.AddItem
	})
}

// CartRemoveItem removes copies of an item from the caller's cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartModifyHandler(svc, logg, func(s cartsvc.Service) modifyFunc {
		return s.RemoveItem
	})
}

type modifyFunc func(ctx context.Context, input cartsvc.ModifyCartInput) (*models.Cart, error)

func cartModifyHandler(svc cartsvc.Service, logg *logger.Logger, pick func(cartsvc.Service) modifyFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		username, err := requireUsername(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body modifyCartRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := pick(svc)(r.Context(), cartsvc.ModifyCartInput{
			Username: username,
			ItemID:   body.ItemID,
			Quantity: body.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

// CartGet returns the caller's cart.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		username, err := requireUsername(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cart, err := svc.GetByUsername(r.Context(), username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(cart))
	}
}

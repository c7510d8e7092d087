package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jcampos-dev/storefront-backend/api/responses"
	orderssvc "github.com/jcampos-dev/storefront-backend/internal/orders"
	"github.com/jcampos-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/jcampos-dev/storefront-backend/pkg/errors"
	"github.com/jcampos-dev/storefront-backend/pkg/logger"
)

type orderItemResponse struct {
	ItemID   uuid.UUID       `json:"item_id"`
	Position int             `json:"position"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
}

type orderResponse struct {
	ID        uuid.UUID           `json:"id"`
	Total     decimal.Decimal     `json:"total"`
	Items     []orderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"created_at"`
}

func newOrderResponse(order *models.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			ItemID:   item.ItemID,
			Position: item.Position,
			Name:     item.Name,
			Price:    item.Price,
		})
	}
	return orderResponse{
		ID:        order.ID,
		Total:     order.Total,
		Items:     items,
		CreatedAt: order.CreatedAt,
	}
}

// OrderPlace checks out the caller's cart.
func OrderPlace(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		username, err := requireUsername(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.PlaceOrder(r.Context(), username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

// OrderHistory returns the caller's past orders, newest first.
func OrderHistory(svc orderssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		username, err := requireUsername(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.History(r.Context(), username)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]orderResponse, 0, len(orders))
		for i := range orders {
			out = append(out, newOrderResponse(&orders[i]))
		}
		responses.WriteSuccess(w, out)
	}
}

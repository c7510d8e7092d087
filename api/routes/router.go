package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcampos-dev/storefront-backend/api/controllers"
	"github.com/jcampos-dev/storefront-backend/api/middleware"
	authsvc "github.com/jcampos-dev/storefront-backend/internal/auth"
	cartsvc "github.com/jcampos-dev/storefront-backend/internal/cart"
	itemssvc "github.com/jcampos-dev/storefront-backend/internal/items"
	orderssvc "github.com/jcampos-dev/storefront-backend/internal/orders"
	userssvc "github.com/jcampos-dev/storefront-backend/internal/users"
	"github.com/jcampos-dev/storefront-backend/pkg/auth/session"
	"github.com/jcampos-dev/storefront-backend/pkg/config"
	"github.com/jcampos-dev/storefront-backend/pkg/logger"
	"github.com/jcampos-dev/storefront-backend/pkg/metrics"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	Metrics        *metrics.HTTPMetrics
	SessionManager sessionManager
	AuthService    authsvc.Service
	UsersService   userssvc.Service
	ItemsService   itemssvc.Service
	CartService    cartsvc.Service
	OrdersService  orderssvc.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	r.Method(http.MethodGet, "/metrics", p.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(p.AuthService, logg))
			r.Post("/logout", controllers.AuthLogout(p.SessionManager, cfg.JWT, logg))
			r.Post("/refresh", controllers.AuthRefresh(p.SessionManager, cfg.JWT, logg))
		})

		r.Post("/users", controllers.UserCreate(p.UsersService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))

			r.Get("/users/{username}", controllers.UserByUsername(p.UsersService, logg))
			r.Get("/users/id/{id}", controllers.UserByID(p.UsersService, logg))

			r.Get("/items", controllers.ItemsList(p.ItemsService, logg))
			r.Get("/items/{id}", controllers.ItemByID(p.ItemsService, logg))
			r.Get("/items/name/{name}", controllers.ItemsByName(p.ItemsService, logg))

			r.Get("/cart", controllers.CartGet(p.CartService, logg))
			r.Post("/cart/items", controllers.CartAddItem(p.CartService, logg))
			r.Delete("/cart/items", controllers.CartRemoveItem(p.CartService, logg))

			r.Post("/orders", controllers.OrderPlace(p.OrdersService, logg))
			r.Get("/orders", controllers.OrderHistory(p.OrdersService, logg))
		})
	})

	return r
}

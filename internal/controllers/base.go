package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/middleware"
	"github.com/drstein77/storefront/internal/models"
	"github.com/drstein77/storefront/internal/storage"
	"github.com/go-chi/chi"
	"go.uber.org/zap"
)

// Cart is the cart state store
type Cart interface {
	State() cart.State
	AddUnits(context.Context, models.Product, int) cart.State
	RemoveItem(context.Context, models.Product) cart.State
	RemoveAll(context.Context, models.Product) cart.State
	Clear(context.Context) cart.State
	Replace(context.Context, []models.LineItem) cart.State
}

// Sessions is the mocked authentication backend
type Sessions interface {
	Current() (models.User, bool)
	Login(ctx context.Context, email, password string) (*storage.Session, error)
	Register(ctx context.Context, name, email, password string) (*storage.Session, error)
	Logout(context.Context) error
	Authenticate(token string) (models.User, error)
}

// Catalog reads products and reviews
type Catalog interface {
	Products(context.Context) ([]models.Product, error)
	Product(context.Context, int) (*models.ProductDetail, error)
	Reviews(context.Context, int) ([]models.Review, error)
}

// Pinger reports whether the slot store is reachable
type Pinger interface {
	Ping(context.Context) bool
}

// Log interface for logging
type Log interface {
	Info(string, ...zap.Field)
	Error(string, ...zap.Field)
}

// BaseController struct for handling requests
type BaseController struct {
	cart     Cart
	sessions Sessions
	catalog  Catalog
	keeper   Pinger
	log      Log
}

// NewBaseController creates a new BaseController instance. keeper may be nil.
func NewBaseController(cart Cart, sessions Sessions, catalog Catalog, keeper Pinger, log Log) *BaseController {
	return &BaseController{
		cart:     cart,
		sessions: sessions,
		catalog:  catalog,
		keeper:   keeper,
		log:      log,
	}
}

// Route sets up the routes for the BaseController
func (h *BaseController) Route() *chi.Mux {
	r := chi.NewRouter()

	r.Route("/api/v0", func(r chi.Router) {
		r.Get("/ping", h.ping)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.getProducts)
			r.Get("/categories", h.getCategories)
			r.Get("/{id}", h.getProduct)
			r.Get("/{id}/reviews", h.getReviews)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Delete("/", h.clearCart)
			r.Post("/items", h.addItem)
			r.Delete("/items/{id}", h.removeItem)
			r.Get("/summary", h.getSummary)
			r.With(middleware.ArchiveTypeMiddleware).Get("/export", h.exportCart)
			r.With(middleware.ArchiveTypeMiddleware, middleware.UnpackMiddleware).Post("/import", h.importCart)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.login)
			r.Post("/register", h.register)
			r.Post("/logout", h.logout)
			r.With(h.requireSession).Get("/me", h.me)
		})

		r.With(h.requireSession).Post("/checkout", h.checkout)
	})

	return r
}

func (h *BaseController) ping(w http.ResponseWriter, r *http.Request) {
	if h.keeper != nil && !h.keeper.Ping(r.Context()) {
		http.Error(w, "slot store is unreachable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *BaseController) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}

package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/checkout"
	"github.com/drstein77/storefront/internal/compress"
	"github.com/drstein77/storefront/internal/middleware"
	"github.com/drstein77/storefront/internal/models"
	"go.uber.org/zap"
)

const maxUnitsPerAdd = cart.MaxImportQuantity

type addItemRequest struct {
	models.Product
	Quantity int `json:"quantity"`
}

func (req addItemRequest) validate() error {
	switch {
	case req.ID <= 0:
		return errors.New("product id is required")
	case req.Price.IsNegative():
		return errors.New("product price must not be negative")
	case req.Quantity < 0 || req.Quantity > maxUnitsPerAdd:
		return fmt.Errorf("quantity must be between 1 and %d", maxUnitsPerAdd)
	}
	return nil
}

func (h *BaseController) getCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.cart.State())
}

func (h *BaseController) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid product", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state := h.cart.AddUnits(r.Context(), req.Product, max(req.Quantity, 1))
	h.writeJSON(w, http.StatusOK, state)
}

func (h *BaseController) removeItem(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product := models.Product{ID: id}
	var state cart.State
	if r.URL.Query().Get("all") == "true" {
		state = h.cart.RemoveAll(r.Context(), product)
	} else {
		state = h.cart.RemoveItem(r.Context(), product)
	}
	h.writeJSON(w, http.StatusOK, state)
}

func (h *BaseController) clearCart(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.cart.Clear(r.Context()))
}

func (h *BaseController) getSummary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, checkout.Summarize(h.cart.State(), couponFrom(r)))
}

func (h *BaseController) exportCart(w http.ResponseWriter, r *http.Request) {
	archiveType := middleware.ArchiveType(r.Context())

	w.Header().Set("Content-Type", compress.ContentType(archiveType))
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="cart.%s"`, archiveType))

	aw, err := compress.NewWriter(archiveType, w, "cart.csv")
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to export cart: %v", err), http.StatusInternalServerError)
		return
	}
	if err := cart.WriteCSV(aw, h.cart.State()); err != nil {
		h.log.Error("Failed to write cart export", zap.Error(err))
		return
	}
	if err := aw.Close(); err != nil {
		h.log.Error("Failed to finish cart export", zap.Error(err))
	}
}

func (h *BaseController) importCart(w http.ResponseWriter, r *http.Request) {
	items, err := cart.ReadCSV(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to import cart: %v", err), http.StatusBadRequest)
		return
	}

	state := h.cart.Replace(r.Context(), items)
	h.log.Info("Cart imported", zap.Int("items", len(state.Items)))
	h.writeJSON(w, http.StatusOK, state)
}

// couponFrom reads the coupon query parameter; an empty value counts as a
// submitted but blank code.
func couponFrom(r *http.Request) checkout.Coupon {
	values, supplied := r.URL.Query()["coupon"]
	if !supplied {
		return checkout.Coupon{}
	}
	return checkout.Coupon{Code: values[0], Supplied: true}
}

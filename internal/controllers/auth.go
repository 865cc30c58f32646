package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/checkout"
	"github.com/drstein77/storefront/internal/models"
	"github.com/drstein77/storefront/internal/storage"
	"go.uber.org/zap"
)

type userKey struct{}

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type checkoutRequest struct {
	Coupon *string `json:"coupon"`
}

type checkoutResponse struct {
	User    models.User      `json:"user"`
	Cart    cart.State       `json:"cart"`
	Summary checkout.Summary `json:"summary"`
}

func (h *BaseController) login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "Invalid credentials", http.StatusBadRequest)
		return
	}

	session, err := h.sessions.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		h.sessionError(w, err)
		return
	}

	h.log.Info("User logged in", zap.String("user_id", session.User.ID))
	h.writeJSON(w, http.StatusOK, session)
}

func (h *BaseController) register(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, "Invalid credentials", http.StatusBadRequest)
		return
	}

	session, err := h.sessions.Register(r.Context(), c.Name, c.Email, c.Password)
	if err != nil {
		h.sessionError(w, err)
		return
	}

	h.log.Info("User registered", zap.String("user_id", session.User.ID))
	h.writeJSON(w, http.StatusCreated, session)
}

func (h *BaseController) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(r.Context()); err != nil {
		h.log.Error("Failed to log out", zap.Error(err))
		http.Error(w, "Failed to log out", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BaseController) me(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (h *BaseController) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid checkout request", http.StatusBadRequest)
		return
	}

	var coupon checkout.Coupon
	if req.Coupon != nil {
		coupon = checkout.Coupon{Code: *req.Coupon, Supplied: true}
	}

	state := h.cart.State()
	if len(state.Items) == 0 {
		http.Error(w, "Cart is empty", http.StatusConflict)
		return
	}

	h.writeJSON(w, http.StatusOK, checkoutResponse{
		User:    userFrom(r.Context()),
		Cart:    state,
		Summary: checkout.Summarize(state, coupon),
	})
}

// requireSession admits requests carrying a valid bearer token of the
// signed-in user.
func (h *BaseController) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		user, err := h.sessions.Authenticate(token)
		if err != nil {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, user)))
	})
}

func (h *BaseController) sessionError(w http.ResponseWriter, err error) {
	for _, invalid := range []error{
		storage.ErrEmailRequired,
		storage.ErrEmailInvalid,
		storage.ErrPasswordRequired,
		storage.ErrPasswordShort,
		storage.ErrNameRequired,
	} {
		if errors.Is(err, invalid) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	h.log.Error("Failed to sign in", zap.Error(err))
	http.Error(w, "Failed to sign in", http.StatusInternalServerError)
}

func userFrom(ctx context.Context) models.User {
	user, _ := ctx.Value(userKey{}).(models.User)
	return user
}

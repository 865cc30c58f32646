package controllers

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/drstein77/storefront/internal/models"
	"github.com/drstein77/storefront/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginValidation(t *testing.T) {
	e := newEnv(t)

	resp := e.do(t, http.MethodPost, "/api/v0/auth/login", strings.NewReader(`{"email":"nope","password":"secret1"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/v0/auth/login", strings.NewReader(`{"email":"jane@example.com","password":"123"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = e.do(t, http.MethodPost, "/api/v0/auth/register", strings.NewReader(`{"email":"jane@example.com","password":"secret1"}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionFlow(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/api/v0/auth/me", nil).StatusCode)
	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodPost, "/api/v0/checkout", nil).StatusCode)

	resp := e.do(t, http.MethodPost, "/api/v0/auth/register", strings.NewReader(`{"name":"Jane","email":"jane@example.com","password":"secret1"}`))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	session := decode[storage.Session](t, resp)
	auth := []string{"Authorization", "Bearer " + session.Token}

	resp = e.do(t, http.MethodGet, "/api/v0/auth/me", nil, auth...)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Jane", decode[models.User](t, resp).Name)

	resp = e.do(t, http.MethodPost, "/api/v0/checkout", nil, auth...)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	e.carts.AddUnits(context.Background(), models.Product{ID: 1, Price: decimal.RequireFromString("10.00")}, 2)
	resp = e.do(t, http.MethodPost, "/api/v0/checkout", strings.NewReader(`{"coupon":"discount20"}`), auth...)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[checkoutResponse](t, resp)
	assert.Equal(t, session.User.ID, out.User.ID)
	assert.Equal(t, "16.00", out.Summary.Total.StringFixed(2))
	assert.Equal(t, 2, out.Cart.TotalItems)

	resp = e.do(t, http.MethodPost, "/api/v0/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, e.carts.State().Items)

	assert.Equal(t, http.StatusUnauthorized, e.do(t, http.MethodGet, "/api/v0/auth/me", nil, auth...).StatusCode)
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	resp := e.do(t, http.MethodPost, "/api/v0/auth/login", strings.NewReader(`{"email":"jane@example.com","password":"secret1"}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decode[storage.Session](t, resp)
	assert.Equal(t, "jane", session.User.Name)
	assert.NotEmpty(t, session.Token)
}

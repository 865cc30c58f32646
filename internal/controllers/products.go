package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/drstein77/storefront/internal/catalog"
	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func (h *BaseController) getProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	products, err := h.catalog.Products(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve products: %v", err), http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, filter.Apply(products))
}

func (h *BaseController) getCategories(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve products: %v", err), http.StatusBadGateway)
		return
	}

	categories := catalog.Categories(products)
	if categories == nil {
		categories = []string{}
	}
	h.writeJSON(w, http.StatusOK, categories)
}

func (h *BaseController) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := h.catalog.Product(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve product: %v", err), http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, product)
}

func (h *BaseController) getReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	reviews, err := h.catalog.Reviews(r.Context(), id)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to retrieve reviews: %v", err), http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, reviews)
}

func parseFilter(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	f := catalog.DefaultFilter()
	f.Search = q.Get("search")
	f.Category = q.Get("category")

	if v := q.Get("min"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, fmt.Errorf("invalid min price %q", v)
		}
		f.MinPrice = d
	}
	if v := q.Get("max"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return f, fmt.Errorf("invalid max price %q", v)
		}
		f.MaxPrice = d
	}

	switch s := q.Get("sort"); s {
	case "":
	case catalog.SortFeatured, catalog.SortPriceAsc, catalog.SortPriceDesc, catalog.SortRating:
		f.Sort = s
	default:
		return f, fmt.Errorf("invalid sort %q", s)
	}

	return f, nil
}

// productID reads the {id} URL parameter, answering 400 when it is not a
// positive integer.
func productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		http.Error(w, "Invalid product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

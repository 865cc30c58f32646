package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func upstream(t *testing.T) *httptest.Server {
	t.Helper()
	posts := []post{
		{ID: 1, UserID: 1, Title: "sunt aut facere", Body: "quia et suscipit"},
		{ID: 2, UserID: 1, Title: "qui est esse", Body: "est rerum tempore"},
		{ID: 3, UserID: 1, Title: "ea molestias", Body: "et iusto sed"},
	}
	comments := []comment{
		{ID: 1, PostID: 1, Email: "Eliseo@gardner.biz", Body: "laudantium enim"},
		{ID: 2, PostID: 1, Email: "Jayne_Kuhic@sydney.com", Body: "est natus enim"},
	}

	r := chi.NewRouter()
	r.Get("/posts", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(posts)
	})
	r.Get("/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, p := range posts {
			if chi.URLParam(r, "id") == itoa(p.ID) {
				_ = json.NewEncoder(w).Encode(p)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("{}"))
	})
	r.Get("/comments", func(w http.ResponseWriter, r *http.Request) {
		out := []comment{}
		for _, c := range comments {
			if r.URL.Query().Get("postId") == itoa(c.PostID) {
				out = append(out, c)
			}
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func itoa(i int) string {
	b, _ := json.Marshal(i)
	return string(b)
}

func TestProducts(t *testing.T) {
	c := NewClient(upstream(t).URL, zap.NewNop())

	products, err := c.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)

	p := products[1]
	assert.Equal(t, 2, p.ID)
	assert.Equal(t, "qui est esse", p.Title)
	assert.Equal(t, "est rerum tempore", p.Description)
	assert.Equal(t, "19.98", p.Price.StringFixed(2))
	assert.Equal(t, "Home", p.Category)
	assert.Equal(t, "https://picsum.photos/seed/2/400/300", p.Image)
	assert.True(t, p.Rating.GreaterThanOrEqual(decimalOf("3")) && p.Rating.LessThanOrEqual(decimalOf("5")))

	again, err := c.Products(context.Background())
	require.NoError(t, err)
	assert.Equal(t, products, again)
}

func TestProductDetail(t *testing.T) {
	c := NewClient(upstream(t).URL, zap.NewNop())

	d, err := c.Product(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, d.ID)
	assert.Equal(t, "29.97", d.Price.StringFixed(2))
	assert.Equal(t, "Books", d.Category)
	assert.Equal(t, "https://picsum.photos/seed/3/800/600", d.Image)
	assert.GreaterOrEqual(t, d.Stock, 1)
	assert.LessOrEqual(t, d.Stock, 100)
	assert.Len(t, d.Features, 4)
	assert.Equal(t, "Blue", d.Specifications.Color)
	assert.Equal(t, "Fabric", d.Specifications.Material)
	assert.Contains(t, d.Specifications.Weight, " kg")

	_, err = c.Product(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviews(t *testing.T) {
	c := NewClient(upstream(t).URL, zap.NewNop())
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	reviews, err := c.Reviews(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.Equal(t, "Eliseo", reviews[0].Username)
	assert.Equal(t, 1, reviews[0].ProductID)
	for _, r := range reviews {
		assert.GreaterOrEqual(t, r.Rating, 3)
		assert.LessOrEqual(t, r.Rating, 5)
		assert.False(t, r.Date.After(now))
		assert.True(t, r.Date.After(now.Add(-reviewWindow)))
	}

	none, err := c.Reviews(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, zap.NewNop()).Products(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

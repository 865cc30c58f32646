// Package catalog reads products and reviews from the placeholder content
// API and shapes them into storefront records.
//
// The upstream only knows posts and comments; prices, categories, ratings,
// stock and specifications are derived from the post id. Values the
// storefront randomizes are drawn from a source seeded with that id, so the
// same product always looks the same.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/drstein77/storefront/internal/models"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the upstream has no such product.
var ErrNotFound = errors.New("product not found")

type Log interface {
	Error(string, ...zap.Field)
}

type post struct {
	ID     int    `json:"id"`
	UserID int    `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type comment struct {
	ID     int    `json:"id"`
	PostID int    `json:"postId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Body   string `json:"body"`
}

// Client fetches catalog data over HTTP.
type Client struct {
	http *resty.Client
	now  func() time.Time
	log  Log
}

func NewClient(baseURL string, log Log) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10*time.Second).
			SetHeader("Accept", "application/json").
			SetRetryCount(2).
			SetRetryWaitTime(200 * time.Millisecond),
		now: time.Now,
		log: log,
	}
}

// Products returns the product list in upstream order.
func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var posts []post
	resp, err := c.http.R().SetContext(ctx).SetResult(&posts).Get("/posts")
	if err := c.check(resp, err, "products"); err != nil {
		return nil, err
	}

	products := make([]models.Product, 0, len(posts))
	for _, p := range posts {
		products = append(products, toProduct(p, listImageSize))
	}
	return products, nil
}

// Product returns the detail view of one product.
func (c *Client) Product(ctx context.Context, id int) (*models.ProductDetail, error) {
	var p post
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", strconv.Itoa(id)).
		SetResult(&p).
		Get("/posts/{id}")
	if err := c.check(resp, err, fmt.Sprintf("product %d", id)); err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, ErrNotFound
	}

	detail := toDetail(p)
	return &detail, nil
}

// Reviews returns the reviews left on a product.
func (c *Client) Reviews(ctx context.Context, productID int) ([]models.Review, error) {
	var comments []comment
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("postId", strconv.Itoa(productID)).
		SetResult(&comments).
		Get("/comments")
	if err := c.check(resp, err, fmt.Sprintf("reviews for product %d", productID)); err != nil {
		return nil, err
	}

	now := c.now()
	reviews := make([]models.Review, 0, len(comments))
	for _, cm := range comments {
		reviews = append(reviews, toReview(cm, productID, now))
	}
	return reviews, nil
}

func (c *Client) check(resp *resty.Response, err error, what string) error {
	if err != nil {
		c.log.Error("Failed to fetch "+what, zap.Error(err))
		return fmt.Errorf("failed to fetch %s: %w", what, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.IsError() {
		c.log.Error("Failed to fetch "+what, zap.Int("status", resp.StatusCode()))
		return fmt.Errorf("failed to fetch %s: upstream status %d", what, resp.StatusCode())
	}
	return nil
}

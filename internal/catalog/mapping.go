package catalog

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/drstein77/storefront/internal/models"
	"github.com/shopspring/decimal"
)

var (
	categories = []string{"Electronics", "Clothing", "Home", "Books"}
	colors     = []string{"Black", "White", "Silver", "Blue", "Red"}
	materials  = []string{"Plastic", "Metal", "Wood", "Fabric", "Leather"}
	features   = []string{
		"High quality materials",
		"Durable and long-lasting",
		"Modern design",
		"Satisfaction guaranteed",
	}

	unitPrice = decimal.RequireFromString("9.99")
)

const (
	listImageSize   = "400/300"
	detailImageSize = "800/600"
	reviewWindow    = 90 * 24 * time.Hour
)

// seeded returns a source that always yields the same values for id.
func seeded(id int, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(id), stream))
}

func toProduct(p post, imageSize string) models.Product {
	rnd := seeded(p.ID, 1)
	return models.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Body,
		Price:       unitPrice.Mul(decimal.NewFromInt(int64(p.ID))),
		Image:       fmt.Sprintf("https://picsum.photos/seed/%d/%s", p.ID, imageSize),
		Category:    pick(categories, p.ID),
		Rating:      decimal.NewFromFloat(3 + rnd.Float64()*2).Round(1),
	}
}

func toDetail(p post) models.ProductDetail {
	rnd := seeded(p.ID, 2)
	return models.ProductDetail{
		Product:  toProduct(p, detailImageSize),
		Stock:    rnd.IntN(100) + 1,
		Features: append([]string(nil), features...),
		Specifications: models.Specifications{
			Weight:     fmt.Sprintf("%.1f kg", rnd.Float64()*2+0.5),
			Dimensions: fmt.Sprintf("%dcm x %dcm x %dcm", rnd.IntN(30)+10, rnd.IntN(20)+10, rnd.IntN(10)+2),
			Color:      pick(colors, p.ID),
			Material:   pick(materials, p.ID),
		},
	}
}

func toReview(c comment, productID int, now time.Time) models.Review {
	rnd := seeded(c.ID, 3)
	username, _, _ := strings.Cut(c.Email, "@")
	age := time.Duration(rnd.Int64N(int64(reviewWindow)))
	return models.Review{
		ID:        c.ID,
		ProductID: productID,
		Username:  username,
		Rating:    rnd.IntN(3) + 3,
		Comment:   c.Body,
		Date:      now.Add(-age).UTC(),
	}
}

func pick(values []string, id int) string {
	i := id % len(values)
	if i < 0 {
		i += len(values)
	}
	return values[i]
}

package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Key           string
	Name          string
	Description   string
	PricePaise    int64
	Colors        []string
	StockQuantity int
	ImageURL      string
}

// Apply inserts basic catalog data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Key:           "classic-kurta",
			Name:          "Classic Cotton Kurta",
			Description:   "Handwoven cotton kurta, everyday fit",
			PricePaise:    129900,
			Colors:        []string{"white", "indigo", "maroon"},
			StockQuantity: 40,
			ImageURL:      "https://cdn.time2cart.example/kurta.jpg",
		},
		{
			Key:           "steel-bottle",
			Name:          "Insulated Steel Bottle 1L",
			Description:   "Keeps drinks cold for 18 hours",
			PricePaise:    84900,
			Colors:        []string{"silver", "black"},
			StockQuantity: 120,
			ImageURL:      "https://cdn.time2cart.example/bottle.jpg",
		},
		{
			Key:           "jute-tote",
			Name:          "Jute Tote Bag",
			Description:   "Reusable tote, fits a laptop",
			PricePaise:    39900,
			StockQuantity: 75,
			ImageURL:      "https://cdn.time2cart.example/tote.jpg",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Key, err)
		}
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	const q = `
INSERT INTO products (key, name, description, price_paise, colors, stock_quantity, image_url)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (key) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_paise = EXCLUDED.price_paise,
    colors = EXCLUDED.colors,
    stock_quantity = EXCLUDED.stock_quantity,
    image_url = EXCLUDED.image_url
`
	colors := p.Colors
	if colors == nil {
		colors = []string{}
	}
	_, err := pool.Exec(ctx, q, p.Key, p.Name, p.Description, p.PricePaise, colors, p.StockQuantity, p.ImageURL)
	if err != nil {
		return err
	}
	return nil
}

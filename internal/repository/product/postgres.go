package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/strytechcompany/time2cart/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, key, name, COALESCE(description, ''), price_paise, colors, stock_quantity, sales, rating, COALESCE(image_url, ''), created_at`

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Key, &p.Name, &p.Description, &p.PricePaise, &p.Colors, &p.StockQuantity, &p.Sales, &p.Rating, &p.ImageURL, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (key, name, description, price_paise, colors, stock_quantity, image_url)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''))
ON CONFLICT (key) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_paise = EXCLUDED.price_paise,
    colors = EXCLUDED.colors,
    stock_quantity = EXCLUDED.stock_quantity,
    image_url = EXCLUDED.image_url
RETURNING ` + productColumns
	colors := product.Colors
	if colors == nil {
		colors = []string{}
	}
	res, err := scanProduct(r.pool.QueryRow(ctx, q,
		product.Key,
		product.Name,
		product.Description,
		product.PricePaise,
		colors,
		product.StockQuantity,
		product.ImageURL,
	))
	if err != nil {
		r.logger.Printf("product repo: upsert key=%s error=%v", product.Key, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted key=%s id=%s", res.Key, res.ID)
	return res, nil
}

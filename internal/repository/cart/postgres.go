package cart

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/strytechcompany/time2cart/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT l.id::text, l.product_id::text, l.color, l.quantity, l.created_at,
       p.id::text, p.key, p.name, COALESCE(p.description, ''), p.price_paise,
       p.colors, p.stock_quantity, p.sales, p.rating, COALESCE(p.image_url, ''), p.created_at
FROM cart_lines l
LEFT JOIN products p ON p.id = l.product_id
WHERE l.user_id = $1
ORDER BY l.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart := &domain.Cart{UserID: userID}
	for rows.Next() {
		var line domain.CartLine
		var pid *string
		var p domain.Product
		var pKey, pName, pDesc, pImage *string
		var pPrice, pSales *int64
		var pColors []string
		var pStock *int
		var pRating *float64
		var pCreated *time.Time
		if err := rows.Scan(
			&line.ID, &line.ProductID, &line.Color, &line.Quantity, &line.CreatedAt,
			&pid, &pKey, &pName, &pDesc, &pPrice,
			&pColors, &pStock, &pSales, &pRating, &pImage, &pCreated,
		); err != nil {
			return nil, err
		}
		line.UserID = userID
		// Products can vanish underneath a cart; such lines keep the opaque
		// ref and resolve to no product.
		if pid != nil {
			p.ID = *pid
			p.Key = deref(pKey)
			p.Name = deref(pName)
			p.Description = deref(pDesc)
			p.PricePaise = derefInt64(pPrice)
			p.Colors = pColors
			if pStock != nil {
				p.StockQuantity = *pStock
			}
			p.Sales = derefInt64(pSales)
			if pRating != nil {
				p.Rating = *pRating
			}
			p.ImageURL = deref(pImage)
			if pCreated != nil {
				p.CreatedAt = *pCreated
			}
			line.Product = &p
			cart.SubtotalPaise += p.PricePaise * int64(line.Quantity)
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) AddLine(ctx context.Context, userID, productID, color string, quantity int) error {
	const q = `
INSERT INTO cart_lines (user_id, product_id, color, quantity)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, product_id, color)
DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
`
	_, err := r.pool.Exec(ctx, q, userID, productID, color, quantity)
	return err
}

func (r *postgresRepo) UpdateLine(ctx context.Context, userID, productID, color string, quantity int, newColor *string) error {
	if newColor == nil || *newColor == color {
		cmd, err := r.pool.Exec(ctx, `
UPDATE cart_lines
SET quantity = $4
WHERE user_id = $1 AND product_id = $2 AND color = $3
`, userID, productID, color, quantity)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
DELETE FROM cart_lines
WHERE user_id = $1 AND product_id = $2 AND color = $3
`, userID, productID, color)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (user_id, product_id, color, quantity)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, product_id, color)
DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity
`, userID, productID, *newColor, quantity); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) RemoveLine(ctx context.Context, userID, productID string, color *string) error {
	var cmd pgconn.CommandTag
	var err error
	if color == nil {
		cmd, err = r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE user_id = $1 AND product_id = $2
`, userID, productID)
	} else {
		cmd, err = r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE user_id = $1 AND product_id = $2 AND color = $3
`, userID, productID, *color)
	}
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_lines WHERE user_id = $1`, userID)
	return err
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt64(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

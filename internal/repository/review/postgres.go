package review

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/strytechcompany/time2cart/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, review domain.Review) (*domain.Review, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO product_reviews (product_id, user_id, rating, comment)
VALUES ($1, $2, $3, NULLIF($4, ''))
ON CONFLICT (product_id, user_id) DO NOTHING
RETURNING id::text, product_id::text, user_id, rating, COALESCE(comment, ''), created_at
`
	var out domain.Review
	err = tx.QueryRow(ctx, q, review.ProductID, review.UserID, review.Rating, review.Comment).Scan(
		&out.ID, &out.ProductID, &out.UserID, &out.Rating, &out.Comment, &out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}

	// Full recompute keeps products.rating the exact mean of all reviews.
	if _, err := tx.Exec(ctx, `
UPDATE products
SET rating = COALESCE((
    SELECT AVG(rating)::double precision
    FROM product_reviews
    WHERE product_id = $1
), 0)
WHERE id = $1
`, review.ProductID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	const q = `
SELECT id::text, product_id::text, user_id, rating, COALESCE(comment, ''), created_at
FROM product_reviews
WHERE product_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Breakdown(ctx context.Context, productID string) (*domain.ReviewBreakdown, error) {
	const q = `
SELECT FLOOR(rating)::int AS star, COUNT(*)
FROM product_reviews
WHERE product_id = $1
GROUP BY star
`
	rows, err := r.pool.Query(ctx, q, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := &domain.ReviewBreakdown{Counts: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	for rows.Next() {
		var star, count int
		if err := rows.Scan(&star, &count); err != nil {
			return nil, err
		}
		out.Counts[star] = count
		out.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Mean comes from the raw ratings, not the bucketed stars, so it agrees
	// with products.rating even if fractional ratings ever appear.
	if out.Total > 0 {
		const meanQ = `SELECT AVG(rating)::double precision FROM product_reviews WHERE product_id = $1`
		if err := r.pool.QueryRow(ctx, meanQ, productID).Scan(&out.Mean); err != nil {
			return nil, err
		}
	}
	return out, nil
}

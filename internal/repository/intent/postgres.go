package intent

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in Intent) error {
	const q = `
INSERT INTO payment_intents (token, user_id, amount_paise, expires_at)
VALUES ($1, $2, $3, $4)
`
	_, err := r.pool.Exec(ctx, q, in.Token, in.UserID, in.AmountPaise, in.ExpiresAt)
	return err
}

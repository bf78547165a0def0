package order

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

const orderColumns = `
id::text, user_id, total_paise, status, payment_status,
COALESCE(transaction_id, ''), COALESCE(tracking_link, ''), COALESCE(delivery_phone, ''),
ship_name, ship_email, ship_phone, ship_street, ship_city, ship_state, ship_zip,
created_at, updated_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.TotalPaise, &o.Status, &o.PaymentStatus,
		&o.TransactionID, &o.TrackingLink, &o.DeliveryPhone,
		&o.Shipping.Name, &o.Shipping.Email, &o.Shipping.Phone,
		&o.Shipping.Street, &o.Shipping.City, &o.Shipping.State, &o.Shipping.ZipCode,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// The intent is spent inside the same transaction as the insert below;
	// any later failure rolls the consumption back with the order.
	var intentAmount int64
	err = tx.QueryRow(ctx, `
UPDATE payment_intents
SET used_at = now()
WHERE token = $1 AND user_id = $2 AND used_at IS NULL AND expires_at > now()
RETURNING amount_paise
`, in.IntentToken, in.UserID).Scan(&intentAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIntentUnavailable
		}
		return nil, err
	}
	if intentAmount != in.TotalPaise {
		return nil, ErrIntentAmountMismatch
	}

	q := `
INSERT INTO orders (user_id, total_paise, status, payment_status, transaction_id,
                    ship_name, ship_email, ship_phone, ship_street, ship_city, ship_state, ship_zip)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, $12)
RETURNING ` + orderColumns
	o, err := scanOrder(tx.QueryRow(ctx, q,
		in.UserID, in.TotalPaise, domain.StatusPending, domain.PaymentSubmitted, in.TransactionID,
		in.Shipping.Name, in.Shipping.Email, in.Shipping.Phone,
		in.Shipping.Street, in.Shipping.City, in.Shipping.State, in.Shipping.ZipCode,
	))
	if err != nil {
		r.logger.Printf("order repo: create user_id=%s error=%v", in.UserID, err)
		return nil, err
	}

	for _, item := range in.Items {
		var itemID string
		err := tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, quantity, color, unit_price_paise)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`, o.ID, item.ProductID, item.Quantity, item.Color, item.UnitPricePaise).Scan(&itemID)
		if err != nil {
			r.logger.Printf("order repo: create item order_id=%s product_id=%s error=%v", o.ID, item.ProductID, err)
			return nil, err
		}
		item.ID = itemID
		item.OrderID = o.ID
		o.Items = append(o.Items, item)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: created id=%s user_id=%s items=%d", o.ID, o.UserID, len(o.Items))
	return o, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.list(ctx, q)
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range result {
		if err := r.loadItems(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (r *postgresRepo) loadItems(ctx context.Context, o *domain.Order) error {
	const q = `
SELECT i.id::text, i.product_id::text, i.quantity, i.color, i.unit_price_paise,
       p.id::text, p.name, COALESCE(p.image_url, '')
FROM order_items i
LEFT JOIN products p ON p.id = i.product_id
WHERE i.order_id = $1
ORDER BY i.id ASC
`
	rows, err := r.pool.Query(ctx, q, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		var pid, pname, pimage *string
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.Color, &item.UnitPricePaise, &pid, &pname, &pimage); err != nil {
			return err
		}
		item.OrderID = o.ID
		// The catalog entry may have been deleted since the order was
		// placed; the snapshot stands on its own.
		if pid != nil {
			item.Product = &domain.Product{ID: *pid}
			if pname != nil {
				item.Product.Name = *pname
			}
			if pimage != nil {
				item.Product.ImageURL = *pimage
			}
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}

func (r *postgresRepo) ConfirmPayment(ctx context.Context, orderID, trackingLink, deliveryPhone string) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Check-and-set on payment_status guarantees the stock mutation below
	// runs at most once per order.
	q := `
UPDATE orders
SET status = $2, payment_status = $3, tracking_link = NULLIF($4, ''), delivery_phone = NULLIF($5, ''), updated_at = now()
WHERE id = $1 AND payment_status <> $3
RETURNING ` + orderColumns
	o, err := scanOrder(tx.QueryRow(ctx, q, orderID, domain.StatusShipped, domain.PaymentPaid, trackingLink, deliveryPhone))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists); err != nil {
			return nil, err
		}
		if !exists {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrAlreadyExists
	}

	// Stock floors at zero; sales always credits the full line quantity.
	if _, err := tx.Exec(ctx, `
UPDATE products p
SET stock_quantity = GREATEST(p.stock_quantity - i.quantity, 0),
    sales = p.sales + i.quantity
FROM order_items i
WHERE i.order_id = $1 AND p.id = i.product_id
`, orderID); err != nil {
		r.logger.Printf("order repo: confirm stock update order_id=%s error=%v", orderID, err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: confirmed id=%s", orderID)

	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) (*domain.Order, error) {
	q := `
UPDATE orders
SET status = $3, updated_at = now()
WHERE id = $1 AND status = $2
RETURNING ` + orderColumns
	o, err := scanOrder(r.pool.QueryRow(ctx, q, orderID, from, to))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) Delete(ctx context.Context, orderID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	r.logger.Printf("order repo: deleted id=%s", orderID)
	return nil
}

func (r *postgresRepo) HasQualifyingPurchase(ctx context.Context, userID, productID string) (bool, error) {
	const q = `
SELECT EXISTS (
    SELECT 1
    FROM orders o
    JOIN order_items i ON i.order_id = o.id
    WHERE o.user_id = $1
      AND i.product_id = $2
      AND o.status IN ($3, $4)
      AND o.payment_status = $5
)
`
	var ok bool
	err := r.pool.QueryRow(ctx, q, userID, productID, domain.StatusShipped, domain.StatusDelivered, domain.PaymentPaid).Scan(&ok)
	return ok, err
}

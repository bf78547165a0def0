package order

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/strytechcompany/time2cart/internal/domain"
	"github.com/strytechcompany/time2cart/internal/migrate"
)

func TestPostgres_CreateConsumesIntentAtomically(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "intent-kurta", 10)
	insertIntent(ctx, t, pool, "tok-atomic", "u1", 2360)

	repo := NewPostgres(pool, nil)
	in := CreateOrderInput{
		UserID:        "u1",
		TotalPaise:    9999,
		TransactionID: "txn-a",
		IntentToken:   "tok-atomic",
		Items: []domain.OrderItem{
			{ProductID: productID, Quantity: 2, UnitPricePaise: 1000},
		},
	}

	// A mismatched total aborts the transaction and must leave the token
	// unspent and no order behind.
	if _, err := repo.Create(ctx, in); !errors.Is(err, ErrIntentAmountMismatch) {
		t.Fatalf("expected ErrIntentAmountMismatch, got %v", err)
	}
	if n := countRows(ctx, t, pool, `SELECT COUNT(*) FROM orders`); n != 0 {
		t.Fatalf("expected no orders after aborted create, got %d", n)
	}
	if n := countRows(ctx, t, pool, `SELECT COUNT(*) FROM payment_intents WHERE token = 'tok-atomic' AND used_at IS NULL`); n != 1 {
		t.Fatal("aborted create must not burn the intent")
	}

	in.TotalPaise = 2360
	if _, err := repo.Create(ctx, in); err != nil {
		t.Fatalf("Create with matching total: %v", err)
	}
	if n := countRows(ctx, t, pool, `SELECT COUNT(*) FROM payment_intents WHERE token = 'tok-atomic' AND used_at IS NOT NULL`); n != 1 {
		t.Fatal("successful create must consume the intent")
	}

	// The consumed token no longer opens an order.
	in.TransactionID = "txn-b"
	if _, err := repo.Create(ctx, in); !errors.Is(err, ErrIntentUnavailable) {
		t.Fatalf("expected ErrIntentUnavailable on reuse, got %v", err)
	}
	if n := countRows(ctx, t, pool, `SELECT COUNT(*) FROM orders`); n != 1 {
		t.Fatalf("expected exactly one order, got %d", n)
	}
}

func TestPostgres_CreateRejectsExpiredIntent(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "expired-kurta", 10)
	if _, err := pool.Exec(ctx, `
INSERT INTO payment_intents (token, user_id, amount_paise, expires_at)
VALUES ('tok-expired', 'u1', 1180, now() - interval '1 minute')
`); err != nil {
		t.Fatalf("insert expired intent: %v", err)
	}

	repo := NewPostgres(pool, nil)
	_, err := repo.Create(ctx, CreateOrderInput{
		UserID:        "u1",
		TotalPaise:    1180,
		TransactionID: "txn-e",
		IntentToken:   "tok-expired",
		Items: []domain.OrderItem{
			{ProductID: productID, Quantity: 1, UnitPricePaise: 1000},
		},
	})
	if !errors.Is(err, ErrIntentUnavailable) {
		t.Fatalf("expected ErrIntentUnavailable for expired token, got %v", err)
	}
}

func TestPostgres_ConfirmPaymentRunsOnce(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "confirm-kurta", 10)
	insertIntent(ctx, t, pool, "tok-1", "u1", 2360)

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, CreateOrderInput{
		UserID:        "u1",
		TotalPaise:    2360,
		TransactionID: "txn-1",
		IntentToken:   "tok-1",
		Items: []domain.OrderItem{
			{ProductID: productID, Quantity: 3, Color: "white", UnitPricePaise: 1000},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	confirmed, err := repo.ConfirmPayment(ctx, created.ID, "https://track.example/1", "9999999999")
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if confirmed.Status != domain.StatusShipped || confirmed.PaymentStatus != domain.PaymentPaid {
		t.Fatalf("unexpected order state %+v", confirmed)
	}

	stock, sales := productCounters(ctx, t, pool, productID)
	if stock != 7 || sales != 3 {
		t.Fatalf("expected stock=7 sales=3, got stock=%d sales=%d", stock, sales)
	}

	if _, err := repo.ConfirmPayment(ctx, created.ID, "", ""); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists on second confirm, got %v", err)
	}

	// Counters are untouched by the rejected repeat.
	stock, sales = productCounters(ctx, t, pool, productID)
	if stock != 7 || sales != 3 {
		t.Fatalf("counters moved on repeat confirm: stock=%d sales=%d", stock, sales)
	}
}

func TestPostgres_ConfirmPaymentFloorsStockAtZero(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "oversold-kurta", 2)
	insertIntent(ctx, t, pool, "tok-2", "u1", 5900)

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, CreateOrderInput{
		UserID:        "u1",
		TotalPaise:    5900,
		TransactionID: "txn-2",
		IntentToken:   "tok-2",
		Items: []domain.OrderItem{
			{ProductID: productID, Quantity: 5, Color: "white", UnitPricePaise: 1000},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.ConfirmPayment(ctx, created.ID, "", ""); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}

	stock, sales := productCounters(ctx, t, pool, productID)
	if stock != 0 {
		t.Fatalf("expected stock floored at 0, got %d", stock)
	}
	if sales != 5 {
		t.Fatalf("expected sales credited in full, got %d", sales)
	}
}

func TestPostgres_UpdateStatusIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "cas-kurta", 10)
	insertIntent(ctx, t, pool, "tok-3", "u1", 1180)

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, CreateOrderInput{
		UserID:        "u1",
		TotalPaise:    1180,
		TransactionID: "txn-3",
		IntentToken:   "tok-3",
		Items: []domain.OrderItem{
			{ProductID: productID, Quantity: 1, UnitPricePaise: 1000},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	updated, err := repo.UpdateStatus(ctx, created.ID, domain.StatusPending, domain.StatusConfirmed)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.StatusConfirmed {
		t.Fatalf("expected confirmed, got %s", updated.Status)
	}

	// The stale predicate no longer matches.
	if _, err := repo.UpdateStatus(ctx, created.ID, domain.StatusPending, domain.StatusCancelled); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for stale transition, got %v", err)
	}
}

func TestPostgres_HasQualifyingPurchase(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	productID := insertProduct(ctx, t, pool, "review-kurta", 10)
	insertIntent(ctx, t, pool, "tok-4", "u1", 1180)

	repo := NewPostgres(pool, nil)
	created, err := repo.Create(ctx, CreateOrderInput{
		UserID:        "u1",
		TotalPaise:    1180,
		TransactionID: "txn-4",
		IntentToken:   "tok-4",
		Items: []domain.OrderItem{
			{ProductID: productID, Quantity: 1, UnitPricePaise: 1000},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := repo.HasQualifyingPurchase(ctx, "u1", productID)
	if err != nil {
		t.Fatalf("HasQualifyingPurchase: %v", err)
	}
	if ok {
		t.Fatal("pending unpaid order must not qualify")
	}

	if _, err := repo.ConfirmPayment(ctx, created.ID, "", ""); err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}

	ok, err = repo.HasQualifyingPurchase(ctx, "u1", productID)
	if err != nil {
		t.Fatalf("HasQualifyingPurchase after confirm: %v", err)
	}
	if !ok {
		t.Fatal("shipped paid order must qualify")
	}

	ok, err = repo.HasQualifyingPurchase(ctx, "u2", productID)
	if err != nil {
		t.Fatalf("HasQualifyingPurchase other user: %v", err)
	}
	if ok {
		t.Fatal("another user's purchase must not qualify")
	}
}

func insertProduct(ctx context.Context, t *testing.T, pool *pgxpool.Pool, key string, stock int) string {
	t.Helper()
	var id string
	err := pool.QueryRow(ctx, `
INSERT INTO products (key, name, price_paise, colors, stock_quantity)
VALUES ($1, $2, 1000, '{white,indigo}', $3)
RETURNING id::text
`, key, "Test "+key, stock).Scan(&id)
	if err != nil {
		t.Fatalf("insert product: %v", err)
	}
	return id
}

func insertIntent(ctx context.Context, t *testing.T, pool *pgxpool.Pool, token, userID string, amountPaise int64) {
	t.Helper()
	if _, err := pool.Exec(ctx, `
INSERT INTO payment_intents (token, user_id, amount_paise, expires_at)
VALUES ($1, $2, $3, now() + interval '15 minutes')
`, token, userID, amountPaise); err != nil {
		t.Fatalf("insert intent: %v", err)
	}
}

func countRows(ctx context.Context, t *testing.T, pool *pgxpool.Pool, q string) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(ctx, q).Scan(&n); err != nil {
		t.Fatalf("count query: %v", err)
	}
	return n
}

func productCounters(ctx context.Context, t *testing.T, pool *pgxpool.Pool, productID string) (stock int, sales int64) {
	t.Helper()
	if err := pool.QueryRow(ctx, `SELECT stock_quantity, sales FROM products WHERE id = $1`, productID).Scan(&stock, &sales); err != nil {
		t.Fatalf("read product counters: %v", err)
	}
	return stock, sales
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE cart_lines, order_items, orders, product_reviews, payment_intents, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}

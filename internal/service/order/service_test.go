package order

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strytechcompany/time2cart/internal/domain"
	orderrepo "github.com/strytechcompany/time2cart/internal/repository/order"
)

type stubOrderRepo struct {
	created    *orderrepo.CreateOrderInput
	order      *domain.Order
	createErr  error
	confirmErr error
	updateErr  error
	deleted    []string
}

func (s *stubOrderRepo) Create(_ context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = &in
	return &domain.Order{
		ID:            "o1",
		UserID:        in.UserID,
		Items:         in.Items,
		TotalPaise:    in.TotalPaise,
		Status:        domain.StatusPending,
		PaymentStatus: domain.PaymentSubmitted,
		TransactionID: in.TransactionID,
		Shipping:      in.Shipping,
	}, nil
}

func (s *stubOrderRepo) GetByID(_ context.Context, id string) (*domain.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, domain.ErrNotFound
	}
	clone := *s.order
	return &clone, nil
}

func (s *stubOrderRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	if s.order != nil && s.order.UserID == userID {
		return []domain.Order{*s.order}, nil
	}
	return nil, nil
}

func (s *stubOrderRepo) ListAll(_ context.Context) ([]domain.Order, error) {
	if s.order != nil {
		return []domain.Order{*s.order}, nil
	}
	return nil, nil
}

func (s *stubOrderRepo) ConfirmPayment(_ context.Context, orderID, trackingLink, deliveryPhone string) (*domain.Order, error) {
	if s.confirmErr != nil {
		return nil, s.confirmErr
	}
	clone := *s.order
	clone.Status = domain.StatusShipped
	clone.PaymentStatus = domain.PaymentPaid
	clone.TrackingLink = trackingLink
	clone.DeliveryPhone = deliveryPhone
	return &clone, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, orderID string, from, to domain.OrderStatus) (*domain.Order, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	clone := *s.order
	clone.Status = to
	return &clone, nil
}

func (s *stubOrderRepo) Delete(_ context.Context, orderID string) error {
	s.deleted = append(s.deleted, orderID)
	return nil
}

type stubProductRepo struct {
	products map[string]domain.Product
}

func (s *stubProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := p
	return &clone, nil
}

type stubCartRepo struct {
	cleared []string
}

func (s *stubCartRepo) Clear(_ context.Context, userID string) error {
	s.cleared = append(s.cleared, userID)
	return nil
}

type recordingNotifier struct {
	orderCreated     int
	paymentConfirmed int
	reviewSubmitted  int
	productPublished int
}

func (n *recordingNotifier) OrderCreated(_ context.Context, _ *domain.Order) {
	n.orderCreated++
}

func (n *recordingNotifier) PaymentConfirmed(_ context.Context, _ *domain.Order) {
	n.paymentConfirmed++
}

func (n *recordingNotifier) ReviewSubmitted(_ context.Context, _ string, _ *domain.Review) {
	n.reviewSubmitted++
}

func (n *recordingNotifier) ProductPublished(_ context.Context, _ *domain.Product) {
	n.productPublished++
}

type fixture struct {
	svc      *Service
	repo     *stubOrderRepo
	carts    *stubCartRepo
	notifier *recordingNotifier
}

func newFixture() *fixture {
	repo := &stubOrderRepo{}
	carts := &stubCartRepo{}
	notifier := &recordingNotifier{}
	products := &stubProductRepo{products: map[string]domain.Product{
		"p1": {ID: "p1", Name: "Kurta", PricePaise: 1000, Colors: []string{"white", "indigo"}, StockQuantity: 10},
	}}
	return &fixture{
		svc:      New(repo, products, carts, notifier, nil),
		repo:     repo,
		carts:    carts,
		notifier: notifier,
	}
}

func validCreateInput() CreateInput {
	return CreateInput{
		Items:         []CreateItem{{ProductID: "p1", Quantity: 2, Color: "white"}},
		TotalPaise:    2360,
		TransactionID: "txn-1",
		IntentToken:   "tok",
		Shipping:      domain.ShippingAddress{Name: "A", Street: "1 Main St", City: "Pune"},
	}
}

func TestCreate_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"no items", func(in *CreateInput) { in.Items = nil }},
		{"zero quantity", func(in *CreateInput) { in.Items[0].Quantity = 0 }},
		{"unknown product", func(in *CreateInput) { in.Items[0].ProductID = "ghost" }},
		{"undeclared color", func(in *CreateInput) { in.Items[0].Color = "neon" }},
		{"missing transaction id", func(in *CreateInput) { in.TransactionID = " " }},
		{"missing intent token", func(in *CreateInput) { in.IntentToken = "" }},
		{"non-positive total", func(in *CreateInput) { in.TotalPaise = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			in := validCreateInput()
			tc.mutate(&in)
			_, err := f.svc.Create(context.Background(), domain.Caller{UserID: "u1"}, in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreate_InvalidIntent(t *testing.T) {
	f := newFixture()
	f.repo.createErr = orderrepo.ErrIntentUnavailable

	_, err := f.svc.Create(context.Background(), domain.Caller{UserID: "u1"}, validCreateInput())
	assert.ErrorIs(t, err, ErrIntentInvalid)
	assert.Empty(t, f.carts.cleared)
}

func TestCreate_AmountMismatch(t *testing.T) {
	f := newFixture()
	f.repo.createErr = orderrepo.ErrIntentAmountMismatch

	_, err := f.svc.Create(context.Background(), domain.Caller{UserID: "u1"}, validCreateInput())
	assert.ErrorIs(t, err, ErrIntentAmountMismatch)
}

func TestCreate_RepoFailureHasNoSideEffects(t *testing.T) {
	f := newFixture()
	f.repo.createErr = errors.New("insert failed")

	_, err := f.svc.Create(context.Background(), domain.Caller{UserID: "u1"}, validCreateInput())
	require.Error(t, err)
	assert.Empty(t, f.carts.cleared)
	assert.Equal(t, 0, f.notifier.orderCreated)
}

func TestCreate_SnapshotsPricesAndClearsCart(t *testing.T) {
	f := newFixture()

	o, err := f.svc.Create(context.Background(), domain.Caller{UserID: "u1"}, validCreateInput())
	require.NoError(t, err)

	require.NotNil(t, f.repo.created)
	require.Len(t, f.repo.created.Items, 1)
	assert.Equal(t, int64(1000), f.repo.created.Items[0].UnitPricePaise)
	assert.Equal(t, "white", f.repo.created.Items[0].Color)
	assert.Equal(t, "tok", f.repo.created.IntentToken)

	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, domain.PaymentSubmitted, o.PaymentStatus)
	assert.Equal(t, []string{"u1"}, f.carts.cleared)
	assert.Equal(t, 1, f.notifier.orderCreated)
}

func TestConfirmPayment_AdminOnly(t *testing.T) {
	f := newFixture()
	_, err := f.svc.ConfirmPayment(context.Background(), domain.Caller{UserID: "u1", Role: domain.RoleUser}, "o1", "", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestConfirmPayment_SecondCallReportsAlreadyConfirmed(t *testing.T) {
	f := newFixture()
	f.repo.order = &domain.Order{ID: "o1", UserID: "u1", Status: domain.StatusPending, PaymentStatus: domain.PaymentPaid}
	f.repo.confirmErr = domain.ErrAlreadyExists

	_, err := f.svc.ConfirmPayment(context.Background(), domain.Caller{UserID: "admin", Role: domain.RoleAdmin}, "o1", "", "")
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Equal(t, 0, f.notifier.paymentConfirmed)
}

func TestConfirmPayment_ShipsAndNotifies(t *testing.T) {
	f := newFixture()
	f.repo.order = &domain.Order{ID: "o1", UserID: "u1", Status: domain.StatusPending, PaymentStatus: domain.PaymentSubmitted}

	o, err := f.svc.ConfirmPayment(context.Background(), domain.Caller{UserID: "admin", Role: domain.RoleAdmin}, "o1", "https://track.example/o1", "9999999999")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusShipped, o.Status)
	assert.Equal(t, domain.PaymentPaid, o.PaymentStatus)
	assert.Equal(t, "https://track.example/o1", o.TrackingLink)
	assert.Equal(t, 1, f.notifier.paymentConfirmed)
}

func TestUpdateStatus_TransitionTable(t *testing.T) {
	cases := []struct {
		from    domain.OrderStatus
		to      domain.OrderStatus
		allowed bool
	}{
		{domain.StatusPending, domain.StatusConfirmed, true},
		{domain.StatusPending, domain.StatusCancelled, true},
		{domain.StatusPending, domain.StatusDelivered, false},
		{domain.StatusConfirmed, domain.StatusShipped, true},
		{domain.StatusConfirmed, domain.StatusPending, false},
		{domain.StatusShipped, domain.StatusDelivered, true},
		{domain.StatusShipped, domain.StatusCancelled, false},
		{domain.StatusDelivered, domain.StatusCancelled, false},
		{domain.StatusCancelled, domain.StatusConfirmed, false},
	}
	admin := domain.Caller{UserID: "admin", Role: domain.RoleAdmin}
	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			f := newFixture()
			f.repo.order = &domain.Order{ID: "o1", UserID: "u1", Status: tc.from}

			o, err := f.svc.UpdateStatus(context.Background(), admin, "o1", tc.to)
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, tc.to, o.Status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestUpdateStatus_LostRaceReportsInvalidTransition(t *testing.T) {
	f := newFixture()
	f.repo.order = &domain.Order{ID: "o1", UserID: "u1", Status: domain.StatusPending}
	f.repo.updateErr = domain.ErrNotFound

	_, err := f.svc.UpdateStatus(context.Background(), domain.Caller{UserID: "admin", Role: domain.RoleAdmin}, "o1", domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestGet_HidesForeignOrders(t *testing.T) {
	f := newFixture()
	f.repo.order = &domain.Order{ID: "o1", UserID: "u1", Status: domain.StatusPending}

	_, err := f.svc.Get(context.Background(), domain.Caller{UserID: "u2"}, "o1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	o, err := f.svc.Get(context.Background(), domain.Caller{UserID: "other", Role: domain.RoleAdmin}, "o1")
	require.NoError(t, err)
	assert.Equal(t, "o1", o.ID)
}

func TestListAllAndDelete_AdminOnly(t *testing.T) {
	f := newFixture()
	user := domain.Caller{UserID: "u1"}

	_, err := f.svc.ListAll(context.Background(), user)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.svc.Delete(context.Background(), user, "o1")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	admin := domain.Caller{UserID: "admin", Role: domain.RoleAdmin}
	require.NoError(t, f.svc.Delete(context.Background(), admin, "o1"))
	assert.Equal(t, []string{"o1"}, f.repo.deleted)
}

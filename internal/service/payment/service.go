package payment

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/strytechcompany/time2cart/internal/domain"
	intentrepo "github.com/strytechcompany/time2cart/internal/repository/intent"
)

// ErrUnsupportedMethod rejects any payment method other than UPI.
var ErrUnsupportedMethod = errors.New("unsupported payment method")

const MethodUPI = "UPI"

// Config carries the payee identity and pricing knobs for intent issuance.
type Config struct {
	PayeeID   string
	PayeeName string
	TaxRateBP int64
	TTL       time.Duration
}

type Service struct {
	carts   cartRepo
	intents intentRepo
	cfg     Config
	now     func() time.Time
}

type cartRepo interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
}

type intentRepo interface {
	Create(ctx context.Context, in intentrepo.Intent) error
}

func New(carts cartRepo, intents intentRepo, cfg Config) *Service {
	return &Service{carts: carts, intents: intents, cfg: cfg, now: time.Now}
}

// Intent is the displayable payment target handed back to the caller. It is
// not an order: nothing is reserved and stock is untouched.
type Intent struct {
	Token       string    `json:"token"`
	AmountPaise int64     `json:"amountPaise"`
	PayURI      string    `json:"payUri"`
	QRImage     string    `json:"qrImage"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// IssueIntent prices the caller's current cart (subtotal plus GST), persists
// a single-use token for it and renders the UPI deep link as a QR PNG.
func (s *Service) IssueIntent(ctx context.Context, caller domain.Caller, method string) (*Intent, error) {
	if method != MethodUPI {
		return nil, ErrUnsupportedMethod
	}

	cart, err := s.carts.Get(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrInvalidInput)
	}

	subtotal := cart.SubtotalPaise
	tax := subtotal * s.cfg.TaxRateBP / 10000
	total := subtotal + tax

	token := uuid.NewString()
	expiresAt := s.now().Add(s.cfg.TTL)
	if err := s.intents.Create(ctx, intentrepo.Intent{
		Token:       token,
		UserID:      caller.UserID,
		AmountPaise: total,
		ExpiresAt:   expiresAt,
	}); err != nil {
		return nil, err
	}

	uri := s.payURI(total)
	png, err := qrcode.Encode(uri, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	return &Intent{
		Token:       token,
		AmountPaise: total,
		PayURI:      uri,
		QRImage:     "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *Service) payURI(amountPaise int64) string {
	v := url.Values{}
	v.Set("pa", s.cfg.PayeeID)
	v.Set("pn", s.cfg.PayeeName)
	v.Set("am", FormatRupees(amountPaise))
	v.Set("cu", "INR")
	return "upi://pay?" + v.Encode()
}

// FormatRupees renders paise as a rupee amount with two decimals, the form
// UPI deep links expect.
func FormatRupees(paise int64) string {
	return fmt.Sprintf("%d.%02d", paise/100, paise%100)
}
